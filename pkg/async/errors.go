package async

import "errors"

// ErrTimeout is returned by AwaitWithTimeout when the future does not complete in time.
var ErrTimeout = errors.New("async: operation timed out waiting for future completion")
