package imagefield

import "errors"

var (
	ErrInvalidImage = errors.New("file is not a valid image")
	ErrFileTooLarge = errors.New("encoded image exceeds maximum length")
	ErrReadFailed   = errors.New("file could not be read")

	// ErrTooManyPixels is wrapped together with ErrInvalidImage.
	ErrTooManyPixels = errors.New("image dimensions exceed pixel budget")

	ErrNilFile = errors.New("file is nil")
	ErrClosed  = errors.New("field is closed")

	ErrInvalidDataURI      = errors.New("invalid data URI")
	ErrUnsupportedEncoding = errors.New("data URI payload is not base64 encoded")
)
