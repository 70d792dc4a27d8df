package logger

import (
	"fmt"
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under the key "request_id".
// If id is nil, it returns an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// FieldID records the input field identifier under the key "field_id".
func FieldID(id string) slog.Attr {
	return slog.String("field_id", id)
}

// SelectionID records a file selection sequence number under the key "selection_id".
func SelectionID(id uint64) slog.Attr {
	return slog.Uint64("selection_id", id)
}

// Status records a state name under the key "status".
func Status(s fmt.Stringer) slog.Attr {
	if s == nil {
		return slog.Attr{}
	}
	return slog.String("status", s.String())
}

// Transition records a from/to state change under the key "transition".
func Transition(from, to fmt.Stringer) slog.Attr {
	return Group("transition",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	)
}

// FileName records a (sanitized) file name under the key "file_name".
func FileName(name string) slog.Attr {
	return slog.String("file_name", name)
}

// MIMEType records a content type under the key "mime_type".
func MIMEType(t string) slog.Attr {
	return slog.String("mime_type", t)
}

// Size records a length in bytes or characters under the key "size".
func Size(n int) slog.Attr {
	return slog.Int("size", n)
}
