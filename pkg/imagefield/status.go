package imagefield

import "strconv"

// Status tags why the current candidate value is or isn't acceptable.
type Status int

const (
	// NoFile means the value was typed (or supplied by the caller) rather than picked from a file.
	NoFile Status = iota
	// ValidFile means the value came from a file and was accepted.
	ValidFile
	// InvalidImage means the file could not be decoded as an image.
	InvalidImage
	// FileTooLarge means the file is an image but its data URI exceeds the limit.
	FileTooLarge
	// ReadFailed means the file could not be read at all.
	ReadFailed
)

var statusNames = [...]string{
	NoFile:       "no_file",
	ValidFile:    "valid_file",
	InvalidImage: "invalid_image",
	FileTooLarge: "file_too_large",
	ReadFailed:   "read_failed",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "status(" + strconv.Itoa(int(s)) + ")"
}

// MarshalText lets Status travel as a readable string in JSON signals.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsError reports whether the field should display an error for this status.
func (s Status) IsError() bool {
	return s != NoFile && s != ValidFile
}

// Overridable reports whether the user may accept the rejected value anyway.
func (s Status) Overridable() bool {
	return s == InvalidImage || s == FileTooLarge
}

// State is a consistent snapshot of a field. Status and Value always change together.
type State struct {
	Status Status
	// Value is the typed text or a data URI. For InvalidImage and FileTooLarge
	// it is the rejected candidate; for ReadFailed it is the previous value.
	Value string
	// MIMEType of the data URI in Value; empty for typed text.
	MIMEType string
	// Selection is the file selection that produced Value, 0 for typed text.
	Selection uint64
}

// IsError reports whether the state is an error state.
func (s State) IsError() bool {
	return s.Status.IsError()
}

// Err returns the sentinel error matching an error status, nil otherwise.
func (s State) Err() error {
	switch s.Status {
	case InvalidImage:
		return ErrInvalidImage
	case FileTooLarge:
		return ErrFileTooLarge
	case ReadFailed:
		return ErrReadFailed
	default:
		return nil
	}
}
