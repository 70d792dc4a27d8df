package web

import "errors"

var (
	// ErrFieldNotFound is returned when no field is registered under the requested id.
	ErrFieldNotFound = errors.New("imagefield: field not found")
	// ErrDuplicateField is returned when registering an id twice.
	ErrDuplicateField = errors.New("imagefield: field already registered")
	// ErrMissingFile is returned when an upload request carries no "file" part.
	ErrMissingFile = errors.New("imagefield: no file in request")
	// ErrInvalidSignals is returned when Datastar signals cannot be decoded.
	ErrInvalidSignals = errors.New("imagefield: invalid signals")
	// ErrRegistryClosed is returned by Register after Close.
	ErrRegistryClosed = errors.New("imagefield: registry closed")
)
