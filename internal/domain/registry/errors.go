package registry

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrNotFound       = errors.New("model not found")
	ErrDuplicate      = errors.New("model already registered")
	ErrInvalidVersion = errors.New("invalid model name or version")
)
