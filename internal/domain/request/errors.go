package request

import "errors"

// Sentinel kinds for request validation errors.
var (
	ErrValidation = errors.New("invalid request")
)
