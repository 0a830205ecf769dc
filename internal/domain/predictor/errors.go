package predictor

import "errors"

// Sentinel kinds for predictor errors.
var (
	// ErrInternal marks an unexpected failure during prediction. The
	// aggregate is never left partially updated when it is returned.
	ErrInternal = errors.New("internal prediction error")
)
