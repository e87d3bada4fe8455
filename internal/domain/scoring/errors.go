package scoring

import "errors"

// Sentinel error kinds for scoring. Callers match them with errors.Is.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingFeature       = errors.New("missing feature")
)
