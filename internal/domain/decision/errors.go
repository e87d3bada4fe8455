package decision

import "errors"

// Sentinel error kinds for decision rules.
var (
	ErrInvalidThresholds = errors.New("invalid thresholds")
	ErrInvalidAmounts    = errors.New("invalid amounts")
)
