package explain

import "errors"

// ErrRowNotFound is returned when a selector matches no ranked row.
var ErrRowNotFound = errors.New("row not found")
