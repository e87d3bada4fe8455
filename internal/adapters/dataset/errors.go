package dataset

import "errors"

// ErrMalformedCSV is returned for unreadable CSV input.
var ErrMalformedCSV = errors.New("malformed csv")
