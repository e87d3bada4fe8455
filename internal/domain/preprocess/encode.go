package preprocess

import (
	"math"
	"strings"
)

// Parent education ordinals.
const (
	HighSchool    = 1.0
	Undergraduate = 2.0
	Postgraduate  = 3.0
)

// EncodeYesNo maps Yes to 1 and No to 0, case-insensitively. Anything else
// is NaN.
func EncodeYesNo(label string) float64 {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "yes":
		return 1
	case "no":
		return 0
	default:
		return math.NaN()
	}
}

// EncodeEducation maps a parent education label to its ordinal. Unknown
// labels are NaN.
func EncodeEducation(label string) float64 {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "high school":
		return HighSchool
	case "undergraduate":
		return Undergraduate
	case "postgraduate":
		return Postgraduate
	default:
		return math.NaN()
	}
}
