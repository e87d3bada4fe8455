// Package model contains domain models passed between layers.
package model

import "math"

// Raw holds the human-readable attributes of an applicant as they appear in
// the source dataset. Missing numeric values are NaN, missing labels are "".
type Raw struct {
	HoursStudied         float64 // hours per day
	PreviousScores       float64 // 0-100
	PerformanceIndex     float64 // 0-100
	SleepHours           float64
	PracticePapers       float64 // sample question papers practiced
	FamilyIncome         float64 // annual, absolute currency units
	AttendancePercentage float64 // 0-100
	Extracurricular      string  // "Yes" / "No"
	ParentEducation      string  // "High School", "Undergraduate", "Postgraduate"
	PreviousScholarship  string  // "Yes" / "No"
}

// MissingRaw returns a Raw with every numeric attribute unset.
func MissingRaw() Raw {
	nan := math.NaN()
	return Raw{
		HoursStudied:         nan,
		PreviousScores:       nan,
		PerformanceIndex:     nan,
		SleepHours:           nan,
		PracticePapers:       nan,
		FamilyIncome:         nan,
		AttendancePercentage: nan,
	}
}

// Features holds the normalized inputs consumed by the scoring engine.
// All values are on a 0-100 scale except ParentEducation (ordinal 1-3) and
// Extracurricular (0 or 1). NaN marks a missing value.
type Features struct {
	PerformanceIndex float64
	PreviousScores   float64
	IncomeNeed       float64
	ParentEducation  float64
	Attendance       float64
	Extracurricular  float64
	PracticePapers   float64
}

// MissingFeatures returns a Features value with every field set to NaN.
func MissingFeatures() Features {
	nan := math.NaN()
	return Features{
		PerformanceIndex: nan,
		PreviousScores:   nan,
		IncomeNeed:       nan,
		ParentEducation:  nan,
		Attendance:       nan,
		Extracurricular:  nan,
		PracticePapers:   nan,
	}
}

// Value returns the value of feature f.
func (f Features) Value(feature Feature) float64 {
	switch feature {
	case PerformanceIndex:
		return f.PerformanceIndex
	case PreviousScores:
		return f.PreviousScores
	case IncomeNeed:
		return f.IncomeNeed
	case ParentEducation:
		return f.ParentEducation
	case Attendance:
		return f.Attendance
	case Extracurricular:
		return f.Extracurricular
	case PracticePapers:
		return f.PracticePapers
	default:
		return math.NaN()
	}
}

// Set returns a copy of f with feature set to v.
func (f Features) Set(feature Feature, v float64) Features {
	switch feature {
	case PerformanceIndex:
		f.PerformanceIndex = v
	case PreviousScores:
		f.PreviousScores = v
	case IncomeNeed:
		f.IncomeNeed = v
	case ParentEducation:
		f.ParentEducation = v
	case Attendance:
		f.Attendance = v
	case Extracurricular:
		f.Extracurricular = v
	case PracticePapers:
		f.PracticePapers = v
	}
	return f
}

// Auxiliary holds normalized attributes the preprocessor derives but the
// scoring engine does not consume.
type Auxiliary struct {
	HoursStudied        float64
	SleepHours          float64
	PreviousScholarship float64 // 1 Yes, 0 No
}

// Applicant is one row of the input table. Rows are identified by position;
// ID is an optional label carried through for display and lookups.
type Applicant struct {
	ID        string
	Raw       Raw
	Features  Features
	Auxiliary Auxiliary
}

// Table is a snapshot of preprocessed applicants together with the set of
// feature columns the preprocessor produced.
type Table struct {
	Columns    FeatureSet
	Applicants []Applicant
}

// NewTable builds a table over applicants declaring the given columns.
func NewTable(applicants []Applicant, columns ...Feature) Table {
	return Table{
		Columns:    NewFeatureSet(columns...),
		Applicants: applicants,
	}
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Applicants) }
