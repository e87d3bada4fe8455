package model

import "strings"

// Feature identifies one normalized input column.
type Feature uint8

// Normalized feature columns required by the scoring engine.
const (
	PerformanceIndex Feature = iota
	PreviousScores
	IncomeNeed
	ParentEducation
	Attendance
	Extracurricular
	PracticePapers

	featureCount
)

var featureNames = [featureCount]string{
	PerformanceIndex: "performance_index_normalized",
	PreviousScores:   "previous_scores_normalized",
	IncomeNeed:       "income_need_score",
	ParentEducation:  "parent_education_score",
	Attendance:       "attendance_percentage_normalized",
	Extracurricular:  "extracurricular_score",
	PracticePapers:   "practice_papers_normalized",
}

// String returns the column name of the feature.
func (f Feature) String() string {
	if f >= featureCount {
		return "unknown_feature"
	}
	return featureNames[f]
}

// AllFeatures lists every feature column in declaration order.
func AllFeatures() []Feature {
	out := make([]Feature, 0, featureCount)
	for f := Feature(0); f < featureCount; f++ {
		out = append(out, f)
	}
	return out
}

// ParseFeature resolves a column name to a Feature.
func ParseFeature(name string) (Feature, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range featureNames {
		if n == name {
			return Feature(f), true
		}
	}
	return 0, false
}

// FeatureSet is a set of feature columns.
type FeatureSet uint16

// NewFeatureSet returns a set holding fs.
func NewFeatureSet(fs ...Feature) FeatureSet {
	var s FeatureSet
	for _, f := range fs {
		s = s.With(f)
	}
	return s
}

// With returns s plus f.
func (s FeatureSet) With(f Feature) FeatureSet {
	if f >= featureCount {
		return s
	}
	return s | 1<<f
}

// Has reports whether f is in s.
func (s FeatureSet) Has(f Feature) bool {
	return f < featureCount && s&(1<<f) != 0
}

// Missing returns the members of required absent from s, in the given order.
func (s FeatureSet) Missing(required ...Feature) []Feature {
	var out []Feature
	for _, f := range required {
		if !s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Recommendation is the categorical outcome of the decision rules.
type Recommendation string

// Recommendation tiers.
const (
	FullScholarship    Recommendation = "Full Scholarship"
	PartialScholarship Recommendation = "Partial Scholarship"
	NotEligible        Recommendation = "Not Eligible"
)

// Recommendations lists the tiers from best to worst.
func Recommendations() []Recommendation {
	return []Recommendation{FullScholarship, PartialScholarship, NotEligible}
}

// ParseRecommendation resolves a tier name, ignoring case and surrounding
// space.
func ParseRecommendation(name string) (Recommendation, bool) {
	name = strings.TrimSpace(name)
	for _, r := range Recommendations() {
		if strings.EqualFold(string(r), name) {
			return r, true
		}
	}
	return "", false
}
