// Package preprocess converts raw applicant attributes into the normalized
// features consumed by the scoring engine.
package preprocess

import (
	"math"
	"strings"

	"github.com/okian/scholar/internal/domain/model"
)

// Attribute names a raw numeric attribute with normalization bounds.
type Attribute uint8

// Normalized raw attributes.
const (
	HoursStudied Attribute = iota
	PreviousScores
	SleepHours
	PracticePapers
	PerformanceIndex
	FamilyIncome
	Attendance
)

// Bounds is a min-max range mapped onto 0-100.
type Bounds struct {
	Min float64
	Max float64
}

// Normalize maps v onto 0-100 and clips. A degenerate range yields 50 and a
// missing value stays NaN.
func (b Bounds) Normalize(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	if b.Max <= b.Min {
		return degenerate
	}
	n := (v - b.Min) / (b.Max - b.Min) * scale
	return math.Max(0, math.Min(scale, n))
}

const (
	scale      = 100.0
	degenerate = 50.0
	// neutralNeed is used for every row when no family income is known.
	neutralNeed = 50.0
)

func defaultBounds() map[Attribute]Bounds {
	return map[Attribute]Bounds{
		HoursStudied:     {0, 10},
		PreviousScores:   {0, 100},
		SleepHours:       {0, 10},
		PracticePapers:   {0, 10},
		PerformanceIndex: {0, 100},
		Attendance:       {60, 100},
	}
}

// Option applies a configuration option to the Preprocessor.
type Option func(*Preprocessor)

// WithBounds overrides the range of a raw attribute. Setting FamilyIncome
// replaces the per-table income range with a fixed one.
func WithBounds(attr Attribute, b Bounds) Option {
	return func(p *Preprocessor) {
		p.bounds[attr] = b
	}
}

// Preprocessor encodes categorical labels and min-max normalizes numeric
// attributes. It is safe for concurrent use.
type Preprocessor struct {
	bounds map[Attribute]Bounds
}

// New creates a preprocessor with the default bounds.
func New(opts ...Option) *Preprocessor {
	p := &Preprocessor{bounds: defaultBounds()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Normalize returns a table whose applicants carry features derived from
// their raw attributes. The input slice is not modified.
func (p *Preprocessor) Normalize(applicants []model.Applicant) model.Table {
	income := p.incomeBounds(applicants)
	haveIncome := !math.IsNaN(income.Min)

	out := make([]model.Applicant, len(applicants))
	var columns model.FeatureSet
	if len(applicants) > 0 {
		columns = columns.With(model.IncomeNeed)
	}

	for i, a := range applicants {
		raw := a.Raw
		f := model.Features{
			PerformanceIndex: p.bounds[PerformanceIndex].Normalize(raw.PerformanceIndex),
			PreviousScores:   p.bounds[PreviousScores].Normalize(raw.PreviousScores),
			IncomeNeed:       neutralNeed,
			ParentEducation:  EncodeEducation(raw.ParentEducation),
			Attendance:       p.bounds[Attendance].Normalize(raw.AttendancePercentage),
			Extracurricular:  EncodeYesNo(raw.Extracurricular),
			PracticePapers:   p.bounds[PracticePapers].Normalize(raw.PracticePapers),
		}
		if haveIncome {
			f.IncomeNeed = scale - income.Normalize(raw.FamilyIncome)
		}

		for _, feat := range []model.Feature{
			model.PerformanceIndex, model.PreviousScores, model.Attendance, model.PracticePapers,
		} {
			if !math.IsNaN(f.Value(feat)) {
				columns = columns.With(feat)
			}
		}
		if strings.TrimSpace(raw.ParentEducation) != "" {
			columns = columns.With(model.ParentEducation)
		}
		if strings.TrimSpace(raw.Extracurricular) != "" {
			columns = columns.With(model.Extracurricular)
		}

		out[i] = model.Applicant{
			ID:       a.ID,
			Raw:      raw,
			Features: f,
			Auxiliary: model.Auxiliary{
				HoursStudied:        p.bounds[HoursStudied].Normalize(raw.HoursStudied),
				SleepHours:          p.bounds[SleepHours].Normalize(raw.SleepHours),
				PreviousScholarship: EncodeYesNo(raw.PreviousScholarship),
			},
		}
	}
	return model.Table{Columns: columns, Applicants: out}
}

// incomeBounds returns the configured income range or the min and max of
// the known incomes. Min is NaN when no income is known.
func (p *Preprocessor) incomeBounds(applicants []model.Applicant) Bounds {
	if b, ok := p.bounds[FamilyIncome]; ok {
		return b
	}
	b := Bounds{Min: math.NaN(), Max: math.NaN()}
	for _, a := range applicants {
		v := a.Raw.FamilyIncome
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(b.Min) || v < b.Min {
			b.Min = v
		}
		if math.IsNaN(b.Max) || v > b.Max {
			b.Max = v
		}
	}
	return b
}

// Normalize runs the default preprocessor.
func Normalize(applicants []model.Applicant) model.Table {
	return New().Normalize(applicants)
}
