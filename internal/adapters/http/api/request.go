package api

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	service "github.com/okian/scholar/internal/app"
	"github.com/okian/scholar/internal/domain/decision"
	"github.com/okian/scholar/internal/domain/explain"
	"github.com/okian/scholar/internal/domain/model"
	"github.com/okian/scholar/internal/domain/ranking"
	"github.com/okian/scholar/internal/domain/scoring"
)

// rawRequest carries human-readable attributes. Absent numbers are missing
// values.
type rawRequest struct {
	HoursStudied         *float64 `json:"hours_studied,omitempty"`
	PreviousScores       *float64 `json:"previous_scores,omitempty"`
	PerformanceIndex     *float64 `json:"performance_index,omitempty"`
	SleepHours           *float64 `json:"sleep_hours,omitempty"`
	PracticePapers       *float64 `json:"practice_papers,omitempty"`
	FamilyIncome         *float64 `json:"family_income,omitempty"`
	AttendancePercentage *float64 `json:"attendance_percentage,omitempty"`
	Extracurricular      string   `json:"extracurricular,omitempty"`
	ParentEducation      string   `json:"parent_education,omitempty"`
	PreviousScholarship  string   `json:"previous_scholarship,omitempty"`
}

// featuresRequest carries already-normalized features keyed by column
// name. A key that is present declares the column even when its value is
// null.
type featuresRequest map[string]*float64

type applicantRequest struct {
	ID       string          `json:"id,omitempty"`
	Raw      rawRequest      `json:"raw"`
	Features featuresRequest `json:"features,omitempty"`
}

type weightsRequest struct {
	Academic   float64 `json:"academic"`
	Financial  float64 `json:"financial"`
	Engagement float64 `json:"engagement"`
	// Unit is "fraction" (default) or "percent".
	Unit string `json:"unit,omitempty"`
}

type thresholdsRequest struct {
	Partial *float64 `json:"partial,omitempty"`
	Full    *float64 `json:"full,omitempty"`
}

type amountsRequest struct {
	Full    *decimal.Decimal `json:"full,omitempty"`
	Partial *decimal.Decimal `json:"partial,omitempty"`
}

// evaluateRequest is the pass configuration and table shared by
// POST /v1/evaluate and POST /v1/explain.
type evaluateRequest struct {
	Weights    *weightsRequest    `json:"weights,omitempty"`
	Thresholds *thresholdsRequest `json:"thresholds,omitempty"`
	Amounts    *amountsRequest    `json:"amounts,omitempty"`
	Applicants []applicantRequest `json:"applicants"`
}

// listRequest is the body of POST /v1/evaluate: a pass plus an optional
// view over its ranking.
type listRequest struct {
	evaluateRequest
	Top             *int     `json:"top,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// rankingView narrows a ranking to some tiers, then to its first entries.
type rankingView struct {
	tiers []model.Recommendation
	top   *int
}

// view validates the filters before any pass runs.
func (req listRequest) view() (rankingView, error) {
	v := rankingView{tiers: make([]model.Recommendation, 0, len(req.Recommendations)), top: req.Top}
	for _, name := range req.Recommendations {
		r, ok := model.ParseRecommendation(name)
		if !ok {
			return rankingView{}, fmt.Errorf("%w: unknown recommendation %q", ErrBadRequest, name)
		}
		v.tiers = append(v.tiers, r)
	}
	if req.Top != nil && *req.Top < 0 {
		return rankingView{}, fmt.Errorf("%w: top must not be negative, got %d", ErrBadRequest, *req.Top)
	}
	return v, nil
}

// apply returns the selected entries. Ranks are those of the full pass.
func (v rankingView) apply(t ranking.Table) []ranking.Entry {
	filtered := t.Filter(v.tiers...)
	if v.top == nil {
		return filtered.Entries
	}
	return filtered.Top(*v.top)
}

type selectorRequest struct {
	Rank     *int    `json:"rank,omitempty"`
	Position *int    `json:"position,omitempty"`
	ID       *string `json:"id,omitempty"`
}

type explainRequest struct {
	evaluateRequest
	Selector selectorRequest `json:"selector"`
}

type preprocessRequest struct {
	Applicants []applicantRequest `json:"applicants"`
}

func (s selectorRequest) selector() (explain.Selector, error) {
	set := 0
	var sel explain.Selector
	if s.Rank != nil {
		set++
		sel = explain.ByRank(*s.Rank)
	}
	if s.Position != nil {
		set++
		sel = explain.ByPosition(*s.Position)
	}
	if s.ID != nil {
		set++
		sel = explain.ByID(*s.ID)
	}
	if set != 1 {
		return explain.Selector{}, fmt.Errorf("%w: selector needs exactly one of rank, position, id", ErrBadRequest)
	}
	return sel, nil
}

// overrides validates the per-request configuration. Missing threshold or
// amount fields fall back to the current defaults.
func (req evaluateRequest) overrides(current decision.Policy) (service.Overrides, error) {
	var ov service.Overrides
	if req.Weights != nil {
		w, err := req.Weights.build()
		if err != nil {
			return ov, err
		}
		ov.Weights = &w
	}
	if req.Thresholds != nil || req.Amounts != nil {
		partial, full := current.PartialThreshold(), current.FullThreshold()
		amounts := current.Amounts()
		if t := req.Thresholds; t != nil {
			if t.Partial != nil {
				partial = *t.Partial
			}
			if t.Full != nil {
				full = *t.Full
			}
		}
		if a := req.Amounts; a != nil {
			if a.Full != nil {
				amounts.Full = *a.Full
			}
			if a.Partial != nil {
				amounts.Partial = *a.Partial
			}
		}
		p, err := decision.NewPolicy(partial, full, amounts)
		if err != nil {
			return ov, err
		}
		ov.Policy = &p
	}
	return ov, nil
}

func (w weightsRequest) build() (scoring.Weights, error) {
	switch strings.ToLower(strings.TrimSpace(w.Unit)) {
	case "", "fraction":
		return scoring.NewWeights(w.Academic, w.Financial, w.Engagement)
	case "percent":
		return scoring.NewWeightsPercent(w.Academic, w.Financial, w.Engagement)
	default:
		return scoring.Weights{}, fmt.Errorf("%w: unknown weight unit %q", ErrBadRequest, w.Unit)
	}
}

// applicants converts request rows. preprocessed reports whether any row
// carried normalized features; in that case columns lists every feature key
// any row sent, null values included.
func applicants(rows []applicantRequest) (out []model.Applicant, columns model.FeatureSet, preprocessed bool, err error) {
	out = make([]model.Applicant, len(rows))
	for i, row := range rows {
		a := model.Applicant{ID: row.ID, Raw: row.Raw.model(), Features: model.MissingFeatures()}
		if row.Features != nil {
			preprocessed = true
			for name, v := range row.Features {
				f, ok := model.ParseFeature(name)
				if !ok {
					return nil, 0, false, fmt.Errorf("%w: applicant %d: unknown feature %q", ErrBadRequest, i, name)
				}
				columns = columns.With(f)
				if v != nil {
					a.Features = a.Features.Set(f, *v)
				}
			}
		}
		out[i] = a
	}
	return out, columns, preprocessed, nil
}

func (r rawRequest) model() model.Raw {
	return model.Raw{
		HoursStudied:         orNaN(r.HoursStudied),
		PreviousScores:       orNaN(r.PreviousScores),
		PerformanceIndex:     orNaN(r.PerformanceIndex),
		SleepHours:           orNaN(r.SleepHours),
		PracticePapers:       orNaN(r.PracticePapers),
		FamilyIncome:         orNaN(r.FamilyIncome),
		AttendancePercentage: orNaN(r.AttendancePercentage),
		Extracurricular:      r.Extracurricular,
		ParentEducation:      r.ParentEducation,
		PreviousScholarship:  r.PreviousScholarship,
	}
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// nullable maps NaN to a JSON null.
func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
