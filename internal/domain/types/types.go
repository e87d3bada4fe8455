// Package types contains the flat presentation rows shared by the HTTP and
// CLI adapters.
package types

import (
	"github.com/shopspring/decimal"

	"github.com/okian/scholar/internal/domain/decision"
	"github.com/okian/scholar/internal/domain/explain"
	"github.com/okian/scholar/internal/domain/model"
	"github.com/okian/scholar/internal/domain/ranking"
	"github.com/okian/scholar/internal/domain/scoring"
)

// Result is one ranked applicant.
type Result struct {
	Rank              int             `json:"rank" yaml:"rank"`
	Position          int             `json:"position" yaml:"position"`
	ID                string          `json:"id,omitempty" yaml:"id,omitempty"`
	AcademicScore     float64         `json:"academic_score" yaml:"academic_score"`
	FinancialScore    float64         `json:"financial_score" yaml:"financial_score"`
	EngagementScore   float64         `json:"engagement_score" yaml:"engagement_score"`
	FinalScore        float64         `json:"final_score" yaml:"final_score"`
	Recommendation    string          `json:"recommendation" yaml:"recommendation"`
	ScholarshipAmount decimal.Decimal `json:"scholarship_amount" yaml:"scholarship_amount"`
}

// FromEntry flattens a ranked entry.
func FromEntry(e ranking.Entry) Result {
	return Result{
		Rank:              e.Rank,
		Position:          e.Position,
		ID:                e.Applicant.ID,
		AcademicScore:     e.Academic,
		FinancialScore:    e.Financial,
		EngagementScore:   e.Engagement,
		FinalScore:        e.FinalScore,
		Recommendation:    string(e.Recommendation),
		ScholarshipAmount: e.Amount,
	}
}

// FromTable flattens a ranked table, best first.
func FromTable(t ranking.Table) []Result {
	return FromEntries(t.Entries)
}

// FromEntries flattens ranked entries in the given order. The result is
// never nil.
func FromEntries(entries []ranking.Entry) []Result {
	out := make([]Result, len(entries))
	for i, e := range entries {
		out[i] = FromEntry(e)
	}
	return out
}

// Weights is the presentation form of a weight configuration, as fractions.
type Weights struct {
	Academic   float64 `json:"academic" yaml:"academic"`
	Financial  float64 `json:"financial" yaml:"financial"`
	Engagement float64 `json:"engagement" yaml:"engagement"`
}

// FromWeights converts validated weights.
func FromWeights(w scoring.Weights) Weights {
	return Weights{Academic: w.Academic(), Financial: w.Financial(), Engagement: w.Engagement()}
}

// Policy is the presentation form of the decision rules.
type Policy struct {
	PartialThreshold float64         `json:"partial_threshold" yaml:"partial_threshold"`
	FullThreshold    float64         `json:"full_threshold" yaml:"full_threshold"`
	FullAmount       decimal.Decimal `json:"full_amount" yaml:"full_amount"`
	PartialAmount    decimal.Decimal `json:"partial_amount" yaml:"partial_amount"`
}

// FromPolicy converts a validated policy.
func FromPolicy(p decision.Policy) Policy {
	return Policy{
		PartialThreshold: p.PartialThreshold(),
		FullThreshold:    p.FullThreshold(),
		FullAmount:       p.Amounts().Full,
		PartialAmount:    p.Amounts().Partial,
	}
}

// Summary reports tier counts and the total awarded.
type Summary struct {
	Applicants         int             `json:"applicants" yaml:"applicants"`
	FullScholarship    int             `json:"full_scholarship" yaml:"full_scholarship"`
	PartialScholarship int             `json:"partial_scholarship" yaml:"partial_scholarship"`
	NotEligible        int             `json:"not_eligible" yaml:"not_eligible"`
	TotalAwarded       decimal.Decimal `json:"total_awarded" yaml:"total_awarded"`
}

// FromSummary converts a decision summary.
func FromSummary(s decision.Summary) Summary {
	return Summary{
		Applicants:         s.Applicants,
		FullScholarship:    s.Counts[model.FullScholarship],
		PartialScholarship: s.Counts[model.PartialScholarship],
		NotEligible:        s.Counts[model.NotEligible],
		TotalAwarded:       s.TotalAwarded,
	}
}

// Source is a labelled raw attribute.
type Source struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Category is one component of an explanation.
type Category struct {
	Name          string   `json:"name" yaml:"name"`
	Score         float64  `json:"score" yaml:"score"`
	WeightPercent float64  `json:"weight_percent" yaml:"weight_percent"`
	Contribution  float64  `json:"contribution" yaml:"contribution"`
	Sources       []Source `json:"sources" yaml:"sources"`
}

// Explanation is the presentation form of an explanation, narrative
// included. Contributions are rounded to 2 decimals.
type Explanation struct {
	Rank           int             `json:"rank" yaml:"rank"`
	Position       int             `json:"position" yaml:"position"`
	ID             string          `json:"id,omitempty" yaml:"id,omitempty"`
	FinalScore     float64         `json:"final_score" yaml:"final_score"`
	Recommendation string          `json:"recommendation" yaml:"recommendation"`
	Amount         decimal.Decimal `json:"scholarship_amount" yaml:"scholarship_amount"`
	Categories     []Category      `json:"categories" yaml:"categories"`
	Narrative      string          `json:"narrative" yaml:"narrative"`

	// ContributionTotal is the unrounded contributions summed, then rounded.
	// It differs from FinalScore by at most 0.01.
	ContributionTotal float64 `json:"contribution_total" yaml:"contribution_total"`
}

// FromExplanation converts a domain explanation.
func FromExplanation(x explain.Explanation) Explanation {
	cats := x.Categories()
	out := Explanation{
		Rank:           x.Rank,
		Position:       x.Position,
		ID:             x.ID,
		FinalScore:     x.FinalScore,
		Recommendation: string(x.Recommendation),
		Amount:         x.Amount,
		Categories:     make([]Category, len(cats)),
		Narrative:      x.Narrative(),

		ContributionTotal: scoring.Round2(x.ContributionTotal()),
	}
	for i, c := range cats {
		sources := make([]Source, len(c.Sources))
		for j, s := range c.Sources {
			sources[j] = Source{Label: s.Label, Value: s.Value}
		}
		out.Categories[i] = Category{
			Name:          c.Name,
			Score:         c.Score,
			WeightPercent: c.WeightPercent,
			Contribution:  scoring.Round2(c.Contribution),
			Sources:       sources,
		}
	}
	return out
}
