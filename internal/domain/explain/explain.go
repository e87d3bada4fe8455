// Package explain breaks a final score down into per-category contributions
// and the raw attributes behind them.
package explain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/okian/scholar/internal/domain/decision"
	"github.com/okian/scholar/internal/domain/model"
	"github.com/okian/scholar/internal/domain/ranking"
	"github.com/okian/scholar/internal/domain/scoring"
)

// Category names.
const (
	AcademicMerit = "Academic Merit"
	FinancialNeed = "Financial Need"
	Engagement    = "Engagement"
)

const unknown = "unknown"

// Source is one raw attribute shown next to a category score.
type Source struct {
	Label string
	Value string
}

// Category is the breakdown of one component score.
type Category struct {
	Name          string
	Score         float64
	WeightPercent float64 // e.g. 40 for a 0.40 weight
	Contribution  float64 // Score * weight
	Sources       []Source
}

// Explanation describes how one applicant's final score was reached.
type Explanation struct {
	Rank           int // 0 when built outside a ranking
	Position       int
	ID             string
	FinalScore     float64
	Recommendation model.Recommendation
	Amount         decimal.Decimal
	Academic       Category
	Financial      Category
	Engagement     Category
}

// Categories returns the three categories in display order.
func (e Explanation) Categories() []Category {
	return []Category{e.Academic, e.Financial, e.Engagement}
}

// ContributionTotal sums the category contributions. Because categories use
// rounded scores the total can differ from FinalScore by up to 0.01.
func (e Explanation) ContributionTotal() float64 {
	return e.Academic.Contribution + e.Financial.Contribution + e.Engagement.Contribution
}

// Build explains rec under the weights that scored it.
func Build(rec decision.Record, w scoring.Weights) Explanation {
	raw := rec.Applicant.Raw
	return Explanation{
		Position:       rec.Position,
		ID:             rec.Applicant.ID,
		FinalScore:     rec.FinalScore,
		Recommendation: rec.Recommendation,
		Amount:         rec.Amount,
		Academic: category(AcademicMerit, rec.Academic, w.Academic(),
			Source{"Performance Index", number(raw.PerformanceIndex)},
			Source{"Previous Scores", number(raw.PreviousScores)},
		),
		Financial: category(FinancialNeed, rec.Financial, w.Financial(),
			Source{"Family Income", money(raw.FamilyIncome)},
			Source{"Parent Education", label(raw.ParentEducation)},
		),
		Engagement: category(Engagement, rec.Engagement, w.Engagement(),
			Source{"Attendance", percent(raw.AttendancePercentage)},
			Source{"Extracurriculars", label(raw.Extracurricular)},
			Source{"Practice Papers", number(raw.PracticePapers)},
		),
	}
}

// Explain builds the explanation of the row in t matched by sel.
func Explain(t ranking.Table, sel Selector) (Explanation, error) {
	for _, e := range t.Entries {
		if !sel.matches(e) {
			continue
		}
		x := Build(e.Record, t.Weights)
		x.Rank = e.Rank
		return x, nil
	}
	return Explanation{}, fmt.Errorf("%w: %s among %d rows", ErrRowNotFound, sel, len(t.Entries))
}

// Narrative renders the explanation as a short paragraph.
func (e Explanation) Narrative() string {
	var b strings.Builder

	b.WriteString(e.subject())
	fmt.Fprintf(&b, " scored %.2f out of 100", e.FinalScore)
	switch e.Recommendation {
	case model.NotEligible:
		b.WriteString(" and is not eligible for a scholarship.")
	case "":
		b.WriteString(".")
	default:
		fmt.Fprintf(&b, " and is recommended for a %s of %s.", e.Recommendation, amount(e.Amount))
	}

	for _, c := range e.Categories() {
		fmt.Fprintf(&b, " %s scored %.2f at %s%% weight, contributing %.2f points",
			c.Name, c.Score, strconv.FormatFloat(c.WeightPercent, 'f', -1, 64), c.Contribution)
		if len(c.Sources) > 0 {
			parts := make([]string, len(c.Sources))
			for i, s := range c.Sources {
				parts[i] = s.Label + " " + s.Value
			}
			fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
		}
		b.WriteString(".")
	}

	if top := e.strongest(); top.Name != "" {
		fmt.Fprintf(&b, " The largest contribution came from %s.", top.Name)
	}
	return b.String()
}

func (e Explanation) subject() string {
	var b strings.Builder
	b.WriteString("Applicant")
	if e.ID != "" {
		b.WriteString(" " + e.ID)
	}
	if e.Rank > 0 {
		fmt.Fprintf(&b, " (rank %d, row %d)", e.Rank, e.Position)
	} else {
		fmt.Fprintf(&b, " (row %d)", e.Position)
	}
	return b.String()
}

func (e Explanation) strongest() Category {
	var top Category
	for _, c := range e.Categories() {
		if c.Contribution > top.Contribution {
			top = c
		}
	}
	return top
}

func category(name string, score, weight float64, sources ...Source) Category {
	return Category{
		Name:          name,
		Score:         score,
		WeightPercent: scoring.Percent(weight),
		Contribution:  score * weight,
		Sources:       sources,
	}
}

func number(v float64) string {
	if math.IsNaN(v) {
		return unknown
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func percent(v float64) string {
	if math.IsNaN(v) {
		return unknown
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

func money(v float64) string {
	if math.IsNaN(v) {
		return unknown
	}
	return "$" + humanize.Commaf(v)
}

func amount(d decimal.Decimal) string {
	return "$" + humanize.Commaf(d.InexactFloat64())
}

func label(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknown
	}
	return s
}
