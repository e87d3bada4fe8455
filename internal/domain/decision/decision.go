// Package decision maps final scores to recommendation tiers and award
// amounts.
package decision

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/okian/scholar/internal/domain/model"
	"github.com/okian/scholar/internal/domain/scoring"
)

// Default cut points and award amounts.
const (
	DefaultPartialThreshold = 60.0
	DefaultFullThreshold    = 80.0

	defaultFullAmount    = 10000
	defaultPartialAmount = 5000

	minThreshold = 0.0
	maxThreshold = 100.0
)

// Amounts are the awards paid for the two funded tiers. Not Eligible is
// always zero.
type Amounts struct {
	Full    decimal.Decimal
	Partial decimal.Decimal
}

// DefaultAmounts returns 10000 / 5000.
func DefaultAmounts() Amounts {
	return Amounts{
		Full:    decimal.NewFromInt(defaultFullAmount),
		Partial: decimal.NewFromInt(defaultPartialAmount),
	}
}

// Policy is a validated pair of cut points plus award amounts. Construct it
// with NewPolicy or DefaultPolicy.
type Policy struct {
	partial float64
	full    float64
	amounts Amounts
}

// NewPolicy validates 0 <= partial < full <= 100 and non-negative amounts
// with full >= partial.
func NewPolicy(partial, full float64, amounts Amounts) (Policy, error) {
	if math.IsNaN(partial) || math.IsNaN(full) {
		return Policy{}, fmt.Errorf("%w: thresholds must be numbers", ErrInvalidThresholds)
	}
	if partial < minThreshold || full > maxThreshold || partial >= full {
		return Policy{}, fmt.Errorf("%w: need 0 <= partial < full <= 100, got partial=%g full=%g",
			ErrInvalidThresholds, partial, full)
	}
	if amounts.Partial.IsNegative() || amounts.Full.IsNegative() {
		return Policy{}, fmt.Errorf("%w: amounts must not be negative", ErrInvalidAmounts)
	}
	if amounts.Full.LessThan(amounts.Partial) {
		return Policy{}, fmt.Errorf("%w: full amount %s below partial amount %s",
			ErrInvalidAmounts, amounts.Full, amounts.Partial)
	}
	return Policy{partial: partial, full: full, amounts: amounts}, nil
}

// DefaultPolicy returns thresholds 60/80 with amounts 10000/5000.
func DefaultPolicy() Policy {
	return Policy{
		partial: DefaultPartialThreshold,
		full:    DefaultFullThreshold,
		amounts: DefaultAmounts(),
	}
}

// PartialThreshold returns the lower cut point.
func (p Policy) PartialThreshold() float64 { return p.partial }

// FullThreshold returns the upper cut point.
func (p Policy) FullThreshold() float64 { return p.full }

// Amounts returns the configured awards.
func (p Policy) Amounts() Amounts { return p.amounts }

// IsZero reports whether p is the unconstructed zero value.
func (p Policy) IsZero() bool {
	return p.partial == 0 && p.full == 0 && p.amounts.Full.IsZero() && p.amounts.Partial.IsZero()
}

// Decide is the single classification routine. Both cut points are
// inclusive on the high side: score >= full is Full, score >= partial is
// Partial.
func (p Policy) Decide(score float64) (model.Recommendation, decimal.Decimal) {
	switch {
	case score >= p.full:
		return model.FullScholarship, p.amounts.Full
	case score >= p.partial:
		return model.PartialScholarship, p.amounts.Partial
	default:
		return model.NotEligible, decimal.Zero
	}
}

// Record is a scored applicant with its recommendation and award.
type Record struct {
	scoring.Record
	Recommendation model.Recommendation
	Amount         decimal.Decimal
}

// Table is a classified scoring pass.
type Table struct {
	Weights scoring.Weights
	Policy  Policy
	Records []Record
}

// Classify validates the thresholds and amounts, then classifies every row.
func Classify(scored scoring.Table, partial, full float64, amounts Amounts) (Table, error) {
	p, err := NewPolicy(partial, full, amounts)
	if err != nil {
		return Table{}, err
	}
	return p.Classify(scored), nil
}

// Classify assigns a recommendation and amount to every row of scored.
func (p Policy) Classify(scored scoring.Table) Table {
	records := make([]Record, len(scored.Records))
	for i, r := range scored.Records {
		rec, amount := p.Decide(r.FinalScore)
		records[i] = Record{Record: r, Recommendation: rec, Amount: amount}
	}
	return Table{Weights: scored.Weights, Policy: p, Records: records}
}
