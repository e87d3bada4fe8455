package decision

import (
	"github.com/shopspring/decimal"

	"github.com/okian/scholar/internal/domain/model"
)

// Summary aggregates a classified pass.
type Summary struct {
	Applicants   int
	Counts       map[model.Recommendation]int
	TotalAwarded decimal.Decimal
}

// Summarize counts recommendations and totals the awarded amounts. Every
// tier is present in Counts, zero or not.
func Summarize(records []Record) Summary {
	s := Summary{
		Applicants:   len(records),
		Counts:       make(map[model.Recommendation]int, len(model.Recommendations())),
		TotalAwarded: decimal.Zero,
	}
	for _, rec := range model.Recommendations() {
		s.Counts[rec] = 0
	}
	for _, r := range records {
		s.Counts[r.Recommendation]++
		s.TotalAwarded = s.TotalAwarded.Add(r.Amount)
	}
	return s
}
