// Package ranking orders classified applicants by final score.
package ranking

import (
	"sort"

	"github.com/okian/scholar/internal/domain/decision"
	"github.com/okian/scholar/internal/domain/model"
	"github.com/okian/scholar/internal/domain/scoring"
)

// Entry is a classified record with its 1-based rank.
type Entry struct {
	decision.Record
	Rank int
}

// Table is the ranked output of a pass, best first.
type Table struct {
	Weights scoring.Weights
	Policy  decision.Policy
	Entries []Entry
}

// Rank orders t by final score descending and assigns ranks 1..N. Rows with
// equal scores keep their input order. t is not modified.
func Rank(t decision.Table) Table {
	entries := make([]Entry, len(t.Records))
	for i, r := range t.Records {
		entries[i] = Entry{Record: r}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].FinalScore > entries[j].FinalScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return Table{Weights: t.Weights, Policy: t.Policy, Entries: entries}
}

// Top returns at most n entries from the head of the ranking.
func (t Table) Top(n int) []Entry {
	if n <= 0 {
		return nil
	}
	if n > len(t.Entries) {
		n = len(t.Entries)
	}
	return t.Entries[:n]
}

// Filter keeps the entries recommended for one of recs, in rank order and
// with their original ranks. With no recs every entry is kept.
func (t Table) Filter(recs ...model.Recommendation) Table {
	if len(recs) == 0 {
		return t
	}
	keep := make(map[model.Recommendation]bool, len(recs))
	for _, r := range recs {
		keep[r] = true
	}
	out := Table{Weights: t.Weights, Policy: t.Policy, Entries: make([]Entry, 0, len(t.Entries))}
	for _, e := range t.Entries {
		if keep[e.Recommendation] {
			out.Entries = append(out.Entries, e)
		}
	}
	return out
}

// Records returns the entries as decision records, in rank order.
func (t Table) Records() []decision.Record {
	out := make([]decision.Record, len(t.Entries))
	for i, e := range t.Entries {
		out[i] = e.Record
	}
	return out
}
