// Package scoring turns preprocessed applicant features into component and
// final scores under a validated weight configuration.
package scoring

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/okian/scholar/internal/domain/model"
)

// minRowsPerWorker keeps small tables on the sequential path.
const minRowsPerWorker = 256

// academicFeatures and engagementFeatures must carry a value on every row.
// Financial features are required as columns but individual values may be
// missing (neutral fallback).
var (
	academicFeatures   = []model.Feature{model.PerformanceIndex, model.PreviousScores}
	financialFeatures  = []model.Feature{model.IncomeNeed, model.ParentEducation}
	engagementFeatures = []model.Feature{model.Attendance, model.Extracurricular, model.PracticePapers}
)

// Record is one scored applicant. Scores are rounded to 2 decimals.
type Record struct {
	Position   int // zero-based position in the input table
	Applicant  model.Applicant
	Academic   float64
	Financial  float64
	Engagement float64
	FinalScore float64
}

// Components returns the rounded component scores of r.
func (r Record) Components() Components {
	return Components{Academic: r.Academic, Financial: r.Financial, Engagement: r.Engagement}
}

// Table is the output of a scoring pass together with the weights used.
type Table struct {
	Weights Weights
	Records []Record
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithParallelism scores rows on up to n goroutines. Values below 2 keep
// scoring sequential.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// Engine scores applicant tables. It holds no per-pass state and is safe for
// concurrent use.
type Engine struct {
	parallelism int
}

// NewEngine creates an engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{parallelism: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score scores every row of t sequentially. See Engine.Score.
func Score(t model.Table, w Weights) (Table, error) {
	return NewEngine().Score(t, w)
}

// Score computes component and final scores for every row of t. It fails
// with ErrInvalidConfiguration for unconstructed weights and with
// ErrMissingFeature when a required column is absent or a row lacks an
// academic or engagement value. On failure no rows are returned.
func (e *Engine) Score(t model.Table, w Weights) (Table, error) {
	if w.IsZero() {
		return Table{}, fmt.Errorf("%w: weights not configured", ErrInvalidConfiguration)
	}
	if err := checkColumns(t); err != nil {
		return Table{}, err
	}

	records := make([]Record, len(t.Applicants))
	rowErrs := make([]error, len(t.Applicants))

	workers := e.workersFor(len(t.Applicants))
	if workers <= 1 {
		for i := range t.Applicants {
			records[i], rowErrs[i] = scoreRow(i, t.Applicants[i], w)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(workers)
		for i := range t.Applicants {
			g.Go(func() error {
				records[i], rowErrs[i] = scoreRow(i, t.Applicants[i], w)
				return nil
			})
		}
		_ = g.Wait()
	}

	// Report the lowest failing position so the error does not depend on
	// goroutine scheduling.
	for _, err := range rowErrs {
		if err != nil {
			return Table{}, err
		}
	}
	return Table{Weights: w, Records: records}, nil
}

func (e *Engine) workersFor(rows int) int {
	if e.parallelism <= 1 || rows < minRowsPerWorker*2 {
		return 1
	}
	return min(e.parallelism, rows/minRowsPerWorker)
}

func checkColumns(t model.Table) error {
	if len(t.Applicants) == 0 {
		return nil
	}
	required := make([]model.Feature, 0, len(academicFeatures)+len(financialFeatures)+len(engagementFeatures))
	required = append(required, academicFeatures...)
	required = append(required, financialFeatures...)
	required = append(required, engagementFeatures...)
	if missing := t.Columns.Missing(required...); len(missing) > 0 {
		return fmt.Errorf("%w: required column %s absent from input table", ErrMissingFeature, joinFeatures(missing))
	}
	return nil
}

func scoreRow(pos int, a model.Applicant, w Weights) (Record, error) {
	for _, group := range [][]model.Feature{academicFeatures, engagementFeatures} {
		for _, f := range group {
			if math.IsNaN(a.Features.Value(f)) {
				return Record{}, fmt.Errorf("%w: row %d has no value for %s", ErrMissingFeature, pos, f)
			}
		}
	}

	raw := ComputeComponents(a.Features)
	shown := raw.Rounded()
	return Record{
		Position:   pos,
		Applicant:  a,
		Academic:   shown.Academic,
		Financial:  shown.Financial,
		Engagement: shown.Engagement,
		FinalScore: Combine(raw, w),
	}, nil
}

func joinFeatures(fs []model.Feature) string {
	out := ""
	for i, f := range fs {
		if i > 0 {
			out += ", "
		}
		out += f.String()
	}
	return out
}
