// Package service runs the scoring pipeline for the HTTP and CLI adapters:
// preprocess, score, classify, rank and explain under the current default
// configuration.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/scholar/internal/domain/decision"
	"github.com/okian/scholar/internal/domain/explain"
	"github.com/okian/scholar/internal/domain/model"
	"github.com/okian/scholar/internal/domain/preprocess"
	"github.com/okian/scholar/internal/domain/ranking"
	"github.com/okian/scholar/internal/domain/scoring"
	"github.com/okian/scholar/pkg/logger"
	"github.com/okian/scholar/pkg/metrics"
)

const defaultMaxApplicants = 100_000

// Service holds the default configuration and runs evaluation passes. Each
// pass reads a snapshot of the configuration, so Reconfigure never affects
// a pass in flight.
type Service struct {
	mu sync.RWMutex

	weights scoring.Weights
	policy  decision.Policy

	engine        *scoring.Engine
	preprocessor  *preprocess.Preprocessor
	parallelism   int
	maxApplicants int

	logger logger.Logger

	passes     atomic.Int64
	failures   atomic.Int64
	applicants atomic.Int64
	reconfigs  atomic.Int64
	lastRunID  atomic.Value // string
	startedAt  time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWeights sets the default weights. Zero weights are ignored.
func WithWeights(w scoring.Weights) Option {
	return func(s *Service) {
		if !w.IsZero() {
			s.weights = w
		}
	}
}

// WithPolicy sets the default decision policy. A zero policy is ignored.
func WithPolicy(p decision.Policy) Option {
	return func(s *Service) {
		if !p.IsZero() {
			s.policy = p
		}
	}
}

// WithParallelism sets the number of goroutines used to score a table.
func WithParallelism(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// WithMaxApplicants caps the rows accepted by one pass.
func WithMaxApplicants(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxApplicants = n
		}
	}
}

// WithPreprocessor replaces the default preprocessor.
func WithPreprocessor(p *preprocess.Preprocessor) Option {
	return func(s *Service) {
		if p != nil {
			s.preprocessor = p
		}
	}
}

// New constructs a Service with the default weights and policy.
func New(opts ...Option) *Service {
	s := &Service{
		weights:       scoring.DefaultWeights(),
		policy:        decision.DefaultPolicy(),
		parallelism:   runtime.NumCPU(),
		maxApplicants: defaultMaxApplicants,
		preprocessor:  preprocess.New(),
		startedAt:     time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.engine = scoring.NewEngine(scoring.WithParallelism(s.parallelism))
	s.lastRunID.Store("")
	s.publishConfig()
	return s
}

// Overrides replaces the default weights or policy for a single pass.
type Overrides struct {
	Weights *scoring.Weights
	Policy  *decision.Policy
}

// Result is the outcome of one evaluation pass.
type Result struct {
	RunID    string
	Table    ranking.Table
	Summary  decision.Summary
	Duration time.Duration
}

// Config returns the current default weights and policy.
func (s *Service) Config() (scoring.Weights, decision.Policy) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weights, s.policy
}

// Reconfigure atomically replaces the default weights and policy. Both must
// come from the domain constructors.
func (s *Service) Reconfigure(ctx context.Context, w scoring.Weights, p decision.Policy) error {
	if w.IsZero() {
		return fmt.Errorf("%w: weights not configured", scoring.ErrInvalidConfiguration)
	}
	if p.IsZero() {
		return fmt.Errorf("%w: policy not configured", decision.ErrInvalidThresholds)
	}

	s.mu.Lock()
	s.weights = w
	s.policy = p
	s.mu.Unlock()

	s.reconfigs.Add(1)
	s.publishConfig()
	s.logger.Info(ctx, "configuration updated",
		logger.String("weights", w.String()),
		logger.Float64("partial_threshold", p.PartialThreshold()),
		logger.Float64("full_threshold", p.FullThreshold()),
	)
	return nil
}

// Preprocess normalizes raw applicants.
func (s *Service) Preprocess(ctx context.Context, applicants []model.Applicant) (model.Table, error) {
	if err := s.admit(ctx, len(applicants)); err != nil {
		return model.Table{}, err
	}
	return s.preprocessor.Normalize(applicants), nil
}

// Evaluate scores, classifies and ranks t. Nothing is returned on failure.
func (s *Service) Evaluate(ctx context.Context, t model.Table, ov Overrides) (Result, error) {
	runID := uuid.NewString()
	start := time.Now()

	res, err := s.evaluate(ctx, t, ov)
	elapsed := time.Since(start)
	durationMs := float64(elapsed.Microseconds()) / 1000

	s.passes.Add(1)
	s.lastRunID.Store(runID)
	if err != nil {
		s.failures.Add(1)
		kind := ErrorKind(err)
		metrics.RecordEvaluation(metrics.OutcomeError, durationMs)
		metrics.RecordError(kind)
		s.logger.Warn(ctx, "evaluation failed",
			logger.String("run_id", runID),
			logger.Int("rows", t.Len()),
			logger.String("kind", kind),
			logger.Error(err),
		)
		return Result{}, err
	}

	res.RunID = runID
	res.Duration = elapsed
	s.applicants.Add(int64(t.Len()))
	metrics.RecordEvaluation(metrics.OutcomeOK, durationMs)
	metrics.RecordApplicantsScored(t.Len())
	for tier, n := range res.Summary.Counts {
		metrics.RecordRecommendations(string(tier), n)
	}
	metrics.RecordAwarded(res.Summary.TotalAwarded.InexactFloat64())

	s.logger.Info(ctx, "evaluation complete",
		logger.String("run_id", runID),
		logger.Int("rows", t.Len()),
		logger.String("weights", res.Table.Weights.String()),
		logger.Int("full", res.Summary.Counts[model.FullScholarship]),
		logger.Int("partial", res.Summary.Counts[model.PartialScholarship]),
		logger.Int("not_eligible", res.Summary.Counts[model.NotEligible]),
		logger.String("total_awarded", res.Summary.TotalAwarded.String()),
		logger.Duration("duration", elapsed),
	)
	return res, nil
}

func (s *Service) evaluate(ctx context.Context, t model.Table, ov Overrides) (Result, error) {
	if err := s.admit(ctx, t.Len()); err != nil {
		return Result{}, err
	}

	w, p := s.Config()
	if ov.Weights != nil {
		w = *ov.Weights
	}
	if ov.Policy != nil {
		p = *ov.Policy
	}
	if p.IsZero() {
		return Result{}, fmt.Errorf("%w: policy not configured", decision.ErrInvalidThresholds)
	}

	scored, err := s.engine.Score(t, w)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	ranked := ranking.Rank(p.Classify(scored))
	return Result{
		Table:   ranked,
		Summary: decision.Summarize(ranked.Records()),
	}, nil
}

// Explain evaluates t and explains the row matched by sel.
func (s *Service) Explain(ctx context.Context, t model.Table, ov Overrides, sel explain.Selector) (explain.Explanation, error) {
	res, err := s.Evaluate(ctx, t, ov)
	if err != nil {
		return explain.Explanation{}, err
	}
	x, err := explain.Explain(res.Table, sel)
	if err != nil {
		metrics.RecordError(ErrorKind(err))
		return explain.Explanation{}, err
	}
	return x, nil
}

func (s *Service) admit(ctx context.Context, rows int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rows > s.maxApplicants {
		return fmt.Errorf("%w: %d rows exceeds the limit of %d", ErrTooManyApplicants, rows, s.maxApplicants)
	}
	return nil
}

func (s *Service) publishConfig() {
	w, p := s.Config()
	metrics.UpdateWeights(w.Academic(), w.Financial(), w.Engagement())
	metrics.UpdateThresholds(p.PartialThreshold(), p.FullThreshold())
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	w, p := s.Config()
	return map[string]any{
		"uptimeSeconds":    int64(time.Since(s.startedAt).Seconds()),
		"passes":           s.passes.Load(),
		"failedPasses":     s.failures.Load(),
		"applicantsScored": s.applicants.Load(),
		"reconfigurations": s.reconfigs.Load(),
		"lastRunID":        s.lastRunID.Load(),
		"parallelism":      s.parallelism,
		"maxApplicants":    s.maxApplicants,
		"weights":          w.String(),
		"partialThreshold": p.PartialThreshold(),
		"fullThreshold":    p.FullThreshold(),
	}
}

// MaxApplicants returns the row cap of one pass.
func (s *Service) MaxApplicants() int { return s.maxApplicants }
