// Package config defines service configuration and its layered loading.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Domain rules are validated through the domain constructors so the
//   service never starts with a configuration the engine would reject.
package config

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shopspring/decimal"

	"github.com/okian/scholar/internal/domain/decision"
	"github.com/okian/scholar/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Parallelism bounds the goroutines used to score one table.
	Parallelism int `koanf:"parallelism"`

	// MaxApplicants caps the rows accepted by one HTTP request.
	MaxApplicants int `koanf:"max_applicants"`

	// Default category weights; must sum to 1.0.
	AcademicWeight   float64 `koanf:"academic_weight"`
	FinancialWeight  float64 `koanf:"financial_weight"`
	EngagementWeight float64 `koanf:"engagement_weight"`

	// Default decision cut points.
	PartialThreshold float64 `koanf:"partial_threshold"`
	FullThreshold    float64 `koanf:"full_threshold"`

	// Award amounts for the funded tiers.
	FullAmount    float64 `koanf:"full_amount"`
	PartialAmount float64 `koanf:"partial_amount"`

	// WatchConfig reloads the YAML file named by SCHOLAR_CONFIG on change.
	WatchConfig bool `koanf:"watch_config"`
}

// New creates a Config holding the defaults. Context is accepted first to
// follow the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	w := scoring.DefaultWeights()
	a := decision.DefaultAmounts()
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		Parallelism:      runtime.NumCPU(),
		MaxApplicants:    100_000,
		AcademicWeight:   w.Academic(),
		FinancialWeight:  w.Financial(),
		EngagementWeight: w.Engagement(),
		PartialThreshold: decision.DefaultPartialThreshold,
		FullThreshold:    decision.DefaultFullThreshold,
		FullAmount:       a.Full.InexactFloat64(),
		PartialAmount:    a.Partial.InexactFloat64(),
	}
}

// Weights builds the validated default weights.
func (c *Config) Weights() (scoring.Weights, error) {
	return scoring.NewWeights(c.AcademicWeight, c.FinancialWeight, c.EngagementWeight)
}

// Policy builds the validated default decision policy.
func (c *Config) Policy() (decision.Policy, error) {
	return decision.NewPolicy(c.PartialThreshold, c.FullThreshold, decision.Amounts{
		Full:    decimal.NewFromFloat(c.FullAmount),
		Partial: decimal.NewFromFloat(c.PartialAmount),
	})
}

// Validate checks the scalar settings and the domain rules.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("%w: parallelism must be positive, got %d", ErrInvalidConfig, c.Parallelism)
	}
	if c.MaxApplicants < 1 {
		return fmt.Errorf("%w: max_applicants must be positive, got %d", ErrInvalidConfig, c.MaxApplicants)
	}
	if _, err := c.Weights(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Policy(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
