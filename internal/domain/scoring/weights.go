package scoring

import (
	"fmt"
	"math"
)

// weightTolerance bounds how far the weight sum may drift from 1.0.
const weightTolerance = 1e-6

// Default category weights.
const (
	DefaultAcademicWeight   = 0.40
	DefaultFinancialWeight  = 0.40
	DefaultEngagementWeight = 0.20
)

// Weights is the top-level mix of the three component scores. The zero value
// is not valid; construct it with NewWeights or DefaultWeights. Weights has no
// setters, a different mix is a different value.
type Weights struct {
	academic   float64
	financial  float64
	engagement float64
}

// NewWeights validates and returns a weight configuration. Each weight must
// lie in [0,1] and the three must sum to 1.0 within 1e-6. Sums are never
// renormalized.
func NewWeights(academic, financial, engagement float64) (Weights, error) {
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"academic", academic},
		{"financial", financial},
		{"engagement", engagement},
	} {
		if math.IsNaN(w.value) || math.IsInf(w.value, 0) {
			return Weights{}, fmt.Errorf("%w: %s weight is not a finite number", ErrInvalidConfiguration, w.name)
		}
		if w.value < 0 || w.value > 1 {
			return Weights{}, fmt.Errorf("%w: %s weight %.4f outside [0, 1]", ErrInvalidConfiguration, w.name, w.value)
		}
	}
	sum := academic + financial + engagement
	if math.Abs(sum-1.0) > weightTolerance {
		return Weights{}, fmt.Errorf("%w: weights sum to %.6f, must sum to 1.0", ErrInvalidConfiguration, sum)
	}
	return Weights{academic: academic, financial: financial, engagement: engagement}, nil
}

// NewWeightsPercent builds weights from whole percentages, the way the
// dashboard sliders express them (40, 40, 20).
func NewWeightsPercent(academic, financial, engagement float64) (Weights, error) {
	if sum := academic + financial + engagement; math.Abs(sum-100) > weightTolerance*100 {
		return Weights{}, fmt.Errorf("%w: weights sum to %.4f%%, must equal 100%%", ErrInvalidConfiguration, sum)
	}
	return NewWeights(academic/100, financial/100, engagement/100)
}

// DefaultWeights returns the 40/40/20 mix.
func DefaultWeights() Weights {
	return Weights{
		academic:   DefaultAcademicWeight,
		financial:  DefaultFinancialWeight,
		engagement: DefaultEngagementWeight,
	}
}

// Academic returns the academic weight.
func (w Weights) Academic() float64 { return w.academic }

// Financial returns the financial weight.
func (w Weights) Financial() float64 { return w.financial }

// Engagement returns the engagement weight.
func (w Weights) Engagement() float64 { return w.engagement }

// Sum returns the total of all weights.
func (w Weights) Sum() float64 { return w.academic + w.financial + w.engagement }

// IsZero reports whether w is the unconstructed zero value.
func (w Weights) IsZero() bool { return w == Weights{} }

// String renders the mix as percentages.
func (w Weights) String() string {
	return fmt.Sprintf("academic=%g%% financial=%g%% engagement=%g%%",
		Percent(w.academic), Percent(w.financial), Percent(w.engagement))
}

// Percent converts a weight fraction to a percentage rounded to 2 decimals.
func Percent(weight float64) float64 {
	return Round2(weight * 100)
}
