package scoring

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/okian/scholar/internal/domain/model"
)

// Fixed sub-weights inside each component. Only the top-level mix is
// configurable.
const (
	performanceWeight = 0.6
	previousWeight    = 0.4

	incomeWeight    = 0.7
	educationWeight = 0.3

	attendanceWeight      = 0.5
	extracurricularWeight = 0.3
	practiceWeight        = 0.2

	// neutralNeed replaces a missing financial input.
	neutralNeed = 50.0

	maxScore = 100.0
)

// Components holds the three component scores of one applicant.
type Components struct {
	Academic   float64
	Financial  float64
	Engagement float64
}

// Rounded returns c with every score rounded to 2 decimals.
func (c Components) Rounded() Components {
	return Components{
		Academic:   Round2(c.Academic),
		Financial:  Round2(c.Financial),
		Engagement: Round2(c.Engagement),
	}
}

// Academic returns the academic merit score:
//
//	0.6*performance_index + 0.4*previous_scores
//
// Inputs are expected on a 0-100 scale and are not clamped.
func Academic(f model.Features) float64 {
	return f.PerformanceIndex*performanceWeight + f.PreviousScores*previousWeight
}

// Financial returns the financial need score:
//
//	0.7*income_need + 0.3*parent_education_need
//
// where parent_education_need = 100 - (ordinal-1)/2*100. A missing income
// need or education ordinal contributes the neutral value 50.
func Financial(f model.Features) float64 {
	incomeNeed := f.IncomeNeed
	if math.IsNaN(incomeNeed) {
		incomeNeed = neutralNeed
	}
	return incomeNeed*incomeWeight + EducationNeed(f.ParentEducation)*educationWeight
}

// EducationNeed maps the parent education ordinal (1-3) to a need score
// (100, 50, 0). NaN maps to 50.
func EducationNeed(ordinal float64) float64 {
	if math.IsNaN(ordinal) {
		return neutralNeed
	}
	return maxScore - (ordinal-1)/2*maxScore
}

// Engagement returns the engagement score:
//
//	0.5*attendance + 0.3*(extracurricular*100) + 0.2*practice_papers
func Engagement(f model.Features) float64 {
	return f.Attendance*attendanceWeight +
		f.Extracurricular*maxScore*extracurricularWeight +
		f.PracticePapers*practiceWeight
}

// ComputeComponents evaluates all three calculators without rounding.
func ComputeComponents(f model.Features) Components {
	return Components{
		Academic:   Academic(f),
		Financial:  Financial(f),
		Engagement: Engagement(f),
	}
}

// Combine returns the final score for unrounded component scores. The
// weighted sum is rounded once, after combination.
func Combine(c Components, w Weights) float64 {
	return Round2(c.Academic*w.academic + c.Financial*w.financial + c.Engagement*w.engagement)
}

// Round2 rounds v to 2 decimals, half away from zero, on the shortest
// decimal representation of v.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
