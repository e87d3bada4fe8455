package service

import (
	"context"
	"errors"

	"github.com/okian/scholar/internal/domain/decision"
	"github.com/okian/scholar/internal/domain/explain"
	"github.com/okian/scholar/internal/domain/scoring"
)

// ErrTooManyApplicants is returned when a table exceeds the configured cap.
var ErrTooManyApplicants = errors.New("too many applicants")

// ErrorKind names the class of err for logs and metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, scoring.ErrMissingFeature):
		return "missing_feature"
	case errors.Is(err, scoring.ErrInvalidConfiguration):
		return "invalid_configuration"
	case errors.Is(err, decision.ErrInvalidThresholds):
		return "invalid_thresholds"
	case errors.Is(err, decision.ErrInvalidAmounts):
		return "invalid_amounts"
	case errors.Is(err, explain.ErrRowNotFound):
		return "row_not_found"
	case errors.Is(err, ErrTooManyApplicants):
		return "too_many_applicants"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
