package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/scholar/internal/app"
	"github.com/okian/scholar/internal/domain/decision"
	"github.com/okian/scholar/internal/domain/explain"
	"github.com/okian/scholar/internal/domain/scoring"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// statusFor maps an error kind to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, scoring.ErrInvalidConfiguration),
		errors.Is(err, decision.ErrInvalidThresholds),
		errors.Is(err, decision.ErrInvalidAmounts):
		return http.StatusBadRequest, service.ErrorKind(err)
	case errors.Is(err, scoring.ErrMissingFeature):
		return http.StatusUnprocessableEntity, service.ErrorKind(err)
	case errors.Is(err, explain.ErrRowNotFound):
		return http.StatusNotFound, service.ErrorKind(err)
	case errors.Is(err, service.ErrTooManyApplicants):
		return http.StatusRequestEntityTooLarge, service.ErrorKind(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "canceled"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
