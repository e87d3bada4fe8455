// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	service "github.com/okian/scholar/internal/app"
	"github.com/okian/scholar/internal/domain/decision"
	"github.com/okian/scholar/internal/domain/explain"
	"github.com/okian/scholar/internal/domain/model"
	"github.com/okian/scholar/internal/domain/scoring"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 32 << 20

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Evaluate(ctx context.Context, t model.Table, ov service.Overrides) (service.Result, error)
	Explain(ctx context.Context, t model.Table, ov service.Overrides, sel explain.Selector) (explain.Explanation, error)
	Preprocess(ctx context.Context, applicants []model.Applicant) (model.Table, error)
	Config() (scoring.Weights, decision.Policy)
}

// Server wires HTTP routes for the scoring API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	evaluateHandler   *EvaluateHandler
	explainHandler    *ExplainHandler
	preprocessHandler *PreprocessHandler
	configHandler     *ConfigHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		evaluateHandler:   NewEvaluateHandler(deps),
		explainHandler:    NewExplainHandler(deps),
		preprocessHandler: NewPreprocessHandler(deps),
		configHandler:     NewConfigHandler(deps),
	}
}

// Register attaches all API routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/evaluate", MetricsMiddleware(s.evaluateHandler.HandleEvaluate, "evaluate"))
		r.Post("/explain", MetricsMiddleware(s.explainHandler.HandleExplain, "explain"))
		r.Post("/preprocess", MetricsMiddleware(s.preprocessHandler.HandlePreprocess, "preprocess"))
		r.Get("/config", MetricsMiddleware(s.configHandler.HandleConfig, "config"))
	})
}

// NewRouter returns a chi router with the standard middleware and the API
// routes registered.
func NewRouter(s *Server) chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	s.Register(r)
	return r
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{
		Code:      code,
		Message:   msg,
		RequestID: chiMiddleware.GetReqID(r.Context()),
	})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
