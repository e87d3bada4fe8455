package api

import (
	"context"
	"net/http"

	"github.com/okian/scholar/internal/domain/model"
	"github.com/okian/scholar/internal/domain/types"
)

// EvaluateHandler handles evaluation requests.
type EvaluateHandler struct {
	deps Dependencies
}

// NewEvaluateHandler creates a new evaluate handler.
func NewEvaluateHandler(deps Dependencies) *EvaluateHandler {
	return &EvaluateHandler{deps: deps}
}

type evaluateResponse struct {
	RunID   string         `json:"run_id"`
	Weights types.Weights  `json:"weights"`
	Policy  types.Policy   `json:"policy"`
	Results []types.Result `json:"results"`
	Summary types.Summary  `json:"summary"`
}

// HandleEvaluate handles POST /v1/evaluate.
func (h *EvaluateHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	view, err := req.view()
	if err != nil {
		writeError(w, r, err)
		return
	}
	_, current := h.deps.Config()
	ov, err := req.overrides(current)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tbl, err := buildTable(r.Context(), h.deps, req.Applicants)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.deps.Evaluate(r.Context(), tbl, ov)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, evaluateResponse{
		RunID:   res.RunID,
		Weights: types.FromWeights(res.Table.Weights),
		Policy:  types.FromPolicy(res.Table.Policy),
		Results: types.FromEntries(view.apply(res.Table)),
		Summary: types.FromSummary(res.Summary),
	})
}

// buildTable uses the supplied features when any row carries them and
// preprocesses the raw attributes otherwise.
func buildTable(ctx context.Context, deps Dependencies, rows []applicantRequest) (model.Table, error) {
	apps, columns, preprocessed, err := applicants(rows)
	if err != nil {
		return model.Table{}, err
	}
	if preprocessed {
		return model.Table{Columns: columns, Applicants: apps}, nil
	}
	return deps.Preprocess(ctx, apps)
}
