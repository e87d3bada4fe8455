package api

import (
	"net/http"

	"github.com/okian/scholar/internal/domain/types"
)

// ExplainHandler handles explanation requests.
type ExplainHandler struct {
	deps Dependencies
}

// NewExplainHandler creates a new explain handler.
func NewExplainHandler(deps Dependencies) *ExplainHandler {
	return &ExplainHandler{deps: deps}
}

// HandleExplain handles POST /v1/explain. The table is evaluated as for
// /v1/evaluate and the selected row is explained.
func (h *ExplainHandler) HandleExplain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sel, err := req.Selector.selector()
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

	x, err := h.deps.Explain(r.Context(), tbl, ov, sel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.FromExplanation(x))
}
