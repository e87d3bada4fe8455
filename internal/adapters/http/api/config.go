package api

import (
	"net/http"

	"github.com/okian/scholar/internal/domain/types"
)

// ConfigHandler serves the current default configuration.
type ConfigHandler struct {
	deps Dependencies
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(deps Dependencies) *ConfigHandler {
	return &ConfigHandler{deps: deps}
}

type configResponse struct {
	Weights types.Weights `json:"weights"`
	Policy  types.Policy  `json:"policy"`
}

// HandleConfig handles GET /v1/config.
func (h *ConfigHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	wts, p := h.deps.Config()
	writeJSON(w, http.StatusOK, configResponse{
		Weights: types.FromWeights(wts),
		Policy:  types.FromPolicy(p),
	})
}
