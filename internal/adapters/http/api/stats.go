// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"time"
)

// StatsHandler handles observability reads and the retrain trigger.
type StatsHandler struct {
	deps Dependencies
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps Dependencies) *StatsHandler {
	return &StatsHandler{deps: deps}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Stats())
}

// HandleMetrics handles GET /metrics requests: the confidence summary
// together with the retrain recommendation. Reading never mutates.
func (h *StatsHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Metrics())
}

type retrainResponse struct {
	Status       string    `json:"status"`
	ModelVersion int       `json:"model_version"`
	RetrainedAt  time.Time `json:"retrained_at"`
}

// HandleRetrain handles POST /retrain requests.
func (h *StatsHandler) HandleRetrain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	version := h.deps.Retrain(r.Context())
	writeJSON(w, http.StatusOK, retrainResponse{
		Status:       "retrained",
		ModelVersion: version,
		RetrainedAt:  time.Now().UTC(),
	})
}

type strategiesResponse struct {
	Strategies []string `json:"strategies"`
	Default    string   `json:"default"`
}

// HandleStrategies handles GET /strategies requests.
func (h *StatsHandler) HandleStrategies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	names, def := h.deps.Strategies()
	writeJSON(w, http.StatusOK, strategiesResponse{Strategies: names, Default: def})
}
