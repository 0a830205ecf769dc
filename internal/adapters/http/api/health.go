// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zerotrustai/modelgate/pkg/metrics"
)

// HealthHandler handles health check and Prometheus exposition requests.
type HealthHandler struct {
	deps    Dependencies
	version string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies, version string) *HealthHandler {
	return &HealthHandler{deps: deps, version: version}
}

type healthResponse struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	Version      string    `json:"version"`
	ModelsLoaded int       `json:"models_loaded"`
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "healthy",
		Timestamp:    time.Now().UTC(),
		Version:      h.version,
		ModelsLoaded: h.deps.StrategyCount(),
	})
}

// HandlePrometheus serves the custom metrics registry in exposition format.
func (h *HealthHandler) HandlePrometheus(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
