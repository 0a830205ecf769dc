// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zerotrustai/modelgate/internal/domain/model"
	"github.com/zerotrustai/modelgate/internal/domain/registry"
	"github.com/zerotrustai/modelgate/internal/domain/request"
	"github.com/zerotrustai/modelgate/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Predict routes a sanitized request through the active strategy.
	Predict(ctx context.Context, req request.Prediction) (types.PredictionResult, error)

	// Read operations over the prediction service.
	Stats() types.Stats
	Metrics() types.MetricsReport
	Strategies() ([]string, string)
	StrategyCount() int

	// Retrain bumps the model version and returns the new one.
	Retrain(ctx context.Context) int

	// Governance operations over the model registry.
	ListModels() []model.ModelEntry
	PromoteModel(ctx context.Context, name string, version int) error
	ArchiveModel(ctx context.Context, name string, version int) error
	AuditLog() []model.AuditEvent
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	predictHandler  *PredictHandler
	statsHandler    *StatsHandler
	registryHandler *RegistryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, version string) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(deps, version),
		predictHandler:  NewPredictHandler(deps),
		statsHandler:    NewStatsHandler(deps),
		registryHandler: NewRegistryHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metricsz", s.healthHandler.HandlePrometheus)
	mux.HandleFunc("/predict", wrap(s.predictHandler.HandlePredict, "predict"))
	mux.HandleFunc("/stats", wrap(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/metrics", wrap(s.statsHandler.HandleMetrics, "metrics"))
	mux.HandleFunc("/retrain", wrap(s.statsHandler.HandleRetrain, "retrain"))
	mux.HandleFunc("/strategies", wrap(s.statsHandler.HandleStrategies, "strategies"))
	mux.HandleFunc("/registry", wrap(s.registryHandler.HandleList, "registry"))
	mux.HandleFunc("/registry/promote", wrap(s.registryHandler.HandlePromote, "registry_promote"))
	mux.HandleFunc("/registry/archive", wrap(s.registryHandler.HandleArchive, "registry_archive"))
	mux.HandleFunc("/registry/audit", wrap(s.registryHandler.HandleAudit, "registry_audit"))
}

// wrap applies the standard middleware chain to a handler.
func wrap(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RequestIDMiddleware(MetricsMiddleware(next, endpoint))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates domain sentinel errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, request.ErrValidation):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, registry.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, registry.ErrDuplicate):
		writeError(w, http.StatusConflict, "conflict", err)
	case errors.Is(err, registry.ErrInvalidVersion):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
