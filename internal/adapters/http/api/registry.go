// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/zerotrustai/modelgate/internal/domain/model"
)

// RegistryHandler handles model governance requests.
type RegistryHandler struct {
	deps Dependencies
}

// NewRegistryHandler creates a new registry handler.
func NewRegistryHandler(deps Dependencies) *RegistryHandler {
	return &RegistryHandler{deps: deps}
}

// transitionRequest names the model version a promote or archive acts on.
type transitionRequest struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

func (t transitionRequest) validate() error {
	switch {
	case strings.TrimSpace(t.Name) == "":
		return NewKind("api.registry", ErrBadRequest)
	case t.Version < 1:
		return NewKind("api.registry", ErrBadRequest)
	}
	return nil
}

type listResponse struct {
	Models []model.ModelEntry `json:"models"`
}

// HandleList handles GET /registry requests.
func (h *RegistryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Models: h.deps.ListModels()})
}

type transitionResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

// HandlePromote handles POST /registry/promote requests.
func (h *RegistryHandler) HandlePromote(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "promoted", h.deps.PromoteModel)
}

// HandleArchive handles POST /registry/archive requests.
func (h *RegistryHandler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "archived", h.deps.ArchiveModel)
}

func (h *RegistryHandler) handleTransition(
	w http.ResponseWriter,
	r *http.Request,
	status string,
	apply func(ctx context.Context, name string, version int) error,
) {
	const op = "api.registry_transition"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	if err := apply(r.Context(), req.Name, req.Version); err != nil {
		writeDomainError(w, err)
		return
	}
	key := model.Key{Name: req.Name, Version: req.Version}
	writeJSON(w, http.StatusOK, transitionResponse{Status: status, Model: key.String()})
}

type auditResponse struct {
	Events []model.AuditEvent `json:"events"`
}

// HandleAudit handles GET /registry/audit requests.
func (h *RegistryHandler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, auditResponse{Events: h.deps.AuditLog()})
}
