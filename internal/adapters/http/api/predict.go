// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zerotrustai/modelgate/internal/domain/request"
	"github.com/zerotrustai/modelgate/pkg/metrics"
)

// PredictHandler handles classification requests.
type PredictHandler struct {
	deps Dependencies
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps Dependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// HandlePredict handles POST /predict requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req request.Prediction
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.Sanitize(); err != nil {
		metrics.RecordValidationFailure()
		if errors.Is(err, request.ErrValidation) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeDomainError(w, err)
		return
	}

	res, err := h.deps.Predict(r.Context(), req)
	if err != nil {
		writeDomainError(w, WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
