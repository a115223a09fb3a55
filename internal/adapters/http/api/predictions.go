// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ywutian/admitscore/internal/adapters/record"
	"github.com/ywutian/admitscore/internal/domain/types"
	"github.com/ywutian/admitscore/pkg/metrics"
)

// PredictionDependencies defines the interface for synchronous prediction.
type PredictionDependencies interface {
	Predict(ctx context.Context, student record.StudentRecord, school record.SchoolRecord) (types.Prediction, error)
}

// PredictionsHandler handles single-school prediction requests.
type PredictionsHandler struct {
	deps PredictionDependencies
}

// NewPredictionsHandler creates a new predictions handler.
func NewPredictionsHandler(deps PredictionDependencies) *PredictionsHandler {
	return &PredictionsHandler{deps: deps}
}

// HandlePostPrediction handles POST /predictions requests. Scoring never
// rejects a profile for missing data, so a well-formed request always
// produces a bounded prediction.
func (h *PredictionsHandler) HandlePostPrediction(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_prediction"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req predictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	prediction, err := h.deps.Predict(r.Context(), req.Student, req.School)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	metrics.RecordPrediction(prediction.Tier)
	metrics.RecordConfidence(prediction.Confidence)
	writeJSON(w, http.StatusOK, prediction)
}
