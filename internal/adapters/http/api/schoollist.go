// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ywutian/admitscore/internal/adapters/record"
	"github.com/ywutian/admitscore/internal/domain/types"
)

// SchoolListDependencies defines the interface for school-list evaluation.
type SchoolListDependencies interface {
	SchoolList(ctx context.Context, student record.StudentRecord, schools []record.SchoolEntry) (types.SchoolList, error)
}

// SchoolListHandler handles tiered school-list evaluation requests.
type SchoolListHandler struct {
	deps       SchoolListDependencies
	maxSchools int
}

// NewSchoolListHandler creates a new school-list handler.
func NewSchoolListHandler(deps SchoolListDependencies, maxSchools int) *SchoolListHandler {
	return &SchoolListHandler{
		deps:       deps,
		maxSchools: maxSchools,
	}
}

// HandlePostSchoolList handles POST /schoollist requests.
func (h *SchoolListHandler) HandlePostSchoolList(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_schoollist"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req schoolListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Schools) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing schools")))
		return
	}
	if len(req.Schools) > h.maxSchools {
		writeError(w, http.StatusBadRequest, "list_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	for _, entry := range req.Schools {
		if strings.TrimSpace(entry.SchoolID) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing school_id")))
			return
		}
	}

	result, err := h.deps.SchoolList(r.Context(), req.Student, req.Schools)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
