// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/ywutian/admitscore/internal/domain/types"
)

// BandsDependencies defines the interface for cohort band operations.
type BandsDependencies interface {
	Bands(ctx context.Context) types.Bands
}

// BandsHandler handles cohort band requests.
type BandsHandler struct {
	deps BandsDependencies
}

// NewBandsHandler creates a new bands handler.
func NewBandsHandler(deps BandsDependencies) *BandsHandler {
	return &BandsHandler{deps: deps}
}

// HandleGetBands handles GET /bands requests. An empty cohort returns
// zero-valued bands rather than an error.
func (h *BandsHandler) HandleGetBands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Bands(r.Context()))
}
