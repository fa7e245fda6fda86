package handlers

import (
	"net/http"
	"time"

	"github.com/nikhilsahni/ipofolio/internal/candidates"
	"github.com/nikhilsahni/ipofolio/internal/ipodata"
	"github.com/nikhilsahni/ipofolio/pkg/logger"
)

// defaultHoldHorizon is used when the caller gives no hold_date.
const defaultHoldHorizon = 30 * 24 * time.Hour

// CandidateHandler serves live eligible candidates
type CandidateHandler struct {
	ipoRepo *ipodata.Repository
	builder *candidates.Builder
	logger  *logger.Logger
}

// NewCandidateHandler creates a new candidate handler
func NewCandidateHandler(ipoRepo *ipodata.Repository, builder *candidates.Builder, log *logger.Logger) *CandidateHandler {
	return &CandidateHandler{
		ipoRepo: ipoRepo,
		builder: builder,
		logger:  log,
	}
}

// List scores the current offering pool and returns the eligible
// candidates. No allocation happens here.
// GET /api/candidates?hold_date=2026-09-30
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	holdDate := time.Now().Add(defaultHoldHorizon)
	if v := r.URL.Query().Get("hold_date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid hold_date (expected YYYY-MM-DD)")
			return
		}
		holdDate = parsed
	}

	offerings, err := h.ipoRepo.ListOfferings(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load offerings")
		respondError(w, http.StatusInternalServerError, "Failed to load offerings")
		return
	}
	analyses, err := h.ipoRepo.ListAnalyses(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load analyses")
		respondError(w, http.StatusInternalServerError, "Failed to load analyses")
		return
	}

	cands := h.builder.Build(ctx, offerings, analyses, holdDate)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"hold_date":  holdDate.Format("2006-01-02"),
		"count":      len(cands),
		"candidates": cands,
	})
}
