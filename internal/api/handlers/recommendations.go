package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/nikhilsahni/ipofolio/internal/recommend"
	"github.com/nikhilsahni/ipofolio/pkg/logger"
)

// RecommendationHandler serves stored recommendation runs
type RecommendationHandler struct {
	recRepo *recommend.Repository
	logger  *logger.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(recRepo *recommend.Repository, log *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recRepo: recRepo,
		logger:  log,
	}
}

// GetLatest returns the most recent recommendation
// GET /api/recommendations/latest
func (h *RecommendationHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rec, err := h.recRepo.Latest(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get latest recommendation")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve recommendation")
		return
	}
	if rec == nil {
		respondError(w, http.StatusNotFound, "No recommendation yet")
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// ListRecent returns recent recommendations, newest first
// GET /api/recommendations?limit=10
func (h *RecommendationHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > 100 {
			respondError(w, http.StatusBadRequest, "Invalid limit (must be 1-100)")
			return
		}
		limit = parsed
	}

	recs, err := h.recRepo.ListRecent(ctx, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list recommendations")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve recommendations")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":           len(recs),
		"recommendations": recs,
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
