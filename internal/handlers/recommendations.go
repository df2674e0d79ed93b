package handlers

import (
	"net/http"
	"strings"

	"github.com/SHuzaifah/Clarity/internal/logging"
	"github.com/SHuzaifah/Clarity/internal/models"
)

// RecommendationHandler serves the personalized video feed.
type RecommendationHandler struct {
	Recommendations Recommender
	Limiter         RateLimiter
}

type recommendationsResponse struct {
	Videos []models.Video `json:"videos"`
}

// Get handles GET /api/v1/recommendations.
func (h RecommendationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "recommendations") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		return
	}

	if h.Recommendations == nil {
		logger.Error("recommendation dependency unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "recommendation service unavailable"})
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "user id is required"})
		return
	}

	videos, err := h.Recommendations.Recommendations(ctx, userID)
	if err != nil {
		logger.Error("fetch recommendations", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch recommendations"})
		return
	}
	if videos == nil {
		videos = []models.Video{}
	}

	// Feeds are cheap to recompute but users refresh aggressively.
	w.Header().Set("Cache-Control", "private, max-age=60, stale-while-revalidate=120")

	respondJSON(ctx, w, http.StatusOK, recommendationsResponse{Videos: videos})
}
