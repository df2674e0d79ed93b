package handlers

import (
	"net/http"

	"github.com/SHuzaifah/Clarity/internal/channels"
)

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	directory := ChannelHandler{Whitelist: deps.Whitelist}
	videos := VideoHandler{Catalog: deps.Catalog, HasAPIKey: deps.HasAPIKey}
	recommendations := RecommendationHandler{Recommendations: deps.Recommendations, Limiter: deps.RecommendLimiter}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/api/v1/channels", directory.List)
	mux.HandleFunc("/api/v1/channels/videos", videos.ChannelVideos)
	mux.HandleFunc("/api/v1/recommendations", recommendations.Get)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Recommendations  Recommender
	Catalog          ChannelVideoProvider
	Whitelist        []channels.Channel
	RecommendLimiter RateLimiter
	HasAPIKey        bool
}
