package handlers

import (
	"context"

	"github.com/SHuzaifah/Clarity/internal/models"
)

// Recommender produces a user's personalized video feed.
type Recommender interface {
	Recommendations(ctx context.Context, userID string) ([]models.Video, error)
}

// ChannelVideoProvider serves a channel's cached videos, syncing on demand.
type ChannelVideoProvider interface {
	SyncChannelVideos(ctx context.Context, identifier string) ([]models.Video, error)
}
