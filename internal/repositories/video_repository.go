package repositories

import (
	"context"

	"github.com/SHuzaifah/Clarity/internal/models"
)

// VideoRepository exposes data access for the cached video catalog.
type VideoRepository interface {
	UpsertBatch(ctx context.Context, videos []models.Video) error
	ListByChannel(ctx context.Context, channelID string) ([]models.Video, error)
	CountByChannel(ctx context.Context, channelID string) (int, error)
	ChannelIDsByVideoIDs(ctx context.Context, videoIDs []string) (map[string]string, error)
}

// HistoryRepository reads the watch-history event stream.
type HistoryRepository interface {
	ListRecent(ctx context.Context, userID string, limit int) ([]models.WatchHistoryEntry, error)
}

// CollectionRepository reads collection membership.
type CollectionRepository interface {
	ListCollectionIDs(ctx context.Context, userID string) ([]string, error)
	ListItemVideoIDs(ctx context.Context, collectionIDs []string) ([]string, error)
}
