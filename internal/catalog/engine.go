package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SHuzaifah/Clarity/internal/logging"
	"github.com/SHuzaifah/Clarity/internal/models"
	"github.com/SHuzaifah/Clarity/internal/youtube"
)

// Page budgets bound the worst-case external-call cost of a single request.
// A channel with nothing cached gets a deep backfill; a channel that already
// has rows only needs the newest page, since uploads arrive newest first.
const (
	initialSyncPages = 10
	updateSyncPages  = 1
)

// VideoStore is the slice of the catalog store the sync engine needs.
type VideoStore interface {
	CountByChannel(ctx context.Context, channelID string) (int, error)
	UpsertBatch(ctx context.Context, videos []models.Video) error
	ListByChannel(ctx context.Context, channelID string) ([]models.Video, error)
}

// Engine keeps the local video catalog synchronized with the external source
// and serves channel listings from the store.
type Engine struct {
	source youtube.Source
	store  VideoStore
}

// NewEngine constructs a sync engine over the provided source and store.
func NewEngine(source youtube.Source, store VideoStore) *Engine {
	return &Engine{source: source, store: store}
}

// SyncChannelVideos resolves the identifier, refreshes the cached catalog for
// that channel within a bounded page budget, and returns the store's current
// view newest first. External-source failures degrade to serving whatever is
// already cached; an unresolvable identifier yields an empty list.
func (e *Engine) SyncChannelVideos(ctx context.Context, identifier string) ([]models.Video, error) {
	ctx, span := logging.StartSpan(ctx, "catalog.sync_channel")
	defer span.End()

	logger := logging.FromContext(ctx)

	channelID, ok := e.resolveIdentifier(ctx, identifier)
	if !ok {
		return []models.Video{}, nil
	}

	count, err := e.store.CountByChannel(ctx, channelID)
	if err != nil {
		// Without a reliable count, assume the channel is already populated
		// so the request stays within the incremental budget.
		logger.Error("count cached videos", "channelId", channelID, "error", err)
		count = 1
	}

	maxPages := updateSyncPages
	if count == 0 {
		maxPages = initialSyncPages
	}

	if err := e.sync(ctx, channelID, maxPages); err != nil {
		if errors.Is(err, youtube.ErrMissingAPIKey) {
			logger.Info("sync skipped: no api key, serving cache", "channelId", channelID)
		} else {
			logger.Warn("sync skipped", "channelId", channelID, "error", err)
		}
	}

	videos, err := e.store.ListByChannel(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("list cached videos for %s: %w", channelID, err)
	}
	return videos, nil
}

// resolveIdentifier maps a handle to a stable channel id. Identifiers already
// in canonical "UC…" shape pass through untouched.
func (e *Engine) resolveIdentifier(ctx context.Context, identifier string) (string, bool) {
	if strings.HasPrefix(identifier, "UC") {
		return identifier, true
	}

	logger := logging.FromContext(ctx)

	channelID, err := e.source.ResolveHandle(ctx, identifier)
	if err != nil {
		logger.Warn("could not resolve channel identifier", "identifier", identifier, "error", err)
		return "", false
	}
	return channelID, true
}

func (e *Engine) sync(ctx context.Context, channelID string, maxPages int) error {
	snippet, err := e.source.ChannelSnippet(ctx, channelID)
	if err != nil {
		return fmt.Errorf("fetch channel snippet: %w", err)
	}
	if snippet.UploadsPlaylist == "" {
		return fmt.Errorf("channel %s has no uploads playlist", channelID)
	}

	fetched, err := e.fetchUploads(ctx, channelID, snippet, maxPages)
	if err != nil {
		return err
	}
	if len(fetched) == 0 {
		return nil
	}

	e.enrichDurations(ctx, fetched)

	if err := e.store.UpsertBatch(ctx, fetched); err != nil {
		// Failed writes indicate a cache-consistency problem but must not
		// stop the request from serving the pre-sync cache state.
		logging.FromContext(ctx).Error("upsert synced videos", "channelId", channelID, "count", len(fetched), "error", err)
	}
	return nil
}

func (e *Engine) fetchUploads(ctx context.Context, channelID string, snippet youtube.ChannelSnippet, maxPages int) ([]models.Video, error) {
	var fetched []models.Video

	pageToken := ""
	for page := 0; page < maxPages; page++ {
		result, err := e.source.PlaylistItems(ctx, snippet.UploadsPlaylist, pageToken)
		if err != nil {
			return nil, fmt.Errorf("fetch uploads page %d: %w", page+1, err)
		}
		if len(result.Items) == 0 {
			break
		}

		for _, item := range result.Items {
			if item.VideoID == "" {
				continue
			}
			video := models.Video{
				ID:                  item.VideoID,
				ChannelID:           item.ChannelID,
				ChannelTitle:        item.ChannelTitle,
				ChannelThumbnailURL: snippet.ThumbnailURL,
				Title:               item.Title,
				ThumbnailURL:        item.ThumbnailURL,
				PublishedAt:         item.PublishedAt,
			}
			if video.ChannelID == "" {
				video.ChannelID = channelID
			}
			if video.ChannelTitle == "" {
				video.ChannelTitle = snippet.Title
			}
			fetched = append(fetched, video)
		}

		if result.NextPageToken == "" {
			break
		}
		pageToken = result.NextPageToken
	}

	return fetched, nil
}

// enrichDurations merges duration metadata onto the fetched batch in chunks of
// the source's maximum batch size. A failed chunk is logged and skipped; the
// affected rows are upserted without a duration.
func (e *Engine) enrichDurations(ctx context.Context, videos []models.Video) {
	byID := make(map[string]int, len(videos))
	ids := make([]string, 0, len(videos))
	for i, v := range videos {
		byID[v.ID] = i
		ids = append(ids, v.ID)
	}

	for start := 0; start < len(ids); start += youtube.MaxBatchSize {
		end := start + youtube.MaxBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		durations, err := e.source.VideoDurations(ctx, ids[start:end])
		if err != nil {
			logging.FromContext(ctx).Warn("duration enrichment failed for batch", "from", start, "to", end, "error", err)
			continue
		}
		for id, duration := range durations {
			if i, ok := byID[id]; ok {
				videos[i].Duration = duration
			}
		}
	}
}
