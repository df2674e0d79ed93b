package repositories

import (
	"context"
	"fmt"

	"github.com/SHuzaifah/Clarity/internal/catalog"
	"github.com/SHuzaifah/Clarity/internal/db"
	"github.com/SHuzaifah/Clarity/internal/models"
	"github.com/SHuzaifah/Clarity/internal/recommend"
	"github.com/jackc/pgx/v5"
)

// PostgresVideoRepository provides PostgreSQL-backed persistence for the
// cached video catalog.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

const upsertVideoSQL = `
        INSERT INTO videos (id, channel_id, channel_title, channel_thumbnail_url, title, thumbnail_url, published_at, duration, description)
        VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''))
        ON CONFLICT (id) DO UPDATE SET
            channel_id = EXCLUDED.channel_id,
            channel_title = EXCLUDED.channel_title,
            channel_thumbnail_url = EXCLUDED.channel_thumbnail_url,
            title = EXCLUDED.title,
            thumbnail_url = EXCLUDED.thumbnail_url,
            published_at = EXCLUDED.published_at,
            duration = COALESCE(EXCLUDED.duration, videos.duration),
            description = COALESCE(EXCLUDED.description, videos.description)
    `

// UpsertBatch inserts or refreshes catalog rows keyed by video id. Re-upserting
// identical payloads is a no-op in effect, which keeps concurrent syncs of the
// same channel safe.
func (r *PostgresVideoRepository) UpsertBatch(ctx context.Context, videos []models.Video) error {
	if len(videos) == 0 {
		return nil
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	batch := &pgx.Batch{}
	for _, v := range videos {
		batch.Queue(upsertVideoSQL,
			v.ID, v.ChannelID, v.ChannelTitle, v.ChannelThumbnailURL,
			v.Title, v.ThumbnailURL, v.PublishedAt, v.Duration, v.Description)
	}

	results := conn.SendBatch(ctx, batch)
	defer results.Close()

	for i := range videos {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert video %s: %w", videos[i].ID, err)
		}
	}

	return nil
}

// ListByChannel returns a channel's cached videos, newest first.
func (r *PostgresVideoRepository) ListByChannel(ctx context.Context, channelID string) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, channel_id, channel_title, COALESCE(channel_thumbnail_url, ''), title, thumbnail_url, published_at, COALESCE(duration, ''), COALESCE(description, '')
        FROM videos
        WHERE channel_id = $1
        ORDER BY published_at DESC
    `, channelID)
	if err != nil {
		return nil, fmt.Errorf("query channel videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(&v.ID, &v.ChannelID, &v.ChannelTitle, &v.ChannelThumbnailURL, &v.Title, &v.ThumbnailURL, &v.PublishedAt, &v.Duration, &v.Description); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channel videos: %w", err)
	}

	return videos, nil
}

// CountByChannel reports how many videos are cached for the channel.
func (r *PostgresVideoRepository) CountByChannel(ctx context.Context, channelID string) (int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM videos WHERE channel_id = $1`, channelID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count channel videos: %w", err)
	}

	return count, nil
}

// ChannelIDsByVideoIDs maps cached video ids to their channel ids. Unknown
// ids are simply absent from the result.
func (r *PostgresVideoRepository) ChannelIDsByVideoIDs(ctx context.Context, videoIDs []string) (map[string]string, error) {
	result := make(map[string]string, len(videoIDs))
	if len(videoIDs) == 0 {
		return result, nil
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `SELECT id, channel_id FROM videos WHERE id = ANY($1)`, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("query video channels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, channelID string
		if err := rows.Scan(&id, &channelID); err != nil {
			return nil, fmt.Errorf("scan video channel: %w", err)
		}
		result[id] = channelID
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video channels: %w", err)
	}

	return result, nil
}

// PostgresHistoryRepository provides read access to watch history.
type PostgresHistoryRepository struct {
	pool db.Pool
}

// NewPostgresHistoryRepository constructs a history repository backed by PostgreSQL.
func NewPostgresHistoryRepository(pool db.Pool) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{pool: pool}
}

// ListRecent returns the user's most recent watch-history rows, newest first.
func (r *PostgresHistoryRepository) ListRecent(ctx context.Context, userID string, limit int) ([]models.WatchHistoryEntry, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT user_id, video_id, COALESCE(channel_id, ''), COALESCE(title, ''), COALESCE(thumbnail_url, ''), watched_at, completed, last_position, total_duration
        FROM watch_history
        WHERE user_id = $1
        ORDER BY watched_at DESC
        LIMIT $2
    `, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	var entries []models.WatchHistoryEntry
	for rows.Next() {
		var e models.WatchHistoryEntry
		if err := rows.Scan(&e.UserID, &e.VideoID, &e.ChannelID, &e.Title, &e.ThumbnailURL, &e.WatchedAt, &e.Completed, &e.LastPosition, &e.TotalDuration); err != nil {
			return nil, fmt.Errorf("scan watch history entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watch history: %w", err)
	}

	return entries, nil
}

// PostgresCollectionRepository provides read access to collection membership.
type PostgresCollectionRepository struct {
	pool db.Pool
}

// NewPostgresCollectionRepository constructs a collection repository backed by PostgreSQL.
func NewPostgresCollectionRepository(pool db.Pool) *PostgresCollectionRepository {
	return &PostgresCollectionRepository{pool: pool}
}

// ListCollectionIDs returns the ids of the user's collections.
func (r *PostgresCollectionRepository) ListCollectionIDs(ctx context.Context, userID string) ([]string, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `SELECT id FROM collections WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan collection id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}

	return ids, nil
}

// ListItemVideoIDs returns the video ids saved across the given collections.
func (r *PostgresCollectionRepository) ListItemVideoIDs(ctx context.Context, collectionIDs []string) ([]string, error) {
	if len(collectionIDs) == 0 {
		return nil, nil
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `SELECT video_id FROM collection_items WHERE collection_id = ANY($1)`, collectionIDs)
	if err != nil {
		return nil, fmt.Errorf("query collection items: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan collection item: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collection items: %w", err)
	}

	return ids, nil
}

var _ VideoRepository = (*PostgresVideoRepository)(nil)
var _ HistoryRepository = (*PostgresHistoryRepository)(nil)
var _ CollectionRepository = (*PostgresCollectionRepository)(nil)
var _ catalog.VideoStore = (*PostgresVideoRepository)(nil)
var _ recommend.ChannelResolver = (*PostgresVideoRepository)(nil)
var _ recommend.HistoryStore = (*PostgresHistoryRepository)(nil)
var _ recommend.CollectionStore = (*PostgresCollectionRepository)(nil)
