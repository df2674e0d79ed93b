package youtube

import (
	"context"
	"time"
)

// MaxBatchSize is the largest id batch and page size the Data API accepts.
const MaxBatchSize = 50

// ChannelSnippet carries the channel fields the sync engine needs: display
// metadata plus the canonical uploads playlist to paginate.
type ChannelSnippet struct {
	ID              string
	Title           string
	ThumbnailURL    string
	UploadsPlaylist string
}

// PlaylistVideo is one upload returned by a playlist page.
type PlaylistVideo struct {
	VideoID      string
	ChannelID    string
	ChannelTitle string
	Title        string
	ThumbnailURL string
	PublishedAt  time.Time
}

// PlaylistPage is a single page of uploads plus the token for the next one.
type PlaylistPage struct {
	Items         []PlaylistVideo
	NextPageToken string
}

// Source abstracts the external video catalog. Implementations are expected
// to be safe for concurrent use; the sync engine fans out across channels.
type Source interface {
	// ResolveHandle maps a human channel handle to a stable channel id.
	ResolveHandle(ctx context.Context, handle string) (string, error)
	// ChannelSnippet fetches display metadata and the uploads playlist id.
	ChannelSnippet(ctx context.Context, channelID string) (ChannelSnippet, error)
	// PlaylistItems fetches one page of uploads, newest first.
	PlaylistItems(ctx context.Context, playlistID, pageToken string) (PlaylistPage, error)
	// VideoDurations fetches ISO-8601 durations for up to MaxBatchSize ids.
	VideoDurations(ctx context.Context, videoIDs []string) (map[string]string, error)
}
