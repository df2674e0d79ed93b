package youtube

import (
	"context"
	"sync"
	"time"
)

type handleEntry struct {
	channelID string
	expires   time.Time
}

type snippetEntry struct {
	snippet ChannelSnippet
	expires time.Time
}

// CachingSource wraps another Source with TTL-based in-memory caches for the
// two lookups worth shielding from quota: handle resolution and channel
// snippets. Playlist pages and duration batches always go to the source; the
// catalog store is the durable cache for those.
type CachingSource struct {
	base       Source
	handleTTL  time.Duration
	snippetTTL time.Duration

	mu       sync.RWMutex
	handles  map[string]handleEntry
	snippets map[string]snippetEntry
}

// NewCachingSource returns a Source caching handle resolutions for handleTTL
// and channel snippets for snippetTTL.
func NewCachingSource(base Source, handleTTL, snippetTTL time.Duration) *CachingSource {
	if handleTTL <= 0 {
		handleTTL = 24 * time.Hour
	}
	if snippetTTL <= 0 {
		snippetTTL = time.Hour
	}
	return &CachingSource{
		base:       base,
		handleTTL:  handleTTL,
		snippetTTL: snippetTTL,
		handles:    make(map[string]handleEntry),
		snippets:   make(map[string]snippetEntry),
	}
}

// ResolveHandle returns a cached channel id when fresh, otherwise it delegates
// to the underlying source and stores the result.
func (c *CachingSource) ResolveHandle(ctx context.Context, handle string) (string, error) {
	if c == nil || c.base == nil {
		return "", ErrSourceUnavailable
	}

	now := time.Now()

	c.mu.RLock()
	entry, ok := c.handles[handle]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.channelID, nil
	}

	channelID, err := c.base.ResolveHandle(ctx, handle)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.handles[handle] = handleEntry{channelID: channelID, expires: now.Add(c.handleTTL)}
	c.mu.Unlock()

	return channelID, nil
}

// ChannelSnippet returns cached channel metadata when fresh, otherwise it
// delegates to the underlying source and stores the result.
func (c *CachingSource) ChannelSnippet(ctx context.Context, channelID string) (ChannelSnippet, error) {
	if c == nil || c.base == nil {
		return ChannelSnippet{}, ErrSourceUnavailable
	}

	now := time.Now()

	c.mu.RLock()
	entry, ok := c.snippets[channelID]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.snippet, nil
	}

	snippet, err := c.base.ChannelSnippet(ctx, channelID)
	if err != nil {
		return ChannelSnippet{}, err
	}

	c.mu.Lock()
	c.snippets[channelID] = snippetEntry{snippet: snippet, expires: now.Add(c.snippetTTL)}
	c.mu.Unlock()

	return snippet, nil
}

// PlaylistItems delegates to the underlying source.
func (c *CachingSource) PlaylistItems(ctx context.Context, playlistID, pageToken string) (PlaylistPage, error) {
	if c == nil || c.base == nil {
		return PlaylistPage{}, ErrSourceUnavailable
	}
	return c.base.PlaylistItems(ctx, playlistID, pageToken)
}

// VideoDurations delegates to the underlying source.
func (c *CachingSource) VideoDurations(ctx context.Context, videoIDs []string) (map[string]string, error) {
	if c == nil || c.base == nil {
		return nil, ErrSourceUnavailable
	}
	return c.base.VideoDurations(ctx, videoIDs)
}

var _ Source = (*CachingSource)(nil)
