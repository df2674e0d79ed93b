package recommend

import (
	"context"
	"fmt"

	"github.com/SHuzaifah/Clarity/internal/models"
)

// historyWindow bounds how much watch history feeds the profile. Older
// interactions stop influencing recommendations once they fall out of it.
const historyWindow = 50

// Profile captures a user's implicit channel affinities, derived fresh on
// every request from the watch-history and collection stores.
type Profile struct {
	WatchedChannels map[string]int
	SavedChannels   map[string]int
	RecentlyWatched map[string]struct{}
}

// ChannelScore weights saves twice as heavily as watches: putting a video in
// a collection is a stronger signal than having played it once.
func (p Profile) ChannelScore(channelID string) int {
	return p.WatchedChannels[channelID] + 2*p.SavedChannels[channelID]
}

// HasSignal reports whether the user has any watch or save history at all.
// A user without signal is in the cold-start state.
func (p Profile) HasSignal() bool {
	return len(p.WatchedChannels) > 0 || len(p.SavedChannels) > 0
}

// HistoryStore reads a user's watch history, most recent first.
type HistoryStore interface {
	ListRecent(ctx context.Context, userID string, limit int) ([]models.WatchHistoryEntry, error)
}

// CollectionStore reads a user's collections and their saved video ids.
type CollectionStore interface {
	ListCollectionIDs(ctx context.Context, userID string) ([]string, error)
	ListItemVideoIDs(ctx context.Context, collectionIDs []string) ([]string, error)
}

// ChannelResolver maps cached video ids to their channel ids. Videos not yet
// in the catalog are simply absent from the result.
type ChannelResolver interface {
	ChannelIDsByVideoIDs(ctx context.Context, videoIDs []string) (map[string]string, error)
}

// Aggregator derives preference profiles from the durable event streams.
type Aggregator struct {
	history     HistoryStore
	collections CollectionStore
	videos      ChannelResolver
}

// NewAggregator constructs a preference aggregator over the provided stores.
func NewAggregator(history HistoryStore, collections CollectionStore, videos ChannelResolver) *Aggregator {
	return &Aggregator{history: history, collections: collections, videos: videos}
}

// BuildProfile computes the user's current preference profile. It is a pure
// function of store contents at read time; nothing is persisted.
func (a *Aggregator) BuildProfile(ctx context.Context, userID string) (Profile, error) {
	profile := Profile{
		WatchedChannels: make(map[string]int),
		SavedChannels:   make(map[string]int),
		RecentlyWatched: make(map[string]struct{}),
	}

	history, err := a.history.ListRecent(ctx, userID, historyWindow)
	if err != nil {
		return Profile{}, fmt.Errorf("list watch history: %w", err)
	}
	for _, entry := range history {
		if entry.ChannelID != "" {
			profile.WatchedChannels[entry.ChannelID]++
		}
		profile.RecentlyWatched[entry.VideoID] = struct{}{}
	}

	collectionIDs, err := a.collections.ListCollectionIDs(ctx, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("list collections: %w", err)
	}
	if len(collectionIDs) == 0 {
		return profile, nil
	}

	savedVideoIDs, err := a.collections.ListItemVideoIDs(ctx, collectionIDs)
	if err != nil {
		return Profile{}, fmt.Errorf("list collection items: %w", err)
	}
	if len(savedVideoIDs) == 0 {
		return profile, nil
	}

	// Saved videos that the catalog has not cached yet cannot contribute a
	// channel signal and are skipped.
	channelsByVideo, err := a.videos.ChannelIDsByVideoIDs(ctx, savedVideoIDs)
	if err != nil {
		return Profile{}, fmt.Errorf("resolve saved video channels: %w", err)
	}
	for _, channelID := range channelsByVideo {
		if channelID != "" {
			profile.SavedChannels[channelID]++
		}
	}

	return profile, nil
}
