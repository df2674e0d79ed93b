package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/SHuzaifah/Clarity/internal/channels"
	"github.com/SHuzaifah/Clarity/internal/logging"
	"github.com/SHuzaifah/Clarity/internal/models"
)

const (
	// Warm-start channel selection: roughly 70% exploitation of the top
	// scoring channels, at most two discovery channels from the long tail.
	topChannelCount = 5
	preferredShare  = 0.7
	discoveryShare  = 0.3
	maxDiscovery    = 2

	// Cold-start users get a fixed discovery set from the head of the
	// whitelist, in configured order.
	coldStartChannels = 6

	maxRecommendations = 20

	// Normalization constant for the recency bonus. Kept exactly as is:
	// changing it reorders results.
	recencyDivisor = 1_000_000_000
)

// ChannelVideoProvider serves a channel's current cached videos, syncing on
// demand. Implemented by the catalog engine.
type ChannelVideoProvider interface {
	SyncChannelVideos(ctx context.Context, identifier string) ([]models.Video, error)
}

// ProfileBuilder derives a user's preference profile.
type ProfileBuilder interface {
	BuildProfile(ctx context.Context, userID string) (Profile, error)
}

// Ranker assembles the personalized feed: channel selection, concurrent
// catalog fetch, exclusion of already-watched videos, scoring and ordering.
type Ranker struct {
	whitelist []channels.Channel
	profiles  ProfileBuilder
	catalog   ChannelVideoProvider
}

// NewRanker constructs a ranker over the channel whitelist.
func NewRanker(whitelist []channels.Channel, profiles ProfileBuilder, catalog ChannelVideoProvider) *Ranker {
	return &Ranker{whitelist: whitelist, profiles: profiles, catalog: catalog}
}

// Recommendations returns up to 20 videos for the user, best scored first.
// Per-channel fetch failures degrade that channel to an empty contribution;
// an empty overall result is valid, not an error.
func (r *Ranker) Recommendations(ctx context.Context, userID string) ([]models.Video, error) {
	ctx, span := logging.StartSpan(ctx, "recommend.rank")
	defer span.End()

	profile, err := r.profiles.BuildProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("build preference profile: %w", err)
	}

	selected := r.selectChannels(profile)
	videos := r.fetchChannelVideos(ctx, selected)

	scored := scoreVideos(videos, profile)

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].video.ID < scored[j].video.ID
	})

	if len(scored) > maxRecommendations {
		scored = scored[:maxRecommendations]
	}

	result := make([]models.Video, len(scored))
	for i, s := range scored {
		result[i] = s.video
	}
	return result, nil
}

// selectChannels applies the channel-selection policy. Score ties preserve
// whitelist order, which keeps the selection deterministic.
func (r *Ranker) selectChannels(profile Profile) []channels.Channel {
	if !profile.HasSignal() {
		n := coldStartChannels
		if n > len(r.whitelist) {
			n = len(r.whitelist)
		}
		return r.whitelist[:n]
	}

	ranked := make([]channels.Channel, len(r.whitelist))
	copy(ranked, r.whitelist)
	sort.SliceStable(ranked, func(i, j int) bool {
		return profile.ChannelScore(ranked[i].ID) > profile.ChannelScore(ranked[j].ID)
	})

	split := topChannelCount
	if split > len(ranked) {
		split = len(ranked)
	}
	top, rest := ranked[:split], ranked[split:]

	numPreferred := int(math.Ceil(float64(len(top)) * preferredShare))
	numDiscovery := int(math.Floor(float64(len(rest)) * discoveryShare))
	if numDiscovery > maxDiscovery {
		numDiscovery = maxDiscovery
	}

	selected := make([]channels.Channel, 0, numPreferred+numDiscovery)
	selected = append(selected, top[:numPreferred]...)
	selected = append(selected, rest[:numDiscovery]...)
	return selected
}

// fetchChannelVideos syncs all selected channels concurrently. The channels
// touch disjoint cache rows, so the fan-out needs no coordination beyond the
// joint wait; a failed channel contributes nothing.
func (r *Ranker) fetchChannelVideos(ctx context.Context, selected []channels.Channel) []models.Video {
	results := make([][]models.Video, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	for i, channel := range selected {
		i, channel := i, channel
		g.Go(func() error {
			videos, err := r.catalog.SyncChannelVideos(gctx, channel.Identifier())
			if err != nil {
				logging.FromContext(ctx).Warn("channel fetch failed", "channel", channel.Name, "error", err)
				return nil
			}
			results[i] = videos
			return nil
		})
	}
	_ = g.Wait()

	var flat []models.Video
	seen := make(map[string]struct{})
	for _, chunk := range results {
		for _, video := range chunk {
			if _, ok := seen[video.ID]; ok {
				continue
			}
			seen[video.ID] = struct{}{}
			flat = append(flat, video)
		}
	}
	return flat
}

type scoredVideo struct {
	video models.Video
	score float64
}

// scoreVideos drops already-watched videos and scores the rest. Channel
// affinity is weighted ahead of the additive recency bonus so that a fresh
// upload from an unknown channel cannot outrank a preferred one.
func scoreVideos(videos []models.Video, profile Profile) []scoredVideo {
	scored := make([]scoredVideo, 0, len(videos))
	for _, video := range videos {
		if _, watched := profile.RecentlyWatched[video.ID]; watched {
			continue
		}
		recency := float64(video.PublishedAt.UnixMilli()) / recencyDivisor
		score := float64(profile.ChannelScore(video.ChannelID)*2) + recency
		scored = append(scored, scoredVideo{video: video, score: score})
	}
	return scored
}
