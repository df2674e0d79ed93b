package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/SHuzaifah/Clarity/internal/channels"
	"github.com/SHuzaifah/Clarity/internal/models"
)

type catalogStub struct {
	mu        sync.Mutex
	videos    map[string][]models.Video
	errs      map[string]error
	requested []string
}

func (s *catalogStub) SyncChannelVideos(ctx context.Context, identifier string) ([]models.Video, error) {
	_ = ctx
	s.mu.Lock()
	s.requested = append(s.requested, identifier)
	s.mu.Unlock()

	if err := s.errs[identifier]; err != nil {
		return nil, err
	}
	return s.videos[identifier], nil
}

func (s *catalogStub) requestedSorted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requested))
	copy(out, s.requested)
	sort.Strings(out)
	return out
}

type profilesStub struct {
	profile Profile
	err     error
}

func (s profilesStub) BuildProfile(ctx context.Context, userID string) (Profile, error) {
	_ = ctx
	_ = userID
	return s.profile, s.err
}

func emptyProfile() Profile {
	return Profile{
		WatchedChannels: map[string]int{},
		SavedChannels:   map[string]int{},
		RecentlyWatched: map[string]struct{}{},
	}
}

func testWhitelist(n int) []channels.Channel {
	list := make([]channels.Channel, 0, n)
	for i := 1; i <= n; i++ {
		list = append(list, channels.Channel{
			Name:     fmt.Sprintf("Channel %02d", i),
			Category: channels.CategoryTech,
			ID:       fmt.Sprintf("UC%02d", i),
		})
	}
	return list
}

func videoAt(id, channelID string, published time.Time) models.Video {
	return models.Video{ID: id, ChannelID: channelID, PublishedAt: published}
}

var rankBase = time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

func TestRecommendationsColdStart(t *testing.T) {
	whitelist := testWhitelist(10)
	whitelist[0] = channels.Channel{Name: "Handle Only", Category: channels.CategoryTech, Handle: "handleonly"}

	catalog := &catalogStub{videos: map[string][]models.Video{
		"handleonly": {videoAt("v1", "UCresolved", rankBase)},
		"UC02":       {videoAt("v2", "UC02", rankBase.Add(time.Hour))},
	}}
	ranker := NewRanker(whitelist, profilesStub{profile: emptyProfile()}, catalog)

	videos, err := ranker.Recommendations(context.Background(), "new-user")
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}

	want := []string{"UC02", "UC03", "UC04", "UC05", "UC06", "handleonly"}
	if got := catalog.requestedSorted(); !equalStrings(got, want) {
		t.Fatalf("expected the first %d whitelist channels to be fetched, got %v", coldStartChannels, got)
	}
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}
}

func TestRecommendationsColdStartShortWhitelist(t *testing.T) {
	catalog := &catalogStub{}
	ranker := NewRanker(testWhitelist(3), profilesStub{profile: emptyProfile()}, catalog)

	if _, err := ranker.Recommendations(context.Background(), "new-user"); err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if got := catalog.requestedSorted(); !equalStrings(got, []string{"UC01", "UC02", "UC03"}) {
		t.Fatalf("expected every whitelist channel to be fetched, got %v", got)
	}
}

func TestRecommendationsWarmStartSelection(t *testing.T) {
	profile := emptyProfile()
	profile.WatchedChannels = map[string]int{"UC03": 3, "UC01": 1}
	profile.SavedChannels = map[string]int{"UC07": 1}

	catalog := &catalogStub{}
	ranker := NewRanker(testWhitelist(12), profilesStub{profile: profile}, catalog)

	if _, err := ranker.Recommendations(context.Background(), "u1"); err != nil {
		t.Fatalf("recommendations: %v", err)
	}

	// Preferred: the top four of the five best scoring channels. Discovery:
	// the first two past the split, in whitelist order.
	want := []string{"UC01", "UC02", "UC03", "UC05", "UC06", "UC07"}
	if got := catalog.requestedSorted(); !equalStrings(got, want) {
		t.Fatalf("unexpected channel selection: got %v want %v", got, want)
	}
}

func TestRecommendationsExcludesWatched(t *testing.T) {
	profile := emptyProfile()
	profile.WatchedChannels = map[string]int{"UC01": 1}
	profile.RecentlyWatched = map[string]struct{}{"seen": {}}

	catalog := &catalogStub{videos: map[string][]models.Video{
		"UC01": {
			videoAt("seen", "UC01", rankBase.Add(time.Hour)),
			videoAt("fresh", "UC01", rankBase),
		},
	}}
	ranker := NewRanker(testWhitelist(3), profilesStub{profile: profile}, catalog)

	videos, err := ranker.Recommendations(context.Background(), "u1")
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}

	if len(videos) != 1 || videos[0].ID != "fresh" {
		t.Fatalf("expected only the unwatched video, got %+v", videos)
	}
}

func TestRecommendationsOrdering(t *testing.T) {
	profile := emptyProfile()
	profile.WatchedChannels = map[string]int{"UC01": 2}
	profile.SavedChannels = map[string]int{"UC01": 1}

	catalog := &catalogStub{videos: map[string][]models.Video{
		"UC01": {
			videoAt("pref-old", "UC01", rankBase.Add(-48*time.Hour)),
			videoAt("pref-new", "UC01", rankBase),
		},
		"UC02": {
			videoAt("other-newest", "UC02", rankBase.Add(24*time.Hour)),
		},
	}}
	ranker := NewRanker(testWhitelist(3), profilesStub{profile: profile}, catalog)

	videos, err := ranker.Recommendations(context.Background(), "u1")
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}

	// Channel affinity outweighs the recency bonus for contemporaneous
	// uploads; within one channel newer videos rank first.
	want := []string{"pref-new", "pref-old", "other-newest"}
	got := make([]string, len(videos))
	for i, v := range videos {
		got[i] = v.ID
	}
	if !equalStrings(got, want) {
		t.Fatalf("unexpected order: got %v want %v", got, want)
	}
}

func TestRecommendationsTieBreakByID(t *testing.T) {
	catalog := &catalogStub{videos: map[string][]models.Video{
		"UC01": {
			videoAt("bbb", "UC01", rankBase),
			videoAt("aaa", "UC01", rankBase),
		},
	}}
	profile := emptyProfile()
	profile.WatchedChannels = map[string]int{"UC01": 1}
	ranker := NewRanker(testWhitelist(1), profilesStub{profile: profile}, catalog)

	videos, err := ranker.Recommendations(context.Background(), "u1")
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if len(videos) != 2 || videos[0].ID != "aaa" || videos[1].ID != "bbb" {
		t.Fatalf("expected equal scores to order by id, got %+v", videos)
	}
}

func TestRecommendationsTruncates(t *testing.T) {
	uploads := make([]models.Video, 0, 30)
	for i := 0; i < 30; i++ {
		uploads = append(uploads, videoAt(fmt.Sprintf("v%02d", i), "UC01", rankBase.Add(-time.Duration(i)*time.Hour)))
	}
	catalog := &catalogStub{videos: map[string][]models.Video{"UC01": uploads}}
	profile := emptyProfile()
	profile.WatchedChannels = map[string]int{"UC01": 1}
	ranker := NewRanker(testWhitelist(1), profilesStub{profile: profile}, catalog)

	videos, err := ranker.Recommendations(context.Background(), "u1")
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if len(videos) != maxRecommendations {
		t.Fatalf("expected %d videos, got %d", maxRecommendations, len(videos))
	}
	if videos[0].ID != "v00" || videos[19].ID != "v19" {
		t.Fatalf("expected the 20 newest uploads, got first=%s last=%s", videos[0].ID, videos[19].ID)
	}
}

func TestRecommendationsDeduplicates(t *testing.T) {
	shared := videoAt("dup", "UC01", rankBase)
	catalog := &catalogStub{videos: map[string][]models.Video{
		"UC01": {shared},
		"UC02": {shared},
	}}
	profile := emptyProfile()
	profile.WatchedChannels = map[string]int{"UC01": 1, "UC02": 1}
	ranker := NewRanker(testWhitelist(2), profilesStub{profile: profile}, catalog)

	videos, err := ranker.Recommendations(context.Background(), "u1")
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected the shared video to appear once, got %d entries", len(videos))
	}
}

func TestRecommendationsChannelFailureDegrades(t *testing.T) {
	catalog := &catalogStub{
		videos: map[string][]models.Video{"UC01": {videoAt("v1", "UC01", rankBase)}},
		errs:   map[string]error{"UC02": errors.New("sync failed")},
	}
	profile := emptyProfile()
	profile.WatchedChannels = map[string]int{"UC01": 1, "UC02": 1}
	ranker := NewRanker(testWhitelist(2), profilesStub{profile: profile}, catalog)

	videos, err := ranker.Recommendations(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected degraded result, got %v", err)
	}
	if len(videos) != 1 || videos[0].ID != "v1" {
		t.Fatalf("expected the healthy channel's video, got %+v", videos)
	}
}

func TestRecommendationsProfileError(t *testing.T) {
	ranker := NewRanker(testWhitelist(2), profilesStub{err: errors.New("stores down")}, &catalogStub{})

	if _, err := ranker.Recommendations(context.Background(), "u1"); err == nil {
		t.Fatal("expected error when the profile cannot be built")
	}
}

func TestRecommendationsEmptyResult(t *testing.T) {
	ranker := NewRanker(testWhitelist(2), profilesStub{profile: emptyProfile()}, &catalogStub{})

	videos, err := ranker.Recommendations(context.Background(), "u1")
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if videos == nil || len(videos) != 0 {
		t.Fatalf("expected an empty slice, got %+v", videos)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
