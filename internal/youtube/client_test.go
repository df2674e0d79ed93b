package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-key", time.Second, 100, WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	return client, server
}

func TestClientMissingAPIKey(t *testing.T) {
	client := NewClient("", time.Second, 100, WithBaseURL("http://unused.invalid"))
	ctx := context.Background()

	if _, err := client.ResolveHandle(ctx, "Fireship"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := client.ChannelSnippet(ctx, "UC123"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := client.PlaylistItems(ctx, "UU123", ""); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := client.VideoDurations(ctx, []string{"v1"}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestResolveHandleAddsAtPrefix(t *testing.T) {
	var gotHandle, gotKey string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/channels" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotHandle = r.URL.Query().Get("forHandle")
		gotKey = r.URL.Query().Get("key")
		_, _ = w.Write([]byte(`{"items":[{"id":"UCfireship"}]}`))
	})

	id, err := client.ResolveHandle(context.Background(), "Fireship")
	if err != nil {
		t.Fatalf("resolve handle: %v", err)
	}
	if id != "UCfireship" {
		t.Fatalf("unexpected channel id %q", id)
	}
	if gotHandle != "@Fireship" {
		t.Fatalf("expected @-prefixed handle, got %q", gotHandle)
	}
	if gotKey != "test-key" {
		t.Fatalf("expected api key on the request, got %q", gotKey)
	}
}

func TestResolveHandleKeepsExistingPrefix(t *testing.T) {
	var gotHandle string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotHandle = r.URL.Query().Get("forHandle")
		_, _ = w.Write([]byte(`{"items":[{"id":"UC1"}]}`))
	})

	if _, err := client.ResolveHandle(context.Background(), "@Already"); err != nil {
		t.Fatalf("resolve handle: %v", err)
	}
	if gotHandle != "@Already" {
		t.Fatalf("expected handle to pass through unchanged, got %q", gotHandle)
	}
}

func TestResolveHandleNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	})

	if _, err := client.ResolveHandle(context.Background(), "nobody"); !errors.Is(err, ErrChannelNotFound) {
		t.Fatalf("expected ErrChannelNotFound, got %v", err)
	}
}

func TestChannelSnippet(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("part"); got != "contentDetails,snippet" {
			t.Errorf("unexpected part param %q", got)
		}
		if got := r.URL.Query().Get("id"); got != "UC123" {
			t.Errorf("unexpected id param %q", got)
		}
		_, _ = w.Write([]byte(`{
			"items": [{
				"id": "UC123",
				"snippet": {
					"title": "Fireship",
					"thumbnails": {"medium": {"url": "https://example.com/medium.jpg"}}
				},
				"contentDetails": {"relatedPlaylists": {"uploads": "UU123"}}
			}]
		}`))
	})

	snippet, err := client.ChannelSnippet(context.Background(), "UC123")
	if err != nil {
		t.Fatalf("channel snippet: %v", err)
	}

	if snippet.ID != "UC123" || snippet.Title != "Fireship" {
		t.Fatalf("unexpected snippet: %+v", snippet)
	}
	if snippet.UploadsPlaylist != "UU123" {
		t.Fatalf("unexpected uploads playlist %q", snippet.UploadsPlaylist)
	}
	// The default thumbnail is absent, so the medium one is used.
	if snippet.ThumbnailURL != "https://example.com/medium.jpg" {
		t.Fatalf("unexpected thumbnail %q", snippet.ThumbnailURL)
	}
}

func TestChannelSnippetNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	})

	if _, err := client.ChannelSnippet(context.Background(), "UCmissing"); !errors.Is(err, ErrChannelNotFound) {
		t.Fatalf("expected ErrChannelNotFound, got %v", err)
	}
}

func TestPlaylistItems(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("playlistId") != "UU123" {
			t.Errorf("unexpected playlistId %q", q.Get("playlistId"))
		}
		if q.Get("maxResults") != "50" {
			t.Errorf("unexpected maxResults %q", q.Get("maxResults"))
		}
		if q.Get("pageToken") != "token-1" {
			t.Errorf("unexpected pageToken %q", q.Get("pageToken"))
		}
		_, _ = w.Write([]byte(`{
			"nextPageToken": "token-2",
			"items": [
				{"snippet": {
					"publishedAt": "2024-05-01T12:00:00Z",
					"channelId": "UC123",
					"channelTitle": "Fireship",
					"title": "Go in 100 Seconds",
					"thumbnails": {"high": {"url": "https://example.com/high.jpg"}},
					"resourceId": {"videoId": "abc123"}
				}},
				{"snippet": {
					"publishedAt": "not-a-timestamp",
					"title": "Broken timestamp",
					"thumbnails": {"medium": {"url": "https://example.com/medium.jpg"}},
					"resourceId": {"videoId": "def456"}
				}}
			]
		}`))
	})

	page, err := client.PlaylistItems(context.Background(), "UU123", "token-1")
	if err != nil {
		t.Fatalf("playlist items: %v", err)
	}

	if page.NextPageToken != "token-2" {
		t.Fatalf("unexpected next page token %q", page.NextPageToken)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}

	first := page.Items[0]
	if first.VideoID != "abc123" || first.ChannelID != "UC123" || first.Title != "Go in 100 Seconds" {
		t.Fatalf("unexpected first item: %+v", first)
	}
	if first.ThumbnailURL != "https://example.com/high.jpg" {
		t.Fatalf("expected the high thumbnail, got %q", first.ThumbnailURL)
	}
	if want := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC); !first.PublishedAt.Equal(want) {
		t.Fatalf("unexpected published time %v", first.PublishedAt)
	}

	second := page.Items[1]
	if second.ThumbnailURL != "https://example.com/medium.jpg" {
		t.Fatalf("expected medium thumbnail fallback, got %q", second.ThumbnailURL)
	}
	if !second.PublishedAt.IsZero() {
		t.Fatalf("expected zero time for an unparseable timestamp, got %v", second.PublishedAt)
	}
}

func TestVideoDurations(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "v1,v2" {
			t.Errorf("unexpected id param %q", got)
		}
		_, _ = w.Write([]byte(`{
			"items": [
				{"id": "v1", "contentDetails": {"duration": "PT5M"}},
				{"id": "v2", "contentDetails": {"duration": "PT1H2M3S"}}
			]
		}`))
	})

	durations, err := client.VideoDurations(context.Background(), []string{"v1", "v2"})
	if err != nil {
		t.Fatalf("video durations: %v", err)
	}
	if durations["v1"] != "PT5M" || durations["v2"] != "PT1H2M3S" {
		t.Fatalf("unexpected durations: %+v", durations)
	}
}

func TestVideoDurationsEmptyBatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("expected no request for an empty batch")
	})

	durations, err := client.VideoDurations(context.Background(), nil)
	if err != nil {
		t.Fatalf("video durations: %v", err)
	}
	if len(durations) != 0 {
		t.Fatalf("expected empty result, got %+v", durations)
	}
}

func TestVideoDurationsOversizedBatch(t *testing.T) {
	client := NewClient("test-key", time.Second, 100)

	ids := make([]string, MaxBatchSize+1)
	for i := range ids {
		ids[i] = "v"
	}

	if _, err := client.VideoDurations(context.Background(), ids); err == nil {
		t.Fatal("expected error for a batch above the limit")
	}
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "quotaExceeded"}}`))
	})

	_, err := client.ResolveHandle(context.Background(), "Fireship")
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "quotaExceeded") {
		t.Fatalf("expected the api message in the error, got %v", err)
	}
}
