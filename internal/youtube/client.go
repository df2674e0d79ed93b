package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Client talks to the YouTube Data API v3 over its REST surface. Every call
// requires an API key; when none is configured calls fail fast with
// ErrMissingAPIKey so callers can degrade to cache-only mode.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at an alternate API endpoint (tests).
func WithBaseURL(base string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(base, "/") }
}

// NewClient constructs a Data API client. The per-second rate bounds outbound
// quota usage; timeout bounds each individual call.
func NewClient(apiKey string, timeout time.Duration, perSecond int, opts ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if perSecond <= 0 {
		perSecond = 10
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(perSecond), perSecond),
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type thumbnail struct {
	URL string `json:"url"`
}

type thumbnails struct {
	Default *thumbnail `json:"default"`
	Medium  *thumbnail `json:"medium"`
	High    *thumbnail `json:"high"`
}

// preferHigh picks the best available thumbnail for video cards.
func (t thumbnails) preferHigh() string {
	if t.High != nil {
		return t.High.URL
	}
	if t.Medium != nil {
		return t.Medium.URL
	}
	return ""
}

// preferDefault picks the small avatar-sized thumbnail used for channels.
func (t thumbnails) preferDefault() string {
	if t.Default != nil {
		return t.Default.URL
	}
	if t.Medium != nil {
		return t.Medium.URL
	}
	return ""
}

type channelListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet *struct {
			Title      string     `json:"title"`
			Thumbnails thumbnails `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails *struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			PublishedAt  string     `json:"publishedAt"`
			ChannelID    string     `json:"channelId"`
			ChannelTitle string     `json:"channelTitle"`
			Title        string     `json:"title"`
			Thumbnails   thumbnails `json:"thumbnails"`
			ResourceID   struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
}

type videoListResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// ResolveHandle maps "@Handle" (the @ is added when missing) to a channel id.
func (c *Client) ResolveHandle(ctx context.Context, handle string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	if !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}

	params := url.Values{}
	params.Set("part", "id")
	params.Set("forHandle", handle)

	var resp channelListResponse
	if err := c.get(ctx, "/channels", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", ErrChannelNotFound
	}
	return resp.Items[0].ID, nil
}

// ChannelSnippet fetches channel display metadata and the uploads playlist id.
func (c *Client) ChannelSnippet(ctx context.Context, channelID string) (ChannelSnippet, error) {
	if c.apiKey == "" {
		return ChannelSnippet{}, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("part", "contentDetails,snippet")
	params.Set("id", channelID)

	var resp channelListResponse
	if err := c.get(ctx, "/channels", params, &resp); err != nil {
		return ChannelSnippet{}, err
	}
	if len(resp.Items) == 0 {
		return ChannelSnippet{}, ErrChannelNotFound
	}

	item := resp.Items[0]
	snippet := ChannelSnippet{ID: item.ID}
	if item.Snippet != nil {
		snippet.Title = item.Snippet.Title
		snippet.ThumbnailURL = item.Snippet.Thumbnails.preferDefault()
	}
	if item.ContentDetails != nil {
		snippet.UploadsPlaylist = item.ContentDetails.RelatedPlaylists.Uploads
	}
	return snippet, nil
}

// PlaylistItems fetches one page of up to MaxBatchSize uploads.
func (c *Client) PlaylistItems(ctx context.Context, playlistID, pageToken string) (PlaylistPage, error) {
	if c.apiKey == "" {
		return PlaylistPage{}, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", fmt.Sprint(MaxBatchSize))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var resp playlistItemsResponse
	if err := c.get(ctx, "/playlistItems", params, &resp); err != nil {
		return PlaylistPage{}, err
	}

	page := PlaylistPage{NextPageToken: resp.NextPageToken}
	for _, item := range resp.Items {
		video := PlaylistVideo{
			VideoID:      item.Snippet.ResourceID.VideoID,
			ChannelID:    item.Snippet.ChannelID,
			ChannelTitle: item.Snippet.ChannelTitle,
			Title:        item.Snippet.Title,
			ThumbnailURL: item.Snippet.Thumbnails.preferHigh(),
		}
		if ts, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			video.PublishedAt = ts
		}
		page.Items = append(page.Items, video)
	}
	return page, nil
}

// VideoDurations fetches ISO-8601 durations for up to MaxBatchSize video ids.
func (c *Client) VideoDurations(ctx context.Context, videoIDs []string) (map[string]string, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if len(videoIDs) == 0 {
		return map[string]string{}, nil
	}
	if len(videoIDs) > MaxBatchSize {
		return nil, fmt.Errorf("youtube: duration batch of %d exceeds %d ids", len(videoIDs), MaxBatchSize)
	}

	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("id", strings.Join(videoIDs, ","))

	var resp videoListResponse
	if err := c.get(ctx, "/videos", params, &resp); err != nil {
		return nil, err
	}

	durations := make(map[string]string, len(resp.Items))
	for _, item := range resp.Items {
		durations[item.ID] = item.ContentDetails.Duration
	}
	return durations, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("youtube rate limiter: %w", err)
	}

	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build youtube request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("youtube request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return fmt.Errorf("youtube %s returned %d: %s", path, resp.StatusCode, body.Error.Message)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode youtube %s response: %w", path, err)
	}
	return nil
}

var _ Source = (*Client)(nil)
