package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SHuzaifah/Clarity/internal/logging"
	"github.com/SHuzaifah/Clarity/internal/models"
)

// VideoHandler serves a whitelisted channel's cached videos, syncing the
// catalog on demand.
type VideoHandler struct {
	Catalog   ChannelVideoProvider
	HasAPIKey bool
}

type channelInfo struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

type channelVideo struct {
	ChannelID    string    `json:"channelId"`
	ChannelTitle string    `json:"channelTitle"`
	VideoID      string    `json:"videoId"`
	VideoTitle   string    `json:"videoTitle"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	PublishedAt  time.Time `json:"publishedAt"`
	Duration     string    `json:"duration,omitempty"`
}

type channelVideosResponse struct {
	Channel channelInfo    `json:"channel"`
	Videos  []channelVideo `json:"videos"`
}

// ChannelVideos handles GET /api/v1/channels/videos.
func (h VideoHandler) ChannelVideos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Catalog == nil {
		logger.Error("catalog dependency unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "catalog service unavailable"})
		return
	}

	if !h.HasAPIKey {
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "youtube api key is not configured"})
		return
	}

	channelID := strings.TrimSpace(r.URL.Query().Get("channelId"))
	handle := strings.TrimSpace(r.URL.Query().Get("handle"))
	if channelID == "" && handle == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "missing channelId or handle parameter"})
		return
	}

	identifier := channelID
	if identifier == "" {
		identifier = handle
	}

	videos, err := h.Catalog.SyncChannelVideos(ctx, identifier)
	if err != nil {
		logger.Error("fetch channel videos", "identifier", identifier, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if len(videos) == 0 {
		respondJSON(ctx, w, http.StatusOK, channelVideosResponse{
			Channel: channelInfo{Title: identifier},
			Videos:  []channelVideo{},
		})
		return
	}

	payload := channelVideosResponse{
		Channel: channelFromVideo(videos[0]),
		Videos:  make([]channelVideo, 0, len(videos)),
	}
	for _, v := range videos {
		payload.Videos = append(payload.Videos, channelVideo{
			ChannelID:    v.ChannelID,
			ChannelTitle: v.ChannelTitle,
			VideoID:      v.ID,
			VideoTitle:   v.Title,
			ThumbnailURL: v.ThumbnailURL,
			PublishedAt:  v.PublishedAt,
			Duration:     v.Duration,
		})
	}

	respondJSON(ctx, w, http.StatusOK, payload)
}

// channelFromVideo derives the channel header from the first cached row; the
// sync engine guarantees every row belongs to the requested channel.
func channelFromVideo(v models.Video) channelInfo {
	return channelInfo{
		ID:    v.ChannelID,
		Title: v.ChannelTitle,
		URL:   fmt.Sprintf("https://www.youtube.com/channel/%s", v.ChannelID),
	}
}
