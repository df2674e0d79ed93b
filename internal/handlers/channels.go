package handlers

import (
	"net/http"

	"github.com/SHuzaifah/Clarity/internal/channels"
)

// ChannelHandler lists the configured channel whitelist for the dashboard
// directory.
type ChannelHandler struct {
	Whitelist []channels.Channel
}

type channelListResponse struct {
	Channels []channels.Channel `json:"channels"`
}

// List handles GET /api/v1/channels.
func (h ChannelHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	list := h.Whitelist
	if list == nil {
		list = []channels.Channel{}
	}

	respondJSON(r.Context(), w, http.StatusOK, channelListResponse{Channels: list})
}
