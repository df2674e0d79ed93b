package models

import "time"

// Video is the locally cached mirror of one upload from a whitelisted channel.
// Rows are created and updated exclusively by the catalog sync engine; user
// facing code only ever reads them.
type Video struct {
	ID                  string    `json:"id"`
	ChannelID           string    `json:"channelId"`
	ChannelTitle        string    `json:"channelTitle"`
	ChannelThumbnailURL string    `json:"channelThumbnail,omitempty"`
	Title               string    `json:"title"`
	ThumbnailURL        string    `json:"thumbnail"`
	PublishedAt         time.Time `json:"publishedAt"`
	Duration            string    `json:"duration,omitempty"`
	Description         string    `json:"description,omitempty"`
}

// WatchHistoryEntry records one user's interaction with one video. The pair
// (UserID, VideoID) is unique; WatchedAt moves forward on every interaction.
// Entries are written by the playback layer and only read here.
type WatchHistoryEntry struct {
	UserID        string
	VideoID       string
	ChannelID     string
	Title         string
	ThumbnailURL  string
	WatchedAt     time.Time
	Completed     bool
	LastPosition  float64
	TotalDuration float64
}

// Collection is a user-named group of saved videos.
type Collection struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
}

// CollectionItem associates a saved video with a collection.
type CollectionItem struct {
	CollectionID string
	VideoID      string
	AddedAt      time.Time
}
