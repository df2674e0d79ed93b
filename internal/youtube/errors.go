package youtube

import "errors"

var (
	// ErrMissingAPIKey indicates no API credential is configured, so no live
	// lookup against the catalog source is possible.
	ErrMissingAPIKey = errors.New("youtube: api key not configured")
	// ErrChannelNotFound indicates the handle or id did not resolve to a channel.
	ErrChannelNotFound = errors.New("youtube: channel not found")
	// ErrSourceUnavailable indicates the source is not configured.
	ErrSourceUnavailable = errors.New("youtube: source unavailable")
)
