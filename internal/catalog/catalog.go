// Package catalog talks to external music providers and normalizes their
// tracks into a single shape the game can store and play.
package catalog

import "context"

// Track is a provider-neutral song description. PreviewURL may be nil when
// the provider has no 30-second clip for the track.
type Track struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Album      string  `json:"album"`
	PreviewURL *string `json:"previewUrl"`
	ImageURL   string  `json:"imageUrl"`
	DurationMS int     `json:"durationMs"`
}

// TrackSource is implemented by each music provider.
type TrackSource interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]Track, error)
	GetTrack(ctx context.Context, id string) (*Track, error)
}
