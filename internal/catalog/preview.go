package catalog

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Deezer CDN links are signed and carry their expiry inside the hdnea
// query parameter, e.g. hdnea=exp=1735689600~acl=...
var hdneaExp = regexp.MustCompile(`hdnea=.*?exp=(\d+)`)

// previewExpiryBuffer treats a URL as stale slightly before its real
// expiry so a clip does not die mid-round.
const previewExpiryBuffer = 5 * time.Minute

// IsPreviewExpired reports whether a preview URL's signed expiry has
// passed or is about to. URLs without an embedded expiry never go stale.
func IsPreviewExpired(previewURL string, now time.Time) bool {
	if previewURL == "" {
		return false
	}
	if !strings.Contains(previewURL, "dzcdn.net") {
		return false
	}
	m := hdneaExp.FindStringSubmatch(previewURL)
	if m == nil {
		return false
	}
	exp, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return false
	}
	return !now.Before(time.Unix(exp, 0).Add(-previewExpiryBuffer))
}

// FreshPreviewURL returns a playable preview URL for the track. When the
// stored URL is still fresh it is returned unchanged; otherwise the track
// is refetched from the source. If the refetch fails, the stale URL is
// returned so playback can still be attempted.
func FreshPreviewURL(ctx context.Context, source TrackSource, catalogID, storedURL string, now time.Time) string {
	if storedURL == "" || !IsPreviewExpired(storedURL, now) {
		return storedURL
	}
	if source == nil {
		return storedURL
	}
	track, err := source.GetTrack(ctx, catalogID)
	if err != nil {
		log.Printf("preview refresh failed track=%s err=%v", catalogID, err)
		return storedURL
	}
	if track.PreviewURL == nil || *track.PreviewURL == "" {
		return storedURL
	}
	return *track.PreviewURL
}
