package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSpotifySearchTracks(t *testing.T) {
	tokenCalls := 0
	accounts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		if user, pass, ok := r.BasicAuth(); !ok || user != "id" || pass != "secret" {
			t.Errorf("unexpected basic auth %q %q", user, pass)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer accounts.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q, want Bearer tok-1", got)
		}
		if got := r.URL.Query().Get("q"); got != "queen" {
			t.Errorf("q = %q, want queen", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"tracks": map[string]any{
				"items": []map[string]any{{
					"id":          "abc123",
					"name":        "Bohemian Rhapsody",
					"artists":     []map[string]any{{"name": "Queen"}},
					"album":       map[string]any{"name": "A Night at the Opera", "images": []map[string]any{{"url": "https://img/1"}}},
					"preview_url": "https://p.scdn.co/mp3-preview/abc",
					"duration_ms": 354000,
				}},
			},
		})
	}))
	defer api.Close()

	c := NewSpotifyClient("id", "secret")
	c.accountsURL = accounts.URL
	c.apiURL = api.URL

	tracks, err := c.SearchTracks(context.Background(), "queen", 10)
	if err != nil {
		t.Fatalf("SearchTracks: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}
	got := tracks[0]
	if got.ID != "spotify_abc123" {
		t.Errorf("ID = %q, want spotify_abc123", got.ID)
	}
	if got.Title != "Bohemian Rhapsody" || got.Artist != "Queen" {
		t.Errorf("unexpected track %+v", got)
	}
	if got.PreviewURL == nil || *got.PreviewURL != "https://p.scdn.co/mp3-preview/abc" {
		t.Errorf("unexpected preview URL %v", got.PreviewURL)
	}

	// A second search reuses the cached token.
	if _, err := c.SearchTracks(context.Background(), "queen", 10); err != nil {
		t.Fatalf("second SearchTracks: %v", err)
	}
	if tokenCalls != 1 {
		t.Errorf("token endpoint called %d times, want 1", tokenCalls)
	}
}

func TestDeezerSearchTracks(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "queen" {
			t.Errorf("q = %q, want queen", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{
				"id":       3135556,
				"title":    "Bohemian Rhapsody",
				"preview":  "https://cdnt-preview.dzcdn.net/stream/abc.mp3",
				"duration": 354,
				"artist":   map[string]any{"name": "Queen"},
				"album":    map[string]any{"title": "A Night at the Opera", "cover_big": "https://img/1"},
			}},
		})
	}))
	defer api.Close()

	c := NewDeezerClient()
	c.apiURL = api.URL

	tracks, err := c.SearchTracks(context.Background(), "queen", 10)
	if err != nil {
		t.Fatalf("SearchTracks: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}
	got := tracks[0]
	if got.ID != "deezer_3135556" {
		t.Errorf("ID = %q, want deezer_3135556", got.ID)
	}
	if got.DurationMS != 354000 {
		t.Errorf("DurationMS = %d, want 354000", got.DurationMS)
	}
}

func TestDeezerGetTrackMissing(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "no data", "code": 800},
		})
	}))
	defer api.Close()

	c := NewDeezerClient()
	c.apiURL = api.URL

	if _, err := c.GetTrack(context.Background(), "deezer_999"); err == nil {
		t.Fatal("expected an error for a missing track")
	}
}
