package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"name-that-tune/internal/catalog"
	"name-that-tune/internal/config"
)

// fakeCatalog serves a fixed set of tracks so tests never hit a real
// provider.
type fakeCatalog struct {
	tracks map[string]catalog.Track
}

func newFakeCatalog() *fakeCatalog {
	preview1 := "https://cdn.example/preview/1.mp3"
	preview2 := "https://cdn.example/preview/2.mp3"
	return &fakeCatalog{
		tracks: map[string]catalog.Track{
			"deezer_1": {
				ID:         "deezer_1",
				Title:      "Golden Harbor",
				Artist:     "The Lighthouse Crew",
				Album:      "Shorelines",
				PreviewURL: &preview1,
				DurationMS: 214000,
			},
			"deezer_2": {
				ID:         "deezer_2",
				Title:      "Midnight Paper Trail",
				Artist:     "Violet Motorway",
				Album:      "Night Shift",
				PreviewURL: &preview2,
				DurationMS: 198000,
			},
		},
	}
}

func (f *fakeCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]catalog.Track, error) {
	list := make([]catalog.Track, 0, len(f.tracks))
	for _, track := range f.tracks {
		list = append(list, track)
	}
	return list, nil
}

func (f *fakeCatalog) GetTrack(ctx context.Context, id string) (*catalog.Track, error) {
	track, ok := f.tracks[id]
	if !ok {
		return nil, fmt.Errorf("track %s not found", id)
	}
	return &track, nil
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv := New(nil, newFakeCatalog(), config.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

// newTestClient returns a client with its own cookie jar, i.e. its own
// session and user id.
func newTestClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func doAs(t *testing.T, ts *httptest.Server, client *http.Client, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func createRoom(t *testing.T, ts *httptest.Server, client *http.Client, roomName, hostName string) string {
	t.Helper()
	resp := doAs(t, ts, client, http.MethodPost, "/api/rooms", map[string]any{
		"name":     roomName,
		"hostName": hostName,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return body["code"].(string)
}

func joinRoom(t *testing.T, ts *httptest.Server, client *http.Client, code, name string) {
	t.Helper()
	resp := doAs(t, ts, client, http.MethodPost, "/api/rooms/"+code+"/join", map[string]string{
		"name": name,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func currentGameID(t *testing.T, ts *httptest.Server, client *http.Client, code string) string {
	t.Helper()
	resp := doAs(t, ts, client, http.MethodGet, "/api/rooms/"+code, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return body["currentGameId"].(string)
}

func selectTrack(t *testing.T, ts *httptest.Server, client *http.Client, gameID, trackID string) {
	t.Helper()
	resp := doAs(t, ts, client, http.MethodPost, "/api/games/"+gameID+"/selections", map[string]string{
		"trackId": trackID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
}

func fetchState(t *testing.T, ts *httptest.Server, client *http.Client, gameID string) map[string]any {
	t.Helper()
	resp := doAs(t, ts, client, http.MethodGet, "/api/games/"+gameID+"/state", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func submitGuess(t *testing.T, ts *httptest.Server, client *http.Client, gameID, guessType, guess string) (*http.Response, map[string]any) {
	t.Helper()
	resp := doAs(t, ts, client, http.MethodPost, "/api/games/"+gameID+"/guess", map[string]string{
		"guessType": guessType,
		"guess":     guess,
	})
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}
	return resp, decodeBody(t, resp)
}
