package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DeezerClient fetches tracks from the public Deezer API. No credentials
// are required.
type DeezerClient struct {
	httpClient *http.Client
	apiURL     string
}

type deezerTrack struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Preview  string `json:"preview"`
	Duration int    `json:"duration"`
	Artist   struct {
		Name string `json:"name"`
	} `json:"artist"`
	Album struct {
		Title    string `json:"title"`
		CoverBig string `json:"cover_big"`
	} `json:"album"`
}

type deezerSearchResponse struct {
	Data []deezerTrack `json:"data"`
}

func NewDeezerClient() *DeezerClient {
	return &DeezerClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     "https://api.deezer.com",
	}
}

func (c *DeezerClient) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("limit", fmt.Sprintf("%d", limit))

	req, err := http.NewRequestWithContext(ctx, "GET", c.apiURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("deezer: search request failed with status %d", resp.StatusCode)
	}

	var searchResp deezerSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(searchResp.Data))
	for _, item := range searchResp.Data {
		tracks = append(tracks, item.toTrack())
	}
	return tracks, nil
}

func (c *DeezerClient) GetTrack(ctx context.Context, id string) (*Track, error) {
	numeric := strings.TrimPrefix(id, "deezer_")

	req, err := http.NewRequestWithContext(ctx, "GET", c.apiURL+"/track/"+url.PathEscape(numeric), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("deezer: track request failed with status %d", resp.StatusCode)
	}

	// Deezer reports missing tracks with a 200 and an error object.
	var item struct {
		deezerTrack
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, err
	}
	if item.Error != nil {
		return nil, fmt.Errorf("deezer: track %s: %s", numeric, item.Error.Message)
	}
	track := item.deezerTrack.toTrack()
	return &track, nil
}

func (t deezerTrack) toTrack() Track {
	var preview *string
	if t.Preview != "" {
		p := t.Preview
		preview = &p
	}
	return Track{
		ID:         "deezer_" + strconv.FormatInt(t.ID, 10),
		Title:      t.Title,
		Artist:     t.Artist.Name,
		Album:      t.Album.Title,
		PreviewURL: preview,
		ImageURL:   t.Album.CoverBig,
		DurationMS: t.Duration * 1000,
	}
}
