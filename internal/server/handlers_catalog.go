package server

import (
	"log"
	"net/http"
	"strconv"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !s.enforceRateLimit(w, r, "search") {
		return
	}
	query, err := validateQuery(r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if value, convErr := strconv.Atoi(raw); convErr == nil && value > 0 && value <= 50 {
			limit = value
		}
	}
	if s.catalog == nil {
		writeActionError(w, errUpstream)
		return
	}
	tracks, err := s.catalog.SearchTracks(r.Context(), query, limit)
	if err != nil {
		log.Printf("search failed query=%q err=%v", query, err)
		writeActionError(w, errUpstream)
		return
	}
	results := make([]map[string]any, 0, len(tracks))
	for _, track := range tracks {
		results = append(results, map[string]any{
			"id":         track.ID,
			"title":      track.Title,
			"artist":     track.Artist,
			"album":      track.Album,
			"imageUrl":   track.ImageURL,
			"hasPreview": track.PreviewURL != nil && *track.PreviewURL != "",
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tracks": results,
	})
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	trackID, ok := parseTrackPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	song, err := s.resolveSong(r, trackID)
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         song.ID,
		"catalogId":  song.CatalogID,
		"title":      song.Title,
		"artist":     song.Artist,
		"album":      song.Album,
		"imageUrl":   song.ImageURL,
		"durationMs": song.DurationMS,
		"hasPreview": song.PreviewURL != "",
	})
}
