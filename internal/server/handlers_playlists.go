package server

import (
	"log"
	"net/http"
)

type createPlaylistRequest struct {
	Name string `json:"name"`
}

type addPlaylistSongRequest struct {
	TrackID string `json:"trackId"`
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	userID := s.sessions.UserID(w, r)
	playlists := s.store.ListPlaylists(userID)
	list := make([]map[string]any, 0, len(playlists))
	for _, playlist := range playlists {
		list = append(list, playlistSnapshot(playlist, nil))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"playlists": list,
	})
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	if !s.enforceRateLimit(w, r, "playlist-create") {
		return
	}
	var req createPlaylistRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	name, err := validateRoomName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID := s.sessions.UserID(w, r)
	playlist := s.store.CreatePlaylist(name, userID)
	if err := s.persistPlaylist(playlist); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create playlist")
		return
	}
	log.Printf("playlist created playlist_id=%s owner=%s", playlist.ID, userID)
	writeJSON(w, http.StatusCreated, playlistSnapshot(playlist, nil))
}

func (s *Server) handlePlaylistSubroutes(w http.ResponseWriter, r *http.Request) {
	playlistID, songID, ok := parsePlaylistPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.handleGetPlaylist(w, r, playlistID)
	case http.MethodPost:
		s.handleAddPlaylistSong(w, r, playlistID)
	case http.MethodDelete:
		if songID != "" {
			s.handleRemovePlaylistSong(w, r, playlistID, songID)
			return
		}
		s.handleDeletePlaylist(w, r, playlistID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request, playlistID string) {
	playlist, ok := s.store.GetPlaylist(playlistID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, playlistSnapshot(playlist, s.store))
}

func (s *Server) handleAddPlaylistSong(w http.ResponseWriter, r *http.Request, playlistID string) {
	if !s.enforceRateLimit(w, r, "playlist-add") {
		return
	}
	var req addPlaylistSongRequest
	if err := readJSON(r.Body, &req); err != nil || req.TrackID == "" {
		writeError(w, http.StatusBadRequest, "trackId is required")
		return
	}
	userID := s.sessions.UserID(w, r)
	song, err := s.resolveSong(r, req.TrackID)
	if err != nil {
		writeActionError(w, err)
		return
	}
	playlist, err := s.store.UpdatePlaylist(playlistID, func(playlist *Playlist) error {
		if playlist.OwnerUserID != userID {
			return errForbidden
		}
		for _, existing := range playlist.SongIDs {
			if existing == song.ID {
				return errConflict
			}
		}
		playlist.SongIDs = append(playlist.SongIDs, song.ID)
		return nil
	})
	if err != nil {
		writeActionError(w, err)
		return
	}
	s.persistPlaylistSongs(playlist)
	writeJSON(w, http.StatusCreated, playlistSnapshot(playlist, s.store))
}

func (s *Server) handleRemovePlaylistSong(w http.ResponseWriter, r *http.Request, playlistID, songID string) {
	userID := s.sessions.UserID(w, r)
	playlist, err := s.store.UpdatePlaylist(playlistID, func(playlist *Playlist) error {
		if playlist.OwnerUserID != userID {
			return errForbidden
		}
		for i, existing := range playlist.SongIDs {
			if existing == songID {
				playlist.SongIDs = append(playlist.SongIDs[:i], playlist.SongIDs[i+1:]...)
				return nil
			}
		}
		return errNotFound
	})
	if err != nil {
		writeActionError(w, err)
		return
	}
	s.persistPlaylistSongs(playlist)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request, playlistID string) {
	userID := s.sessions.UserID(w, r)
	playlist, ok := s.store.GetPlaylist(playlistID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if playlist.OwnerUserID != userID {
		writeActionError(w, errForbidden)
		return
	}
	if s.store.PlaylistInUse(playlistID) {
		writeActionError(w, errConflict)
		return
	}
	if _, ok := s.store.DeletePlaylist(playlistID); !ok {
		http.NotFound(w, r)
		return
	}
	s.persistDeletePlaylist(playlist)
	w.WriteHeader(http.StatusNoContent)
}

func playlistSnapshot(playlist *Playlist, store *Store) map[string]any {
	payload := map[string]any{
		"id":        playlist.ID,
		"name":      playlist.Name,
		"ownerId":   playlist.OwnerUserID,
		"songCount": len(playlist.SongIDs),
	}
	if store == nil {
		return payload
	}
	songs := make([]map[string]any, 0, len(playlist.SongIDs))
	for _, songID := range playlist.SongIDs {
		song, ok := store.SongByID(songID)
		if !ok {
			continue
		}
		songs = append(songs, map[string]any{
			"id":       song.ID,
			"title":    song.Title,
			"artist":   song.Artist,
			"album":    song.Album,
			"imageUrl": song.ImageURL,
		})
	}
	payload["songs"] = songs
	return payload
}
