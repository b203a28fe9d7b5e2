package server

import (
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"name-that-tune/internal/game"
)

type startGameRequest struct {
	PlaylistID string `json:"playlistId"`
}

type guessRequest struct {
	GuessType string `json:"guessType"`
	Guess     string `json:"guess"`
}

type selectionRequest struct {
	TrackID string `json:"trackId"`
}

func (s *Server) handleGameSubroutes(w http.ResponseWriter, r *http.Request) {
	gameID, action, ok := parseGamePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		switch action {
		case "", "state":
			s.handleGameState(w, r, gameID)
		case "guesses":
			s.handleListGuesses(w, r, gameID)
		case "songs":
			s.handleGameSongs(w, r, gameID)
		case "selections":
			s.handleListSelections(w, r, gameID)
		default:
			http.NotFound(w, r)
		}
	case http.MethodPost:
		switch action {
		case "start":
			s.handleStartGame(w, r, gameID)
		case "start-round":
			s.handleStartRound(w, r, gameID)
		case "next":
			s.handleNextRound(w, r, gameID)
		case "guess":
			s.handleGuess(w, r, gameID)
		case "selections":
			s.handleSubmitSelection(w, r, gameID)
		default:
			http.NotFound(w, r)
		}
	case http.MethodDelete:
		if action != "selections" {
			http.NotFound(w, r)
			return
		}
		s.handleDeleteSelection(w, r, gameID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request, gameID string) {
	viewerID := s.sessions.UserID(w, r)
	now := time.Now()
	s.maybeAutoAdvance(gameID, now)
	room, ok := s.store.GetRoomByGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	g := s.findGame(room, gameID)
	if g == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, s.gameSnapshot(r.Context(), room, g, viewerID, now))
}

// maybeAutoAdvance moves a round past its end once the configured grace
// has elapsed. With grace disabled the host drives every advance.
func (s *Server) maybeAutoAdvance(gameID string, now time.Time) {
	if s.cfg.AdvanceGraceSeconds <= 0 {
		return
	}
	var advanced bool
	room, err := s.store.UpdateRoomByGame(gameID, func(room *Room) error {
		g := room.CurrentGame
		if g == nil || g.ID != gameID || g.Status != gamePlaying || g.RoundStartedAt == nil {
			return nil
		}
		deadline := g.RoundStartedAt.Add(time.Duration(g.RoundDuration+s.cfg.AdvanceGraceSeconds) * time.Second)
		if now.Before(deadline) {
			return nil
		}
		if err := advanceRound(room, g, now); err != nil {
			return nil
		}
		advanced = true
		return nil
	})
	if err != nil || !advanced {
		return
	}
	log.Printf("round auto-advanced game_id=%s index=%d status=%s", gameID, room.CurrentGame.CurrentSongIndex, room.CurrentGame.Status)
	s.persistGameState(room.CurrentGame)
	s.persistRoomState(room)
	s.persistAdvanceEvent(room, room.CurrentGame, "")
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request, gameID string) {
	if !s.enforceRateLimit(w, r, "start") {
		return
	}
	var req startGameRequest
	if err := readJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	userID := s.sessions.UserID(w, r)

	var playlistOrder []string
	if req.PlaylistID != "" {
		playlist, ok := s.store.GetPlaylist(req.PlaylistID)
		if !ok {
			http.NotFound(w, r)
			return
		}
		if len(playlist.SongIDs) == 0 {
			writeActionError(w, errInvalidState)
			return
		}
		playlistOrder = append([]string(nil), playlist.SongIDs...)
	}

	room, err := s.store.UpdateRoomByGame(gameID, func(room *Room) error {
		if room.HostUserID != userID {
			return errForbidden
		}
		g := room.CurrentGame
		if g == nil || g.ID != gameID {
			return errInvalidState
		}
		if playlistOrder != nil {
			return startGame(room, playlistOrder, req.PlaylistID)
		}
		// One pick is enough; players who never selected still play as
		// guessers.
		if len(g.Selections) == 0 {
			return errInvalidState
		}
		order := make([]string, 0, len(g.Selections))
		for _, sel := range g.Selections {
			order = append(order, sel.SongID)
		}
		return startGame(room, order, "")
	})
	if err != nil {
		writeActionError(w, err)
		return
	}
	g := room.CurrentGame
	if err := s.persistStartGame(room, g); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start game")
		return
	}
	log.Printf("game started game_id=%s songs=%d", g.ID, len(g.SongOrder))
	writeJSON(w, http.StatusOK, s.gameSnapshot(r.Context(), room, g, userID, time.Now()))
}

func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request, gameID string) {
	if !s.enforceRateLimit(w, r, "start-round") {
		return
	}
	userID := s.sessions.UserID(w, r)
	now := time.Now()
	room, err := s.store.UpdateRoomByGame(gameID, func(room *Room) error {
		if room.HostUserID != userID {
			return errForbidden
		}
		g := room.CurrentGame
		if g == nil || g.ID != gameID {
			return errInvalidState
		}
		return startRound(g, now)
	})
	if err != nil {
		writeActionError(w, err)
		return
	}
	s.persistGameState(room.CurrentGame)
	_ = s.persistEvent(room.ID, gameID, userID, "round_started", EventPayload{
		SongIndex: room.CurrentGame.CurrentSongIndex,
	})
	log.Printf("round started game_id=%s index=%d", gameID, room.CurrentGame.CurrentSongIndex)
	writeJSON(w, http.StatusOK, s.gameSnapshot(r.Context(), room, room.CurrentGame, userID, now))
}

func (s *Server) handleNextRound(w http.ResponseWriter, r *http.Request, gameID string) {
	if !s.enforceRateLimit(w, r, "next") {
		return
	}
	userID := s.sessions.UserID(w, r)
	now := time.Now()
	room, err := s.store.UpdateRoomByGame(gameID, func(room *Room) error {
		if room.HostUserID != userID {
			return errForbidden
		}
		g := room.CurrentGame
		if g == nil || g.ID != gameID {
			return errInvalidState
		}
		return advanceRound(room, g, now)
	})
	if err != nil {
		writeActionError(w, err)
		return
	}
	g := room.CurrentGame
	s.persistGameState(g)
	s.persistRoomState(room)
	s.persistAdvanceEvent(room, g, userID)
	log.Printf("round advanced game_id=%s index=%d status=%s", gameID, g.CurrentSongIndex, g.Status)
	writeJSON(w, http.StatusOK, s.gameSnapshot(r.Context(), room, g, userID, now))
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request, gameID string) {
	if !s.enforceRateLimit(w, r, "guess") {
		return
	}
	var req guessRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "guess is required")
		return
	}
	if !game.ValidGuessKind(req.GuessType) {
		writeError(w, http.StatusBadRequest, "guessType must be TITLE or ARTIST")
		return
	}
	text, err := validateGuess(req.Guess)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := s.sessions.UserID(w, r)
	room, ok := s.store.GetRoomByGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	g := room.CurrentGame
	if g == nil || g.ID != gameID {
		writeActionError(w, errInvalidState)
		return
	}
	song, _ := s.store.SongByID(currentSongID(g))

	now := time.Now()
	var outcome *guessOutcome
	room, err = s.store.UpdateRoomByGame(gameID, func(room *Room) error {
		result, applyErr := applyGuess(room, song, userID, game.GuessKind(req.GuessType), text, now)
		if applyErr != nil {
			return applyErr
		}
		outcome = result
		return nil
	})
	if err != nil {
		writeActionError(w, err)
		return
	}
	s.persistGuess(room.CurrentGame, outcome)
	entry := outcome.Entry
	if entry.Correct {
		log.Printf("guess correct game_id=%s user=%s kind=%s points=%d", gameID, userID, entry.Kind, entry.Points)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"isCorrect":     entry.Correct,
		"pointsAwarded": entry.Points,
		"guessType":     string(entry.Kind),
		"selectorBonus": outcome.SelectorBonus,
	})
}

func (s *Server) handleListGuesses(w http.ResponseWriter, r *http.Request, gameID string) {
	viewerID := s.sessions.UserID(w, r)
	room, ok := s.store.GetRoomByGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	g := s.findGame(room, gameID)
	if g == nil {
		http.NotFound(w, r)
		return
	}
	song, _ := s.store.SongByID(currentSongID(g))
	writeJSON(w, http.StatusOK, map[string]any{
		"guesses": redactedGuesses(g, song, viewerID),
	})
}

func (s *Server) handleGameSongs(w http.ResponseWriter, r *http.Request, gameID string) {
	room, ok := s.store.GetRoomByGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	g := s.findGame(room, gameID)
	if g == nil {
		http.NotFound(w, r)
		return
	}
	if g.Status != gameFinished {
		writeActionError(w, errInvalidState)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"songs": s.songsSummary(g),
	})
}

func (s *Server) handleListSelections(w http.ResponseWriter, r *http.Request, gameID string) {
	viewerID := s.sessions.UserID(w, r)
	room, ok := s.store.GetRoomByGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	g := s.findGame(room, gameID)
	if g == nil {
		http.NotFound(w, r)
		return
	}
	// Each player only sees who has picked, plus their own pick. The
	// actual songs stay secret until they come up in a round.
	list := make([]map[string]any, 0, len(g.Selections))
	for _, sel := range g.Selections {
		entry := map[string]any{
			"selectedBy": sel.SelectedBy,
		}
		if sel.SelectedBy == viewerID {
			if song, ok := s.store.SongByID(sel.SongID); ok {
				entry["song"] = map[string]any{
					"id":       song.ID,
					"title":    song.Title,
					"artist":   song.Artist,
					"imageUrl": song.ImageURL,
				}
			}
		}
		list = append(list, entry)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"selections": list,
	})
}

func (s *Server) handleSubmitSelection(w http.ResponseWriter, r *http.Request, gameID string) {
	if !s.enforceRateLimit(w, r, "selections") {
		return
	}
	var req selectionRequest
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

	var selection *Selection
	room, err := s.store.UpdateRoomByGame(gameID, func(room *Room) error {
		g := room.CurrentGame
		if g == nil || g.ID != gameID || g.Status != gameSelecting {
			return errInvalidState
		}
		if findParticipant(g, userID) == nil {
			return errForbidden
		}
		selection = upsertSelection(room, userID, song.ID)
		return nil
	})
	if err != nil {
		writeActionError(w, err)
		return
	}
	s.persistSelection(room.CurrentGame, selection)
	s.persistRoomState(room)
	log.Printf("song selected game_id=%s user=%s song=%s", gameID, userID, song.CatalogID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"selectedBy": selection.SelectedBy,
		"song": map[string]any{
			"id":       song.ID,
			"title":    song.Title,
			"artist":   song.Artist,
			"imageUrl": song.ImageURL,
		},
	})
}

func (s *Server) handleDeleteSelection(w http.ResponseWriter, r *http.Request, gameID string) {
	userID := s.sessions.UserID(w, r)
	room, err := s.store.UpdateRoomByGame(gameID, func(room *Room) error {
		g := room.CurrentGame
		if g == nil || g.ID != gameID || g.Status != gameSelecting {
			return errInvalidState
		}
		for i := range g.Selections {
			if g.Selections[i].SelectedBy == userID {
				g.Selections = append(g.Selections[:i], g.Selections[i+1:]...)
				return nil
			}
		}
		return errNotFound
	})
	if err != nil {
		writeActionError(w, err)
		return
	}
	s.persistDeleteSelection(room.CurrentGame, userID)
	w.WriteHeader(http.StatusNoContent)
}

// resolveSong finds a cached track or fetches it from the provider.
func (s *Server) resolveSong(r *http.Request, trackID string) (*Song, error) {
	if song, ok := s.store.SongByCatalogID(trackID); ok {
		return song, nil
	}
	if song, ok := s.store.SongByID(trackID); ok {
		return song, nil
	}
	if s.catalog == nil {
		return nil, errUpstream
	}
	track, err := s.catalog.GetTrack(r.Context(), trackID)
	if err != nil {
		log.Printf("track fetch failed track=%s err=%v", trackID, err)
		return nil, errUpstream
	}
	previewURL := ""
	if track.PreviewURL != nil {
		previewURL = *track.PreviewURL
	}
	song := s.store.UpsertSong(Song{
		CatalogID:  track.ID,
		Title:      track.Title,
		Artist:     track.Artist,
		Album:      track.Album,
		PreviewURL: previewURL,
		ImageURL:   track.ImageURL,
		DurationMS: track.DurationMS,
	})
	s.persistSong(song)
	return song, nil
}

// findGame resolves gameID against the room's current game. Past games
// live only in the database; they are not addressable through the API.
func (s *Server) findGame(room *Room, gameID string) *Game {
	if room.CurrentGame != nil && room.CurrentGame.ID == gameID {
		return room.CurrentGame
	}
	return nil
}

func selectionOf(g *Game, userID string) *Selection {
	for i := range g.Selections {
		if g.Selections[i].SelectedBy == userID {
			return &g.Selections[i]
		}
	}
	return nil
}
