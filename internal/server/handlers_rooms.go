package server

import (
	"log"
	"net/http"
)

type createRoomRequest struct {
	Name       string `json:"name"`
	HostName   string `json:"hostName"`
	MaxPlayers int    `json:"maxPlayers"`
}

type joinRoomRequest struct {
	Name string `json:"name"`
}

type settingsRequest struct {
	Name       string `json:"name"`
	MaxPlayers int    `json:"maxPlayers"`
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"rooms": s.store.ListRoomSummaries(),
	})
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	if !s.enforceRateLimit(w, r, "create") {
		return
	}
	var req createRoomRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	roomName, err := validateRoomName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hostName, err := validateName(req.HostName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	maxPlayers, err := validateMaxPlayers(req.MaxPlayers)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if maxPlayers == 0 {
		maxPlayers = s.cfg.MaxPlayersDefault
	}

	userID := s.sessions.UserID(w, r)
	s.sessions.SetName(w, r, hostName)
	room := s.store.CreateRoom(roomName, userID, maxPlayers, s.cfg.RoundDurationSeconds)
	_, err = s.store.UpdateRoom(room.Code, func(room *Room) error {
		_, addErr := addParticipant(room, userID, hostName)
		return addErr
	})
	if err != nil {
		writeActionError(w, err)
		return
	}
	if err := s.persistRoom(room); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create room")
		return
	}
	log.Printf("room created code=%s host=%s", room.Code, userID)
	writeJSON(w, http.StatusCreated, roomSnapshot(room))
}

func (s *Server) handleRoomSubroutes(w http.ResponseWriter, r *http.Request) {
	code, action, ok := parseRoomPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		if action != "" {
			http.NotFound(w, r)
			return
		}
		s.handleGetRoom(w, r, code)
	case http.MethodPost:
		switch action {
		case "join":
			s.handleJoinRoom(w, r, code)
		case "leave":
			s.handleLeaveRoom(w, r, code)
		case "settings":
			s.handleRoomSettings(w, r, code)
		case "new-game":
			s.handleNewGame(w, r, code)
		default:
			http.NotFound(w, r)
		}
	case http.MethodDelete:
		if action != "" {
			http.NotFound(w, r)
			return
		}
		s.handleDeleteRoom(w, r, code)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request, code string) {
	room, ok := s.store.GetRoom(code)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, roomSnapshot(room))
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request, code string) {
	if !s.enforceRateLimit(w, r, "join") {
		return
	}
	var req joinRoomRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := s.sessions.UserID(w, r)
	s.sessions.SetName(w, r, name)
	var joined *Participant
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		participant, addErr := addParticipant(room, userID, name)
		if addErr != nil {
			return addErr
		}
		joined = participant
		return nil
	})
	if err != nil {
		writeActionError(w, err)
		return
	}
	if err := s.persistParticipant(room, joined); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to join room")
		return
	}
	log.Printf("room joined code=%s user=%s name=%s", code, userID, name)
	writeJSON(w, http.StatusOK, roomSnapshot(room))
}

func (s *Server) handleLeaveRoom(w http.ResponseWriter, r *http.Request, code string) {
	userID := s.sessions.UserID(w, r)
	var wasHost bool
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		wasHost = room.HostUserID == userID
		return removeParticipant(room, userID)
	})
	if err != nil {
		writeActionError(w, err)
		return
	}
	s.persistRoomState(room)
	s.persistRemoveParticipant(room, userID)
	if wasHost && room.HostUserID != userID {
		gameID := ""
		if room.CurrentGame != nil {
			gameID = room.CurrentGame.ID
		}
		_ = s.persistEvent(room.ID, gameID, room.HostUserID, "host_transferred", EventPayload{
			RoomCode: room.Code,
		})
		log.Printf("host transferred code=%s new_host=%s", code, room.HostUserID)
	}
	writeJSON(w, http.StatusOK, roomSnapshot(room))
}

func (s *Server) handleRoomSettings(w http.ResponseWriter, r *http.Request, code string) {
	if !s.enforceRateLimit(w, r, "settings") {
		return
	}
	var req settingsRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid settings")
		return
	}
	name := ""
	if req.Name != "" {
		validated, err := validateRoomName(req.Name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		name = validated
	}
	maxPlayers := 0
	if req.MaxPlayers != 0 {
		validated, err := validateMaxPlayers(req.MaxPlayers)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		maxPlayers = validated
	}

	userID := s.sessions.UserID(w, r)
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		if room.HostUserID != userID {
			return errForbidden
		}
		if name != "" {
			room.Name = name
		}
		if maxPlayers != 0 {
			if room.CurrentGame != nil && maxPlayers < len(room.CurrentGame.Participants) {
				return errConflict
			}
			room.MaxPlayers = maxPlayers
		}
		return nil
	})
	if err != nil {
		writeActionError(w, err)
		return
	}
	s.persistRoomState(room)
	writeJSON(w, http.StatusOK, roomSnapshot(room))
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request, code string) {
	if !s.enforceRateLimit(w, r, "new-game") {
		return
	}
	userID := s.sessions.UserID(w, r)
	var created *Game
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		if room.HostUserID != userID {
			return errForbidden
		}
		if room.CurrentGame != nil && room.CurrentGame.Status != gameFinished {
			return errInvalidState
		}
		created = newGameInRoom(room, s.cfg.RoundDurationSeconds)
		return nil
	})
	if err != nil {
		writeActionError(w, err)
		return
	}
	s.store.AttachGame(room, created)
	if err := s.persistNewGame(room, created); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start new game")
		return
	}
	log.Printf("new game code=%s game_id=%s", code, created.ID)
	writeJSON(w, http.StatusCreated, roomSnapshot(room))
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request, code string) {
	userID := s.sessions.UserID(w, r)
	room, ok := s.store.GetRoom(code)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if room.HostUserID != userID {
		writeActionError(w, errForbidden)
		return
	}
	if _, ok := s.store.DeleteRoom(code); !ok {
		http.NotFound(w, r)
		return
	}
	s.persistDeleteRoom(room)
	log.Printf("room deleted code=%s", code)
	w.WriteHeader(http.StatusNoContent)
}
