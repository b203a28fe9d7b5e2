package server

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Store holds every live room in memory behind a single mutex. All state
// mutations flow through UpdateRoom so concurrent guesses from different
// players are applied one at a time.
type Store struct {
	mu        sync.Mutex
	rooms     map[string]*Room
	byCode    map[string]string
	gameIndex map[string]string
	songs     map[string]*Song
	playlists map[string]*Playlist
}

func NewStore() *Store {
	return &Store{
		rooms:     make(map[string]*Room),
		byCode:    make(map[string]string),
		gameIndex: make(map[string]string),
		songs:     make(map[string]*Song),
		playlists: make(map[string]*Playlist),
	}
}

func (s *Store) CreateRoom(name, hostUserID string, maxPlayers, roundDuration int) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := newRoomCode()
	for s.byCode[code] != "" {
		code = newRoomCode()
	}
	now := timeNowUTC()
	room := &Room{
		ID:         uuid.NewString(),
		Code:       code,
		Name:       name,
		HostUserID: hostUserID,
		MaxPlayers: maxPlayers,
		Status:     roomWaiting,
		CreatedAt:  now,
		UpdatedAt:  now,
		CurrentGame: &Game{
			ID:            uuid.NewString(),
			Status:        gameSelecting,
			RoundDuration: roundDuration,
			CreatedAt:     now,
		},
	}
	room.CurrentGame.RoomID = room.ID
	s.rooms[room.ID] = room
	s.byCode[code] = room.ID
	s.gameIndex[room.CurrentGame.ID] = room.ID
	return room
}

func (s *Store) GetRoom(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byCode[code]
	if !ok {
		return nil, false
	}
	room, ok := s.rooms[id]
	return room, ok
}

func (s *Store) GetRoomByGame(gameID string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roomID, ok := s.gameIndex[gameID]
	if !ok {
		return nil, false
	}
	room, ok := s.rooms[roomID]
	return room, ok
}

// UpdateRoom applies update while holding the store lock. The closure is
// the only place room state may be mutated.
func (s *Store) UpdateRoom(code string, update func(room *Room) error) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byCode[code]
	if !ok {
		return nil, errNotFound
	}
	room := s.rooms[id]
	if err := update(room); err != nil {
		return nil, err
	}
	room.UpdatedAt = timeNowUTC()
	return room, nil
}

// UpdateRoomByGame is UpdateRoom addressed by a game id.
func (s *Store) UpdateRoomByGame(gameID string, update func(room *Room) error) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roomID, ok := s.gameIndex[gameID]
	if !ok {
		return nil, errNotFound
	}
	room := s.rooms[roomID]
	if err := update(room); err != nil {
		return nil, err
	}
	room.UpdatedAt = timeNowUTC()
	return room, nil
}

// AttachGame registers a freshly created game under its room.
func (s *Store) AttachGame(room *Room, g *Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameIndex[g.ID] = room.ID
}

func (s *Store) DeleteRoom(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byCode[code]
	if !ok {
		return nil, false
	}
	room := s.rooms[id]
	delete(s.byCode, code)
	delete(s.rooms, id)
	if room.CurrentGame != nil {
		delete(s.gameIndex, room.CurrentGame.ID)
	}
	for _, gameID := range room.PastGameIDs {
		delete(s.gameIndex, gameID)
	}
	return room, true
}

// ListRoomSummaries returns the active rooms, newest first. Finished
// rooms drop off the lobby index.
func (s *Store) ListRoomSummaries() []RoomSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := make([]*Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		if room.Status == roomFinished {
			continue
		}
		active = append(active, room)
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	list := make([]RoomSummary, 0, len(active))
	for _, room := range active {
		participants := 0
		hostName := ""
		if room.CurrentGame != nil {
			participants = len(room.CurrentGame.Participants)
			if host := findParticipant(room.CurrentGame, room.HostUserID); host != nil {
				hostName = host.DisplayName
			}
		}
		list = append(list, RoomSummary{
			Code:         room.Code,
			Name:         room.Name,
			Status:       room.Status,
			HostName:     hostName,
			Participants: participants,
			MaxPlayers:   room.MaxPlayers,
			CanJoin:      (room.Status == roomWaiting || room.Status == roomSelecting) && (room.MaxPlayers == 0 || participants < room.MaxPlayers),
		})
	}
	return list
}

// PlaylistInUse reports whether an unfinished game is playing from the
// playlist.
func (s *Store) PlaylistInUse(playlistID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, room := range s.rooms {
		g := room.CurrentGame
		if g != nil && g.PlaylistID == playlistID && g.Status != gameFinished {
			return true
		}
	}
	return false
}

// RestoreRoom loads a room recovered from the database, refusing
// duplicates.
func (s *Store) RestoreRoom(room *Room) error {
	if room == nil {
		return errNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; ok {
		return errConflict
	}
	if s.byCode[room.Code] != "" {
		return errConflict
	}
	s.rooms[room.ID] = room
	s.byCode[room.Code] = room.ID
	if room.CurrentGame != nil {
		s.gameIndex[room.CurrentGame.ID] = room.ID
	}
	for _, gameID := range room.PastGameIDs {
		s.gameIndex[gameID] = room.ID
	}
	return nil
}

// UpsertSong caches a catalog track, returning the existing row when the
// track was cached before.
func (s *Store) UpsertSong(song Song) *Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.songs[song.CatalogID]; ok {
		if song.PreviewURL != "" {
			existing.PreviewURL = song.PreviewURL
		}
		return existing
	}
	if song.ID == "" {
		song.ID = uuid.NewString()
	}
	stored := song
	s.songs[song.CatalogID] = &stored
	return &stored
}

func (s *Store) SongByID(id string) (*Song, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, song := range s.songs {
		if song.ID == id {
			return song, true
		}
	}
	return nil, false
}

func (s *Store) SongByCatalogID(catalogID string) (*Song, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	song, ok := s.songs[catalogID]
	return song, ok
}

func (s *Store) SetSongPreviewURL(id, previewURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, song := range s.songs {
		if song.ID == id {
			song.PreviewURL = previewURL
			return
		}
	}
}

func (s *Store) CreatePlaylist(name, ownerUserID string) *Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := timeNowUTC()
	playlist := &Playlist{
		ID:          uuid.NewString(),
		Name:        name,
		OwnerUserID: ownerUserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.playlists[playlist.ID] = playlist
	return playlist
}

func (s *Store) GetPlaylist(id string) (*Playlist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	playlist, ok := s.playlists[id]
	return playlist, ok
}

func (s *Store) UpdatePlaylist(id string, update func(playlist *Playlist) error) (*Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	playlist, ok := s.playlists[id]
	if !ok {
		return nil, errNotFound
	}
	if err := update(playlist); err != nil {
		return nil, err
	}
	playlist.UpdatedAt = timeNowUTC()
	return playlist, nil
}

func (s *Store) DeletePlaylist(id string) (*Playlist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	playlist, ok := s.playlists[id]
	if !ok {
		return nil, false
	}
	delete(s.playlists, id)
	return playlist, true
}

func (s *Store) ListPlaylists(ownerUserID string) []*Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Playlist, 0)
	for _, playlist := range s.playlists {
		if ownerUserID == "" || playlist.OwnerUserID == ownerUserID {
			list = append(list, playlist)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}

func (s *Store) RestorePlaylist(playlist *Playlist) {
	if playlist == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists[playlist.ID] = playlist
}

func (s *Store) RestoreSong(song *Song) {
	if song == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.songs[song.CatalogID] = song
}
