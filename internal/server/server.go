package server

import (
	"net/http"

	"name-that-tune/internal/catalog"
	"name-that-tune/internal/config"

	"gorm.io/gorm"
)

type Server struct {
	store    *Store
	db       *gorm.DB
	catalog  catalog.TrackSource
	cfg      config.Config
	sessions *sessionStore
	limiter  *rateLimiter
}

// New builds a server. conn and source may be nil; without a database
// nothing is persisted and without a catalog source search is disabled,
// which is how the tests run.
func New(conn *gorm.DB, source catalog.TrackSource, cfg config.Config) *Server {
	return &Server{
		store:    NewStore(),
		db:       conn,
		catalog:  source,
		cfg:      cfg,
		sessions: newSessionStore(conn),
		limiter:  newRateLimiter(),
	}
}

func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleHome)
	mux.HandleFunc("GET /rooms/", s.handleRoomView)
	mux.HandleFunc("GET /api/rooms", s.handleListRooms)
	mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms/", s.handleRoomSubroutes)
	mux.HandleFunc("POST /api/rooms/", s.handleRoomSubroutes)
	mux.HandleFunc("DELETE /api/rooms/", s.handleRoomSubroutes)
	mux.HandleFunc("GET /api/games/", s.handleGameSubroutes)
	mux.HandleFunc("POST /api/games/", s.handleGameSubroutes)
	mux.HandleFunc("DELETE /api/games/", s.handleGameSubroutes)
	mux.HandleFunc("GET /api/playlists", s.handleListPlaylists)
	mux.HandleFunc("POST /api/playlists", s.handleCreatePlaylist)
	mux.HandleFunc("GET /api/playlists/", s.handlePlaylistSubroutes)
	mux.HandleFunc("POST /api/playlists/", s.handlePlaylistSubroutes)
	mux.HandleFunc("DELETE /api/playlists/", s.handlePlaylistSubroutes)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/tracks/", s.handleGetTrack)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	return mux
}
