package server

import (
	"log"
	"net/http"

	"name-that-tune/internal/web"

	"github.com/a-h/templ"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	templ.Handler(web.Home()).ServeHTTP(w, r)
}

func (s *Server) handleRoomView(w http.ResponseWriter, r *http.Request) {
	code, ok := parseRoomViewPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, ok := s.store.GetRoom(code); !ok {
		log.Printf("room view missing code=%s", code)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	templ.Handler(web.Room(code)).ServeHTTP(w, r)
}
