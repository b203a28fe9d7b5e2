package server

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"name-that-tune/internal/db"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sessionStore ties a browser cookie to a stable user id. With a database
// the binding survives restarts; without one it lives in memory, which is
// enough for tests.
type sessionStore struct {
	db       *gorm.DB
	mu       sync.Mutex
	sessions map[string]sessionData
}

type sessionData struct {
	UserID      string
	DisplayName string
}

func newSessionStore(conn *gorm.DB) *sessionStore {
	return &sessionStore{
		db:       conn,
		sessions: make(map[string]sessionData),
	}
}

// UserID returns the stable user id for this browser, minting one on
// first contact.
func (s *sessionStore) UserID(w http.ResponseWriter, r *http.Request) string {
	id := s.ensureSessionID(w, r)
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		data, ok := s.sessions[id]
		if !ok {
			data = sessionData{UserID: uuid.NewString()}
			s.sessions[id] = data
		}
		return data.UserID
	}
	var record db.Session
	if err := s.db.Where("id = ?", id).First(&record).Error; err == nil && record.UserID != "" {
		return record.UserID
	}
	record = db.Session{
		ID:     id,
		UserID: uuid.NewString(),
	}
	_ = s.db.Save(&record).Error
	return record.UserID
}

func (s *sessionStore) SetName(w http.ResponseWriter, r *http.Request, name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	id := s.ensureSessionID(w, r)
	if s.db == nil {
		s.mu.Lock()
		data := s.sessions[id]
		data.DisplayName = name
		s.sessions[id] = data
		s.mu.Unlock()
		return
	}
	userID := s.UserID(w, r)
	record := db.Session{
		ID:          id,
		UserID:      userID,
		DisplayName: name,
	}
	_ = s.db.Save(&record).Error
}

func (s *sessionStore) GetName(w http.ResponseWriter, r *http.Request) string {
	id := s.ensureSessionID(w, r)
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.sessions[id].DisplayName
	}
	var record db.Session
	if err := s.db.Where("id = ?", id).First(&record).Error; err != nil {
		return ""
	}
	return record.DisplayName
}

func (s *sessionStore) ensureSessionID(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie("ntt_session")
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := newSessionID()
	minted := &http.Cookie{
		Name:     "ntt_session",
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, minted)
	// Later lookups within the same request must see the same id.
	r.AddCookie(minted)
	return id
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("sess-%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("%x", buf)
}
