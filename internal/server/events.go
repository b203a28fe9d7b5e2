package server

import (
	"encoding/json"

	"name-that-tune/internal/db"

	"gorm.io/datatypes"
)

// EventPayload is the loose bag of fields attached to audit events. Only
// the fields relevant to an event type are set.
type EventPayload struct {
	RoomCode      string `json:"room_code,omitempty"`
	GameID        string `json:"game_id,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	DisplayName   string `json:"display_name,omitempty"`
	SongID        string `json:"song_id,omitempty"`
	SongIndex     int    `json:"song_index,omitempty"`
	GuessType     string `json:"guess_type,omitempty"`
	Guess         string `json:"guess,omitempty"`
	IsCorrect     bool   `json:"is_correct,omitempty"`
	Points        int    `json:"points,omitempty"`
	SelectorBonus int    `json:"selector_bonus,omitempty"`
	PlaylistID    string `json:"playlist_id,omitempty"`
	Status        string `json:"status,omitempty"`
}

func (s *Server) persistEvent(roomID, gameID, userID, eventType string, payload EventPayload) error {
	if s.db == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{
		RoomID:  roomID,
		GameID:  gameID,
		UserID:  userID,
		Type:    eventType,
		Payload: datatypes.JSON(data),
	}
	return s.db.Create(&event).Error
}
