package server

import (
	"encoding/json"
	"errors"

	"name-that-tune/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The store is authoritative; the database is a write-through mirror used
// to survive restarts. Mirror failures on hot paths are logged by callers
// and never block play.

func (s *Server) persistRoom(room *Room) error {
	if s.db == nil {
		return nil
	}
	record := db.Room{
		ID:         room.ID,
		Code:       room.Code,
		Name:       room.Name,
		HostUserID: room.HostUserID,
		MaxPlayers: room.MaxPlayers,
		Status:     room.Status,
		CreatedAt:  room.CreatedAt,
		UpdatedAt:  room.UpdatedAt,
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		return err
	}
	if room.CurrentGame != nil {
		if err := s.persistGame(room.CurrentGame); err != nil {
			return err
		}
		for i := range room.CurrentGame.Participants {
			if err := s.persistParticipant(room, &room.CurrentGame.Participants[i]); err != nil {
				return err
			}
		}
	}
	return s.persistEvent(room.ID, "", room.HostUserID, "room_created", EventPayload{
		RoomCode: room.Code,
	})
}

func (s *Server) persistGame(g *Game) error {
	if s.db == nil {
		return nil
	}
	record := db.Game{
		ID:               g.ID,
		RoomID:           g.RoomID,
		Status:           g.Status,
		CurrentSongIndex: g.CurrentSongIndex,
		CurrentSongID:    currentSongID(g),
		RoundStartedAt:   g.RoundStartedAt,
		RoundDuration:    g.RoundDuration,
		StartedAt:        g.StartedAt,
		FinishedAt:       g.FinishedAt,
		CreatedAt:        g.CreatedAt,
	}
	if g.PlaylistID != "" {
		record.PlaylistID = &g.PlaylistID
	}
	record.SongOrder = songOrderJSON(g)
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error
}

func songOrderJSON(g *Game) datatypes.JSON {
	data, err := json.Marshal(g.SongOrder)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func (s *Server) persistParticipant(room *Room, participant *Participant) error {
	if s.db == nil || room.CurrentGame == nil {
		return nil
	}
	record := db.Participant{
		ID:          participant.ID,
		GameID:      room.CurrentGame.ID,
		UserID:      participant.UserID,
		DisplayName: participant.DisplayName,
		Score:       participant.Score,
		JoinedAt:    participant.JoinedAt,
		CreatedAt:   participant.JoinedAt,
		UpdatedAt:   participant.JoinedAt,
	}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return s.db.Model(&db.Participant{}).
				Where("game_id = ? AND user_id = ?", record.GameID, record.UserID).
				Update("display_name", record.DisplayName).Error
		}
		return err
	}
	return s.persistEvent(room.ID, room.CurrentGame.ID, participant.UserID, "participant_joined", EventPayload{
		RoomCode:    room.Code,
		DisplayName: participant.DisplayName,
	})
}

func (s *Server) persistRemoveParticipant(room *Room, userID string) {
	if s.db == nil || room.CurrentGame == nil {
		return
	}
	_ = s.db.Where("game_id = ? AND user_id = ?", room.CurrentGame.ID, userID).
		Delete(&db.Participant{}).Error
	_ = s.persistEvent(room.ID, room.CurrentGame.ID, userID, "participant_left", EventPayload{
		RoomCode: room.Code,
	})
}

// persistRoomState mirrors the mutable room columns.
func (s *Server) persistRoomState(room *Room) {
	if s.db == nil {
		return
	}
	_ = s.db.Model(&db.Room{}).Where("id = ?", room.ID).Updates(map[string]any{
		"name":         room.Name,
		"host_user_id": room.HostUserID,
		"max_players":  room.MaxPlayers,
		"status":       room.Status,
		"updated_at":   room.UpdatedAt,
	}).Error
}

// persistGameState mirrors the round cursor and status.
func (s *Server) persistGameState(g *Game) {
	if s.db == nil || g == nil {
		return
	}
	_ = s.db.Model(&db.Game{}).Where("id = ?", g.ID).Updates(map[string]any{
		"status":             g.Status,
		"song_order":         songOrderJSON(g),
		"current_song_index": g.CurrentSongIndex,
		"current_song_id":    currentSongID(g),
		"round_started_at":   g.RoundStartedAt,
		"started_at":         g.StartedAt,
		"finished_at":        g.FinishedAt,
	}).Error
}

func (s *Server) persistNewGame(room *Room, g *Game) error {
	if s.db == nil {
		return nil
	}
	if err := s.persistGame(g); err != nil {
		return err
	}
	for i := range g.Participants {
		if err := s.persistParticipant(room, &g.Participants[i]); err != nil {
			return err
		}
	}
	s.persistRoomState(room)
	return s.persistEvent(room.ID, g.ID, room.HostUserID, "game_created", EventPayload{
		RoomCode: room.Code,
	})
}

func (s *Server) persistStartGame(room *Room, g *Game) error {
	if s.db == nil {
		return nil
	}
	s.persistGameState(g)
	s.persistRoomState(room)
	return s.persistEvent(room.ID, g.ID, room.HostUserID, "game_started", EventPayload{
		RoomCode:   room.Code,
		PlaylistID: g.PlaylistID,
		Status:     g.Status,
	})
}

// persistGuess writes the guess row and applies score deltas with SQL
// increments so the mirror matches the ledger even across restarts.
func (s *Server) persistGuess(g *Game, outcome *guessOutcome) {
	if s.db == nil || g == nil || outcome == nil || outcome.Entry == nil {
		return
	}
	entry := outcome.Entry
	record := db.Guess{
		ID:               entry.ID,
		GameID:           g.ID,
		UserID:           entry.UserID,
		SongID:           entry.SongID,
		GuessType:        string(entry.Kind),
		GuessText:        entry.Text,
		IsCorrect:        entry.Correct,
		PointsAwarded:    entry.Points,
		SecondsRemaining: entry.SecondsRemaining,
		CreatedAt:        entry.CreatedAt,
	}
	_ = s.db.Create(&record).Error
	if entry.Correct {
		_ = s.db.Model(&db.Participant{}).
			Where("game_id = ? AND user_id = ?", g.ID, entry.UserID).
			Update("score", gorm.Expr("score + ?", entry.Points)).Error
		if outcome.SelectorUserID != "" {
			_ = s.db.Model(&db.Participant{}).
				Where("game_id = ? AND user_id = ?", g.ID, outcome.SelectorUserID).
				Update("score", gorm.Expr("score + ?", outcome.SelectorBonus)).Error
		}
	}
	_ = s.persistEvent("", g.ID, entry.UserID, "guess_submitted", EventPayload{
		SongID:        entry.SongID,
		GuessType:     string(entry.Kind),
		Guess:         entry.Text,
		IsCorrect:     entry.Correct,
		Points:        entry.Points,
		SelectorBonus: outcome.SelectorBonus,
	})
}

func (s *Server) persistAdvanceEvent(room *Room, g *Game, userID string) {
	if s.db == nil || g == nil {
		return
	}
	eventType := "round_advanced"
	if g.Status == gameFinished {
		eventType = "game_finished"
	}
	_ = s.persistEvent(room.ID, g.ID, userID, eventType, EventPayload{
		SongIndex: g.CurrentSongIndex,
		Status:    g.Status,
	})
}

func (s *Server) persistSelection(g *Game, selection *Selection) {
	if s.db == nil || g == nil || selection == nil {
		return
	}
	record := db.SelectedSong{
		ID:         selection.ID,
		GameID:     g.ID,
		SelectedBy: selection.SelectedBy,
		SongID:     selection.SongID,
		CreatedAt:  selection.CreatedAt,
	}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			_ = s.db.Model(&db.SelectedSong{}).
				Where("game_id = ? AND selected_by = ?", g.ID, selection.SelectedBy).
				Update("song_id", selection.SongID).Error
		}
	}
	_ = s.persistEvent("", g.ID, selection.SelectedBy, "song_selected", EventPayload{
		SongID: selection.SongID,
	})
}

func (s *Server) persistDeleteSelection(g *Game, userID string) {
	if s.db == nil || g == nil {
		return
	}
	_ = s.db.Where("game_id = ? AND selected_by = ?", g.ID, userID).
		Delete(&db.SelectedSong{}).Error
}

func (s *Server) persistSong(song *Song) {
	if s.db == nil || song == nil {
		return
	}
	record := db.Song{
		ID:         song.ID,
		CatalogID:  song.CatalogID,
		Title:      song.Title,
		Artist:     song.Artist,
		Album:      song.Album,
		ImageURL:   song.ImageURL,
		DurationMS: song.DurationMS,
		CreatedAt:  timeNowUTC(),
		UpdatedAt:  timeNowUTC(),
	}
	if song.PreviewURL != "" {
		record.PreviewURL = &song.PreviewURL
	}
	_ = s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error
}

func (s *Server) persistSongPreviewURL(songID, previewURL string) {
	if s.db == nil {
		return
	}
	_ = s.db.Model(&db.Song{}).Where("id = ?", songID).
		Update("preview_url", previewURL).Error
}

func (s *Server) persistDeleteRoom(room *Room) {
	if s.db == nil {
		return
	}
	_ = s.db.Where("id = ?", room.ID).Delete(&db.Room{}).Error
	_ = s.persistEvent(room.ID, "", room.HostUserID, "room_deleted", EventPayload{
		RoomCode: room.Code,
	})
}

func (s *Server) persistPlaylist(playlist *Playlist) error {
	if s.db == nil {
		return nil
	}
	record := db.Playlist{
		ID:          playlist.ID,
		Name:        playlist.Name,
		OwnerUserID: playlist.OwnerUserID,
		CreatedAt:   playlist.CreatedAt,
		UpdatedAt:   playlist.UpdatedAt,
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error
}

// persistPlaylistSongs rewrites the playlist's song rows to match the
// in-memory order.
func (s *Server) persistPlaylistSongs(playlist *Playlist) {
	if s.db == nil || playlist == nil {
		return
	}
	_ = s.db.Where("playlist_id = ?", playlist.ID).Delete(&db.PlaylistSong{}).Error
	for i, songID := range playlist.SongIDs {
		record := db.PlaylistSong{
			ID:         uuid.NewString(),
			PlaylistID: playlist.ID,
			SongID:     songID,
			Position:   i,
			CreatedAt:  timeNowUTC(),
		}
		_ = s.db.Create(&record).Error
	}
}

func (s *Server) persistDeletePlaylist(playlist *Playlist) {
	if s.db == nil {
		return
	}
	_ = s.db.Where("playlist_id = ?", playlist.ID).Delete(&db.PlaylistSong{}).Error
	_ = s.db.Where("id = ?", playlist.ID).Delete(&db.Playlist{}).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
