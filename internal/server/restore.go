package server

import (
	"encoding/json"
	"log"

	"name-that-tune/internal/db"
	"name-that-tune/internal/game"
)

// RestoreFromDB reloads songs, playlists and every unfinished room into
// the store after a restart. Finished rooms stay in the database as
// history only.
func (s *Server) RestoreFromDB() error {
	if s.db == nil {
		return nil
	}
	var songs []db.Song
	if err := s.db.Find(&songs).Error; err != nil {
		return err
	}
	for _, record := range songs {
		s.store.RestoreSong(songFromRecord(record))
	}

	var playlists []db.Playlist
	if err := s.db.Find(&playlists).Error; err != nil {
		return err
	}
	for _, record := range playlists {
		playlist := &Playlist{
			ID:          record.ID,
			Name:        record.Name,
			OwnerUserID: record.OwnerUserID,
			CreatedAt:   record.CreatedAt,
			UpdatedAt:   record.UpdatedAt,
		}
		var rows []db.PlaylistSong
		if err := s.db.Where("playlist_id = ?", record.ID).Order("position asc").Find(&rows).Error; err != nil {
			return err
		}
		for _, row := range rows {
			playlist.SongIDs = append(playlist.SongIDs, row.SongID)
		}
		s.store.RestorePlaylist(playlist)
	}

	var rooms []db.Room
	if err := s.db.Where("status <> ?", roomFinished).Find(&rooms).Error; err != nil {
		return err
	}
	restored := 0
	for _, record := range rooms {
		room, err := s.loadRoom(record)
		if err != nil {
			log.Printf("room restore failed code=%s err=%v", record.Code, err)
			continue
		}
		if err := s.store.RestoreRoom(room); err != nil {
			log.Printf("room restore skipped code=%s err=%v", record.Code, err)
			continue
		}
		restored++
	}
	if restored > 0 {
		log.Printf("restored %d rooms from database", restored)
	}
	return nil
}

func (s *Server) loadRoom(record db.Room) (*Room, error) {
	room := &Room{
		ID:         record.ID,
		Code:       record.Code,
		Name:       record.Name,
		HostUserID: record.HostUserID,
		MaxPlayers: record.MaxPlayers,
		Status:     record.Status,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}

	var games []db.Game
	if err := s.db.Where("room_id = ?", record.ID).Order("created_at asc").Find(&games).Error; err != nil {
		return nil, err
	}
	for i, gameRecord := range games {
		if i < len(games)-1 {
			room.PastGameIDs = append(room.PastGameIDs, gameRecord.ID)
			continue
		}
		g, err := s.loadGame(gameRecord)
		if err != nil {
			return nil, err
		}
		room.CurrentGame = g
	}
	return room, nil
}

func (s *Server) loadGame(record db.Game) (*Game, error) {
	g := &Game{
		ID:               record.ID,
		RoomID:           record.RoomID,
		Status:           record.Status,
		CurrentSongIndex: record.CurrentSongIndex,
		RoundStartedAt:   record.RoundStartedAt,
		RoundDuration:    record.RoundDuration,
		StartedAt:        record.StartedAt,
		FinishedAt:       record.FinishedAt,
		CreatedAt:        record.CreatedAt,
	}
	if record.PlaylistID != nil {
		g.PlaylistID = *record.PlaylistID
	}
	if len(record.SongOrder) > 0 {
		if err := json.Unmarshal(record.SongOrder, &g.SongOrder); err != nil {
			return nil, err
		}
	}

	var participants []db.Participant
	if err := s.db.Where("game_id = ?", record.ID).Order("joined_at asc").Find(&participants).Error; err != nil {
		return nil, err
	}
	for _, row := range participants {
		g.Participants = append(g.Participants, Participant{
			ID:          row.ID,
			UserID:      row.UserID,
			DisplayName: row.DisplayName,
			Score:       row.Score,
			JoinedAt:    row.JoinedAt,
		})
	}

	var selections []db.SelectedSong
	if err := s.db.Where("game_id = ?", record.ID).Order("created_at asc").Find(&selections).Error; err != nil {
		return nil, err
	}
	for _, row := range selections {
		g.Selections = append(g.Selections, Selection{
			ID:         row.ID,
			SelectedBy: row.SelectedBy,
			SongID:     row.SongID,
			CreatedAt:  row.CreatedAt,
		})
	}

	var guesses []db.Guess
	if err := s.db.Where("game_id = ?", record.ID).Order("created_at asc").Find(&guesses).Error; err != nil {
		return nil, err
	}
	for _, row := range guesses {
		g.Guesses = append(g.Guesses, GuessEntry{
			ID:               row.ID,
			UserID:           row.UserID,
			SongID:           row.SongID,
			Kind:             game.GuessKind(row.GuessType),
			Text:             row.GuessText,
			Correct:          row.IsCorrect,
			Points:           row.PointsAwarded,
			SecondsRemaining: row.SecondsRemaining,
			CreatedAt:        row.CreatedAt,
		})
	}
	return g, nil
}

func songFromRecord(record db.Song) *Song {
	song := &Song{
		ID:         record.ID,
		CatalogID:  record.CatalogID,
		Title:      record.Title,
		Artist:     record.Artist,
		Album:      record.Album,
		ImageURL:   record.ImageURL,
		DurationMS: record.DurationMS,
	}
	if record.PreviewURL != nil {
		song.PreviewURL = *record.PreviewURL
	}
	return song
}
