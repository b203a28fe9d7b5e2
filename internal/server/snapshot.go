package server

import (
	"context"
	"time"

	"name-that-tune/internal/catalog"
	"name-that-tune/internal/game"
)

func roomSnapshot(room *Room) map[string]any {
	currentGameID := ""
	participants := make([]map[string]any, 0)
	if room.CurrentGame != nil {
		currentGameID = room.CurrentGame.ID
		for _, p := range room.CurrentGame.Participants {
			participants = append(participants, map[string]any{
				"userId":      p.UserID,
				"displayName": p.DisplayName,
				"score":       p.Score,
				"isHost":      p.UserID == room.HostUserID,
			})
		}
	}
	return map[string]any{
		"code":          room.Code,
		"name":          room.Name,
		"status":        room.Status,
		"hostUserId":    room.HostUserID,
		"maxPlayers":    room.MaxPlayers,
		"participants":  participants,
		"currentGameId": currentGameID,
		"createdAt":     room.CreatedAt.Format(time.RFC3339),
	}
}

// gameSnapshot is the polled state document. The clock in it is the only
// round clock that exists; clients render what they are given.
func (s *Server) gameSnapshot(ctx context.Context, room *Room, g *Game, viewerID string, now time.Time) map[string]any {
	clock := game.Clock(g.RoundStartedAt, g.RoundDuration, now)
	roundOver := g.RoundStartedAt != nil && clock.TimeRemaining == 0

	var song *Song
	if g.Status == gamePlaying || g.Status == gameFinished {
		song, _ = s.store.SongByID(currentSongID(g))
	}
	var songPayload map[string]any
	if song != nil {
		songPayload = map[string]any{
			"id":         song.ID,
			"previewUrl": s.freshPreviewURL(ctx, song, now),
			"imageUrl":   song.ImageURL,
			"durationMs": song.DurationMS,
		}
		// The answer, and whose pick it was, stay server-side until the
		// round is over.
		if roundOver || g.Status == gameFinished {
			songPayload["title"] = song.Title
			songPayload["artist"] = song.Artist
			songPayload["album"] = song.Album
			songPayload["selectedBy"] = selectorName(g, song.ID)
		}
	}

	scores := make([]map[string]any, 0, len(g.Participants))
	for _, p := range g.Participants {
		scores = append(scores, map[string]any{
			"userId":      p.UserID,
			"displayName": p.DisplayName,
			"score":       p.Score,
		})
	}

	roundScores := map[string]int{}
	songID := currentSongID(g)
	for _, entry := range g.Guesses {
		if entry.SongID == songID && entry.Correct {
			roundScores[entry.UserID] += entry.Points
		}
	}

	selected := make([]string, 0, len(g.Selections))
	for _, sel := range g.Selections {
		selected = append(selected, sel.SelectedBy)
	}

	roundStartedAt := ""
	if g.RoundStartedAt != nil {
		roundStartedAt = g.RoundStartedAt.Format(time.RFC3339)
	}
	return map[string]any{
		"id":               g.ID,
		"roomCode":         room.Code,
		"status":           g.Status,
		"hostUserId":       room.HostUserID,
		"viewerUserId":     viewerID,
		"currentSongIndex": g.CurrentSongIndex,
		"totalSongs":       len(g.SongOrder),
		"timeRemaining":    clock.TimeRemaining,
		"isPlaying":        clock.IsPlaying,
		"roundStartedAt":   roundStartedAt,
		"roundDuration":    g.RoundDuration,
		"song":             songPayload,
		"guesses":          redactedGuesses(g, song, viewerID),
		"scores":           scores,
		"roundScores":      roundScores,
		"selectedBy":       selected,
		"playlistId":       g.PlaylistID,
		"serverTimestamp":  now.UTC().Format(time.RFC3339),
	}
}

// freshPreviewURL runs the stored URL through the expiry gate, caching a
// refreshed link back into the store and the database.
func (s *Server) freshPreviewURL(ctx context.Context, song *Song, now time.Time) string {
	fresh := catalog.FreshPreviewURL(ctx, s.catalog, song.CatalogID, song.PreviewURL, now)
	if fresh != song.PreviewURL {
		s.store.SetSongPreviewURL(song.ID, fresh)
		s.persistSongPreviewURL(song.ID, fresh)
	}
	return fresh
}

// songsSummary lists the played songs with answers and pickers. Only
// served once the game is finished.
func (s *Server) songsSummary(g *Game) []map[string]any {
	list := make([]map[string]any, 0, len(g.SongOrder))
	for i, songID := range g.SongOrder {
		song, ok := s.store.SongByID(songID)
		if !ok {
			continue
		}
		list = append(list, map[string]any{
			"index":      i,
			"id":         song.ID,
			"title":      song.Title,
			"artist":     song.Artist,
			"album":      song.Album,
			"imageUrl":   song.ImageURL,
			"selectedBy": selectorName(g, songID),
		})
	}
	return list
}

// selectorName resolves a song's picker to their display name, or
// "playlist" for songs nobody owns.
func selectorName(g *Game, songID string) string {
	selector := selectorOf(g, songID)
	if selector == "" {
		return "playlist"
	}
	if p := findParticipant(g, selector); p != nil {
		return p.DisplayName
	}
	return selector
}
