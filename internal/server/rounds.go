package server

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

func findParticipant(g *Game, userID string) *Participant {
	for i := range g.Participants {
		if g.Participants[i].UserID == userID {
			return &g.Participants[i]
		}
	}
	return nil
}

func addParticipant(room *Room, userID, name string) (*Participant, error) {
	g := room.CurrentGame
	if g == nil {
		return nil, errInvalidState
	}
	if existing := findParticipant(g, userID); existing != nil {
		if name != "" {
			existing.DisplayName = name
		}
		return existing, nil
	}
	if room.Status != roomWaiting && room.Status != roomSelecting {
		return nil, errInvalidState
	}
	if room.MaxPlayers > 0 && len(g.Participants) >= room.MaxPlayers {
		return nil, errConflict
	}
	g.Participants = append(g.Participants, Participant{
		ID:          uuid.NewString(),
		UserID:      userID,
		DisplayName: name,
		JoinedAt:    timeNowUTC(),
	})
	return &g.Participants[len(g.Participants)-1], nil
}

// removeParticipant drops a user from the current game. When the host
// leaves, the longest-standing remaining participant inherits the room.
func removeParticipant(room *Room, userID string) error {
	g := room.CurrentGame
	if g == nil {
		return errInvalidState
	}
	index := -1
	for i := range g.Participants {
		if g.Participants[i].UserID == userID {
			index = i
			break
		}
	}
	if index < 0 {
		return errNotFound
	}
	g.Participants = append(g.Participants[:index], g.Participants[index+1:]...)
	for i := range g.Selections {
		if g.Selections[i].SelectedBy == userID {
			g.Selections = append(g.Selections[:i], g.Selections[i+1:]...)
			break
		}
	}
	if room.HostUserID == userID && len(g.Participants) > 0 {
		room.HostUserID = g.Participants[0].UserID
	}
	if len(g.Participants) == 0 {
		room.Status = roomFinished
		g.Status = gameFinished
		now := timeNowUTC()
		g.FinishedAt = &now
	}
	return nil
}

// upsertSelection records a participant's pick, replacing an earlier one.
// The first pick moves the room from WAITING into SELECTING.
func upsertSelection(room *Room, userID, songID string) *Selection {
	g := room.CurrentGame
	if room.Status == roomWaiting {
		room.Status = roomSelecting
	}
	for i := range g.Selections {
		if g.Selections[i].SelectedBy == userID {
			g.Selections[i].SongID = songID
			g.Selections[i].CreatedAt = timeNowUTC()
			return &g.Selections[i]
		}
	}
	g.Selections = append(g.Selections, Selection{
		ID:         uuid.NewString(),
		SelectedBy: userID,
		SongID:     songID,
		CreatedAt:  timeNowUTC(),
	})
	return &g.Selections[len(g.Selections)-1]
}

// startGame freezes the song order and moves the room into play. The
// order is shuffled so nobody knows whose pick comes first.
func startGame(room *Room, songOrder []string, playlistID string) error {
	g := room.CurrentGame
	if g == nil || g.Status != gameSelecting {
		return errInvalidState
	}
	if len(songOrder) == 0 {
		return errInvalidState
	}
	shuffled := append([]string(nil), songOrder...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	now := timeNowUTC()
	g.SongOrder = shuffled
	g.PlaylistID = playlistID
	g.CurrentSongIndex = 0
	g.RoundStartedAt = nil
	g.Status = gamePlaying
	g.StartedAt = &now
	room.Status = roomPlaying
	return nil
}

func startRound(g *Game, now time.Time) error {
	if g.Status != gamePlaying {
		return errInvalidState
	}
	if g.RoundStartedAt != nil {
		return errConflict
	}
	start := now.UTC()
	g.RoundStartedAt = &start
	return nil
}

// advanceRound moves to the next song, or finishes the game after the
// last one. The new round waits for an explicit start.
func advanceRound(room *Room, g *Game, now time.Time) error {
	if g.Status != gamePlaying {
		return errInvalidState
	}
	if g.CurrentSongIndex+1 >= len(g.SongOrder) {
		finished := now.UTC()
		g.Status = gameFinished
		g.FinishedAt = &finished
		g.RoundStartedAt = nil
		room.Status = roomFinished
		return nil
	}
	g.CurrentSongIndex++
	g.RoundStartedAt = nil
	return nil
}

func currentSongID(g *Game) string {
	if g == nil || g.CurrentSongIndex < 0 || g.CurrentSongIndex >= len(g.SongOrder) {
		return ""
	}
	return g.SongOrder[g.CurrentSongIndex]
}

// selectorOf returns the user who picked the song, or "" for playlist
// songs nobody owns.
func selectorOf(g *Game, songID string) string {
	for _, sel := range g.Selections {
		if sel.SongID == songID {
			return sel.SelectedBy
		}
	}
	return ""
}

// newGameInRoom resets the room for another play-through with the same
// group. Scores start from zero; selections are cleared.
func newGameInRoom(room *Room, roundDuration int) *Game {
	old := room.CurrentGame
	now := timeNowUTC()
	g := &Game{
		ID:            uuid.NewString(),
		RoomID:        room.ID,
		Status:        gameSelecting,
		RoundDuration: roundDuration,
		CreatedAt:     now,
	}
	if old != nil {
		room.PastGameIDs = append(room.PastGameIDs, old.ID)
		for _, p := range old.Participants {
			g.Participants = append(g.Participants, Participant{
				ID:          uuid.NewString(),
				UserID:      p.UserID,
				DisplayName: p.DisplayName,
				JoinedAt:    now,
			})
		}
	}
	room.CurrentGame = g
	room.Status = roomWaiting
	return g
}
