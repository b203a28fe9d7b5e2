package server

import (
	"math"
	"time"

	"name-that-tune/internal/game"

	"github.com/google/uuid"
)

// guessOutcome is what a single evaluated guess did to the ledger.
type guessOutcome struct {
	Entry          *GuessEntry
	SelectorUserID string
	SelectorBonus  int
}

// applyGuess evaluates a guess against the current song and settles all
// score changes. Must be called under the store lock; the caller's
// UpdateRoom closure provides that.
func applyGuess(room *Room, song *Song, userID string, kind game.GuessKind, text string, now time.Time) (*guessOutcome, error) {
	g := room.CurrentGame
	if g == nil || g.Status != gamePlaying {
		return nil, errInvalidState
	}
	if g.RoundStartedAt == nil {
		return nil, errInvalidState
	}
	participant := findParticipant(g, userID)
	if participant == nil {
		return nil, errForbidden
	}
	songID := currentSongID(g)
	if songID == "" || song == nil || song.ID != songID {
		return nil, errInvalidState
	}
	secondsRemaining := game.SecondsRemaining(g.RoundStartedAt, g.RoundDuration, now)
	if secondsRemaining <= 0 {
		// The answer is revealed once the clock hits zero, so the
		// round is closed to guesses from that moment.
		return nil, errInvalidState
	}
	selector := selectorOf(g, songID)
	if selector != "" && selector == userID {
		return nil, errForbidden
	}
	for _, prev := range g.Guesses {
		if prev.UserID == userID && prev.SongID == songID && prev.Kind == kind && prev.Correct {
			return nil, errConflict
		}
	}

	answer := song.Artist
	if kind == game.GuessTitle {
		answer = song.Title
	}
	correct := game.Matches(text, answer)
	points := 0
	if correct {
		points = game.GuessPoints(kind, secondsRemaining)
	}

	entry := GuessEntry{
		ID:               uuid.NewString(),
		UserID:           userID,
		SongID:           songID,
		Kind:             kind,
		Text:             text,
		Correct:          correct,
		Points:           points,
		SecondsRemaining: int(math.Floor(secondsRemaining)),
		CreatedAt:        now.UTC(),
	}
	g.Guesses = append(g.Guesses, entry)
	outcome := &guessOutcome{Entry: &g.Guesses[len(g.Guesses)-1]}
	if !correct {
		return outcome, nil
	}

	participant.Score += points
	if selector != "" {
		if selParticipant := findParticipant(g, selector); selParticipant != nil {
			bonus := game.SelectorBonus(kind)
			selParticipant.Score += bonus
			outcome.SelectorUserID = selector
			outcome.SelectorBonus = bonus
		}
	}
	return outcome, nil
}

// redactedGuesses returns the guesses for the current song as seen by
// viewerID. Other players' near-misses are masked so a close guess does
// not leak the answer.
func redactedGuesses(g *Game, song *Song, viewerID string) []map[string]any {
	songID := currentSongID(g)
	list := make([]map[string]any, 0)
	for _, entry := range g.Guesses {
		if entry.SongID != songID {
			continue
		}
		text := entry.Text
		hidden := false
		if entry.UserID != viewerID && song != nil && game.ShouldHide(entry.Text, song.Title, song.Artist) {
			text = hiddenGuessPlaceholder
			hidden = true
		}
		userName := entry.UserID
		if p := findParticipant(g, entry.UserID); p != nil {
			userName = p.DisplayName
		}
		list = append(list, map[string]any{
			"id":        entry.ID,
			"userId":    entry.UserID,
			"userName":  userName,
			"guessType": string(entry.Kind),
			"guess":     text,
			"hidden":    hidden,
			"isCorrect": entry.Correct,
			"points":    entry.Points,
			"createdAt": entry.CreatedAt.Format(time.RFC3339),
		})
	}
	return list
}
