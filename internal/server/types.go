package server

import (
	"time"

	"name-that-tune/internal/game"
)

const (
	roomWaiting   = "WAITING"
	roomSelecting = "SELECTING"
	roomPlaying   = "PLAYING"
	roomFinished  = "FINISHED"
)

const (
	gameSelecting = "SELECTING"
	gamePlaying   = "PLAYING"
	gameFinished  = "FINISHED"
)

const hiddenGuessPlaceholder = "[Hidden - too close]"

// Room is a lobby identified by a six character join code. Its lifetime
// spans any number of games played by the same group.
type Room struct {
	ID         string
	Code       string
	Name       string
	HostUserID string
	MaxPlayers int
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	CurrentGame *Game
	PastGameIDs []string
}

// Game is one play-through of a set of songs. Participants, their picks
// and every guess live here.
type Game struct {
	ID               string
	RoomID           string
	Status           string
	PlaylistID       string
	Participants     []Participant
	Selections       []Selection
	SongOrder        []string
	CurrentSongIndex int
	RoundStartedAt   *time.Time
	RoundDuration    int
	Guesses          []GuessEntry
	StartedAt        *time.Time
	FinishedAt       *time.Time
	CreatedAt        time.Time
}

type Participant struct {
	ID          string
	UserID      string
	DisplayName string
	Score       int
	JoinedAt    time.Time
}

// Selection records one participant's pick for the upcoming game. At most
// one per user.
type Selection struct {
	ID         string
	SelectedBy string
	SongID     string
	CreatedAt  time.Time
}

type GuessEntry struct {
	ID               string
	UserID           string
	SongID           string
	Kind             game.GuessKind
	Text             string
	Correct          bool
	Points           int
	SecondsRemaining int
	CreatedAt        time.Time
}

// Song is a cached catalog track. Cached rows are shared across games so
// a track is fetched from the provider once.
type Song struct {
	ID         string
	CatalogID  string
	Title      string
	Artist     string
	Album      string
	PreviewURL string
	ImageURL   string
	DurationMS int
}

type Playlist struct {
	ID          string
	Name        string
	OwnerUserID string
	SongIDs     []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RoomSummary is the listing shape for the lobby index.
type RoomSummary struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	HostName     string `json:"hostName"`
	Participants int    `json:"participants"`
	MaxPlayers   int    `json:"maxPlayers"`
	CanJoin      bool   `json:"canJoin"`
}
