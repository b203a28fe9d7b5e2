package db

import (
	"time"

	"gorm.io/datatypes"
)

type Room struct {
	ID         string    `gorm:"primaryKey;size:36"`
	Code       string    `gorm:"size:6;uniqueIndex;not null"`
	Name       string    `gorm:"size:64"`
	HostUserID string    `gorm:"size:36;index;not null"`
	MaxPlayers int       `gorm:"not null"`
	Status     string    `gorm:"size:16;not null"`
	Settings   datatypes.JSON
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
	Games      []Game
}

type Game struct {
	ID               string `gorm:"primaryKey;size:36"`
	RoomID           string `gorm:"size:36;index;not null"`
	Status           string `gorm:"size:16;not null"`
	PlaylistID       *string
	SongOrder        datatypes.JSON
	CurrentSongIndex int    `gorm:"not null;default:0"`
	CurrentSongID    string `gorm:"size:36"`
	RoundStartedAt   *time.Time
	RoundDuration    int `gorm:"not null"`
	StartedAt        *time.Time
	FinishedAt       *time.Time
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
	Participants     []Participant
	SelectedSongs    []SelectedSong
	Guesses          []Guess
}

type Participant struct {
	ID          string    `gorm:"primaryKey;size:36"`
	GameID      string    `gorm:"size:36;not null;uniqueIndex:idx_participants_game_user"`
	UserID      string    `gorm:"size:36;not null;uniqueIndex:idx_participants_game_user"`
	DisplayName string    `gorm:"size:64;not null"`
	Score       int       `gorm:"not null;default:0"`
	JoinedAt    time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

type Song struct {
	ID         string    `gorm:"primaryKey;size:36"`
	CatalogID  string    `gorm:"size:64;uniqueIndex;not null"`
	Title      string    `gorm:"size:256;not null"`
	Artist     string    `gorm:"size:256;not null"`
	Album      string    `gorm:"size:256"`
	PreviewURL *string   `gorm:"size:1024"`
	ImageURL   string    `gorm:"size:1024"`
	DurationMS int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

type SelectedSong struct {
	ID         string    `gorm:"primaryKey;size:36"`
	GameID     string    `gorm:"size:36;not null;uniqueIndex:idx_selections_game_user"`
	SelectedBy string    `gorm:"size:36;not null;uniqueIndex:idx_selections_game_user"`
	SongID     string    `gorm:"size:36;index;not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

type Guess struct {
	ID               string    `gorm:"primaryKey;size:36"`
	GameID           string    `gorm:"size:36;index;not null"`
	UserID           string    `gorm:"size:36;index;not null"`
	SongID           string    `gorm:"size:36;index;not null"`
	GuessType        string    `gorm:"size:8;not null"`
	GuessText        string    `gorm:"size:256;not null"`
	IsCorrect        bool      `gorm:"not null;default:false"`
	PointsAwarded    int       `gorm:"not null;default:0"`
	SecondsRemaining int       `gorm:"not null;default:0"`
	CreatedAt        time.Time `gorm:"not null;index"`
}

type Playlist struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Name        string    `gorm:"size:128;not null"`
	OwnerUserID string    `gorm:"size:36;index;not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
	Songs       []PlaylistSong
}

type PlaylistSong struct {
	ID         string    `gorm:"primaryKey;size:36"`
	PlaylistID string    `gorm:"size:36;not null;uniqueIndex:idx_playlist_songs_position"`
	SongID     string    `gorm:"size:36;index;not null"`
	Position   int       `gorm:"not null;uniqueIndex:idx_playlist_songs_position"`
	CreatedAt  time.Time `gorm:"not null"`
}

type Session struct {
	ID          string    `gorm:"primaryKey;size:64"`
	UserID      string    `gorm:"size:36;index;not null"`
	DisplayName string    `gorm:"size:64"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	RoomID    string         `gorm:"size:36;index"`
	GameID    string         `gorm:"size:36;index"`
	UserID    string         `gorm:"size:36;index"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
