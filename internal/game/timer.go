package game

import (
	"math"
	"time"
)

// RoundClock is the server-authoritative view of the round timer as of a
// single instant. Clients render it as-is and never run their own clock.
type RoundClock struct {
	TimeRemaining int  `json:"timeRemaining"`
	IsPlaying     bool `json:"isPlaying"`
}

// Clock computes the round clock from the recorded start time. A round
// that has not started reports the full duration and not playing.
func Clock(startedAt *time.Time, durationSeconds int, now time.Time) RoundClock {
	if startedAt == nil {
		return RoundClock{TimeRemaining: durationSeconds, IsPlaying: false}
	}
	elapsed := int(math.Floor(now.Sub(*startedAt).Seconds()))
	remaining := durationSeconds - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return RoundClock{TimeRemaining: remaining, IsPlaying: remaining > 0}
}

// SecondsRemaining returns the precise time left on the round clock for
// scoring purposes. It never goes below zero.
func SecondsRemaining(startedAt *time.Time, durationSeconds int, now time.Time) float64 {
	if startedAt == nil {
		return float64(durationSeconds)
	}
	remaining := float64(durationSeconds) - now.Sub(*startedAt).Seconds()
	if remaining < 0 {
		return 0
	}
	return remaining
}
