package game

import (
	"testing"
	"time"
)

func TestClockBeforeStart(t *testing.T) {
	c := Clock(nil, 30, time.Now())
	if c.TimeRemaining != 30 {
		t.Errorf("TimeRemaining = %d, want 30", c.TimeRemaining)
	}
	if c.IsPlaying {
		t.Error("clock should not be playing before the round starts")
	}
}

func TestClockMidRound(t *testing.T) {
	now := time.Now()
	start := now.Add(-25 * time.Second)
	c := Clock(&start, 30, now)
	if c.TimeRemaining != 5 {
		t.Errorf("TimeRemaining = %d, want 5", c.TimeRemaining)
	}
	if !c.IsPlaying {
		t.Error("clock should be playing mid-round")
	}
}

func TestClockPartialSecondFloors(t *testing.T) {
	now := time.Now()
	start := now.Add(-25*time.Second - 400*time.Millisecond)
	c := Clock(&start, 30, now)
	if c.TimeRemaining != 5 {
		t.Errorf("TimeRemaining = %d, want 5", c.TimeRemaining)
	}
}

func TestClockNeverNegative(t *testing.T) {
	now := time.Now()
	start := now.Add(-90 * time.Second)
	c := Clock(&start, 30, now)
	if c.TimeRemaining != 0 {
		t.Errorf("TimeRemaining = %d, want 0", c.TimeRemaining)
	}
	if c.IsPlaying {
		t.Error("clock should not be playing after time runs out")
	}
}

func TestSecondsRemaining(t *testing.T) {
	now := time.Now()
	start := now.Add(-10 * time.Second)
	got := SecondsRemaining(&start, 30, now)
	if got < 19.99 || got > 20.01 {
		t.Errorf("SecondsRemaining = %v, want ~20", got)
	}
	start = now.Add(-90 * time.Second)
	if got := SecondsRemaining(&start, 30, now); got != 0 {
		t.Errorf("expired SecondsRemaining = %v, want 0", got)
	}
	if got := SecondsRemaining(nil, 30, now); got != 30 {
		t.Errorf("unstarted SecondsRemaining = %v, want 30", got)
	}
}
