package game

import "testing"

func TestTimeBonus(t *testing.T) {
	cases := []struct {
		remaining float64
		want      int
	}{
		{20, 40},
		{20.7, 41},
		{0.4, 0},
		{0, 0},
		{-3, 0},
	}
	for _, c := range cases {
		if got := TimeBonus(c.remaining); got != c.want {
			t.Errorf("TimeBonus(%v) = %d, want %d", c.remaining, got, c.want)
		}
	}
}

func TestGuessPoints(t *testing.T) {
	if got := GuessPoints(GuessTitle, 20); got != 140 {
		t.Errorf("title guess with 20s left = %d, want 140", got)
	}
	if got := GuessPoints(GuessArtist, 10); got != 70 {
		t.Errorf("artist guess with 10s left = %d, want 70", got)
	}
	if got := GuessPoints(GuessTitle, 0); got != 100 {
		t.Errorf("title guess after time = %d, want 100", got)
	}
}

func TestSelectorBonus(t *testing.T) {
	if got := SelectorBonus(GuessTitle); got != 20 {
		t.Errorf("selector bonus for title = %d, want 20", got)
	}
	if got := SelectorBonus(GuessArtist); got != 10 {
		t.Errorf("selector bonus for artist = %d, want 10", got)
	}
}

func TestValidGuessKind(t *testing.T) {
	if !ValidGuessKind("TITLE") || !ValidGuessKind("ARTIST") {
		t.Error("known kinds should be valid")
	}
	if ValidGuessKind("title") || ValidGuessKind("") || ValidGuessKind("ALBUM") {
		t.Error("unknown kinds should be invalid")
	}
}
