package game

import "math"

// Points awarded for correct guesses and for having picked the song
// someone else identified.
const (
	PointsTitle         = 100
	PointsArtist        = 50
	SelectorBonusTitle  = 20
	SelectorBonusArtist = 10
)

// TimeBonus converts the seconds left on the round clock into bonus
// points. A guess after time has run out earns no bonus.
func TimeBonus(secondsRemaining float64) int {
	if secondsRemaining <= 0 {
		return 0
	}
	return int(math.Floor(2 * secondsRemaining))
}

// GuessPoints returns the points a correct guess of the given kind earns,
// including the time bonus.
func GuessPoints(kind GuessKind, secondsRemaining float64) int {
	base := PointsArtist
	if kind == GuessTitle {
		base = PointsTitle
	}
	return base + TimeBonus(secondsRemaining)
}

// SelectorBonus returns the points credited to the player who picked the
// song when someone else guesses it correctly.
func SelectorBonus(kind GuessKind) int {
	if kind == GuessTitle {
		return SelectorBonusTitle
	}
	return SelectorBonusArtist
}

// GuessKind distinguishes title guesses from artist guesses.
type GuessKind string

const (
	GuessTitle  GuessKind = "TITLE"
	GuessArtist GuessKind = "ARTIST"
)

// ValidGuessKind reports whether s names a known guess kind.
func ValidGuessKind(s string) bool {
	return s == string(GuessTitle) || s == string(GuessArtist)
}
