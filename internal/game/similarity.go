package game

import "strings"

// Similarity scores how close a guess is to an answer on a 0..1 scale.
// Exact matches score 1.0, substring containment scores 0.8, otherwise
// the score is derived from Levenshtein distance.
func Similarity(guess, answer string) float64 {
	g := strings.TrimSpace(strings.ToLower(guess))
	a := strings.TrimSpace(strings.ToLower(answer))
	if g == a {
		return 1.0
	}
	if g == "" || a == "" {
		return 0
	}
	if strings.Contains(a, g) || strings.Contains(g, a) {
		return 0.8
	}
	longest := len(g)
	if len(a) > longest {
		longest = len(a)
	}
	return 1.0 - float64(Levenshtein(g, a))/float64(longest)
}

// ShouldHide reports whether a guess is close enough to the song's title
// or artist that showing it to other players would give the answer away.
// Exact matches stay visible since those are already scored.
func ShouldHide(guess, title, artist string) bool {
	for _, answer := range []string{title, artist} {
		s := Similarity(guess, answer)
		if s > 0.7 && s < 1.0 {
			return true
		}
	}
	return false
}

// Levenshtein computes the edit distance between two strings.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			min := del
			if ins < min {
				min = ins
			}
			if sub < min {
				min = sub
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
