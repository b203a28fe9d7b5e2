package game

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)
var multiSpace = regexp.MustCompile(`\s+`)
var featTail = regexp.MustCompile(`\s+(feat|ft)\b.*$`)

// normalize lowercases, strips punctuation and collapses whitespace so
// guesses are compared on words alone.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = nonAlnum.ReplaceAllString(s, "")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// variants expands a normalized string into the set of forms accepted as
// equivalent: with and without a leading or embedded "the", ampersand
// spelled out, and featured-artist suffixes removed.
func variants(s string) []string {
	seen := map[string]bool{}
	out := []string{}
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	add(s)
	if strings.HasPrefix(s, "the ") {
		add(strings.TrimPrefix(s, "the "))
	}
	if strings.Contains(s, " the ") {
		add(multiSpace.ReplaceAllString(strings.ReplaceAll(s, " the ", " "), " "))
	}
	if strings.Contains(s, " and ") {
		add(strings.ReplaceAll(s, " and ", " "))
	}
	if trimmed := featTail.ReplaceAllString(s, ""); trimmed != s {
		add(trimmed)
	}
	grown := out[:len(out):len(out)]
	for _, v := range grown {
		if strings.HasPrefix(v, "the ") {
			add(strings.TrimPrefix(v, "the "))
		}
	}
	return out
}

// Matches reports whether a player's guess counts as the given answer.
// Any variant of the guess matching any variant of the answer is accepted,
// and multi-word answers additionally accept an 80% word overlap.
func Matches(guess, answer string) bool {
	g := normalize(guess)
	a := normalize(answer)
	if g == "" || a == "" {
		return false
	}
	for _, gv := range variants(g) {
		for _, av := range variants(a) {
			if gv == av {
				return true
			}
		}
	}
	answerWords := strings.Fields(a)
	if len(answerWords) < 2 {
		return false
	}
	guessWords := strings.Fields(g)
	matched := 0
	for _, w := range answerWords {
		for _, gw := range guessWords {
			// Containment in either direction, so a trailing typo like
			// "judee" still counts as "jude".
			if strings.Contains(gw, w) || strings.Contains(w, gw) {
				matched++
				break
			}
		}
	}
	return float64(matched)/float64(len(answerWords)) >= 0.8
}
