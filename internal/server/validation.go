package server

import (
	"errors"
	"fmt"
	"strings"
)

const (
	maxNameLength     = 20
	maxRoomNameLength = 64
	maxGuessLength    = 120
	maxQueryLength    = 200
	maxLobbyPlayers   = 16
)

func validateName(name string) (string, error) {
	return validateText("name", name, maxNameLength)
}

func validateRoomName(name string) (string, error) {
	trimmed := normalizeText(name)
	if trimmed == "" {
		return "", errors.New("room name is required")
	}
	if len(trimmed) > maxRoomNameLength {
		return "", fmt.Errorf("room name must be %d characters or fewer", maxRoomNameLength)
	}
	return trimmed, nil
}

// validateGuess only trims and bounds the text. Song titles carry accents
// and punctuation, so no character filter is applied here.
func validateGuess(text string) (string, error) {
	trimmed := normalizeText(text)
	if trimmed == "" {
		return "", errors.New("guess is required")
	}
	if len(trimmed) > maxGuessLength {
		return "", fmt.Errorf("guess must be %d characters or fewer", maxGuessLength)
	}
	return trimmed, nil
}

func validateQuery(text string) (string, error) {
	trimmed := normalizeText(text)
	if trimmed == "" {
		return "", errors.New("query is required")
	}
	if len(trimmed) > maxQueryLength {
		return "", fmt.Errorf("query must be %d characters or fewer", maxQueryLength)
	}
	return trimmed, nil
}

func validateMaxPlayers(n int) (int, error) {
	if n == 0 {
		return 0, nil
	}
	if n < 2 || n > maxLobbyPlayers {
		return 0, fmt.Errorf("max players must be between 2 and %d", maxLobbyPlayers)
	}
	return n, nil
}

func validateText(label, text string, maxLen int) (string, error) {
	trimmed := normalizeText(text)
	if trimmed == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	if len(trimmed) > maxLen {
		return "", fmt.Errorf("%s must be %d characters or fewer", label, maxLen)
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}
