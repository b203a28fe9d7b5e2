package server

import "strings"

func parseRoomPath(path string) (string, string, bool) {
	const prefix = "/api/rooms/"
	if !strings.HasPrefix(path, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "", "", false
	}
	code := strings.ToUpper(parts[0])
	if len(parts) == 1 {
		return code, "", true
	}
	if len(parts) == 2 {
		return code, parts[1], true
	}
	return "", "", false
}

func parseGamePath(path string) (string, string, bool) {
	const prefix = "/api/games/"
	if !strings.HasPrefix(path, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "", "", false
	}
	gameID := parts[0]
	if len(parts) == 1 {
		return gameID, "", true
	}
	if len(parts) == 2 {
		return gameID, parts[1], true
	}
	return "", "", false
}

func parsePlaylistPath(path string) (string, string, bool) {
	const prefix = "/api/playlists/"
	if !strings.HasPrefix(path, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "", "", false
	}
	playlistID := parts[0]
	if len(parts) == 1 {
		return playlistID, "", true
	}
	if len(parts) == 2 && parts[1] == "songs" {
		return playlistID, "", true
	}
	if len(parts) == 3 && parts[1] == "songs" {
		return playlistID, parts[2], true
	}
	return "", "", false
}

func parseTrackPath(path string) (string, bool) {
	const prefix = "/api/tracks/"
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	id := strings.TrimPrefix(path, prefix)
	id = strings.Trim(id, "/")
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func parseRoomViewPath(path string) (string, bool) {
	const prefix = "/rooms/"
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	code := strings.TrimPrefix(path, prefix)
	code = strings.Trim(code, "/")
	if code == "" || strings.Contains(code, "/") {
		return "", false
	}
	return strings.ToUpper(code), true
}
