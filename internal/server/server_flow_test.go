package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"name-that-tune/internal/config"
)

// viewerID asks the state endpoint who the client is.
func viewerID(t *testing.T, ts *httptest.Server, client *http.Client, gameID string) string {
	t.Helper()
	return fetchState(t, ts, client, gameID)["viewerUserId"].(string)
}

// currentRound reads the live song and its picker straight from the
// store so the test knows the answer the players are guessing at.
func currentRound(t *testing.T, srv *Server, gameID string) (song *Song, selectorUserID string) {
	t.Helper()
	room, ok := srv.Store().GetRoomByGame(gameID)
	if !ok {
		t.Fatal("room not found for game")
	}
	g := room.CurrentGame
	songID := currentSongID(g)
	song, ok = srv.Store().SongByID(songID)
	if !ok {
		t.Fatalf("current song %s not cached", songID)
	}
	return song, selectorOf(g, songID)
}

// backdateRound rewinds the running round so the clock reads close to
// the given number of seconds remaining.
func backdateRound(t *testing.T, srv *Server, gameID string, elapsed time.Duration) {
	t.Helper()
	_, err := srv.Store().UpdateRoomByGame(gameID, func(room *Room) error {
		g := room.CurrentGame
		if g == nil || g.RoundStartedAt == nil {
			t.Fatal("no running round to backdate")
		}
		start := time.Now().UTC().Add(-elapsed)
		g.RoundStartedAt = &start
		return nil
	})
	if err != nil {
		t.Fatalf("backdate round: %v", err)
	}
}

func TestFullGameFlow(t *testing.T) {
	srv, ts := newTestServer(t)
	host := newTestClient(t)
	guest := newTestClient(t)

	code := createRoom(t, ts, host, "Friday Night", "Avery")
	joinRoom(t, ts, guest, code, "Blake")
	gameID := currentGameID(t, ts, host, code)

	hostID := viewerID(t, ts, host, gameID)
	guestID := viewerID(t, ts, guest, gameID)
	clientOf := func(userID string) *http.Client {
		if userID == hostID {
			return host
		}
		return guest
	}

	// Starting before everyone has picked is rejected.
	resp := doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/start", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d before selections, got %d", http.StatusConflict, resp.StatusCode)
	}

	selectTrack(t, ts, host, gameID, "deezer_1")

	// The first pick moves the room into SELECTING and new players can
	// still join.
	resp = doAs(t, ts, host, http.MethodGet, "/api/rooms/"+code, nil)
	if got := decodeBody(t, resp)["status"]; got != "SELECTING" {
		t.Fatalf("expected room SELECTING after first pick, got %v", got)
	}

	selectTrack(t, ts, guest, gameID, "deezer_2")

	// Selections are visible by picker only; the guest sees who picked
	// but not what the host picked.
	resp = doAs(t, ts, guest, http.MethodGet, "/api/games/"+gameID+"/selections", nil)
	selections := decodeBody(t, resp)["selections"].([]any)
	if len(selections) != 2 {
		t.Fatalf("expected 2 selections, got %d", len(selections))
	}
	for _, entry := range selections {
		sel := entry.(map[string]any)
		_, hasSong := sel["song"]
		if sel["selectedBy"] == guestID && !hasSong {
			t.Error("expected guest to see their own pick")
		}
		if sel["selectedBy"] == hostID && hasSong {
			t.Error("host pick leaked to guest")
		}
	}

	// Only the host can start.
	resp = doAs(t, ts, guest, http.MethodPost, "/api/games/"+gameID+"/start", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d for guest start, got %d", http.StatusForbidden, resp.StatusCode)
	}
	resp = doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/start", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	state := decodeBody(t, resp)
	if state["status"] != "PLAYING" {
		t.Fatalf("expected PLAYING, got %v", state["status"])
	}
	if state["totalSongs"] != float64(2) {
		t.Errorf("expected 2 songs, got %v", state["totalSongs"])
	}
	if state["isPlaying"] != false || state["timeRemaining"] != float64(30) {
		t.Errorf("expected idle full clock before the round starts, got %v/%v", state["isPlaying"], state["timeRemaining"])
	}
	song := state["song"].(map[string]any)
	if _, leaked := song["title"]; leaked {
		t.Error("song title leaked before the round ended")
	}
	if song["previewUrl"] == "" {
		t.Error("expected a preview url for the current song")
	}

	// No guessing before the round clock starts.
	resp, _ = submitGuess(t, ts, guest, gameID, "TITLE", "Golden Harbor")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d before round start, got %d", http.StatusConflict, resp.StatusCode)
	}

	resp = doAs(t, ts, guest, http.MethodPost, "/api/games/"+gameID+"/start-round", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d for guest start-round, got %d", http.StatusForbidden, resp.StatusCode)
	}
	resp = doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/start-round", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	state = decodeBody(t, resp)
	if state["isPlaying"] != true {
		t.Fatal("expected the round clock to be running")
	}
	// A round cannot be started twice.
	resp = doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/start-round", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d for double start, got %d", http.StatusConflict, resp.StatusCode)
	}

	songOne, selector := currentRound(t, srv, gameID)
	if selector == "" {
		t.Fatal("expected the first song to have a picker")
	}
	guesserID := hostID
	if selector == hostID {
		guesserID = guestID
	}
	guesser := clientOf(guesserID)

	// Rewind the clock so the correct guess lands with just over 20
	// seconds left, worth 100 + 40.
	backdateRound(t, srv, gameID, 9600*time.Millisecond)

	resp, body := submitGuess(t, ts, guesser, gameID, "TITLE", "Totally Wrong Answer")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if body["isCorrect"] != false || body["pointsAwarded"] != float64(0) {
		t.Errorf("expected incorrect guess to score nothing, got %v", body)
	}

	resp, body = submitGuess(t, ts, guesser, gameID, "TITLE", songOne.Title)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if body["isCorrect"] != true {
		t.Fatal("expected the exact title to match")
	}
	if body["pointsAwarded"] != float64(140) {
		t.Errorf("expected 140 points at 20 seconds remaining, got %v", body["pointsAwarded"])
	}
	if body["selectorBonus"] != float64(20) {
		t.Errorf("expected selector bonus 20, got %v", body["selectorBonus"])
	}

	// A second correct title guess by the same player is rejected.
	resp, _ = submitGuess(t, ts, guesser, gameID, "TITLE", songOne.Title)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d for repeated correct guess, got %d", http.StatusConflict, resp.StatusCode)
	}

	// The artist is a separate guess with its own payout.
	resp, body = submitGuess(t, ts, guesser, gameID, "ARTIST", songOne.Artist)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if body["isCorrect"] != true || body["pointsAwarded"] != float64(90) {
		t.Errorf("expected 90 points for the artist, got %v", body)
	}
	if body["selectorBonus"] != float64(10) {
		t.Errorf("expected selector bonus 10, got %v", body["selectorBonus"])
	}

	// Ledger check: guesser holds both payouts, selector both bonuses.
	state = fetchState(t, ts, guesser, gameID)
	scores := map[string]float64{}
	for _, entry := range state["scores"].([]any) {
		row := entry.(map[string]any)
		scores[row["userId"].(string)] = row["score"].(float64)
	}
	if scores[guesserID] != 230 {
		t.Errorf("expected guesser at 230, got %v", scores[guesserID])
	}
	if scores[selector] != 30 {
		t.Errorf("expected selector at 30, got %v", scores[selector])
	}

	// Songs summary is not served mid-game.
	resp = doAs(t, ts, host, http.MethodGet, "/api/games/"+gameID+"/songs", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d mid-game, got %d", http.StatusConflict, resp.StatusCode)
	}

	// Advance to the second song; its round waits for an explicit start.
	resp = doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/next", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	state = decodeBody(t, resp)
	if state["currentSongIndex"] != float64(1) || state["isPlaying"] != false {
		t.Errorf("expected idle second round, got index=%v playing=%v", state["currentSongIndex"], state["isPlaying"])
	}

	resp = doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/start-round", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	songTwo, selectorTwo := currentRound(t, srv, gameID)
	guesserTwo := hostID
	if selectorTwo == hostID {
		guesserTwo = guestID
	}
	resp, body = submitGuess(t, ts, clientOf(guesserTwo), gameID, "TITLE", songTwo.Title)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if body["isCorrect"] != true {
		t.Fatal("expected the second title to match")
	}

	// Advancing past the last song finishes the game and the room.
	resp = doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/next", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	state = decodeBody(t, resp)
	if state["status"] != "FINISHED" {
		t.Fatalf("expected FINISHED, got %v", state["status"])
	}
	song = state["song"].(map[string]any)
	if song["title"] != songTwo.Title {
		t.Errorf("expected the answer to be revealed after the game, got %v", song["title"])
	}
	resp = doAs(t, ts, host, http.MethodGet, "/api/rooms/"+code, nil)
	if got := decodeBody(t, resp)["status"]; got != "FINISHED" {
		t.Errorf("expected room FINISHED, got %v", got)
	}

	// No advancing a finished game.
	resp = doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/next", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d on finished game, got %d", http.StatusConflict, resp.StatusCode)
	}
	// No guessing either.
	resp, _ = submitGuess(t, ts, guest, gameID, "TITLE", songTwo.Title)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d on finished game, got %d", http.StatusConflict, resp.StatusCode)
	}

	// The full answer sheet is available now.
	resp = doAs(t, ts, host, http.MethodGet, "/api/games/"+gameID+"/songs", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	summary := decodeBody(t, resp)["songs"].([]any)
	if len(summary) != 2 {
		t.Fatalf("expected 2 songs in the summary, got %d", len(summary))
	}
	for _, entry := range summary {
		row := entry.(map[string]any)
		if row["title"] == "" || row["selectedBy"] == "" {
			t.Errorf("expected answers and pickers in the summary, got %v", row)
		}
	}

	// A rematch resets scores and selections for the same group.
	resp = doAs(t, ts, host, http.MethodPost, "/api/rooms/"+code+"/new-game", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	rematch := decodeBody(t, resp)
	if rematch["status"] != "WAITING" {
		t.Errorf("expected WAITING rematch, got %v", rematch["status"])
	}
	if rematch["currentGameId"] == gameID {
		t.Error("expected a fresh game id")
	}
	for _, entry := range rematch["participants"].([]any) {
		row := entry.(map[string]any)
		if row["score"] != float64(0) {
			t.Errorf("expected scores reset, got %v", row["score"])
		}
	}
}

func TestGuessRedaction(t *testing.T) {
	srv, ts := newTestServer(t)
	host := newTestClient(t)
	guest := newTestClient(t)

	code := createRoom(t, ts, host, "Friday Night", "Avery")
	joinRoom(t, ts, guest, code, "Blake")
	gameID := currentGameID(t, ts, host, code)

	hostID := viewerID(t, ts, host, gameID)

	selectTrack(t, ts, host, gameID, "deezer_1")
	selectTrack(t, ts, guest, gameID, "deezer_2")
	doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/start", nil)
	doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/start-round", nil)

	song, selector := currentRound(t, srv, gameID)
	guesser, other := host, guest
	if selector == hostID {
		guesser, other = guest, host
	}

	// One character off the real title: wrong, but close enough that
	// showing it to the others would give the answer away.
	nearMiss := song.Title[:len(song.Title)-1] + "x"
	resp, body := submitGuess(t, ts, guesser, gameID, "TITLE", nearMiss)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if body["isCorrect"] != false {
		t.Fatal("expected the near miss to be incorrect")
	}

	resp = doAs(t, ts, other, http.MethodGet, "/api/games/"+gameID+"/guesses", nil)
	hostView := decodeBody(t, resp)["guesses"].([]any)
	if len(hostView) != 1 {
		t.Fatalf("expected 1 guess, got %d", len(hostView))
	}
	masked := hostView[0].(map[string]any)
	if masked["guess"] != hiddenGuessPlaceholder || masked["hidden"] != true {
		t.Errorf("expected the near miss masked for others, got %v", masked)
	}

	resp = doAs(t, ts, guesser, http.MethodGet, "/api/games/"+gameID+"/guesses", nil)
	ownView := decodeBody(t, resp)["guesses"].([]any)
	own := ownView[0].(map[string]any)
	if own["guess"] != nearMiss || own["hidden"] != false {
		t.Errorf("expected the guesser to see their own text, got %v", own)
	}

	// A plainly wrong guess stays visible to everyone.
	resp, _ = submitGuess(t, ts, guesser, gameID, "TITLE", "Something Else Entirely")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	resp = doAs(t, ts, other, http.MethodGet, "/api/games/"+gameID+"/guesses", nil)
	hostView = decodeBody(t, resp)["guesses"].([]any)
	if len(hostView) != 2 {
		t.Fatalf("expected 2 guesses, got %d", len(hostView))
	}
	plain := hostView[1].(map[string]any)
	if plain["guess"] != "Something Else Entirely" || plain["hidden"] != false {
		t.Errorf("expected the wild guess to stay visible, got %v", plain)
	}
}

func TestPlaylistGame(t *testing.T) {
	srv, ts := newTestServer(t)
	host := newTestClient(t)
	guest := newTestClient(t)

	resp := doAs(t, ts, host, http.MethodPost, "/api/playlists", map[string]string{
		"name": "Quiz Pack",
	})
	playlistID := decodeBody(t, resp)["id"].(string)
	doAs(t, ts, host, http.MethodPost, "/api/playlists/"+playlistID, map[string]string{"trackId": "deezer_1"})
	doAs(t, ts, host, http.MethodPost, "/api/playlists/"+playlistID, map[string]string{"trackId": "deezer_2"})

	code := createRoom(t, ts, host, "Playlist Night", "Avery")
	joinRoom(t, ts, guest, code, "Blake")
	gameID := currentGameID(t, ts, host, code)

	// Playlist mode needs no per-player selections.
	resp = doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/start", map[string]string{
		"playlistId": playlistID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	state := decodeBody(t, resp)
	if state["status"] != "PLAYING" || state["totalSongs"] != float64(2) {
		t.Fatalf("unexpected start state: %v", state)
	}

	doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/start-round", nil)
	song, selector := currentRound(t, srv, gameID)
	if selector != "" {
		t.Fatalf("expected no picker for a playlist song, got %s", selector)
	}

	// Nobody picked the song, so nobody collects a bonus.
	resp, body := submitGuess(t, ts, guest, gameID, "TITLE", song.Title)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if body["isCorrect"] != true {
		t.Fatal("expected the title to match")
	}
	if body["selectorBonus"] != float64(0) {
		t.Errorf("expected no selector bonus, got %v", body["selectorBonus"])
	}
}

func TestGuessValidation(t *testing.T) {
	_, ts := newTestServer(t)
	host := newTestClient(t)

	code := createRoom(t, ts, host, "Friday Night", "Avery")
	gameID := currentGameID(t, ts, host, code)

	resp := doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/guess", map[string]string{
		"guessType": "ALBUM",
		"guess":     "whatever",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status %d for bad guess type, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	resp = doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/guess", map[string]string{
		"guessType": "TITLE",
		"guess":     "   ",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status %d for empty guess, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	// Guessing while the game is still in selection is rejected.
	resp = doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/guess", map[string]string{
		"guessType": "TITLE",
		"guess":     "Golden Harbor",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected status %d during selection, got %d", http.StatusConflict, resp.StatusCode)
	}
}

func TestAutoAdvanceAfterGrace(t *testing.T) {
	cfg := config.Default()
	cfg.AdvanceGraceSeconds = 5
	srv := New(nil, newFakeCatalog(), cfg)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	host := newTestClient(t)
	guest := newTestClient(t)
	code := createRoom(t, ts, host, "Friday Night", "Avery")
	joinRoom(t, ts, guest, code, "Blake")
	gameID := currentGameID(t, ts, host, code)

	selectTrack(t, ts, host, gameID, "deezer_1")
	selectTrack(t, ts, guest, gameID, "deezer_2")
	doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/start", nil)
	doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/start-round", nil)

	// Not yet past the grace window: the poll leaves the round alone.
	backdateRound(t, srv, gameID, 32*time.Second)
	state := fetchState(t, ts, guest, gameID)
	if state["currentSongIndex"] != float64(0) {
		t.Fatalf("expected no advance within grace, got index %v", state["currentSongIndex"])
	}
	if state["timeRemaining"] != float64(0) || state["isPlaying"] != false {
		t.Errorf("expected an expired clock, got %v/%v", state["timeRemaining"], state["isPlaying"])
	}

	// Past duration plus grace: the next poll advances the round.
	backdateRound(t, srv, gameID, 36*time.Second)
	state = fetchState(t, ts, guest, gameID)
	if state["currentSongIndex"] != float64(1) {
		t.Fatalf("expected auto-advance past grace, got index %v", state["currentSongIndex"])
	}
	if state["isPlaying"] != false {
		t.Error("expected the new round to wait for an explicit start")
	}
}

func TestPartialSelectionStart(t *testing.T) {
	srv, ts := newTestServer(t)
	host := newTestClient(t)
	guest := newTestClient(t)

	code := createRoom(t, ts, host, "Friday Night", "Avery")
	joinRoom(t, ts, guest, code, "Blake")
	gameID := currentGameID(t, ts, host, code)
	guestID := viewerID(t, ts, guest, gameID)

	// Only the guest picked; the host plays the game as a pure guesser.
	selectTrack(t, ts, guest, gameID, "deezer_1")
	resp := doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/start", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d with one pick, got %d", http.StatusOK, resp.StatusCode)
	}
	state := decodeBody(t, resp)
	if state["status"] != "PLAYING" || state["totalSongs"] != float64(1) {
		t.Fatalf("expected a one-song game, got %v", state)
	}

	doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/start-round", nil)
	song, selector := currentRound(t, srv, gameID)
	if selector != guestID {
		t.Fatalf("expected the guest's pick, selected by %s", selector)
	}
	resp, body := submitGuess(t, ts, host, gameID, "TITLE", song.Title)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if body["isCorrect"] != true {
		t.Fatal("expected the non-picker's guess to land")
	}
}

func TestSelectorCannotGuessOwnSong(t *testing.T) {
	srv, ts := newTestServer(t)
	host := newTestClient(t)
	guest := newTestClient(t)

	code := createRoom(t, ts, host, "Friday Night", "Avery")
	joinRoom(t, ts, guest, code, "Blake")
	gameID := currentGameID(t, ts, host, code)
	hostID := viewerID(t, ts, host, gameID)

	selectTrack(t, ts, host, gameID, "deezer_1")
	selectTrack(t, ts, guest, gameID, "deezer_2")
	doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/start", nil)
	doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/start-round", nil)

	song, selector := currentRound(t, srv, gameID)
	picker := guest
	if selector == hostID {
		picker = host
	}
	resp, _ := submitGuess(t, ts, picker, gameID, "TITLE", song.Title)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d for the picker's own song, got %d", http.StatusForbidden, resp.StatusCode)
	}
	state := fetchState(t, ts, picker, gameID)
	for _, entry := range state["scores"].([]any) {
		row := entry.(map[string]any)
		if row["score"] != float64(0) {
			t.Errorf("expected no score after a rejected guess, got %v for %v", row["score"], row["userId"])
		}
	}
}

func TestGuessAfterRoundEndRejected(t *testing.T) {
	srv, ts := newTestServer(t)
	host := newTestClient(t)
	guest := newTestClient(t)

	code := createRoom(t, ts, host, "Friday Night", "Avery")
	joinRoom(t, ts, guest, code, "Blake")
	gameID := currentGameID(t, ts, host, code)
	hostID := viewerID(t, ts, host, gameID)

	selectTrack(t, ts, host, gameID, "deezer_1")
	selectTrack(t, ts, guest, gameID, "deezer_2")
	doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/start", nil)
	doAs(t, ts, host, http.MethodPost, "/api/games/"+gameID+"/start-round", nil)

	song, selector := currentRound(t, srv, gameID)
	guesser := host
	if selector == hostID {
		guesser = guest
	}

	// Run the clock out. The poll now reveals the answer, so feeding it
	// back must not score.
	backdateRound(t, srv, gameID, 31*time.Second)
	state := fetchState(t, ts, guesser, gameID)
	revealed := state["song"].(map[string]any)
	if revealed["title"] != song.Title {
		t.Fatalf("expected the answer revealed after the clock ran out, got %v", revealed["title"])
	}
	resp, _ := submitGuess(t, ts, guesser, gameID, "TITLE", song.Title)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d after round end, got %d", http.StatusConflict, resp.StatusCode)
	}
	state = fetchState(t, ts, guesser, gameID)
	for _, entry := range state["scores"].([]any) {
		row := entry.(map[string]any)
		if row["score"] != float64(0) {
			t.Errorf("expected no score after round end, got %v for %v", row["score"], row["userId"])
		}
	}
}
