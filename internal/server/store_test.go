package server

import (
	"strings"
	"testing"
)

func TestNewRoomCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := newRoomCode()
		if len(code) != 6 {
			t.Fatalf("expected 6 characters, got %q", code)
		}
		for _, r := range code {
			if !strings.ContainsRune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789", r) {
				t.Fatalf("code %q contains disallowed character %q", code, r)
			}
		}
		seen[code] = true
	}
	// 200 draws from a 32^6 space colliding down to a handful would
	// mean a broken generator, not bad luck.
	if len(seen) < 190 {
		t.Errorf("expected mostly unique codes, got %d distinct of 200", len(seen))
	}
}

func TestCreateRoomInitialGame(t *testing.T) {
	store := NewStore()
	room := store.CreateRoom("Friday Night", "host-1", 8, 30)

	if room.Status != roomWaiting {
		t.Errorf("expected WAITING, got %s", room.Status)
	}
	if room.CurrentGame == nil {
		t.Fatal("expected a game to be created with the room")
	}
	if room.CurrentGame.Status != gameSelecting {
		t.Errorf("expected SELECTING game, got %s", room.CurrentGame.Status)
	}
	if room.CurrentGame.RoundDuration != 30 {
		t.Errorf("expected round duration 30, got %d", room.CurrentGame.RoundDuration)
	}

	got, ok := store.GetRoomByGame(room.CurrentGame.ID)
	if !ok || got.ID != room.ID {
		t.Error("expected the game index to resolve the room")
	}
}

func TestDeleteRoomClearsGameIndex(t *testing.T) {
	store := NewStore()
	room := store.CreateRoom("Friday Night", "host-1", 8, 30)
	gameID := room.CurrentGame.ID

	if _, ok := store.DeleteRoom(room.Code); !ok {
		t.Fatal("expected delete to succeed")
	}
	if _, ok := store.GetRoom(room.Code); ok {
		t.Error("expected the room to be gone")
	}
	if _, ok := store.GetRoomByGame(gameID); ok {
		t.Error("expected the game index entry to be gone")
	}
}

func TestUpsertSongDedupes(t *testing.T) {
	store := NewStore()
	first := store.UpsertSong(Song{
		CatalogID: "deezer_1",
		Title:     "Golden Harbor",
		Artist:    "The Lighthouse Crew",
	})
	second := store.UpsertSong(Song{
		CatalogID:  "deezer_1",
		Title:      "Golden Harbor",
		Artist:     "The Lighthouse Crew",
		PreviewURL: "https://cdn.example/fresh.mp3",
	})
	if first.ID != second.ID {
		t.Error("expected the same cached row for the same catalog id")
	}
	if second.PreviewURL != "https://cdn.example/fresh.mp3" {
		t.Errorf("expected the preview url to be refreshed, got %q", second.PreviewURL)
	}

	if _, ok := store.SongByID(first.ID); !ok {
		t.Error("expected lookup by internal id")
	}
	if _, ok := store.SongByCatalogID("deezer_1"); !ok {
		t.Error("expected lookup by catalog id")
	}
}

func TestRestoreRoomRejectsDuplicates(t *testing.T) {
	store := NewStore()
	room := store.CreateRoom("Friday Night", "host-1", 8, 30)

	if err := store.RestoreRoom(room); err != errConflict {
		t.Errorf("expected conflict restoring a live room, got %v", err)
	}

	other := &Room{
		ID:   "restored-1",
		Code: room.Code,
		Name: "Impostor",
	}
	if err := store.RestoreRoom(other); err != errConflict {
		t.Errorf("expected conflict on a taken code, got %v", err)
	}
}

func TestListRoomSummaries(t *testing.T) {
	store := NewStore()
	open := store.CreateRoom("Open Room", "host-1", 2, 30)
	playing := store.CreateRoom("Busy Room", "host-2", 8, 30)
	if _, err := store.UpdateRoom(playing.Code, func(room *Room) error {
		room.Status = roomPlaying
		return nil
	}); err != nil {
		t.Fatalf("update room: %v", err)
	}

	byCode := map[string]RoomSummary{}
	for _, summary := range store.ListRoomSummaries() {
		byCode[summary.Code] = summary
	}
	if len(byCode) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(byCode))
	}
	if !byCode[open.Code].CanJoin {
		t.Error("expected the waiting room to be joinable")
	}
	if byCode[playing.Code].CanJoin {
		t.Error("expected the playing room to be closed")
	}
}
