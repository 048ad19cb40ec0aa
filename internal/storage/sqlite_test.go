package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file and its parent directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	id, err := store.SaveSession(SessionRecord{GameID: "blockfall", Outcome: OutcomeQuit})
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	rec, err := store.SessionByID(id)
	if err != nil || rec == nil {
		t.Fatalf("SessionByID() after reopen = %v, %v", rec, err)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	in := SessionRecord{
		GameID:       "blockfall",
		Seed:         42,
		Pieces:       37,
		RowsCleared:  9,
		Holds:        3,
		DurationSecs: 95,
		Outcome:      OutcomeTopOut,
	}

	id, err := store.SaveSession(in)
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("SaveSession() returned non-UUID id %q", id)
	}

	got, err := store.SessionByID(id)
	if err != nil {
		t.Fatalf("SessionByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("SessionByID() returned nil for saved session")
	}

	if got.ID != id || got.GameID != "blockfall" || got.Seed != 42 {
		t.Errorf("identity mismatch: %+v", got)
	}
	if got.Pieces != 37 || got.RowsCleared != 9 || got.Holds != 3 || got.DurationSecs != 95 {
		t.Errorf("counters mismatch: %+v", got)
	}
	if got.Outcome != OutcomeTopOut {
		t.Errorf("Outcome = %q, expected %q", got.Outcome, OutcomeTopOut)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set by the database")
	}
}

func TestStoreSaveWithExplicitID(t *testing.T) {
	store := openTestStore(t)

	want := uuid.NewString()
	id, err := store.SaveSession(SessionRecord{ID: want, GameID: "blockfall", Outcome: OutcomeQuit})
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if id != want {
		t.Errorf("SaveSession() id = %q, expected %q", id, want)
	}

	if _, err := store.SaveSession(SessionRecord{ID: want, GameID: "blockfall", Outcome: OutcomeQuit}); err == nil {
		t.Error("Saving a duplicate id should fail")
	}
	if _, err := store.SaveSession(SessionRecord{ID: "not-a-uuid", GameID: "blockfall"}); err == nil {
		t.Error("Saving a malformed id should fail")
	}
	if _, err := store.SaveSession(SessionRecord{}); err == nil {
		t.Error("Saving without a game id should fail")
	}
}

func TestStoreSessionByIDMissing(t *testing.T) {
	store := openTestStore(t)

	rec, err := store.SessionByID(uuid.NewString())
	if err != nil {
		t.Fatalf("SessionByID() failed: %v", err)
	}
	if rec != nil {
		t.Errorf("Expected nil for unknown id, got %+v", rec)
	}

	if _, err := store.SessionByID("garbage"); err == nil {
		t.Error("Malformed id should be rejected")
	}
}

func TestStoreRecentSessions(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		if _, err := store.SaveSession(SessionRecord{GameID: "blockfall", RowsCleared: i, Outcome: OutcomeQuit}); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}
	if _, err := store.SaveSession(SessionRecord{GameID: "blockfall_bag", RowsCleared: 99, Outcome: OutcomeQuit}); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	recent, err := store.RecentSessions("blockfall", 3)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 sessions with limit, got %d", len(recent))
	}

	// Newest first: rows 4, 3, 2
	for i, rec := range recent {
		if rec.GameID != "blockfall" {
			t.Errorf("unexpected game %q in filtered list", rec.GameID)
		}
		if rec.RowsCleared != 4-i {
			t.Errorf("recent[%d].RowsCleared = %d, expected %d", i, rec.RowsCleared, 4-i)
		}
	}

	all, err := store.RecentSessions("", 0)
	if err != nil {
		t.Fatalf("RecentSessions(all) failed: %v", err)
	}
	if len(all) != 6 {
		t.Errorf("Expected 6 sessions across modes, got %d", len(all))
	}
	if all[0].GameID != "blockfall_bag" {
		t.Errorf("Newest session should come first, got %q", all[0].GameID)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetGameStats("blockfall")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.Sessions != 0 || empty.BestRows != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Empty stats = %+v", empty)
	}

	records := []SessionRecord{
		{GameID: "blockfall", Pieces: 10, RowsCleared: 2, DurationSecs: 30, Outcome: OutcomeTopOut},
		{GameID: "blockfall", Pieces: 20, RowsCleared: 6, DurationSecs: 60, Outcome: OutcomeQuit},
		{GameID: "blockfall_bag", Pieces: 99, RowsCleared: 40, Outcome: OutcomeQuit},
	}
	for _, rec := range records {
		if _, err := store.SaveSession(rec); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	stats, err := store.GetGameStats("blockfall")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.Sessions != 2 {
		t.Errorf("Sessions = %d, expected 2", stats.Sessions)
	}
	if stats.TotalPieces != 30 || stats.TotalRows != 8 || stats.BestRows != 6 {
		t.Errorf("Totals = %+v", stats)
	}
	if stats.AvgRows != 4 {
		t.Errorf("AvgRows = %v, expected 4", stats.AvgRows)
	}
	if stats.TotalSeconds != 90 {
		t.Errorf("TotalSeconds = %d, expected 90", stats.TotalSeconds)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
}

func TestStoreClearSessions(t *testing.T) {
	store := openTestStore(t)

	store.SaveSession(SessionRecord{GameID: "blockfall", Outcome: OutcomeQuit})
	store.SaveSession(SessionRecord{GameID: "blockfall_bag", Outcome: OutcomeQuit})

	if err := store.ClearSessions("blockfall"); err != nil {
		t.Fatalf("ClearSessions() failed: %v", err)
	}

	left, _ := store.RecentSessions("blockfall", 10)
	if len(left) != 0 {
		t.Errorf("Expected no blockfall sessions after clear, got %d", len(left))
	}
	other, _ := store.RecentSessions("blockfall_bag", 10)
	if len(other) != 1 {
		t.Errorf("Other modes should be untouched, got %d", len(other))
	}
}
