package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-blockfall/internal/storage"
)

func seedHistory(t *testing.T, store *storage.Store) {
	t.Helper()
	for _, rec := range []storage.SessionRecord{
		{GameID: "stub", Pieces: 30, RowsCleared: 8, DurationSecs: 75, Outcome: storage.OutcomeTopOut},
		{GameID: "stub", Pieces: 12, RowsCleared: 2, DurationSecs: 20, Outcome: storage.OutcomeQuit},
	} {
		_, err := store.SaveSession(rec)
		require.NoError(t, err)
	}
}

func TestHistoryShowsSessions(t *testing.T) {
	store := openStore(t)
	seedHistory(t, store)

	m := NewHistoryModel(store, 100, 30)
	require.Len(t, m.Sessions(), 2)

	view := m.View()
	assert.Contains(t, view, "HISTORY - Stub")
	assert.Contains(t, view, "Runs 2")
	assert.Contains(t, view, "Best 8 rows")
	assert.Contains(t, view, "Modes")
	assert.Contains(t, view, "topout")
	assert.Contains(t, view, "1:15")
}

func TestHistoryNarrowLayout(t *testing.T) {
	store := openStore(t)
	seedHistory(t, store)

	m := NewHistoryModel(store, 60, 30)
	view := m.View()
	assert.Contains(t, view, "< Stub >")
	assert.NotContains(t, view, "Modes")
}

func TestHistoryWithoutStore(t *testing.T) {
	m := NewHistoryModel(nil, 100, 30)
	assert.Empty(t, m.Sessions())
	assert.Contains(t, m.View(), "No runs recorded yet.")
}

func TestHistoryBackAndQuit(t *testing.T) {
	next, cmd := NewHistoryModel(nil, 100, 30).Update(tea.KeyMsg{Type: tea.KeyEsc})
	m := next.(HistoryModel)
	assert.True(t, m.IsGoingBack())
	assert.False(t, m.IsQuitting())
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())

	next, _ = NewHistoryModel(nil, 100, 30).Update(keyRunes("q"))
	assert.True(t, next.(HistoryModel).IsQuitting())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{59 * time.Second, "0:59"},
		{75 * time.Second, "1:15"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}

	for _, tc := range tests {
		if got := formatDuration(tc.d); got != tc.want {
			t.Errorf("formatDuration(%v) = %q, expected %q", tc.d, got, tc.want)
		}
	}
}
