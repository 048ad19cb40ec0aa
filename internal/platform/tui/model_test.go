package tui

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-blockfall/internal/core"
	"github.com/vovakirdan/tui-blockfall/internal/metrics"
	"github.com/vovakirdan/tui-blockfall/internal/registry"
	"github.com/vovakirdan/tui-blockfall/internal/storage"
)

// stubGame locks one piece per hard drop and tops out after topOutAt pieces.
type stubGame struct {
	topOutAt int

	resets  int
	resizes int
	steps   int
	pieces  int
	paused  bool
	over    bool
	seed    int64
}

func (g *stubGame) ID() string { return "stub" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(cfg core.RuntimeConfig) {
	g.resets++
	g.seed = cfg.Seed
	g.steps, g.pieces = 0, 0
	g.paused, g.over = false, false
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) && !g.over {
		g.paused = !g.paused
	}
	if g.paused || g.over {
		return core.StepResult{State: g.State(), Stats: g.Stats()}
	}
	g.steps++
	locked := 0
	if in.Has(core.ActionHardDrop) {
		g.pieces++
		locked = 1
	}
	if g.topOutAt > 0 && g.pieces >= g.topOutAt {
		g.over = true
	}
	return core.StepResult{State: g.State(), Stats: g.Stats(), Locked: locked}
}

func (g *stubGame) Render(dst *core.Screen) { dst.DrawText(0, 0, "stub") }

func (g *stubGame) State() core.GameState {
	return core.GameState{GameOver: g.over, Paused: g.paused}
}

func (g *stubGame) Stats() core.SessionStats {
	return core.SessionStats{Pieces: g.pieces, Rows: g.pieces / 2, Ticks: uint64(g.steps)}
}

func (g *stubGame) Resize(w, h int) { g.resizes++ }

// Elapsed counts one second per step.
func (g *stubGame) Elapsed() time.Duration { return time.Duration(g.steps) * time.Second }

func init() {
	registry.Register("stub", func() registry.Game { return &stubGame{} })
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60, Seed: 42}
}

// send feeds messages to m and returns the model and the last command.
func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func scrape(t *testing.T, c *metrics.Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	return rec.Body.String()
}

func TestModelRecordsTopOut(t *testing.T) {
	store := openStore(t)
	collector := metrics.New()
	game := &stubGame{topOutAt: 2}

	m := NewModel(game, store, testConfig(), WithMetrics(collector))
	require.NotNil(t, m.Init())
	assert.Equal(t, 1, game.resets)
	assert.Equal(t, int64(42), game.seed)

	m, _ = send(t, m, keyRunes(" "), TickMsg{}, keyRunes(" "), TickMsg{})
	assert.True(t, m.State().GameOver)

	// Further ticks do not record the run twice.
	m, _ = send(t, m, TickMsg{}, TickMsg{})

	sessions, err := store.RecentSessions("stub", 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.Equal(t, storage.OutcomeTopOut, s.Outcome)
	assert.Equal(t, int64(42), s.Seed)
	assert.Equal(t, 2, s.Pieces)
	assert.Equal(t, 1, s.RowsCleared)
	assert.Equal(t, 2, s.DurationSecs)
	assert.Equal(t, s.ID, m.LastSessionID())

	body := scrape(t, collector)
	assert.Contains(t, body, `blockfall_sessions_finished_total{outcome="topout"} 1`)
	assert.Contains(t, body, "blockfall_pieces_locked_total 2")
	assert.Contains(t, body, "blockfall_active_sessions 0")
}

func TestModelRestartMidRun(t *testing.T) {
	store := openStore(t)
	collector := metrics.New()
	game := &stubGame{}

	m := NewModel(game, store, testConfig(), WithMetrics(collector))
	m.Init()

	m, _ = send(t, m, keyRunes(" "), TickMsg{}, keyRunes("r"), TickMsg{})
	assert.Equal(t, 2, game.resets)
	assert.NotEqual(t, int64(42), game.seed, "restart draws a fresh seed")
	assert.False(t, m.State().GameOver)

	sessions, err := store.RecentSessions("stub", 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, storage.OutcomeRestart, sessions[0].Outcome)

	body := scrape(t, collector)
	assert.Contains(t, body, "blockfall_sessions_started_total 2")
	assert.Contains(t, body, "blockfall_active_sessions 1")
}

func TestModelRestartAfterGameOver(t *testing.T) {
	store := openStore(t)
	game := &stubGame{topOutAt: 1}

	m := NewModel(game, store, testConfig())
	m.Init()
	m, _ = send(t, m, keyRunes(" "), TickMsg{})
	require.True(t, m.State().GameOver)

	m, _ = send(t, m, keyRunes("r"), TickMsg{})
	assert.False(t, m.State().GameOver)

	sessions, err := store.RecentSessions("stub", 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1, "a finished run is not recorded again on restart")
	assert.Equal(t, storage.OutcomeTopOut, sessions[0].Outcome)
}

func TestModelQuit(t *testing.T) {
	store := openStore(t)
	collector := metrics.New()
	game := &stubGame{}

	m := NewModel(game, store, testConfig(), WithMetrics(collector))
	m.Init()
	m, _ = send(t, m, keyRunes(" "), TickMsg{})

	m, cmd := send(t, m, keyRunes("q"))
	assert.NotNil(t, cmd)
	assert.True(t, m.IsQuitting())
	assert.Empty(t, m.View())

	sessions, err := store.RecentSessions("stub", 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, storage.OutcomeQuit, sessions[0].Outcome)
	assert.Contains(t, scrape(t, collector), `blockfall_sessions_finished_total{outcome="quit"} 1`)
}

func TestModelEmptyRunNotSaved(t *testing.T) {
	store := openStore(t)
	collector := metrics.New()

	m := NewModel(&stubGame{}, store, testConfig(), WithMetrics(collector))
	m.Init()
	m, _ = send(t, m, TickMsg{}, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.IsQuitting())

	sessions, err := store.RecentSessions("", 10)
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.Contains(t, scrape(t, collector), `blockfall_sessions_finished_total{outcome="quit"} 1`)
}

func TestModelBackOnlyWhenStopped(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		wantQuit bool
	}{
		{"standalone", nil, true},
		{"embedded", []Option{Embedded()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(&stubGame{}, nil, testConfig(), tt.opts...)
			m.Init()

			m, _ = send(t, m, TickMsg{}, keyRunes("b"))
			assert.False(t, m.BackToMenu(), "back is ignored while playing")

			m, _ = send(t, m, TickMsg{}, keyRunes("p"), TickMsg{})
			require.True(t, m.State().Paused)

			m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
			assert.True(t, m.BackToMenu())
			assert.Equal(t, tt.wantQuit, cmd != nil)
		})
	}
}

func TestModelResizeKeepsRun(t *testing.T) {
	game := &stubGame{}
	m := NewModel(game, nil, testConfig())
	m.Init()

	m, _ = send(t, m, keyRunes(" "), TickMsg{}, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, 1, game.resets)
	assert.Equal(t, 1, game.resizes)
	assert.Equal(t, 1, game.pieces)
	assert.Contains(t, m.View(), "stub")
}

func TestModelTimeSeed(t *testing.T) {
	cfg := testConfig()
	cfg.Seed = 0
	game := &stubGame{}

	m := NewModel(game, nil, cfg)
	m.Init()
	assert.NotZero(t, game.seed)
}

func TestRecorderDisconnect(t *testing.T) {
	store := openStore(t)
	rec := newRecorder(store, nil, nil)

	assert.Empty(t, rec.finish(storage.OutcomeDisconnect), "nothing to finish")

	rec.start("stub", 9)
	assert.True(t, rec.isActive())
	rec.observe(core.StepResult{Stats: core.SessionStats{Pieces: 3, Rows: 1, Holds: 2}, Locked: 3}, 5*time.Second)

	id := rec.finish(storage.OutcomeDisconnect)
	require.NotEmpty(t, id)
	assert.False(t, rec.isActive())
	assert.Empty(t, rec.finish(storage.OutcomeDisconnect))

	got, err := store.SessionByID(id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, storage.OutcomeDisconnect, got.Outcome)
	assert.Equal(t, int64(9), got.Seed)
	assert.Equal(t, 3, got.Pieces)
	assert.Equal(t, 2, got.Holds)
	assert.Equal(t, 5, got.DurationSecs)
}
