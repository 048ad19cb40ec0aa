package tui

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blockfall/internal/core"
	"github.com/vovakirdan/tui-blockfall/internal/metrics"
	"github.com/vovakirdan/tui-blockfall/internal/storage"
)

// recorder follows the run in progress and writes its summary to session
// history when it ends. The SSH handler closes it from another goroutine
// when the connection drops, hence the mutex.
type recorder struct {
	mu sync.Mutex

	store   *storage.Store
	metrics *metrics.Collector
	logger  *log.Logger

	gameID  string
	seed    int64
	started time.Time
	stats   core.SessionStats
	elapsed time.Duration
	active  bool
	lastID  string
}

func newRecorder(store *storage.Store, m *metrics.Collector, logger *log.Logger) *recorder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &recorder{
		store:   store,
		metrics: m,
		logger:  logger,
	}
}

// start opens a new run. A run still open is abandoned without a record.
func (r *recorder) start(gameID string, seed int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active {
		r.metrics.SessionFinished(string(storage.OutcomeRestart))
	}
	r.gameID = gameID
	r.seed = seed
	r.started = time.Now()
	r.stats = core.SessionStats{}
	r.elapsed = 0
	r.active = true
	r.metrics.SessionStarted()
}

// observe takes the result of one tick. elapsed is the play time so far,
// or zero to use wall-clock time since start.
func (r *recorder) observe(res core.StepResult, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return
	}
	r.stats = res.Stats
	if elapsed <= 0 {
		elapsed = time.Since(r.started)
	}
	r.elapsed = elapsed
	r.metrics.PiecesLocked(res.Locked)
	r.metrics.RowsCleared(res.Cleared)
}

// finish closes the open run with the given outcome and saves it.
// Runs that never locked a piece are counted but not saved.
// It returns the saved session ID, or "".
func (r *recorder) finish(outcome storage.Outcome) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return ""
	}
	r.active = false
	r.metrics.SessionFinished(string(outcome))

	if r.store == nil || r.stats.Pieces == 0 {
		return ""
	}

	id, err := r.store.SaveSession(storage.SessionRecord{
		GameID:       r.gameID,
		Seed:         r.seed,
		Pieces:       r.stats.Pieces,
		RowsCleared:  r.stats.Rows,
		Holds:        r.stats.Holds,
		DurationSecs: int(r.elapsed.Seconds()),
		Outcome:      outcome,
	})
	if err != nil {
		r.logger.Warn("could not save session", "game", r.gameID, "error", err)
		return ""
	}
	r.lastID = id
	r.logger.Debug("session saved", "id", id, "game", r.gameID, "rows", r.stats.Rows, "outcome", outcome)
	return id
}

func (r *recorder) isActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// lastSaved returns the ID of the most recently saved session.
func (r *recorder) lastSaved() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastID
}
