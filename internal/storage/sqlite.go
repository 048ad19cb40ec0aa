// Package storage provides SQLite-based session history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// Only summaries of finished runs are stored, never game state.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Outcome describes how a session ended.
type Outcome string

const (
	OutcomeTopOut     Outcome = "topout"     // Stack reached the top of the well
	OutcomeQuit       Outcome = "quit"       // Player quit or went back to the menu
	OutcomeRestart    Outcome = "restart"    // Player restarted mid-run
	OutcomeDisconnect Outcome = "disconnect" // SSH session closed
)

// Store manages the SQLite database connection for session history.
type Store struct {
	db *sql.DB
}

// SessionRecord is the summary of one finished run.
type SessionRecord struct {
	ID           string // UUID, generated by SaveSession when empty
	GameID       string
	Seed         int64
	Pieces       int
	RowsCleared  int
	Holds        int
	DurationSecs int
	Outcome      Outcome
	CreatedAt    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			pieces INTEGER NOT NULL DEFAULT 0,
			rows_cleared INTEGER NOT NULL DEFAULT 0,
			holds INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_game_id ON sessions(game_id);
		CREATE INDEX IF NOT EXISTS idx_sessions_recent ON sessions(game_id, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession records a finished run and returns its ID.
// A record without an ID gets a fresh UUID; a supplied ID must be a UUID.
func (s *Store) SaveSession(rec SessionRecord) (string, error) {
	if rec.GameID == "" {
		return "", errors.New("storage: cannot save session: empty game id")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	} else if _, err := uuid.Parse(rec.ID); err != nil {
		return "", fmt.Errorf("storage: invalid session id %q: %w", rec.ID, err)
	}

	_, err := s.db.Exec(
		`INSERT INTO sessions
		 (id, game_id, seed, pieces, rows_cleared, holds, duration_secs, outcome)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.GameID,
		rec.Seed,
		rec.Pieces,
		rec.RowsCleared,
		rec.Holds,
		rec.DurationSecs,
		string(rec.Outcome),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save session: %w", err)
	}

	return rec.ID, nil
}

const sessionColumns = `id, game_id, seed, pieces, rows_cleared, holds, duration_secs, outcome, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (SessionRecord, error) {
	var rec SessionRecord
	var outcome string
	var createdAt any

	err := sc.Scan(
		&rec.ID,
		&rec.GameID,
		&rec.Seed,
		&rec.Pieces,
		&rec.RowsCleared,
		&rec.Holds,
		&rec.DurationSecs,
		&outcome,
		&createdAt,
	)
	if err != nil {
		return rec, err
	}
	rec.Outcome = Outcome(outcome)
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// parseTime handles both time.Time and the string form SQLite may return.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// RecentSessions retrieves the latest sessions for a game, newest first.
// An empty gameID returns sessions of every mode.
func (s *Store) RecentSessions(gameID string, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions`
	args := []any{}
	if gameID != "" {
		query += ` WHERE game_id = ?`
		args = append(args, gameID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// SessionByID retrieves a single session. Returns nil without error when
// no session has that ID.
func (s *Store) SessionByID(id string) (*SessionRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("storage: invalid session id %q: %w", id, err)
	}

	rec, err := scanSession(s.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	return &rec, nil
}

// ClearSessions deletes all sessions for the given game.
func (s *Store) ClearSessions(gameID string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// GameStats contains aggregated statistics for a game mode.
type GameStats struct {
	GameID       string
	Sessions     int
	TotalPieces  int64
	TotalRows    int64
	BestRows     int
	AvgRows      float64
	TotalSeconds int64
	LastPlayed   time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(pieces), 0),
		        COALESCE(SUM(rows_cleared), 0),
		        COALESCE(MAX(rows_cleared), 0),
		        COALESCE(AVG(rows_cleared), 0),
		        COALESCE(SUM(duration_secs), 0),
		        MAX(created_at)
		 FROM sessions WHERE game_id = ?`,
		gameID,
	).Scan(
		&stats.Sessions,
		&stats.TotalPieces,
		&stats.TotalRows,
		&stats.BestRows,
		&stats.AvgRows,
		&stats.TotalSeconds,
		&lastPlayed,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}
