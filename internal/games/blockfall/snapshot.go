package blockfall

import "github.com/vovakirdan/tui-blockfall/internal/tetris"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StatePausedSmall GameStateType = "paused_small_window"
)

// PieceSnapshot is the observable state of a live piece.
type PieceSnapshot struct {
	Shape    int
	Row      int
	Col      int
	Rotation int
	Locked   bool
}

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick     uint64
	Mode     string
	Seed     int64
	Cells    [][]tetris.Cell // Stored cells only; the live piece is in Current
	Current  *PieceSnapshot
	Held     int   // Held shape index, -1 when nothing is held
	Upcoming []int // Next shapes, as many as the preview shows
	Stats    tetris.Stats
	State    GameStateType
}

func snapshotPiece(p *tetris.Piece) *PieceSnapshot {
	if p == nil {
		return nil
	}
	return &PieceSnapshot{
		Shape:    p.Shape(),
		Row:      p.Row(),
		Col:      p.Col(),
		Rotation: p.Rotation(),
		Locked:   p.Locked(),
	}
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.gameOver:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	}

	held := -1
	if p := g.grid.Held(); p != nil {
		held = p.Shape()
	}

	return Snapshot{
		Tick:     g.tick,
		Mode:     string(g.mode),
		Seed:     g.seed,
		Cells:    g.grid.Cells(),
		Current:  snapshotPiece(g.grid.Current()),
		Held:     held,
		Upcoming: g.grid.Upcoming(g.cfg.Preview.Count),
		Stats:    g.grid.Stats(),
		State:    state,
	}
}
