// Package blockfall is the falling-block game: it drives a tetris.Grid from
// platform input frames at a fixed tick rate and draws it into a core.Screen.
package blockfall

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-blockfall/internal/config"
	"github.com/vovakirdan/tui-blockfall/internal/core"
	"github.com/vovakirdan/tui-blockfall/internal/registry"
	"github.com/vovakirdan/tui-blockfall/internal/tetris"
)

// Mode selects how the piece sequence is generated.
type Mode string

const (
	ModeClassic Mode = "classic" // Uniform random draw
	ModeBag     Mode = "bag"     // Shuffled bags of all seven shapes
)

// Game implements registry.Game for one well.
type Game struct {
	mode Mode
	cfg  config.BlockfallConfig
	seed int64

	grid  *tetris.Grid
	clock *tetris.TickClock
	tick  uint64 // Steps taken, paused or not

	// Screen dimensions
	screenW int
	screenH int

	gameOver bool
	paused   bool
	tooSmall bool

	// configWarning is shown when the config could not be loaded and the
	// built-in defaults are used instead.
	configWarning string
}

// New creates a game drawing pieces uniformly at random.
func New() *Game {
	return &Game{mode: ModeClassic}
}

// NewBag creates a game dealing pieces from shuffled seven-piece bags.
func NewBag() *Game {
	return &Game{mode: ModeBag}
}

func init() {
	registry.Register("blockfall", func() registry.Game {
		return New()
	})
	registry.Register("blockfall_bag", func() registry.Game {
		return NewBag()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeBag {
		return "blockfall_bag"
	}
	return "blockfall"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeBag {
		return "Blockfall (7-Bag)"
	}
	return "Blockfall"
}

// Reset initializes/restarts the game.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.configWarning = ""
	cfg, err := config.LoadBlockfall(rc.ConfigPath)
	if err != nil {
		cfg = config.DefaultBlockfallConfig()
		g.configWarning = err.Error()
	}
	preset, err := config.ParsePreset(rc.Difficulty)
	if err != nil {
		g.configWarning = err.Error()
	}
	config.ApplyBlockfallPreset(&cfg, preset)

	g.cfg = cfg
	g.seed = rc.Seed
	g.tick = 0
	g.gameOver = false
	g.paused = false

	grid, err := tetris.NewGrid(cfg.Board.Rows, cfg.Board.Cols, cfg.Gravity.Pace, g.newSequence())
	if err != nil {
		// Validated config always yields a usable grid.
		panic(fmt.Sprintf("blockfall: %v", err))
	}
	g.grid = grid
	g.clock = tetris.NewTickClock(rc.TickRate)

	// Spawn the first piece right away so it is visible before the first tick.
	must(g.grid.Update(g.clock.Now()))

	g.Resize(rc.ScreenW, rc.ScreenH)
}

func (g *Game) newSequence() tetris.Sequence {
	if g.mode == ModeBag {
		return tetris.NewBagSequence(g.seed)
	}
	return tetris.NewRandomSequence(g.seed)
}

// Resize adapts to a new screen size without restarting the run.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	minW, minH := g.minSize()
	g.tooSmall = w < minW || h < minH
}

// inputOrder is the order actions are applied within one tick.
var inputOrder = []struct {
	action core.Action
	cmd    tetris.Command
}{
	{core.ActionHold, tetris.CommandHoldSwap},
	{core.ActionRotateCCW, tetris.CommandRotateCCW},
	{core.ActionRotateCW, tetris.CommandRotateCW},
	{core.ActionLeft, tetris.CommandMoveLeft},
	{core.ActionRight, tetris.CommandMoveRight},
	{core.ActionSoftDrop, tetris.CommandSoftDrop},
	{core.ActionHardDrop, tetris.CommandHardDrop},
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return g.result(0, 0)
	}

	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.paused || g.gameOver {
		return g.result(0, 0)
	}

	before := g.grid.Stats()

	for _, b := range inputOrder {
		if in.Has(b.action) {
			mustApply(g.grid.Apply(b.cmd))
		}
	}

	if !g.checkTopOut() {
		must(g.grid.Update(g.clock.Advance()))
		g.checkTopOut()
	}

	after := g.grid.Stats()
	return g.result(after.Placed-before.Placed, after.RowsCleared-before.RowsCleared)
}

// checkTopOut ends the game when a piece locks while still sticking out
// above the well. The visible part of the piece is baked in first.
func (g *Game) checkTopOut() bool {
	p := g.grid.Current()
	if p == nil || !p.Locked() || !p.Overhangs() {
		return false
	}
	if _, err := g.grid.PlaceCurrent(); err != nil {
		panic(fmt.Sprintf("blockfall: %v", err))
	}
	g.gameOver = true
	return true
}

func (g *Game) result(locked, cleared int) core.StepResult {
	return core.StepResult{
		State:   g.State(),
		Stats:   g.Stats(),
		Locked:  locked,
		Cleared: cleared,
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		GameOver: g.gameOver,
		Paused:   g.paused || g.tooSmall,
	}
}

// Stats returns the run's counters.
func (g *Game) Stats() core.SessionStats {
	if g.grid == nil {
		return core.SessionStats{}
	}
	s := g.grid.Stats()
	return core.SessionStats{
		Pieces: s.Placed,
		Rows:   s.RowsCleared,
		Holds:  s.Holds,
		Ticks:  g.clock.Ticks(),
	}
}

// Elapsed returns the simulated play time.
func (g *Game) Elapsed() time.Duration {
	if g.clock == nil {
		return 0
	}
	return time.Duration(g.clock.Now() * float64(time.Second))
}

// Seed returns the seed of the current piece sequence.
func (g *Game) Seed() int64 {
	return g.seed
}

// ConfigWarning returns a message when the configured settings could not
// be used, or "".
func (g *Game) ConfigWarning() string {
	return g.configWarning
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "←→: Move | ↓: Soft | Space: Drop | A/E: Rotate | O: Hold | P: Pause | R: Restart | Q: Quit"
}

// Range errors from the grid are broken invariants, not gameplay events.
func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("blockfall: %v", err))
	}
}

func mustApply(_ bool, err error) {
	must(err)
}
