package tetris

import (
	"fmt"
	"math"
)

// Command is a discrete player input applied to the current piece.
type Command int

const (
	CommandMoveLeft Command = iota
	CommandMoveRight
	CommandSoftDrop
	CommandHardDrop
	CommandRotateCW
	CommandRotateCCW
	CommandHoldSwap
)

// String returns a human-readable name for the command.
func (c Command) String() string {
	switch c {
	case CommandMoveLeft:
		return "MoveLeft"
	case CommandMoveRight:
		return "MoveRight"
	case CommandSoftDrop:
		return "SoftDrop"
	case CommandHardDrop:
		return "HardDrop"
	case CommandRotateCW:
		return "RotateCW"
	case CommandRotateCCW:
		return "RotateCCW"
	case CommandHoldSwap:
		return "HoldSwap"
	default:
		return "Unknown"
	}
}

// Stats counts what happened on a grid since construction.
type Stats struct {
	Spawned     int // Pieces taken from the sequence
	Placed      int // Pieces baked into the grid
	RowsCleared int
	Holds       int // Successful hold/swap operations
}

// Grid is the fixed-size well. It owns cell storage, the current piece, the
// held piece and the cursor into the piece sequence.
type Grid struct {
	rows  int
	cols  int
	cells [][]Cell
	pace  float64 // seconds per automatic descent

	seq    Sequence
	cursor int

	current *Piece
	held    *Piece

	stats Stats
}

// NewGrid creates an empty rows x cols grid fed by seq. The grid has no
// current piece until the first Update or NewTetrimino.
func NewGrid(rows, cols int, pace float64, seq Sequence) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidGrid, rows, cols)
	}
	if math.IsNaN(pace) || math.IsInf(pace, 0) || pace <= 0 {
		return nil, fmt.Errorf("%w: pace %v must be positive and finite", ErrInvalidGrid, pace)
	}
	if seq == nil {
		return nil, fmt.Errorf("%w: nil piece sequence", ErrInvalidGrid)
	}

	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: newCells(rows, cols),
		pace:  pace,
		seq:   seq,
	}, nil
}

func newCells(rows, cols int) [][]Cell {
	cells := make([][]Cell, rows)
	for r := range cells {
		cells[r] = make([]Cell, cols)
	}
	return cells
}

// Rows returns the grid height.
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the grid width.
func (g *Grid) Cols() int {
	return g.cols
}

// Pace returns the seconds between automatic descents.
func (g *Grid) Pace() float64 {
	return g.pace
}

func (g *Grid) check(row, col int) error {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return &RangeError{Row: row, Col: col, Rows: g.rows, Cols: g.cols}
	}
	return nil
}

// SetBlock stores v at (row, col).
func (g *Grid) SetBlock(row, col int, v Cell) error {
	if err := g.check(row, col); err != nil {
		return err
	}
	g.cells[row][col] = v
	return nil
}

// Block returns the cell at (row, col).
func (g *Grid) Block(row, col int) (Cell, error) {
	if err := g.check(row, col); err != nil {
		return Empty, err
	}
	return g.cells[row][col], nil
}

// Cells returns a copy of the grid storage. The current piece is not part of
// storage until it is placed.
func (g *Grid) Cells() [][]Cell {
	out := make([][]Cell, g.rows)
	for r := range g.cells {
		out[r] = append([]Cell(nil), g.cells[r]...)
	}
	return out
}

// Current returns the live piece, or nil before the first spawn.
func (g *Grid) Current() *Piece {
	return g.current
}

// Held returns the shelved piece, or nil if nothing has been held yet.
func (g *Grid) Held() *Piece {
	return g.held
}

// Cursor returns the position of the next sequence entry to be spawned.
func (g *Grid) Cursor() int {
	return g.cursor
}

// Upcoming returns the next n shape indices without consuming them.
func (g *Grid) Upcoming(n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = g.seq.At(g.cursor + i)
	}
	return out
}

// Stats returns the grid's counters.
func (g *Grid) Stats() Stats {
	return g.stats
}

func rowComplete(row []Cell) bool {
	for _, v := range row {
		if !v.Filled() {
			return false
		}
	}
	return true
}

// RemoveCompleteRows drops every full row and lets the rows above fall.
// Source rows are walked bottom-up in one pass; each incomplete row is copied
// into the next free slot from the bottom of a fresh buffer, so surviving
// rows keep their relative order and the top fills with empty rows.
// It returns the number of rows removed.
func (g *Grid) RemoveCompleteRows() int {
	next := newCells(g.rows, g.cols)
	target := g.rows - 1
	removed := 0

	for row := g.rows - 1; row >= 0; row-- {
		if rowComplete(g.cells[row]) {
			removed++
			continue
		}
		copy(next[target], g.cells[row])
		target--
	}

	g.cells = next
	g.stats.RowsCleared += removed
	return removed
}

// NewTetrimino spawns the next piece from the sequence at the top of the
// well and makes it current.
func (g *Grid) NewTetrimino() {
	idx := g.seq.At(g.cursor)
	g.cursor++
	g.current = NewPiece(g, idx)
	g.stats.Spawned++
}

// PlaceCurrent bakes the current piece into storage and clears complete rows.
// It returns the number of rows cleared.
func (g *Grid) PlaceCurrent() (int, error) {
	if g.current == nil {
		return 0, nil
	}
	if err := g.current.PlaceOnGrid(); err != nil {
		return 0, err
	}
	g.stats.Placed++
	return g.RemoveCompleteRows(), nil
}

// Shelve holds the current piece. With a piece already held the two swap and
// the returning piece restarts from the top; otherwise the next piece spawns.
// Nothing happens without a current piece or when the current piece has
// already locked.
func (g *Grid) Shelve() error {
	if g.current == nil || g.current.Locked() {
		return nil
	}
	if err := g.current.RemoveFromGrid(); err != nil {
		return err
	}

	if g.held != nil {
		g.current, g.held = g.held, g.current
		g.current.PutAtScreenTop(g.cols)
	} else {
		g.held = g.current
		g.NewTetrimino()
	}
	g.stats.Holds++
	return nil
}

// Update advances the simulation to clock (seconds on any monotonic scale).
// A missing or locked current piece is placed and replaced first; the tick
// is then forwarded to the current piece.
func (g *Grid) Update(clock float64) error {
	if g.current == nil || g.current.Locked() {
		if _, err := g.PlaceCurrent(); err != nil {
			return err
		}
		g.NewTetrimino()
	}
	g.current.Update(clock)
	return nil
}

// Apply runs a player command against the current piece and reports whether
// it took effect. Commands before the first spawn are ignored.
func (g *Grid) Apply(cmd Command) (bool, error) {
	if g.current == nil {
		return false, nil
	}
	p := g.current

	switch cmd {
	case CommandMoveLeft:
		return p.MoveLeft(), nil
	case CommandMoveRight:
		return p.MoveRight(), nil
	case CommandSoftDrop:
		return p.MoveDown(), nil
	case CommandHardDrop:
		if p.Locked() {
			return false, nil
		}
		p.Drop()
		return true, nil
	case CommandRotateCW:
		return p.RotateCW(), nil
	case CommandRotateCCW:
		return p.RotateCCW(), nil
	case CommandHoldSwap:
		if p.Locked() {
			return false, nil
		}
		if err := g.Shelve(); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, fmt.Errorf("tetris: unknown command %d", int(cmd))
	}
}
