package tetris

import "fmt"

// Board is the read/write view a piece has of the grid it lives on.
// Pieces use it for occupancy queries and, only through PlaceOnGrid and
// RemoveFromGrid, for writing their own cells.
type Board interface {
	Rows() int
	Cols() int
	Pace() float64
	Block(row, col int) (Cell, error)
	SetBlock(row, col int, v Cell) error
}

// Point is an absolute grid coordinate.
type Point struct {
	Row, Col int
}

// Piece is a live tetrimino. Its anchor (row, col) is the grid position of
// the mask's top-left cell and may be negative while the piece overhangs the
// top edge.
//
// Lifecycle: spawned, active, locked. Locking happens only when MoveDown is
// rejected; a locked piece ignores every further command.
type Piece struct {
	board    Board
	shape    int
	mask     Mask
	rotation int // quarter turns clockwise from spawn, 0..3
	row      int
	col      int
	locked   bool

	started     bool
	lastDescent float64
}

// NewPiece creates a piece of catalog shape index on board, positioned at the
// top of the well.
func NewPiece(board Board, shape int) *Piece {
	p := &Piece{
		board: board,
		shape: shape,
		mask:  ShapeAt(shape).Mask(),
	}
	p.PutAtScreenTop(board.Cols())
	return p
}

// Shape returns the catalog index the piece was created from.
func (p *Piece) Shape() int {
	return p.shape
}

// Mask returns a copy of the current (rotated) mask.
func (p *Piece) Mask() Mask {
	return p.mask.Clone()
}

// Rotation returns the number of clockwise quarter turns from spawn, 0..3.
func (p *Piece) Rotation() int {
	return p.rotation
}

// Row returns the anchor row.
func (p *Piece) Row() int {
	return p.row
}

// Col returns the anchor column.
func (p *Piece) Col() int {
	return p.col
}

// Locked reports whether the piece has reached its terminal state.
func (p *Piece) Locked() bool {
	return p.locked
}

// Cells returns the absolute coordinates of every set cell, including those
// above or outside the grid.
func (p *Piece) Cells() []Point {
	pts := make([]Point, 0, 4)
	for r, line := range p.mask {
		for c, v := range line {
			if v.Filled() {
				pts = append(pts, Point{Row: p.row + r, Col: p.col + c})
			}
		}
	}
	return pts
}

// Color returns the colour of the piece's blocks.
func (p *Piece) Color() Cell {
	return ShapeAt(p.shape).Color
}

// Overhangs reports whether any set cell sits above row 0.
func (p *Piece) Overhangs() bool {
	for _, pt := range p.Cells() {
		if pt.Row < 0 {
			return true
		}
	}
	return false
}

// IsValidPosition reports whether mask m anchored at (row, col) fits.
//
// Cells are visited row-major. The first set cell found above the grid ends
// the scan as valid: pieces may overhang the top while spawning. A set cell
// at or below the bottom edge, outside [0, cols), or on a filled square makes
// the position invalid.
func (p *Piece) IsValidPosition(m Mask, row, col int) bool {
	rows, cols := p.board.Rows(), p.board.Cols()

	for r, line := range m {
		for c, v := range line {
			if !v.Filled() {
				continue
			}
			gr, gc := row+r, col+c
			if gr < 0 {
				return true
			}
			if gr >= rows {
				return false
			}
			if gc < 0 || gc >= cols {
				return false
			}
			cell, err := p.board.Block(gr, gc)
			if err != nil || cell.Filled() {
				return false
			}
		}
	}
	return true
}

// MoveLeft shifts the piece one column left if the target position is valid.
func (p *Piece) MoveLeft() bool {
	return p.shift(0, -1)
}

// MoveRight shifts the piece one column right if the target position is valid.
func (p *Piece) MoveRight() bool {
	return p.shift(0, 1)
}

// MoveDown shifts the piece one row down. A rejected descent locks the piece
// and returns false.
func (p *Piece) MoveDown() bool {
	if p.locked {
		return false
	}
	if p.shift(1, 0) {
		return true
	}
	p.locked = true
	return false
}

// Drop moves the piece down until it locks and returns the rows fallen.
func (p *Piece) Drop() int {
	fallen := 0
	for p.MoveDown() {
		fallen++
	}
	return fallen
}

func (p *Piece) shift(dRow, dCol int) bool {
	if p.locked {
		return false
	}
	if !p.IsValidPosition(p.mask, p.row+dRow, p.col+dCol) {
		return false
	}
	p.row += dRow
	p.col += dCol
	return true
}

// RotateCW turns the piece clockwise about its unchanged anchor.
func (p *Piece) RotateCW() bool {
	return p.rotate(true)
}

// RotateCCW turns the piece counter-clockwise about its unchanged anchor.
func (p *Piece) RotateCCW() bool {
	return p.rotate(false)
}

// rotate has no wall kicks: if the turned mask does not fit in place the
// rotation is simply refused.
func (p *Piece) rotate(clockwise bool) bool {
	if p.locked {
		return false
	}
	turned := Rotate(p.mask, clockwise)
	if !p.IsValidPosition(turned, p.row, p.col) {
		return false
	}
	p.mask = turned
	if clockwise {
		p.rotation = (p.rotation + 1) % 4
	} else {
		p.rotation = (p.rotation + 3) % 4
	}
	return true
}

// PutAtScreenTop places the mask's last row on row 0 and centres it in a
// well of the given width.
func (p *Piece) PutAtScreenTop(cols int) {
	p.row = -(p.mask.Rows() - 1)
	p.col = (cols - p.mask.Cols()) / 2
}

// Update applies gravity. The first call only records the clock reading;
// afterwards the piece descends one row whenever more than the board's pace
// has elapsed since the last recorded descent.
func (p *Piece) Update(clock float64) {
	if p.locked {
		return
	}
	if !p.started {
		p.started = true
		p.lastDescent = clock
		return
	}
	if clock-p.lastDescent > p.board.Pace() {
		p.MoveDown()
		p.lastDescent = clock
	}
}

// PlaceOnGrid writes the piece's set cells into the board. Cells outside the
// board are skipped and filled squares are never overwritten.
func (p *Piece) PlaceOnGrid() error {
	return p.eachOnBoard(func(row, col int, v Cell) error {
		cur, err := p.board.Block(row, col)
		if err != nil {
			return err
		}
		if cur.Filled() {
			return nil
		}
		return p.board.SetBlock(row, col, v)
	})
}

// RemoveFromGrid clears the squares covered by the piece's set cells.
func (p *Piece) RemoveFromGrid() error {
	return p.eachOnBoard(func(row, col int, _ Cell) error {
		return p.board.SetBlock(row, col, Empty)
	})
}

func (p *Piece) eachOnBoard(fn func(row, col int, v Cell) error) error {
	rows, cols := p.board.Rows(), p.board.Cols()
	for r, line := range p.mask {
		for c, v := range line {
			gr, gc := p.row+r, p.col+c
			if gr < 0 || gr >= rows || gc < 0 || gc >= cols {
				continue
			}
			if !v.Filled() {
				continue
			}
			if err := fn(gr, gc, v); err != nil {
				return fmt.Errorf("tetris: piece %s at (%d,%d): %w", ShapeAt(p.shape).Name, p.row, p.col, err)
			}
		}
	}
	return nil
}
