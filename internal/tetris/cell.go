// Package tetris implements the falling-block engine: piece geometry, live
// pieces, the grid with row compaction and hold/swap, gravity timing and the
// piece sequence supply. It has no rendering or input dependencies.
package tetris

// Cell is the value stored in every grid square.
type Cell uint8

// Block colours. Empty is the zero value so a fresh grid is clear.
const (
	Empty Cell = iota
	Orange
	Blue
	Cyan
	Green
	Red
	Violet
	Yellow
)

// String returns a human-readable name for the cell.
func (c Cell) String() string {
	switch c {
	case Empty:
		return "Empty"
	case Orange:
		return "Orange"
	case Blue:
		return "Blue"
	case Cyan:
		return "Cyan"
	case Green:
		return "Green"
	case Red:
		return "Red"
	case Violet:
		return "Violet"
	case Yellow:
		return "Yellow"
	default:
		return "Unknown"
	}
}

// Filled reports whether the cell holds a block.
func (c Cell) Filled() bool {
	return c != Empty
}
