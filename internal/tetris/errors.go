package tetris

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is matched by every RangeError.
	ErrOutOfRange = errors.New("tetris: coordinates out of range")

	// ErrInvalidGrid is returned by NewGrid for unusable parameters.
	ErrInvalidGrid = errors.New("tetris: invalid grid")
)

// RangeError reports a grid access outside [0, Rows) x [0, Cols).
// It signals a broken caller contract, never a rejected move.
type RangeError struct {
	Row, Col   int
	Rows, Cols int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("tetris: row %d, col %d out of range for %dx%d grid", e.Row, e.Col, e.Rows, e.Cols)
}

// Is makes errors.Is(err, ErrOutOfRange) hold for any RangeError.
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
