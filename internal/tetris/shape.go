package tetris

import "fmt"

// Mask is a rectangular block pattern indexed [row][col]. Set cells all carry
// the same colour. Masks handed out by this package are never shared, so
// callers may keep them without copying.
type Mask [][]Cell

// Rows returns the mask height.
func (m Mask) Rows() int {
	return len(m)
}

// Cols returns the mask width.
func (m Mask) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Clone returns a deep copy of the mask.
func (m Mask) Clone() Mask {
	out := make(Mask, len(m))
	for r := range m {
		out[r] = append([]Cell(nil), m[r]...)
	}
	return out
}

// Equal reports whether two masks have the same dimensions and cells.
func (m Mask) Equal(other Mask) bool {
	if m.Rows() != other.Rows() || m.Cols() != other.Cols() {
		return false
	}
	for r := range m {
		for c := range m[r] {
			if m[r][c] != other[r][c] {
				return false
			}
		}
	}
	return true
}

// Rotate returns m turned a quarter turn. The result has transposed
// dimensions and the input is left untouched.
func Rotate(m Mask, clockwise bool) Mask {
	rows, cols := m.Rows(), m.Cols()

	out := make(Mask, cols)
	for r := range out {
		out[r] = make([]Cell, rows)
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if clockwise {
				out[c][rows-1-r] = m[r][c]
			} else {
				out[cols-1-c][r] = m[r][c]
			}
		}
	}
	return out
}

// Shape is one entry of the piece catalog.
type Shape struct {
	Name  string
	Color Cell
	mask  Mask
}

// Mask returns a private copy of the shape's spawn orientation.
func (s Shape) Mask() Mask {
	return s.mask.Clone()
}

// paint turns a 0/1 pattern into a mask of the given colour.
func paint(color Cell, pattern [][]int) Mask {
	m := make(Mask, len(pattern))
	for r, row := range pattern {
		m[r] = make([]Cell, len(row))
		for c, v := range row {
			if v != 0 {
				m[r][c] = color
			}
		}
	}
	return m
}

// catalog is read-only after init. Order matters: sequences refer to shapes
// by index.
var catalog = [...]Shape{
	{Name: "I", Color: Cyan, mask: paint(Cyan, [][]int{
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})},
	{Name: "J", Color: Blue, mask: paint(Blue, [][]int{
		{1, 0, 0},
		{1, 1, 1},
		{0, 0, 0},
	})},
	{Name: "L", Color: Orange, mask: paint(Orange, [][]int{
		{0, 0, 1},
		{1, 1, 1},
		{0, 0, 0},
	})},
	{Name: "O", Color: Yellow, mask: paint(Yellow, [][]int{
		{1, 1},
		{1, 1},
	})},
	{Name: "S", Color: Green, mask: paint(Green, [][]int{
		{0, 1, 1},
		{1, 1, 0},
		{0, 0, 0},
	})},
	{Name: "Z", Color: Red, mask: paint(Red, [][]int{
		{1, 1, 0},
		{0, 1, 1},
		{0, 0, 0},
	})},
	{Name: "T", Color: Violet, mask: paint(Violet, [][]int{
		{0, 1, 0},
		{1, 1, 1},
		{0, 0, 0},
	})},
}

// ShapeCount returns the number of shapes in the catalog.
func ShapeCount() int {
	return len(catalog)
}

// ShapeAt returns the catalog entry at index i.
// Indices come from a Sequence and are valid by construction, so an
// out-of-catalog index panics.
func ShapeAt(i int) Shape {
	if i < 0 || i >= len(catalog) {
		panic(fmt.Sprintf("tetris: shape index %d outside catalog of %d", i, len(catalog)))
	}
	s := catalog[i]
	s.mask = s.mask.Clone()
	return s
}
