package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	shapeI = 0
	shapeJ = 1
	shapeO = 3
	shapeT = 6
)

func newTestGrid(t *testing.T, seq ...int) *Grid {
	t.Helper()
	if len(seq) == 0 {
		seq = []int{shapeO}
	}
	g, err := NewGrid(20, 10, 0.5, FixedSequence(seq))
	require.NoError(t, err)
	return g
}

func TestPutAtScreenTop(t *testing.T) {
	g := newTestGrid(t)

	tests := []struct {
		shape int
		row   int
		col   int
	}{
		{shapeI, -3, 3},
		{shapeJ, -2, 3},
		{shapeO, -1, 4},
		{shapeT, -2, 3},
	}

	for _, tt := range tests {
		t.Run(ShapeAt(tt.shape).Name, func(t *testing.T) {
			p := NewPiece(g, tt.shape)
			assert.Equal(t, tt.row, p.Row())
			assert.Equal(t, tt.col, p.Col())
			assert.False(t, p.Locked())
			assert.Equal(t, 0, p.Rotation())
		})
	}
}

func TestIsValidPosition(t *testing.T) {
	g := newTestGrid(t)
	require.NoError(t, g.SetBlock(10, 5, Red))

	p := NewPiece(g, shapeO)
	o := p.Mask()

	tests := []struct {
		name string
		row  int
		col  int
		want bool
	}{
		{"open field", 5, 0, true},
		{"overlaps filled cell", 9, 4, false},
		{"adjacent to filled cell", 8, 4, true},
		{"left wall", 5, -1, false},
		{"right wall", 5, 9, false},
		{"bottom resting", 18, 0, true},
		{"below bottom", 19, 0, false},
		{"partly above top", -1, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.IsValidPosition(o, tt.row, tt.col))
		})
	}
}

func TestIsValidPositionAboveTopIgnoresColumns(t *testing.T) {
	g := newTestGrid(t)
	p := NewPiece(g, shapeI)
	horizontal := p.Mask()

	for _, col := range []int{-20, -4, 0, 3, 9, 40} {
		assert.True(t, p.IsValidPosition(horizontal, -3, col), "col %d", col)
	}
}

func TestIsValidPositionStopsAtFirstCellAboveTop(t *testing.T) {
	g := newTestGrid(t)
	p := NewPiece(g, shapeI)
	vertical := Rotate(p.Mask(), true) // column 2, rows 0..3

	// Its lower cells land on a filled square, but the scan reaches the
	// top cell first and accepts the position.
	require.NoError(t, g.SetBlock(1, 5, Red))
	assert.True(t, p.IsValidPosition(vertical, -2, 3))

	// Fully inside the grid the same overlap is rejected.
	assert.False(t, p.IsValidPosition(vertical, 0, 3))
}

func TestMoveLeftRight(t *testing.T) {
	g := newTestGrid(t)
	p := NewPiece(g, shapeO)
	p.row = 5

	moves := 0
	for p.MoveLeft() {
		moves++
	}
	assert.Equal(t, 4, moves)
	assert.Equal(t, 0, p.Col())

	moves = 0
	for p.MoveRight() {
		moves++
	}
	assert.Equal(t, 8, moves)
	assert.Equal(t, 8, p.Col())
	assert.False(t, p.Locked(), "sideways rejection never locks")
}

func TestMoveDownLocksAtLowestValidRow(t *testing.T) {
	g := newTestGrid(t)
	p := NewPiece(g, shapeO)
	p.row, p.col = 0, 0

	steps := 0
	for p.MoveDown() {
		steps++
	}

	assert.True(t, p.Locked())
	assert.Equal(t, 18, p.Row())
	assert.Equal(t, 18, steps)
	assert.True(t, p.IsValidPosition(p.Mask(), p.Row(), p.Col()))
	assert.False(t, p.IsValidPosition(p.Mask(), p.Row()+1, p.Col()))
}

func TestDropOntoStack(t *testing.T) {
	g := newTestGrid(t)
	require.NoError(t, g.SetBlock(15, 4, Red))

	p := NewPiece(g, shapeO)
	fallen := p.Drop()

	assert.True(t, p.Locked())
	assert.Equal(t, 13, p.Row())
	assert.Equal(t, 14, fallen)
}

func TestLockedPieceIgnoresCommands(t *testing.T) {
	g := newTestGrid(t)
	p := NewPiece(g, shapeT)
	p.Drop()
	require.True(t, p.Locked())

	row, col, mask := p.Row(), p.Col(), p.Mask()

	assert.False(t, p.MoveLeft())
	assert.False(t, p.MoveRight())
	assert.False(t, p.MoveDown())
	assert.False(t, p.RotateCW())
	assert.False(t, p.RotateCCW())
	assert.Equal(t, 0, p.Drop())
	p.Update(100)

	assert.Equal(t, row, p.Row())
	assert.Equal(t, col, p.Col())
	assert.True(t, mask.Equal(p.Mask()))
	assert.True(t, p.Locked())
}

func TestRotateRestoresMaskAndAnchor(t *testing.T) {
	g := newTestGrid(t)

	for i := range ShapeCount() {
		p := NewPiece(g, i)
		p.row = 8
		orig := p.Mask()

		require.True(t, p.RotateCW(), ShapeAt(i).Name)
		assert.Equal(t, 1, p.Rotation())
		require.True(t, p.RotateCCW(), ShapeAt(i).Name)

		assert.True(t, orig.Equal(p.Mask()), ShapeAt(i).Name)
		assert.Equal(t, 8, p.Row())
		assert.Equal(t, (10-orig.Cols())/2, p.Col())
		assert.Equal(t, 0, p.Rotation())
	}
}

func TestRotateRejectedWhenBlocked(t *testing.T) {
	g := newTestGrid(t)
	p := NewPiece(g, shapeI)
	p.row = 5
	orig := p.Mask()

	// Clockwise the I lands in mask column 2, rows 0..3.
	require.NoError(t, g.SetBlock(p.Row()+3, p.Col()+2, Red))

	assert.False(t, p.RotateCW())
	assert.True(t, orig.Equal(p.Mask()))
	assert.Equal(t, 0, p.Rotation())
	assert.Equal(t, 5, p.Row())

	// Counter-clockwise uses mask column 1, which is free.
	assert.True(t, p.RotateCCW())
	assert.Equal(t, 3, p.Rotation())
}

func TestRotateRejectedAtWall(t *testing.T) {
	g := newTestGrid(t)
	p := NewPiece(g, shapeI)
	p.row = 5
	require.True(t, p.RotateCW())
	for p.MoveRight() {
	}
	// Vertical I hugging the right wall: turning back would poke out.
	assert.False(t, p.RotateCCW())
	assert.False(t, p.RotateCW())
}

func TestUpdateGravity(t *testing.T) {
	g := newTestGrid(t)
	p := NewPiece(g, shapeO)
	start := p.Row()

	p.Update(10.0)
	assert.Equal(t, start, p.Row(), "first update only records the clock")

	p.Update(10.5)
	assert.Equal(t, start, p.Row(), "exactly one pace is not enough")

	p.Update(10.6)
	assert.Equal(t, start+1, p.Row())

	p.Update(11.0)
	assert.Equal(t, start+1, p.Row(), "measured from the last descent")

	p.Update(11.2)
	assert.Equal(t, start+2, p.Row())
}

func TestUpdateLocksOnFloor(t *testing.T) {
	g := newTestGrid(t)
	p := NewPiece(g, shapeO)
	p.row = 18

	p.Update(0)
	p.Update(1)
	assert.True(t, p.Locked())
	assert.Equal(t, 18, p.Row())
}

func TestPlaceAndRemove(t *testing.T) {
	g := newTestGrid(t)
	p := NewPiece(g, shapeT)
	p.row, p.col = 17, 0

	require.NoError(t, p.PlaceOnGrid())
	cells := g.Cells()
	for _, pt := range p.Cells() {
		assert.Equal(t, Violet, cells[pt.Row][pt.Col])
	}

	require.NoError(t, p.RemoveFromGrid())
	for _, row := range g.Cells() {
		for _, v := range row {
			assert.Equal(t, Empty, v)
		}
	}
}

func TestPlaceSkipsCellsAboveGrid(t *testing.T) {
	g := newTestGrid(t)
	p := NewPiece(g, shapeI)
	p.RotateCW()
	p.row = -2 // two cells above, two on rows 0 and 1

	require.NoError(t, p.PlaceOnGrid())

	filled := 0
	for _, row := range g.Cells() {
		for _, v := range row {
			if v.Filled() {
				filled++
			}
		}
	}
	assert.Equal(t, 2, filled)
	assert.True(t, p.Overhangs())
}

func TestPlaceDoesNotClobber(t *testing.T) {
	g := newTestGrid(t)
	p := NewPiece(g, shapeO)
	p.row, p.col = 0, 0
	require.NoError(t, g.SetBlock(0, 0, Red))

	require.NoError(t, p.PlaceOnGrid())

	v, err := g.Block(0, 0)
	require.NoError(t, err)
	assert.Equal(t, Red, v)

	v, err = g.Block(1, 1)
	require.NoError(t, err)
	assert.Equal(t, Yellow, v)
}

func TestCells(t *testing.T) {
	g := newTestGrid(t)
	p := NewPiece(g, shapeO)
	p.row, p.col = 3, 7

	assert.ElementsMatch(t, []Point{{3, 7}, {3, 8}, {4, 7}, {4, 8}}, p.Cells())
	assert.False(t, p.Overhangs())
	assert.Equal(t, Yellow, p.Color())
	assert.Equal(t, shapeO, p.Shape())
}
