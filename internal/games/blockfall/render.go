package blockfall

import (
	"fmt"

	"github.com/vovakirdan/tui-blockfall/internal/core"
	"github.com/vovakirdan/tui-blockfall/internal/tetris"
)

const (
	cellWidth   = 2  // Terminal columns per well cell
	panelWidth  = 12 // Side panel box width, fits a 4-wide piece
	panelGap    = 2
	previewSlot = 3 // Rows per upcoming piece, including spacing
	holdHeight  = 6 // Hold box rows, fits a piece turned upright
	statsLines  = 5
)

var (
	borderColor = core.ColorGray
	textColor   = core.ColorBrightWhite
)

// blockColors maps engine colors to screen colors.
var blockColors = map[tetris.Cell]core.Color{
	tetris.Orange: core.ColorOrange,
	tetris.Blue:   core.ColorBrightBlue,
	tetris.Cyan:   core.ColorBrightCyan,
	tetris.Green:  core.ColorBrightGreen,
	tetris.Red:    core.ColorBrightRed,
	tetris.Violet: core.ColorBrightMagenta,
	tetris.Yellow: core.ColorBrightYellow,
}

// BlockColor returns the screen color used for an engine cell.
func BlockColor(c tetris.Cell) core.Color {
	if col, ok := blockColors[c]; ok {
		return col
	}
	return core.ColorDefault
}

func (g *Game) wellSize() (w, h int) {
	return g.cfg.Board.Cols*cellWidth + 2, g.cfg.Board.Rows + 2
}

func (g *Game) panelHeight() int {
	h := holdHeight + statsLines
	if n := g.cfg.Preview.Count; n > 0 {
		h += n*previewSlot + 1
	}
	return h
}

// minSize is the smallest screen that fits the well, the side panel, the
// title line and the controls line.
func (g *Game) minSize() (w, h int) {
	wellW, wellH := g.wellSize()
	return wellW + panelGap + panelWidth, max(wellH, g.panelHeight()) + 2
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	wellW, wellH := g.wellSize()
	totalW := wellW + panelGap + panelWidth
	well := core.NewRect((g.screenW-totalW)/2, 1, wellW, wellH)
	panelX := well.Right() + panelGap

	g.renderTitle(dst, well)
	g.renderWell(dst, well)
	y := g.renderPreview(dst, panelX, well.Y)
	y = g.renderHold(dst, panelX, y)
	g.renderStats(dst, panelX, y)

	if g.configWarning != "" {
		dst.DrawTextColored(0, g.screenH-1, truncate("config: "+g.configWarning, g.screenW), core.ColorYellow)
	} else {
		dst.DrawTextCenteredColored(g.screenH-1, truncate(g.Controls(), g.screenW), core.ColorGray)
	}

	g.renderOverlays(dst, well)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	minW, minH := g.minSize()
	y := g.screenH / 2
	dst.DrawTextCentered(y-1, "Window too small")
	dst.DrawTextCentered(y, fmt.Sprintf("Need %dx%d, have %dx%d", minW, minH, g.screenW, g.screenH))
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

func (g *Game) renderTitle(dst *core.Screen, well core.Rect) {
	title := g.Title()
	dst.DrawTextColored(well.X+(well.W-len([]rune(title)))/2, 0, title, textColor)
}

// renderWell draws the border, the stored cells and the live piece on top.
// The grid itself is never modified for display.
func (g *Game) renderWell(dst *core.Screen, well core.Rect) {
	dst.DrawBox(well, borderColor)
	inner := well.Inset(1)

	cells := g.grid.Cells()
	for r, row := range cells {
		for c, v := range row {
			g.drawCell(dst, inner.X+c*cellWidth, inner.Y+r, v)
		}
	}

	if p := g.grid.Current(); p != nil {
		color := p.Color()
		for _, pt := range p.Cells() {
			if pt.Row < 0 || pt.Row >= g.grid.Rows() || pt.Col < 0 || pt.Col >= g.grid.Cols() {
				continue
			}
			g.drawCell(dst, inner.X+pt.Col*cellWidth, inner.Y+pt.Row, color)
		}
	}
}

func (g *Game) drawCell(dst *core.Screen, x, y int, v tetris.Cell) {
	if !v.Filled() {
		dst.SetColored(x, y, ' ', core.ColorDefault)
		dst.SetColored(x+1, y, '·', core.ColorGray)
		return
	}
	color := BlockColor(v)
	dst.SetColored(x, y, '█', color)
	dst.SetColored(x+1, y, '█', color)
}

// drawMask draws the set cells of a trimmed mask with its top-left at (x, y).
func (g *Game) drawMask(dst *core.Screen, x, y int, m tetris.Mask) {
	for r, row := range m {
		for c, v := range row {
			if v.Filled() {
				g.drawCell(dst, x+c*cellWidth, y+r, v)
			}
		}
	}
}

// renderPreview draws the upcoming pieces and returns the next free row.
func (g *Game) renderPreview(dst *core.Screen, x, y int) int {
	n := g.cfg.Preview.Count
	if n <= 0 {
		return y
	}

	box := core.NewRect(x, y, panelWidth, n*previewSlot+1)
	dst.DrawBox(box, borderColor)
	dst.DrawTextColored(x+2, y, " NEXT ", textColor)

	for i, shape := range g.grid.Upcoming(n) {
		m := Trim(tetris.ShapeAt(shape).Mask())
		px := x + (panelWidth-m.Cols()*cellWidth)/2
		g.drawMask(dst, px, y+1+i*previewSlot, m)
	}
	return box.Bottom()
}

// renderHold draws the held piece as it was when shelved and returns the
// next free row.
func (g *Game) renderHold(dst *core.Screen, x, y int) int {
	box := core.NewRect(x, y, panelWidth, holdHeight)
	dst.DrawBox(box, borderColor)
	dst.DrawTextColored(x+2, y, " HOLD ", textColor)

	if held := g.grid.Held(); held != nil {
		m := Trim(held.Mask())
		px := x + (panelWidth-m.Cols()*cellWidth)/2
		py := y + 1 + (holdHeight-2-m.Rows())/2
		g.drawMask(dst, px, py, m)
	}
	return box.Bottom()
}

func (g *Game) renderStats(dst *core.Screen, x, y int) {
	s := g.Stats()
	lines := []string{
		fmt.Sprintf("Rows   %d", s.Rows),
		fmt.Sprintf("Pieces %d", s.Pieces),
		fmt.Sprintf("Holds  %d", s.Holds),
		fmt.Sprintf("Pace   %.2fs", g.cfg.Gravity.Pace),
	}
	for i, line := range lines {
		dst.DrawTextColored(x+1, y+1+i, line, textColor)
	}
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, well core.Rect) {
	centerX, centerY := well.Center()

	if g.paused {
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "P to resume")
		return
	}

	if g.gameOver {
		rows := fmt.Sprintf("Rows: %d", g.grid.Stats().RowsCleared)
		g.drawOverlay(dst, centerX, centerY, "GAME OVER", rows, "R to restart")
	}
}

// drawOverlay draws a centered text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	box := core.NewRect(centerX-boxW/2, centerY-boxH/2, boxW, boxH)

	// Clear area behind overlay
	dst.DrawRect(box, ' ')
	dst.DrawBox(box, textColor)

	for i, line := range lines {
		dst.DrawTextColored(centerX-len(line)/2, box.Y+1+i, line, textColor)
	}
}

// Trim cuts a mask down to the bounding box of its set cells.
// A mask with no set cells trims to an empty mask.
func Trim(m tetris.Mask) tetris.Mask {
	top, bottom, left, right := m.Rows(), -1, m.Cols(), -1
	for r, row := range m {
		for c, v := range row {
			if !v.Filled() {
				continue
			}
			top, bottom = min(top, r), max(bottom, r)
			left, right = min(left, c), max(right, c)
		}
	}
	if bottom < 0 {
		return tetris.Mask{}
	}

	out := make(tetris.Mask, 0, bottom-top+1)
	for r := top; r <= bottom; r++ {
		out = append(out, append([]tetris.Cell(nil), m[r][left:right+1]...))
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
