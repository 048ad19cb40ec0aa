package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-blockfall/internal/core"
)

// blockRune is the glyph games use for solid cells.
const blockRune = '█'

// palette maps core.Color to terminal color codes.
var palette = map[core.Color]lipgloss.Color{
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
}

var (
	textStyles  = make(map[core.Color]lipgloss.Style, len(palette))
	blockStyles = make(map[core.Color]lipgloss.Style, len(palette))
)

func init() {
	for c, code := range palette {
		textStyles[c] = lipgloss.NewStyle().Foreground(code)
		blockStyles[c] = lipgloss.NewStyle().Foreground(code).Background(code)
	}
}

// span is a run of cells drawn with one style.
type span struct {
	text  string
	color core.Color
	block bool
}

func (sp span) style() lipgloss.Style {
	styles := textStyles
	if sp.block {
		styles = blockStyles
	}
	if st, ok := styles[sp.color]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

// rowSpans splits row y into runs of equal color, keeping block cells apart
// from text so only blocks get a filled background.
func rowSpans(s *core.Screen, y int) []span {
	var spans []span
	var run strings.Builder

	x := 0
	for x < s.Width() {
		first := s.GetCell(x, y)
		cur := span{color: first.Color, block: first.Rune == blockRune}

		run.Reset()
		for x < s.Width() {
			cell := s.GetCell(x, y)
			if cell.Color != cur.color || (cell.Rune == blockRune) != cur.block {
				break
			}
			run.WriteRune(cell.Rune)
			x++
		}
		cur.text = run.String()
		spans = append(spans, cur)
	}
	return spans
}

// RenderScreen converts a Screen buffer to a styled string for display.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for _, sp := range rowSpans(s, y) {
			sb.WriteString(sp.style().Render(sp.text))
		}
	}
	return sb.String()
}
