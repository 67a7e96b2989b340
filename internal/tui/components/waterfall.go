package components

import (
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/mosaic/internal/tui/styles"
	"github.com/mmcdole/mosaic/internal/waterfall"
)

// ScrollFrameInterval paces animated scrolling
const ScrollFrameInterval = 16 * time.Millisecond

// Surface is the scrollable viewport a waterfall is mounted on. Offsets are
// in rows of content, header included.
type Surface struct {
	height    int
	offset    int
	target    int
	animating bool
}

var _ waterfall.Scroller = (*Surface)(nil)

func NewSurface() *Surface {
	return &Surface{}
}

// SetHeight sets the number of visible rows
func (s *Surface) SetHeight(h int) {
	s.height = max(0, h)
}

func (s *Surface) Height() int {
	return s.height
}

func (s *Surface) Offset() int {
	return s.offset
}

// Animating reports whether an animated scroll is in progress
func (s *Surface) Animating() bool {
	return s.animating
}

// ScrollTo implements waterfall.Scroller. Animated scrolls move toward y one
// Step at a time.
func (s *Surface) ScrollTo(y float64, animated bool) {
	t := 0
	if y > 0 && !math.IsInf(y, 0) {
		t = int(math.Round(y))
	}
	s.target = t
	if !animated || t == s.offset {
		s.offset = t
		s.animating = false
		return
	}
	s.animating = true
}

// ScrollBy moves the viewport by delta rows within [0, maxOffset] and cancels
// any running animation
func (s *Surface) ScrollBy(delta, maxOffset int) {
	s.offset = clamp(s.offset+delta, 0, maxOffset)
	s.target = s.offset
	s.animating = false
}

// Clamp keeps the offset and the animation target within [0, maxOffset]
func (s *Surface) Clamp(maxOffset int) {
	s.offset = clamp(s.offset, 0, maxOffset)
	s.target = clamp(s.target, 0, maxOffset)
	if s.offset == s.target {
		s.animating = false
	}
}

// Step advances an animated scroll by a third of the remaining distance
func (s *Surface) Step() {
	if !s.animating {
		return
	}
	d := s.target - s.offset
	step := d / 3
	if step == 0 {
		step = sign(d)
	}
	s.offset += step
	if s.offset == s.target {
		s.animating = false
	}
}

// ScrollTickCmd schedules the next animation frame
func ScrollTickCmd(msg tea.Msg) tea.Cmd {
	return tea.Tick(ScrollFrameInterval, func(time.Time) tea.Msg {
		return msg
	})
}

// Block is a rendered item positioned in its column
type Block struct {
	Column int
	Top    int // rows from the top of the column area
	Lines  []string
}

// Frame describes one render of the waterfall viewport
type Frame struct {
	Width  int
	Height int
	Offset int

	Columns     int
	ColumnWidth int
	Gap         int

	Header        []string // full-width rows above the columns
	Blocks        []Block
	ContentHeight int    // extent of the tallest column
	Footer        string // drawn one row below the columns
}

// FooterRows is the space Compose reserves below the columns
const FooterRows = 2

// Compose draws the rows of a frame that fall inside the viewport. Every
// column is a separate canvas, so a block only ever shifts rows in its own
// column.
func Compose(f Frame) string {
	if f.Height <= 0 || f.Width <= 0 {
		return ""
	}

	blank := styles.Spaces(f.ColumnWidth)
	cells := make([][]string, f.Height)
	full := make([]string, f.Height)
	isFull := make([]bool, f.Height)
	for r := range cells {
		cells[r] = make([]string, f.Columns)
		for c := range cells[r] {
			cells[r][c] = blank
		}
	}

	headerHeight := len(f.Header)
	for i, line := range f.Header {
		if r := i - f.Offset; r >= 0 && r < f.Height {
			full[r] = styles.Pad(line, f.Width)
			isFull[r] = true
		}
	}

	for _, b := range f.Blocks {
		if b.Column < 0 || b.Column >= f.Columns {
			continue
		}
		for i, line := range b.Lines {
			r := headerHeight + b.Top + i - f.Offset
			if r < 0 {
				continue
			}
			if r >= f.Height {
				break
			}
			cells[r][b.Column] = styles.Pad(line, f.ColumnWidth)
		}
	}

	if f.Footer != "" {
		footerRow := headerHeight + f.ContentHeight + FooterRows - 1 - f.Offset
		if f.ContentHeight == 0 {
			footerRow = headerHeight - f.Offset
		}
		if footerRow >= 0 && footerRow < f.Height {
			full[footerRow] = lipgloss.PlaceHorizontal(f.Width, lipgloss.Center, f.Footer)
			isFull[footerRow] = true
		}
	}

	gap := styles.Spaces(f.Gap)
	lines := make([]string, f.Height)
	for r := range lines {
		if isFull[r] {
			lines[r] = full[r]
			continue
		}
		lines[r] = styles.Pad(strings.Join(cells[r], gap), f.Width)
	}
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return min(max(v, lo), hi)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
