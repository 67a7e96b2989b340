package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Color palette
var (
	Pink       = lipgloss.Color("#FB7299")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Blue       = lipgloss.Color("#00A1D6")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Pink)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Pink)
)

// Tab bar
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Pink).
			Bold(true).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Padding(0, 1)

	AppTitleStyle = lipgloss.NewStyle().
			Foreground(Pink).
			Bold(true).
			Padding(0, 1)
)

// Header chips (list type and category)
var (
	ActiveChipStyle = lipgloss.NewStyle().
			Foreground(SlateDark).
			Background(Blue).
			Padding(0, 1)

	ChipStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)
)

// Cards
var (
	PictureStyle = lipgloss.NewStyle().
			Foreground(SlateLight)

	PictureFocusedStyle = lipgloss.NewStyle().
				Foreground(Pink)

	PictureLabelStyle = lipgloss.NewStyle().
				Foreground(LightGray)

	CardTitleStyle = lipgloss.NewStyle().
			Foreground(White)

	CardTitleFocusedStyle = lipgloss.NewStyle().
				Foreground(Pink).
				Bold(true)

	CardMetaStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Status bar
var (
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(Pink)
)

// Helper functions

// Truncate truncates s to width terminal cells with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// Pad fills s with spaces up to width terminal cells, truncating when longer.
// s may contain ANSI sequences.
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		return lipgloss.NewStyle().MaxWidth(width).Render(s)
	}
	return s + Spaces(width-w)
}

// Spaces returns n blanks
func Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
