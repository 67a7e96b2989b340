package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/mmcdole/mosaic/internal/domain"
	"github.com/mmcdole/mosaic/internal/tui/styles"
)

// CardOptions sizes a card. Height includes the caption rows.
type CardOptions struct {
	Width       int
	Height      int
	CaptionRows int
	Focused     bool
}

// RenderCard draws a post as a picture placeholder with a caption below it.
// It returns exactly Height lines, each Width cells wide.
func RenderCard(post domain.Post, o CardOptions) []string {
	if o.Width <= 0 || o.Height <= 0 {
		return nil
	}

	captionRows := min(o.CaptionRows, o.Height)
	pictureRows := o.Height - captionRows

	lines := make([]string, 0, o.Height)
	lines = append(lines, renderPicture(post, o.Width, pictureRows, o.Focused)...)
	lines = append(lines, renderCaption(post, o.Width, captionRows, o.Focused)...)
	return lines
}

func pictureLabel(post domain.Post) string {
	cover, ok := post.Cover()
	if !ok {
		return "no image"
	}
	label := fmt.Sprintf("%d×%d", cover.Width, cover.Height)
	if n := len(post.Pictures); n > 1 {
		label += fmt.Sprintf(" +%d", n-1)
	}
	return label
}

func renderPicture(post domain.Post, width, rows int, focused bool) []string {
	if rows <= 0 {
		return nil
	}
	frame := styles.PictureStyle
	if focused {
		frame = styles.PictureFocusedStyle
	}

	if rows < 3 || width < 4 {
		line := frame.Render(strings.Repeat("░", width))
		lines := make([]string, rows)
		for i := range lines {
			lines[i] = line
		}
		return lines
	}

	inner := width - 2
	label := runewidth.Truncate(pictureLabel(post), inner, "")
	labelRow := rows / 2

	lines := make([]string, rows)
	lines[0] = frame.Render("╭" + strings.Repeat("─", inner) + "╮")
	for i := 1; i < rows-1; i++ {
		fill := styles.PictureStyle.Render(strings.Repeat("░", inner))
		if i == labelRow {
			fill = styles.PictureLabelStyle.Render(
				lipgloss.PlaceHorizontal(inner, lipgloss.Center, label))
		}
		lines[i] = frame.Render("│") + fill + frame.Render("│")
	}
	lines[rows-1] = frame.Render("╰" + strings.Repeat("─", inner) + "╯")
	return lines
}

func renderCaption(post domain.Post, width, rows int, focused bool) []string {
	if rows <= 0 {
		return nil
	}
	titleStyle := styles.CardTitleStyle
	if focused {
		titleStyle = styles.CardTitleFocusedStyle
	}

	meta := fmt.Sprintf("♥ %d", post.Likes)
	if post.Author.Name != "" {
		meta = "@" + post.Author.Name + "  " + meta
	}

	caption := []string{
		titleStyle.Render(runewidth.FillRight(styles.Truncate(post.DisplayTitle(), width), width)),
		styles.CardMetaStyle.Render(runewidth.FillRight(styles.Truncate(meta, width), width)),
	}

	lines := make([]string, rows)
	for i := range lines {
		if i < len(caption) {
			lines[i] = caption[i]
		} else {
			lines[i] = styles.Spaces(width)
		}
	}
	return lines
}
