package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/mosaic/internal/domain"
	"github.com/mmcdole/mosaic/internal/tui/components"
	"github.com/mmcdole/mosaic/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	var body string
	if m.Help.ShowAll {
		body = lipgloss.NewStyle().
			Padding(1, 2).
			Height(m.bodyHeight()).
			MaxHeight(m.bodyHeight()).
			Render(m.Help.View(Keys))
	} else {
		body = m.renderFeed(m.active())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabBar(),
		body,
		m.renderStatusBar(),
	)
}

func (m Model) renderTabBar() string {
	parts := []string{styles.AppTitleStyle.Render("mosaic")}
	for i, fs := range m.Feeds {
		title := fs.kind.Title()
		if i == m.Active {
			parts = append(parts, styles.ActiveTabStyle.Render(title))
		} else {
			parts = append(parts, styles.InactiveTabStyle.Render(title))
		}
	}
	return styles.Pad(lipgloss.JoinHorizontal(lipgloss.Top, parts...), m.Width)
}

// renderHeader draws the rows that scroll above the columns
func (m Model) renderHeader(fs *feedState) []string {
	q := fs.query()

	var chips []string
	if fs.wf.Refreshing() {
		chips = append(chips, m.Spinner.View()+styles.DimStyle.Render(" refreshing"))
	}
	for _, lt := range domain.ListTypes {
		chips = append(chips, renderChip(string(lt), lt == q.ListType))
	}
	chips = append(chips, styles.DimStyle.Render("│"))
	for _, c := range domain.Categories(q.Kind) {
		chips = append(chips, renderChip(string(c), c == q.Category))
	}

	lines := make([]string, HeaderRows)
	lines[0] = strings.Join(chips, " ")
	return lines
}

func renderChip(label string, active bool) string {
	if active {
		return styles.ActiveChipStyle.Render(label)
	}
	return styles.ChipStyle.Render(label)
}

func (m Model) renderFooter(fs *feedState) string {
	switch {
	case fs.err != nil:
		return styles.ErrorStyle.Render("failed to load · r to retry")
	case fs.loading:
		return m.Spinner.View() + styles.DimStyle.Render(" loading")
	case fs.filter != "":
		return styles.DimStyle.Render(fmt.Sprintf("%d of %d match", fs.wf.Len(), len(fs.posts)))
	case fs.wf.Len() == 0 && !fs.cursor.HasMore():
		return styles.DimStyle.Render("nothing here yet")
	case !fs.cursor.HasMore():
		return styles.DimStyle.Render("· end of feed ·")
	}
	return ""
}

// renderFeed composes the visible cards of a feed into the viewport
func (m Model) renderFeed(fs *feedState) string {
	opts := fs.wf.Options()
	focused, hasFocus := m.focusedItem(fs)

	visible := fs.wf.Visible()
	blocks := make([]components.Block, 0, len(visible))
	for _, mt := range visible {
		lines := fs.card(mt, components.CardOptions{
			Width:       fs.columnWidth,
			Height:      int(mt.Entry.Height),
			CaptionRows: m.Sizer.CaptionRows,
			Focused:     hasFocus && mt.Entry.ItemIndex == focused.Entry.ItemIndex,
		})
		blocks = append(blocks, components.Block{
			Column: mt.Entry.Column,
			Top:    int(mt.Entry.Top),
			Lines:  lines,
		})
	}

	frame := components.Frame{
		Width:         m.containerWidth(),
		Height:        fs.surface.Height(),
		Offset:        fs.surface.Offset(),
		Columns:       opts.Columns,
		ColumnWidth:   fs.columnWidth,
		Gap:           int(opts.Gap),
		Header:        m.renderHeader(fs),
		Blocks:        blocks,
		ContentHeight: int(math.Ceil(fs.wf.ContentHeight() - opts.HeaderHeight)),
		Footer:        m.renderFooter(fs),
	}

	return lipgloss.NewStyle().PaddingLeft(SideMargin).Render(components.Compose(frame))
}

func (m Model) renderStatusBar() string {
	fs := m.active()

	var left string
	switch {
	case m.Filtering:
		left = styles.FilterPromptStyle.Render("/") + m.FilterInput.View()
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.SuccessStyle.Render(m.StatusMsg)
	default:
		left = styles.StatusBarStyle.Render(fmt.Sprintf("%d/%d · %s", len(fs.posts), fs.cursor.Total(), fs.query()))
		if fs.filter != "" {
			left += styles.FilterPromptStyle.Render("  /" + fs.filter)
		}
	}

	right := m.Help.ShortHelpView(Keys.ShortHelp())
	space := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		return styles.Pad(left, m.Width)
	}
	return left + styles.Spaces(space) + right
}
