package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Filtering {
		return m.handleFilterKey(msg)
	}

	// Any key closes the help screen
	if m.Help.ShowAll {
		if key.Matches(msg, Keys.Quit) {
			return m, tea.Quit
		}
		m.Help.ShowAll = false
		return m, nil
	}

	fs := m.active()

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.Help.ShowAll = true
		return m, nil

	case key.Matches(msg, Keys.Down):
		cmd := m.scrollBy(fs, 1)
		return m, cmd

	case key.Matches(msg, Keys.Up):
		cmd := m.scrollBy(fs, -1)
		return m, cmd

	case key.Matches(msg, Keys.HalfDown):
		cmd := m.scrollBy(fs, max(1, fs.surface.Height()/2))
		return m, cmd

	case key.Matches(msg, Keys.HalfUp):
		cmd := m.scrollBy(fs, -max(1, fs.surface.Height()/2))
		return m, cmd

	case key.Matches(msg, Keys.Home):
		cmd := m.scrollTo(fs, 0, true)
		return m, cmd

	case key.Matches(msg, Keys.End):
		cmd := m.scrollTo(fs, m.maxOffset(fs), false)
		return m, cmd

	case key.Matches(msg, Keys.Left):
		fs.focus = max(0, fs.focus-1)
		return m, nil

	case key.Matches(msg, Keys.Right):
		fs.focus = min(fs.wf.Options().Columns-1, fs.focus+1)
		return m, nil

	case key.Matches(msg, Keys.NextTab):
		m.Active = (m.Active + 1) % len(m.Feeds)
		m.FilterInput.SetValue(m.active().filter)
		return m, nil

	case key.Matches(msg, Keys.ListType):
		q := fs.query()
		q.ListType = nextListType(q.ListType)
		cmd := m.changeQuery(fs, q)
		return m, cmd

	case key.Matches(msg, Keys.NextCategory):
		q := fs.query()
		q.Category = cycleCategory(q.Kind, q.Category, 1)
		cmd := m.changeQuery(fs, q)
		return m, cmd

	case key.Matches(msg, Keys.PrevCategory):
		q := fs.query()
		q.Category = cycleCategory(q.Kind, q.Category, -1)
		cmd := m.changeQuery(fs, q)
		return m, cmd

	case key.Matches(msg, Keys.Refresh):
		cmd := m.refresh(fs)
		return m, cmd

	case key.Matches(msg, Keys.Filter):
		m.Filtering = true
		m.FilterInput.SetValue(fs.filter)
		m.FilterInput.CursorEnd()
		cmd := m.FilterInput.Focus()
		return m, cmd

	case key.Matches(msg, Keys.Escape):
		if fs.filter == "" {
			return m, nil
		}
		fs.filter = ""
		m.clearFilterInput()
		m.applyFilter(fs, true)
		cmd := m.syncScroll(fs)
		return m, cmd

	case key.Matches(msg, Keys.Open):
		if m.Opener == nil {
			return m, nil
		}
		if mt, ok := m.focusedItem(fs); ok {
			return m, OpenImageCmd(m.Opener, mt.Info.Item)
		}
		return m, nil
	}

	return m, nil
}

// handleFilterKey routes keys to the filter input and re-filters on change
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fs := m.active()

	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, Keys.Escape):
		fs.filter = ""
		m.clearFilterInput()
		m.applyFilter(fs, true)
		cmd := m.syncScroll(fs)
		return m, cmd

	case key.Matches(msg, Keys.Accept):
		m.Filtering = false
		m.FilterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.FilterInput, cmd = m.FilterInput.Update(msg)
	if v := m.FilterInput.Value(); v != fs.filter {
		fs.filter = v
		m.applyFilter(fs, true)
		scrollCmd := m.syncScroll(fs)
		return m, tea.Batch(cmd, scrollCmd)
	}
	return m, cmd
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	fs := m.active()

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		// pulling past the top refreshes
		if fs.surface.Offset() == 0 {
			cmd := m.refresh(fs)
			return m, cmd
		}
		cmd := m.scrollBy(fs, -wheelStep)
		return m, cmd

	case tea.MouseButtonWheelDown:
		cmd := m.scrollBy(fs, wheelStep)
		return m, cmd
	}
	return m, nil
}
