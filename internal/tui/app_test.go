package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/mosaic/internal/adapter"
	"github.com/mmcdole/mosaic/internal/domain"
	"github.com/mmcdole/mosaic/internal/service"
)

// nopRepo is never called; tests deliver pages as messages
type nopRepo struct{}

func (nopRepo) FetchPage(context.Context, domain.Query, int, int) (domain.Page, error) {
	return domain.Page{}, errors.New("not used")
}

type fakeOpener struct{ urls []string }

func (o *fakeOpener) Launch(url string) error {
	o.urls = append(o.urls, url)
	return nil
}

func newTestModel(t *testing.T) (Model, *fakeOpener) {
	t.Helper()
	opener := &fakeOpener{}
	m, err := NewModel(Options{
		Service:   service.NewFeedService(nopRepo{}, nil, 4, time.Minute, nil),
		Opener:    opener,
		Sizer:     service.Sizer{CellAspect: 0.5, CaptionRows: 2},
		Columns:   2,
		Gap:       1,
		Buffer:    4,
		LoadAhead: 2,
		Initial:   domain.DefaultQuery(domain.FeedKindDraw),
		Logger:    adapter.NullLogger(),
	})
	require.NoError(t, err)
	return m, opener
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// square posts are 12 rows at a column width of 19: ceil(19*0.5)+2
func posts(from, n int) []domain.Post {
	out := make([]domain.Post, n)
	for i := range out {
		id := from + i
		out[i] = domain.Post{
			DocID:    int64(id),
			Title:    fmt.Sprintf("post %d", id),
			Pictures: []domain.Picture{{Src: fmt.Sprintf("https://img.example/%d.jpg", id), Width: 1000, Height: 1000}},
			Author:   domain.User{Name: "mizu"},
		}
	}
	return out
}

func loaded(fs *feedState, pageNum, total int, items []domain.Post) PageLoadedMsg {
	return PageLoadedMsg{
		Kind:       fs.kind,
		Generation: fs.wf.Generation(),
		Query:      fs.query(),
		Page:       domain.Page{Items: items, TotalCount: total, PageNum: pageNum, PageSize: 4},
	}
}

func TestModel_ResizeRequestsFirstPage(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 42, Height: 20})

	require.NotNil(t, cmd)
	for _, fs := range m.Feeds {
		assert.True(t, fs.loading, "%s should be loading", fs.kind)
		assert.Equal(t, 0, fs.cursor.Next())
		assert.Equal(t, 19, fs.columnWidth)
		assert.Equal(t, 18, fs.surface.Height())
	}
}

func TestModel_PageLoadedLaysOutAndPaginates(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 40})
	fs := m.active()

	m, cmd := update(t, m, loaded(fs, 0, 10, posts(0, 4)))

	assert.Equal(t, 4, fs.wf.Len())
	layout := fs.wf.Layout()
	assert.Equal(t, 0, layout[0].Column)
	assert.Equal(t, 1, layout[1].Column)
	assert.Equal(t, 13.0, layout[2].Top) // 12 rows + 1 gap

	// two rows of cards end inside the 38-row viewport, so the next page is requested
	assert.True(t, fs.loading)
	assert.Equal(t, 1, fs.cursor.Next())
	assert.NotNil(t, cmd)

	m, _ = update(t, m, loaded(fs, 1, 10, posts(4, 4)))
	assert.Equal(t, 8, fs.wf.Len())
	assert.Len(t, fs.posts, 8)
}

func TestModel_StopsAtEndOfFeed(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 40})
	fs := m.active()

	m, _ = update(t, m, loaded(fs, 0, 3, posts(0, 3)))
	assert.False(t, fs.loading)
	assert.False(t, fs.cursor.HasMore())
	assert.Contains(t, m.View(), "end of feed")
}

func TestModel_ListTypeChangeDropsStalePages(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 20})
	fs := m.active()
	m, _ = update(t, m, loaded(fs, 0, 40, posts(0, 4)))

	// page 1 is in flight for the hot listing
	stale := loaded(fs, 1, 40, posts(4, 4))
	gen := fs.wf.Generation()

	m, cmd := update(t, m, keyMsg("t"))
	require.NotNil(t, cmd)
	assert.Equal(t, domain.ListTypeNew, fs.query().ListType)
	assert.Equal(t, gen+1, fs.wf.Generation())
	assert.Zero(t, fs.wf.Len())
	assert.True(t, fs.loading)
	assert.Equal(t, 0, fs.cursor.Next())

	m, _ = update(t, m, stale)
	assert.Zero(t, fs.wf.Len())
	assert.True(t, fs.loading)

	m, _ = update(t, m, loaded(fs, 0, 40, posts(100, 4)))
	require.Equal(t, 4, fs.wf.Len())
	assert.Equal(t, int64(100), fs.wf.Items()[0].Item.DocID)
}

func TestModel_CategoryCycles(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 20})
	fs := m.active()

	assert.Equal(t, domain.CategoryIllustration, fs.query().Category)
	m, _ = update(t, m, keyMsg("c"))
	assert.Equal(t, domain.CategoryComic, fs.query().Category)
	m, _ = update(t, m, keyMsg("C"))
	m, _ = update(t, m, keyMsg("C"))
	assert.Equal(t, domain.CategoryAll, fs.query().Category)
}

func TestModel_RefreshKeepsItemsUntilFirstPage(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 20})
	fs := m.active()
	m, _ = update(t, m, loaded(fs, 0, 4, posts(0, 4)))
	require.False(t, fs.loading)
	gen := fs.wf.Generation()

	m, cmd := update(t, m, keyMsg("r"))
	require.NotNil(t, cmd)
	assert.True(t, fs.wf.Refreshing())
	assert.Equal(t, 4, fs.wf.Len(), "old items stay while fetching")
	assert.Equal(t, gen, fs.wf.Generation())

	// a second refresh is ignored while the first runs
	_, cmd = update(t, m, keyMsg("r"))
	assert.Nil(t, cmd)

	msg := loaded(fs, 0, 4, posts(50, 2))
	msg.Reload = true
	m, _ = update(t, m, msg)

	assert.False(t, fs.wf.Refreshing())
	assert.Equal(t, gen+1, fs.wf.Generation())
	require.Equal(t, 2, fs.wf.Len())
	assert.Equal(t, int64(50), fs.wf.Items()[0].Item.DocID)
}

func TestModel_WheelUpAtTopRefreshes(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 20})
	fs := m.active()
	m, _ = update(t, m, loaded(fs, 0, 4, posts(0, 4)))

	m, _ = update(t, m, tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	assert.True(t, fs.wf.Refreshing())
	assert.Contains(t, m.View(), "refreshing")
}

func TestModel_ScrollAndAnimatedReturnToTop(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 20})
	fs := m.active()
	m, _ = update(t, m, loaded(fs, 0, 12, posts(0, 4)))
	m, _ = update(t, m, loaded(fs, 1, 12, posts(4, 4)))
	m, _ = update(t, m, loaded(fs, 2, 12, posts(8, 4)))
	require.Equal(t, 12, fs.wf.Len())

	// 6 rows of 13 minus the trailing gap, header and footer: 2+77+2-18
	assert.Equal(t, 63, m.maxOffset(fs))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.Equal(t, 9, fs.surface.Offset())
	assert.Equal(t, 9.0, fs.wf.ScrollOffset())

	m, _ = update(t, m, keyMsg("G"))
	assert.Equal(t, 63, fs.surface.Offset())

	m, cmd := update(t, m, keyMsg("g"))
	require.NotNil(t, cmd)
	assert.True(t, fs.surface.Animating())

	for i := 0; i < 100 && fs.surface.Animating(); i++ {
		m, _ = update(t, m, ScrollTickMsg{Kind: fs.kind})
	}
	assert.False(t, fs.surface.Animating())
	assert.Equal(t, 0, fs.surface.Offset())
	assert.Equal(t, 0.0, fs.wf.ScrollOffset())
}

func TestModel_FilterReplacesAndRestores(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 20})
	fs := m.active()
	items := posts(0, 4)
	items[2].Title = "Harbor lights"
	m, _ = update(t, m, loaded(fs, 0, 4, items))

	m, _ = update(t, m, keyMsg("/"))
	require.True(t, m.Filtering)
	for _, r := range "harb" {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Equal(t, "harb", fs.filter)
	require.Equal(t, 1, fs.wf.Len())
	assert.Equal(t, "Harbor lights", fs.wf.Items()[0].Item.Title)

	m, _ = update(t, m, keyMsg("enter"))
	assert.False(t, m.Filtering)
	assert.Equal(t, "harb", fs.filter)

	m, _ = update(t, m, keyMsg("esc"))
	assert.Empty(t, fs.filter)
	assert.Equal(t, 4, fs.wf.Len())
}

func TestModel_PageUnderFilterKeepsScroll(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 20})
	fs := m.active()
	m, _ = update(t, m, loaded(fs, 0, 40, posts(0, 4)))
	next := loaded(fs, 1, 40, posts(4, 4))

	m, _ = update(t, m, keyMsg("/"))
	for _, r := range "post" {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m, _ = update(t, m, keyMsg("enter"))
	require.Equal(t, "post", fs.filter)

	m, _ = update(t, m, keyMsg("j"))
	m, _ = update(t, m, keyMsg("j"))
	require.Equal(t, 2, fs.surface.Offset())

	m, _ = update(t, m, next)
	assert.Equal(t, 8, fs.wf.Len())
	assert.Equal(t, 2, fs.surface.Offset())
	assert.Equal(t, 2.0, fs.wf.ScrollOffset())
}

func TestModel_OpenFocusedColumn(t *testing.T) {
	m, opener := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 20})
	fs := m.active()
	m, _ = update(t, m, loaded(fs, 0, 4, posts(0, 4)))

	m, _ = update(t, m, keyMsg("l"))
	assert.Equal(t, 1, fs.focus)

	_, cmd := update(t, m, keyMsg("o"))
	require.NotNil(t, cmd)
	msg := cmd()
	opened, ok := msg.(ImageOpenedMsg)
	require.True(t, ok)
	assert.Equal(t, int64(1), opened.Post.DocID)
	assert.Equal(t, []string{"https://img.example/1.jpg"}, opener.urls)
}

func TestModel_PageFailure(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 20})
	fs := m.active()

	m, _ = update(t, m, PageFailedMsg{
		Kind:       fs.kind,
		Generation: fs.wf.Generation(),
		Query:      fs.query(),
		Err:        domain.ErrServerOffline,
	})
	assert.False(t, fs.loading)
	assert.ErrorIs(t, fs.err, domain.ErrServerOffline)
	assert.True(t, m.StatusIsErr)
	assert.Contains(t, m.View(), "r to retry")
}

func TestModel_FailedPageRetriesOnScroll(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 40})
	fs := m.active()

	m, cmd := update(t, m, loaded(fs, 0, 40, posts(0, 4)))
	require.NotNil(t, cmd)
	require.True(t, fs.loading)
	require.Equal(t, 1, fs.cursor.Next())

	m, _ = update(t, m, PageFailedMsg{
		Kind:       fs.kind,
		Generation: fs.wf.Generation(),
		Query:      fs.query(),
		Err:        domain.ErrServerOffline,
	})
	require.False(t, fs.loading)

	m, cmd = update(t, m, keyMsg("j"))
	assert.NotNil(t, cmd)
	assert.True(t, fs.loading)
	assert.Equal(t, 1, fs.cursor.Next())
	assert.Equal(t, 4, fs.wf.Len())
}

func TestModel_CardCacheFollowsLayout(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 20})
	fs := m.active()
	m, _ = update(t, m, loaded(fs, 0, 40, posts(0, 4)))

	_ = m.View()
	require.Len(t, fs.cards, 4)

	// appending keeps the rendered cards of earlier posts
	m, _ = update(t, m, loaded(fs, 1, 40, posts(4, 4)))
	assert.Len(t, fs.cards, 4)

	// a new measurement may change every card
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Empty(t, fs.cards)

	_ = m.View()
	assert.NotEmpty(t, fs.cards)
	m, _ = update(t, m, keyMsg("t"))
	assert.Empty(t, fs.cards)
}

func TestModel_TabSwitch(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 20})
	assert.Equal(t, domain.FeedKindDraw, m.active().kind)

	m, _ = update(t, m, keyMsg("tab"))
	assert.Equal(t, domain.FeedKindPhoto, m.active().kind)

	view := m.View()
	assert.Contains(t, view, "Photo")
	assert.Contains(t, view, "sifu")
	assert.Equal(t, 20, len(strings.Split(view, "\n")))
}
