package tui

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/mosaic/internal/domain"
	"github.com/mmcdole/mosaic/internal/service"
	"github.com/mmcdole/mosaic/internal/tui/components"
	"github.com/mmcdole/mosaic/internal/tui/styles"
	"github.com/mmcdole/mosaic/internal/waterfall"
)

// Layout constants, in terminal rows and cells
const (
	// Header rows scroll with the columns: the chip line and a blank row
	HeaderRows = 2

	// Tab bar above the feed and status line below it
	ChromeHeight = 2

	SideMargin = 1

	wheelStep     = 3
	statusTimeout = 3 * time.Second
)

// Options configures the application model
type Options struct {
	Service *service.FeedService
	Opener  ImageOpener
	Sizer   service.Sizer

	Columns   int
	Gap       int
	Buffer    int
	LoadAhead int

	// Initial selects the tab to open and its listing
	Initial domain.Query

	Logger *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Feeds holds one state per tab, in domain.FeedKinds order
	Feeds  []*feedState
	Active int

	FeedSvc *service.FeedService
	Opener  ImageOpener
	Sizer   service.Sizer

	// Dimensions
	Width  int
	Height int
	Ready  bool

	// UI components
	Spinner     spinner.Model
	Help        help.Model
	FilterInput textinput.Model
	Filtering   bool

	StatusMsg   string
	StatusIsErr bool

	logger *slog.Logger
}

// NewModel creates a new application model
func NewModel(opts Options) (Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	wfOpts := waterfall.Options{
		Columns:      opts.Columns,
		Gap:          float64(opts.Gap),
		Buffer:       float64(opts.Buffer),
		LoadAhead:    float64(opts.LoadAhead),
		HeaderHeight: HeaderRows,
	}

	m := Model{
		FeedSvc: opts.Service,
		Opener:  opts.Opener,
		Sizer:   opts.Sizer,
		Help:    help.New(),
		logger:  logger,
	}

	for i, kind := range domain.FeedKinds {
		q := domain.DefaultQuery(kind)
		if opts.Initial.Kind == kind {
			q = opts.Initial
			m.Active = i
		}
		fs, err := newFeedState(kind, q, opts.Service.PageSize(), wfOpts)
		if err != nil {
			return Model{}, fmt.Errorf("%s feed: %w", kind, err)
		}
		m.Feeds = append(m.Feeds, fs)
	}

	m.Spinner = spinner.New()
	m.Spinner.Spinner = spinner.Dot
	m.Spinner.Style = styles.SpinnerStyle

	m.FilterInput = textinput.New()
	m.FilterInput.Prompt = ""
	m.FilterInput.Placeholder = "title or author"
	m.FilterInput.CharLimit = 64

	return m, nil
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return m.Spinner.Tick
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.Help.Width = msg.Width
		cmd := m.updateLayout()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case PageLoadedMsg:
		cmd := m.handlePageLoaded(msg)
		return m, cmd

	case PageFailedMsg:
		cmd := m.handlePageFailed(msg)
		return m, cmd

	case ScrollTickMsg:
		fs := m.feed(msg.Kind)
		if fs == nil || !fs.surface.Animating() {
			return m, nil
		}
		fs.surface.Step()
		cmd := m.syncScroll(fs)
		if fs.surface.Animating() {
			cmd = tea.Batch(cmd, components.ScrollTickCmd(ScrollTickMsg{Kind: fs.kind}))
		}
		return m, cmd

	case ImageOpenedMsg:
		cmd := m.setStatus("opened "+msg.Post.DisplayTitle(), false)
		return m, cmd

	case ErrMsg:
		m.logger.Error("command failed", "error", msg.Err, "context", msg.Context)
		cmd := m.setStatus(msg.Error(), true)
		return m, cmd

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) active() *feedState {
	return m.Feeds[m.Active]
}

func (m Model) feed(kind domain.FeedKind) *feedState {
	for _, fs := range m.Feeds {
		if fs.kind == kind {
			return fs
		}
	}
	return nil
}

func (m Model) containerWidth() int {
	return max(0, m.Width-2*SideMargin)
}

func (m Model) bodyHeight() int {
	return max(0, m.Height-ChromeHeight)
}

// updateLayout measures every feed and re-sizes items when the column
// width changed
func (m *Model) updateLayout() tea.Cmd {
	var cmds []tea.Cmd
	for _, fs := range m.Feeds {
		fs.surface.SetHeight(m.bodyHeight())
		fs.wf.Measure(float64(m.containerWidth()), float64(m.bodyHeight()))

		if cw := columnWidth(fs); cw != fs.columnWidth {
			fs.columnWidth = cw
			if fs.wf.Len() > 0 {
				items := fs.wf.Items()
				resized := make([]waterfall.ItemInfo[domain.Post], len(items))
				for i, it := range items {
					resized[i] = waterfall.ItemInfo[domain.Post]{Item: it.Item, Size: m.Sizer.Size(it.Item, float64(cw))}
				}
				fs.wf.Replace(resized)
			}
		}
		cmds = append(cmds, m.syncScroll(fs))
	}
	return tea.Batch(cmds...)
}

func columnWidth(fs *feedState) int {
	cw, err := fs.wf.ColumnWidth()
	if err != nil || cw <= 0 {
		return 0
	}
	return int(math.Floor(cw))
}

func (m Model) sizedItems(fs *feedState, posts []domain.Post) []waterfall.ItemInfo[domain.Post] {
	sizes := m.Sizer.Sizes(posts, float64(fs.columnWidth))
	items := make([]waterfall.ItemInfo[domain.Post], len(posts))
	for i, p := range posts {
		items[i] = waterfall.ItemInfo[domain.Post]{Item: p, Size: sizes[i]}
	}
	return items
}

// maxOffset is the furthest the viewport scrolls: the end of the columns
// plus the footer
func (m Model) maxOffset(fs *feedState) int {
	content := int(math.Ceil(fs.wf.ContentHeight())) + components.FooterRows
	return max(0, content-fs.surface.Height())
}

// syncScroll hands the surface offset to the waterfall and issues whatever
// load its callbacks asked for
func (m *Model) syncScroll(fs *feedState) tea.Cmd {
	fs.surface.Clamp(m.maxOffset(fs))
	fs.wf.Scroll(float64(fs.surface.Offset()))
	return m.drain(fs)
}

func (m *Model) scrollBy(fs *feedState, delta int) tea.Cmd {
	fs.surface.ScrollBy(delta, m.maxOffset(fs))
	return m.syncScroll(fs)
}

func (m *Model) scrollTo(fs *feedState, y int, animated bool) tea.Cmd {
	wasAnimating := fs.surface.Animating()
	if err := fs.wf.ScrollTo(waterfall.ScrollTarget{Y: float64(y), Animated: animated}); err != nil {
		m.logger.Warn("scroll failed", "feed", fs.kind, "error", err)
		return nil
	}
	cmd := m.syncScroll(fs)
	if fs.surface.Animating() && !wasAnimating {
		cmd = tea.Batch(cmd, components.ScrollTickCmd(ScrollTickMsg{Kind: fs.kind}))
	}
	return cmd
}

// drain turns the load recorded by the waterfall callbacks into a command
func (m *Model) drain(fs *feedState) tea.Cmd {
	req := fs.pending
	fs.pending = loadNone

	switch req {
	case loadReload:
		if fs.loading {
			return nil
		}
		fs.loading = true
		m.logger.Debug("reloading feed", "feed", fs.kind, "query", fs.query().Key())
		return FetchPageCmd(m.FeedSvc, fs.kind, fs.wf.Generation(), fs.query(), 0, true)

	case loadNext:
		if fs.loading || fs.filter != "" || !fs.cursor.HasMore() {
			return nil
		}
		fs.loading = true
		m.logger.Debug("loading page", "feed", fs.kind, "query", fs.query().Key(), "page", fs.cursor.Next())
		return FetchPageCmd(m.FeedSvc, fs.kind, fs.wf.Generation(), fs.query(), fs.cursor.Next(), false)
	}
	return nil
}

func (m *Model) refresh(fs *feedState) tea.Cmd {
	if fs.loading {
		return nil
	}
	if !fs.wf.Refresh() {
		return nil
	}
	return m.drain(fs)
}

func (m *Model) changeQuery(fs *feedState, q domain.Query) tea.Cmd {
	if q == fs.query() {
		return nil
	}
	m.logger.Info("switching listing", "feed", fs.kind, "query", q.Key())
	fs.restart(q)
	if fs == m.active() {
		m.clearFilterInput()
	}
	fs.request(loadNext)
	return m.syncScroll(fs)
}

func (m *Model) handlePageLoaded(msg PageLoadedMsg) tea.Cmd {
	fs := m.feed(msg.Kind)
	if fs == nil || msg.Generation != fs.wf.Generation() || msg.Query != fs.query() {
		m.logger.Debug("dropping stale page", "feed", msg.Kind, "query", msg.Query.Key(), "page", msg.Page.PageNum)
		return nil
	}

	fs.loading = false
	fs.err = nil

	// The old items stay on screen until the fresh first page is here
	if msg.Reload {
		fs.wf.Reset()
		fs.wf.FinishRefresh()
		fs.cursor.Restart(msg.Query)
		fs.posts = nil
		fs.filter = ""
		if fs == m.active() {
			m.clearFilterInput()
		}
		fs.surface.ScrollTo(0, false)
	}

	fs.cursor.Advance(msg.Page)
	fs.posts = append(fs.posts, msg.Page.Items...)

	if fs.filter != "" {
		m.applyFilter(fs, false)
	} else if err := fs.wf.Append(fs.wf.Generation(), m.sizedItems(fs, msg.Page.Items)); err != nil {
		m.logger.Warn("append rejected", "feed", fs.kind, "error", err)
	}

	return m.syncScroll(fs)
}

func (m *Model) handlePageFailed(msg PageFailedMsg) tea.Cmd {
	fs := m.feed(msg.Kind)
	if fs == nil || msg.Generation != fs.wf.Generation() || msg.Query != fs.query() {
		return nil
	}

	fs.loading = false
	fs.err = msg.Err
	if msg.Reload {
		fs.wf.FinishRefresh()
	} else {
		// scrolling into the load-ahead zone tries the same page again
		fs.wf.RetryPagination()
	}

	m.logger.Error("failed to load page", "feed", msg.Kind, "query", msg.Query.Key(), "error", msg.Err)
	return m.setStatus(ErrMsg{Err: msg.Err, Context: "loading " + msg.Kind.Title()}.Error(), true)
}

// applyFilter lays out the posts matching the feed's filter. The view jumps
// to the top only when the filter text itself changed.
func (m *Model) applyFilter(fs *feedState, resetScroll bool) {
	results := service.FilterPosts(fs.filter, fs.posts)
	posts := make([]domain.Post, len(results))
	for i, r := range results {
		posts[i] = r.Post
	}
	fs.wf.Replace(m.sizedItems(fs, posts))
	if resetScroll {
		fs.surface.ScrollTo(0, false)
	}
}

func (m *Model) clearFilterInput() {
	m.Filtering = false
	m.FilterInput.SetValue("")
	m.FilterInput.Blur()
}

// focusedItem returns the topmost item of the focused column that is on screen
func (m Model) focusedItem(fs *feedState) (waterfall.Mounted[domain.Post], bool) {
	top := float64(fs.surface.Offset() - HeaderRows)
	bottom := top + float64(fs.surface.Height())

	var best waterfall.Mounted[domain.Post]
	found := false
	for _, mt := range fs.wf.Visible() {
		e := mt.Entry
		if e.Column != fs.focus || e.Bottom() <= top || e.Top >= bottom {
			continue
		}
		if !found || e.Top < best.Entry.Top {
			best = mt
			found = true
		}
	}
	return best, found
}

func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.StatusMsg = msg
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusTimeout)
}
