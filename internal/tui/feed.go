package tui

import (
	"github.com/mmcdole/mosaic/internal/domain"
	"github.com/mmcdole/mosaic/internal/service"
	"github.com/mmcdole/mosaic/internal/tui/components"
	"github.com/mmcdole/mosaic/internal/waterfall"
)

// loadRequest is a fetch asked for by a waterfall callback. Callbacks run
// inside waterfall calls, so they only record the request; the model turns
// it into a command afterwards.
type loadRequest int

const (
	loadNone loadRequest = iota
	loadNext
	loadReload
)

// cardCacheLimit bounds the rendered cards kept between frames
const cardCacheLimit = 256

type cardKey struct {
	index   int
	focused bool
}

// feedState is one tab: a listing, its cursor and its waterfall
type feedState struct {
	kind    domain.FeedKind
	wf      *waterfall.Waterfall[domain.Post]
	surface *components.Surface
	cursor  *service.Cursor

	posts       []domain.Post // everything loaded, before filtering
	filter      string
	columnWidth int
	focus       int // focused column

	loading bool
	pending loadRequest
	err     error

	// rendered cards by item index, valid until the layout changes
	cards map[cardKey][]string
}

func newFeedState(kind domain.FeedKind, q domain.Query, pageSize int, opts waterfall.Options) (*feedState, error) {
	fs := &feedState{
		kind:    kind,
		surface: components.NewSurface(),
		cursor:  service.NewCursor(q, pageSize),
		cards:   make(map[cardKey][]string),
	}

	wf, err := waterfall.New[domain.Post](opts, waterfall.Callbacks{
		OnInitData: func(float64) { fs.request(loadNext) },
		OnInfinite: func(float64) { fs.request(loadNext) },
		OnRefresh:  func(float64) { fs.request(loadReload) },
	})
	if err != nil {
		return nil, err
	}
	wf.Mount(fs.surface)
	wf.Subscribe(fs.onChange)
	fs.wf = wf
	return fs, nil
}

func (fs *feedState) request(r loadRequest) {
	if r > fs.pending {
		fs.pending = r
	}
}

// onChange drops rendered cards once item indexes or sizes may differ.
// Appends keep them: earlier items do not move.
func (fs *feedState) onChange(c waterfall.Change) {
	switch c.Kind {
	case waterfall.ChangeReplaced, waterfall.ChangeReset, waterfall.ChangeMeasured:
		clear(fs.cards)
	case waterfall.ChangeScrolled:
		if len(fs.cards) > cardCacheLimit {
			clear(fs.cards)
		}
	}
}

// card renders a mounted post, reusing the lines from an earlier frame
func (fs *feedState) card(mt waterfall.Mounted[domain.Post], opts components.CardOptions) []string {
	k := cardKey{index: mt.Entry.ItemIndex, focused: opts.Focused}
	if lines, ok := fs.cards[k]; ok {
		return lines
	}
	lines := components.RenderCard(mt.Info.Item, opts)
	fs.cards[k] = lines
	return lines
}

func (fs *feedState) query() domain.Query {
	return fs.cursor.Query
}

// restart empties the feed for a new listing. The waterfall starts a new
// generation, so pages still in flight for the old listing are dropped.
func (fs *feedState) restart(q domain.Query) {
	fs.wf.FinishRefresh()
	fs.wf.Reset()
	fs.cursor.Restart(q)
	fs.posts = nil
	fs.filter = ""
	fs.loading = false
	fs.pending = loadNone
	fs.err = nil
	fs.surface.ScrollTo(0, false)
}

func nextListType(t domain.ListType) domain.ListType {
	for i, lt := range domain.ListTypes {
		if lt == t {
			return domain.ListTypes[(i+1)%len(domain.ListTypes)]
		}
	}
	return domain.ListTypes[0]
}

func cycleCategory(kind domain.FeedKind, c domain.Category, step int) domain.Category {
	cats := domain.Categories(kind)
	for i, cat := range cats {
		if cat == c {
			return cats[(i+step+len(cats))%len(cats)]
		}
	}
	return cats[0]
}
