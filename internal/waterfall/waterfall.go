// Package waterfall lays out items of known height into balanced columns,
// tracks which of them fall inside the scroll window, and decides when the
// owner should load the next page.
//
// A Waterfall is not safe for concurrent use. Every method is expected to run
// on the owner's event loop; asynchronous fetches happen outside and hand
// their results back through Append.
package waterfall

import (
	"fmt"
	"math"
	"slices"
)

// ItemInfo pairs an item with its caller-computed display height
type ItemInfo[T any] struct {
	Item T
	Size float64
}

// Mounted is an item that is inside the current window
type Mounted[T any] struct {
	Entry LayoutEntry
	Info  ItemInfo[T]
}

// Generation is incremented by every Reset. Appends carry the generation
// they were requested in so results that arrive after a reset are rejected.
type Generation uint64

// ChangeKind describes what caused a change notification
type ChangeKind int

const (
	ChangeAppended ChangeKind = iota
	ChangeReplaced
	ChangeReset
	ChangeScrolled
	ChangeMeasured
	ChangeRefreshing
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAppended:
		return "appended"
	case ChangeReplaced:
		return "replaced"
	case ChangeReset:
		return "reset"
	case ChangeScrolled:
		return "scrolled"
	case ChangeMeasured:
		return "measured"
	case ChangeRefreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// Change is published to the subscriber after every state mutation
type Change struct {
	Kind       ChangeKind
	Generation Generation
	Items      int
	Visible    int
}

// Options configures a waterfall. Units are whatever linear unit the owner
// uses for item sizes and scroll offsets.
type Options struct {
	Columns      int
	Gap          float64
	Buffer       float64 // extra extent kept mounted above and below the viewport
	LoadAhead    float64 // distance before the end of content that requests more
	HeaderHeight float64 // full-width header above the columns
}

// Validate rejects configurations that cannot be laid out
func (o Options) Validate() error {
	if o.Columns <= 0 {
		return ErrInvalidColumns
	}
	if o.Gap < 0 || math.IsNaN(o.Gap) || math.IsInf(o.Gap, 0) {
		return ErrInvalidGap
	}
	if o.Buffer < 0 || math.IsNaN(o.Buffer) || math.IsInf(o.Buffer, 0) {
		return ErrInvalidBuffer
	}
	if o.LoadAhead < 0 || math.IsNaN(o.LoadAhead) || math.IsInf(o.LoadAhead, 0) {
		return ErrInvalidLoadAhead
	}
	return nil
}

// Callbacks are invoked synchronously with the current column width.
// Fetching is the owner's business; results come back through Append.
type Callbacks struct {
	OnInitData func(columnWidth float64)
	OnRefresh  func(columnWidth float64)
	OnInfinite func(columnWidth float64)
}

// Waterfall holds the column state, the mounted window and the pagination
// trigger for one list
type Waterfall[T any] struct {
	opts      Options
	callbacks Callbacks

	balancer *Balancer
	tracker  *Tracker
	trigger  *Trigger

	items   []ItemInfo[T]
	visible []LayoutEntry

	containerWidth float64
	viewportHeight float64
	measured       bool
	scrollOffset   float64

	// revision increases whenever items are added or replaced and never resets
	revision   int64
	generation Generation
	refreshing bool

	scroller Scroller
	listener func(Change)
}

// New validates opts and creates an empty waterfall
func New[T any](opts Options, callbacks Callbacks) (*Waterfall[T], error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid waterfall options: %w", err)
	}
	balancer, err := NewBalancer(opts.Columns, opts.Gap)
	if err != nil {
		return nil, fmt.Errorf("invalid waterfall options: %w", err)
	}

	w := &Waterfall[T]{
		opts:      opts,
		callbacks: callbacks,
		balancer:  balancer,
		tracker:   NewTracker(),
	}
	w.trigger = NewTrigger(opts.LoadAhead, callbacks.OnInitData, callbacks.OnInfinite)
	return w, nil
}

// Subscribe sets the single change subscriber, replacing any previous one
func (w *Waterfall[T]) Subscribe(fn func(Change)) {
	w.listener = fn
}

func (w *Waterfall[T]) publish(kind ChangeKind) {
	if w.listener == nil {
		return
	}
	w.listener(Change{
		Kind:       kind,
		Generation: w.generation,
		Items:      len(w.items),
		Visible:    len(w.visible),
	})
}

// Options returns the configuration the waterfall was built with
func (w *Waterfall[T]) Options() Options {
	return w.opts
}

// Mount attaches the scrollable surface used by ScrollTo
func (w *Waterfall[T]) Mount(s Scroller) {
	w.scroller = s
}

// Measure records the container geometry. The first measurement makes the
// column width known and requests the initial data.
func (w *Waterfall[T]) Measure(containerWidth, viewportHeight float64) {
	w.containerWidth = containerWidth
	w.viewportHeight = viewportHeight
	w.measured = true

	w.refreshVisible()
	w.publish(ChangeMeasured)

	if w.trigger.Measured(w.columnWidth()) {
		return
	}
	w.checkPagination()
}

// Measured reports whether the container width is known
func (w *Waterfall[T]) Measured() bool {
	return w.measured
}

func (w *Waterfall[T]) columnWidth() float64 {
	return columnWidth(w.containerWidth, w.opts.Columns, w.opts.Gap)
}

// ColumnWidth returns the width of one column
func (w *Waterfall[T]) ColumnWidth() (float64, error) {
	if !w.measured {
		return 0, ErrNotMeasured
	}
	return w.columnWidth(), nil
}

// ScrollTo forwards a scroll request to the mounted surface
func (w *Waterfall[T]) ScrollTo(target ScrollTarget) error {
	if w.scroller == nil {
		return ErrNotMounted
	}
	w.scroller.ScrollTo(target.Y, target.Animated)
	return nil
}

// Reset drops all items, column state, the mounted window and pagination
// state, and starts a new generation
func (w *Waterfall[T]) Reset() {
	w.balancer.Reset()
	w.tracker.Reset()
	w.trigger.Reset()
	w.items = nil
	w.visible = nil
	w.scrollOffset = 0
	w.generation++
	w.publish(ChangeReset)
}

// Generation returns the current generation marker
func (w *Waterfall[T]) Generation() Generation {
	return w.generation
}

// Append lays out items after the existing ones. gen must be the generation
// that was current when the items were requested.
func (w *Waterfall[T]) Append(gen Generation, items []ItemInfo[T]) error {
	if gen != w.generation {
		return fmt.Errorf("append for generation %d, current %d: %w", gen, w.generation, ErrStaleGeneration)
	}
	w.trigger.Supplied()
	if len(items) == 0 {
		return nil
	}

	w.balancer.Assign(sizesOf(items))
	w.items = append(w.items, items...)
	w.revision++

	w.refreshVisible()
	w.publish(ChangeAppended)
	w.checkPagination()
	return nil
}

// Replace lays out a new item sequence from scratch without starting a new
// generation. Owners use it when sizes change or a local filter is applied.
func (w *Waterfall[T]) Replace(items []ItemInfo[T]) {
	w.balancer.Rebuild(sizesOf(items))
	w.tracker.Reset()
	w.items = slices.Clone(items)
	w.revision++

	w.refreshVisible()
	w.publish(ChangeReplaced)
	w.checkPagination()
}

func sizesOf[T any](items []ItemInfo[T]) []float64 {
	sizes := make([]float64, len(items))
	for i, it := range items {
		sizes[i] = it.Size
	}
	return sizes
}

// Scroll records a new scroll offset, updates the mounted window and feeds
// the pagination trigger
func (w *Waterfall[T]) Scroll(offset float64) {
	if offset < 0 || math.IsNaN(offset) {
		offset = 0
	}
	w.scrollOffset = offset
	if w.refreshVisible() {
		w.publish(ChangeScrolled)
	}
	w.checkPagination()
}

// ScrollOffset returns the last recorded scroll offset
func (w *Waterfall[T]) ScrollOffset() float64 {
	return w.scrollOffset
}

// Window returns the current mounted window in column coordinates
func (w *Waterfall[T]) Window() ViewportWindow {
	return ComputeWindow(w.scrollOffset-w.opts.HeaderHeight, w.viewportHeight, w.opts.Buffer)
}

// refreshVisible recomputes the mounted set and reports whether it changed
func (w *Waterfall[T]) refreshVisible() bool {
	next := w.tracker.Visible(w.Window(), w.balancer)
	changed := !slices.Equal(next, w.visible)
	w.visible = next
	return changed
}

func (w *Waterfall[T]) checkPagination() {
	if !w.measured || len(w.items) == 0 {
		return
	}
	w.trigger.OnScroll(w.scrollOffset, w.ContentHeight(), w.viewportHeight, w.revision, w.columnWidth())
}

// Refresh asks the owner to reload. It returns false while a refresh is
// already running or before the first measurement.
func (w *Waterfall[T]) Refresh() bool {
	if w.refreshing || !w.measured {
		return false
	}
	w.refreshing = true
	w.publish(ChangeRefreshing)
	if w.callbacks.OnRefresh != nil {
		w.callbacks.OnRefresh(w.columnWidth())
	}
	return true
}

// FinishRefresh marks the running refresh as settled
func (w *Waterfall[T]) FinishRefresh() {
	if !w.refreshing {
		return
	}
	w.refreshing = false
	w.publish(ChangeRefreshing)
}

// Refreshing reports whether a refresh is running
func (w *Waterfall[T]) Refreshing() bool {
	return w.refreshing
}

// Len returns the number of laid out items
func (w *Waterfall[T]) Len() int {
	return len(w.items)
}

// Items returns the laid out items in input order. Callers must not modify it.
func (w *Waterfall[T]) Items() []ItemInfo[T] {
	return w.items
}

// Layout returns one entry per item in input order. Callers must not modify it.
func (w *Waterfall[T]) Layout() []LayoutEntry {
	return w.balancer.Layout()
}

// Columns returns the per-column state
func (w *Waterfall[T]) Columns() []ColumnState {
	cols := make([]ColumnState, w.balancer.Columns())
	for i := range cols {
		cols[i] = w.balancer.Column(i)
	}
	return cols
}

// ContentHeight is the scrollable extent including the header
func (w *Waterfall[T]) ContentHeight() float64 {
	return w.opts.HeaderHeight + w.balancer.ContentHeight()
}

// RetryPagination lets the next scroll inside the load-ahead zone request
// more again for unchanged content. Owners call it when a load failed.
func (w *Waterfall[T]) RetryPagination() {
	w.trigger.Rearm()
}

// Pagination returns the trigger state
func (w *Waterfall[T]) Pagination() PaginationState {
	return w.trigger.State()
}

// Visible returns the mounted items in input order
func (w *Waterfall[T]) Visible() []Mounted[T] {
	mounted := make([]Mounted[T], len(w.visible))
	for i, e := range w.visible {
		mounted[i] = Mounted[T]{Entry: e, Info: w.items[e.ItemIndex]}
	}
	return mounted
}
