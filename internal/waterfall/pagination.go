package waterfall

// PaginationState remembers which content extent already requested more data
type PaginationState struct {
	// LastFiredRevision is the content revision that last fired, -1 when none
	LastFiredRevision int64

	// InitArmed is true until init data has been requested or supplied
	InitArmed bool
}

// Trigger decides when the owner should load the initial page and the next page.
// Each content revision fires the load-more callback at most once, so a scroll
// position held near the bottom cannot request a page per scroll tick.
type Trigger struct {
	loadAhead float64
	state     PaginationState

	onInitData func(columnWidth float64)
	onInfinite func(columnWidth float64)
}

// NewTrigger creates a trigger that fires loadAhead units before the end of content
func NewTrigger(loadAhead float64, onInitData, onInfinite func(columnWidth float64)) *Trigger {
	t := &Trigger{
		loadAhead:  loadAhead,
		onInitData: onInitData,
		onInfinite: onInfinite,
	}
	t.Reset()
	return t
}

// Reset discards the fired revision and re-arms init data
func (t *Trigger) Reset() {
	t.state = PaginationState{LastFiredRevision: -1, InitArmed: true}
}

// Rearm forgets the fired revision so the same content can request more
// again, for instance after the owner's load failed
func (t *Trigger) Rearm() {
	t.state.LastFiredRevision = -1
}

// State returns a copy of the pagination state
func (t *Trigger) State() PaginationState {
	return t.state
}

// Measured fires init data once after the column width becomes known
func (t *Trigger) Measured(columnWidth float64) bool {
	if !t.state.InitArmed {
		return false
	}
	t.state.InitArmed = false
	if t.onInitData != nil {
		t.onInitData(columnWidth)
	}
	return true
}

// Supplied records that the owner delivered items without being asked
func (t *Trigger) Supplied() {
	t.state.InitArmed = false
}

// OnScroll fires the load-more callback when the viewport reaches the
// load-ahead zone for a content revision that has not fired yet
func (t *Trigger) OnScroll(scrollOffset, contentHeight, viewportHeight float64, revision int64, columnWidth float64) bool {
	if scrollOffset+viewportHeight < contentHeight-t.loadAhead {
		return false
	}
	if revision == t.state.LastFiredRevision {
		return false
	}
	t.state.LastFiredRevision = revision
	if t.onInfinite != nil {
		t.onInfinite(columnWidth)
	}
	return true
}
