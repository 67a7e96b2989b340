package waterfall

import (
	"cmp"
	"slices"
)

// ViewportWindow is the content range that must stay mounted
type ViewportWindow struct {
	TopBound    float64
	BottomBound float64
}

// Contains reports whether an entry intersects the window
func (w ViewportWindow) Contains(e LayoutEntry) bool {
	return e.Top < w.BottomBound && e.Top+e.Height > w.TopBound
}

// ComputeWindow widens the physical viewport by buffer on both sides
func ComputeWindow(scrollOffset, viewportHeight, buffer float64) ViewportWindow {
	return ViewportWindow{
		TopBound:    scrollOffset - buffer,
		BottomBound: scrollOffset + viewportHeight + buffer,
	}
}

// VisibleEntries scans the whole layout and returns the entries inside w in input order
func VisibleEntries(w ViewportWindow, layout []LayoutEntry) []LayoutEntry {
	var visible []LayoutEntry
	for _, e := range layout {
		if w.Contains(e) {
			visible = append(visible, e)
		}
	}
	return visible
}

// span is a half-open range into a column's placements
type span struct {
	lo, hi int
}

// Tracker computes the visible set incrementally.
//
// Within a column both tops and bottoms are non-decreasing in placement
// order, so the visible placements of a column form one contiguous range.
// Each call walks the ends of that range from where the previous window left
// them, which touches only the entries near the window edges.
type Tracker struct {
	spans []span
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{}
}

// Reset forgets the last known window
func (t *Tracker) Reset() {
	t.spans = nil
}

// Visible returns the entries of b inside w in input order
func (t *Tracker) Visible(w ViewportWindow, b *Balancer) []LayoutEntry {
	if len(t.spans) != len(b.columns) {
		t.spans = make([]span, len(b.columns))
	}

	layout := b.layout
	var visible []LayoutEntry

	for ci := range b.columns {
		placed := b.columns[ci].Assigned
		n := len(placed)
		s := &t.spans[ci]
		s.lo = min(s.lo, n)
		s.hi = min(s.hi, n)

		bottom := func(i int) float64 {
			return layout[placed[i].ItemIndex].Bottom()
		}

		// lo: first placement whose bottom is below the top bound
		for s.lo > 0 && bottom(s.lo-1) > w.TopBound {
			s.lo--
		}
		for s.lo < n && bottom(s.lo) <= w.TopBound {
			s.lo++
		}

		// hi: first placement whose top is at or past the bottom bound
		for s.hi > 0 && placed[s.hi-1].Top >= w.BottomBound {
			s.hi--
		}
		for s.hi < n && placed[s.hi].Top < w.BottomBound {
			s.hi++
		}

		for i := s.lo; i < s.hi; i++ {
			visible = append(visible, layout[placed[i].ItemIndex])
		}
	}

	slices.SortFunc(visible, func(a, b LayoutEntry) int {
		return cmp.Compare(a.ItemIndex, b.ItemIndex)
	})
	return visible
}
