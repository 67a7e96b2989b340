package waterfall

// ScrollTarget is a scroll request forwarded to the scrollable surface
type ScrollTarget struct {
	Y        float64
	Animated bool
}

// Scroller is the scrollable surface a waterfall is mounted on
type Scroller interface {
	ScrollTo(y float64, animated bool)
}

// Handle is the imperative surface handed to the owning screen.
// Its lifetime is bounded by the screen that created the waterfall.
type Handle interface {
	// Reset drops every item, column height and pagination marker.
	// It does not fetch; the owner loads fresh data afterwards.
	Reset()

	// ColumnWidth returns the width of one column, or ErrNotMeasured
	// before the container width is known.
	ColumnWidth() (float64, error)

	// ScrollTo moves the mounted surface, or returns ErrNotMounted.
	ScrollTo(target ScrollTarget) error
}

var _ Handle = (*Waterfall[struct{}])(nil)

// columnWidth splits the container between columns after removing the gaps
func columnWidth(containerWidth float64, columns int, gap float64) float64 {
	return (containerWidth - float64(columns-1)*gap) / float64(columns)
}
