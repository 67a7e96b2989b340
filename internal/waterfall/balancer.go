package waterfall

import "math"

// Placement records where an item landed inside its column
type Placement struct {
	ItemIndex int
	Top       float64
}

// ColumnState tracks the running height of one column
type ColumnState struct {
	Index            int
	CumulativeHeight float64
	Assigned         []Placement
}

// LayoutEntry is the resolved position of a single item
type LayoutEntry struct {
	ItemIndex int
	Column    int
	Top       float64
	Height    float64
}

// Bottom returns the lower edge of the entry
func (e LayoutEntry) Bottom() float64 {
	return e.Top + e.Height
}

// Balancer assigns items to the currently shortest column.
// Layout entries are kept in input order so lookups by item index are O(1).
type Balancer struct {
	gap     float64
	columns []ColumnState
	layout  []LayoutEntry
}

// NewBalancer creates a balancer for a fixed number of columns
func NewBalancer(columns int, gap float64) (*Balancer, error) {
	if columns <= 0 {
		return nil, ErrInvalidColumns
	}
	if gap < 0 || math.IsNaN(gap) || math.IsInf(gap, 0) {
		return nil, ErrInvalidGap
	}
	b := &Balancer{gap: gap}
	b.clear(columns)
	return b, nil
}

func (b *Balancer) clear(columns int) {
	b.columns = make([]ColumnState, columns)
	for i := range b.columns {
		b.columns[i].Index = i
	}
	b.layout = nil
}

// Assign appends items after the ones already placed and returns their entries
func (b *Balancer) Assign(sizes []float64) []LayoutEntry {
	start := len(b.layout)
	for _, size := range sizes {
		height := sanitizeSize(size)
		col := b.shortest()
		c := &b.columns[col]

		entry := LayoutEntry{
			ItemIndex: len(b.layout),
			Column:    col,
			Top:       c.CumulativeHeight,
			Height:    height,
		}
		c.Assigned = append(c.Assigned, Placement{ItemIndex: entry.ItemIndex, Top: entry.Top})
		c.CumulativeHeight += height + b.gap
		b.layout = append(b.layout, entry)
	}
	return b.layout[start:]
}

// Rebuild discards all placements and lays out sizes from scratch
func (b *Balancer) Rebuild(sizes []float64) []LayoutEntry {
	b.clear(len(b.columns))
	return b.Assign(sizes)
}

// Reset drops every placement
func (b *Balancer) Reset() {
	b.clear(len(b.columns))
}

// shortest returns the column with the smallest height, lowest index on ties
func (b *Balancer) shortest() int {
	best := 0
	for i := 1; i < len(b.columns); i++ {
		if b.columns[i].CumulativeHeight < b.columns[best].CumulativeHeight {
			best = i
		}
	}
	return best
}

// sanitizeSize maps malformed sizes to a zero-height placement
func sanitizeSize(size float64) float64 {
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return 0
	}
	return size
}

// Columns returns the number of columns
func (b *Balancer) Columns() int {
	return len(b.columns)
}

// Gap returns the vertical gap added after every item
func (b *Balancer) Gap() float64 {
	return b.gap
}

// Len returns the number of placed items
func (b *Balancer) Len() int {
	return len(b.layout)
}

// Layout returns all entries in input order. Callers must not modify it.
func (b *Balancer) Layout() []LayoutEntry {
	return b.layout
}

// Entry returns the layout entry for an item index
func (b *Balancer) Entry(i int) (LayoutEntry, bool) {
	if i < 0 || i >= len(b.layout) {
		return LayoutEntry{}, false
	}
	return b.layout[i], true
}

// Column returns the state of column i. Callers must not modify it.
func (b *Balancer) Column(i int) ColumnState {
	return b.columns[i]
}

// Heights returns the cumulative height of each column
func (b *Balancer) Heights() []float64 {
	heights := make([]float64, len(b.columns))
	for i, c := range b.columns {
		heights[i] = c.CumulativeHeight
	}
	return heights
}

// ContentHeight is the extent of the tallest column without its trailing gap
func (b *Balancer) ContentHeight() float64 {
	var tallest float64
	for _, c := range b.columns {
		if len(c.Assigned) == 0 {
			continue
		}
		if h := c.CumulativeHeight - b.gap; h > tallest {
			tallest = h
		}
	}
	return tallest
}
