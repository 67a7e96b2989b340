package waterfall

import "errors"

// Sentinel errors for layout configuration and handle preconditions
var (
	// ErrInvalidColumns indicates a column count below one
	ErrInvalidColumns = errors.New("column count must be greater than zero")

	// ErrInvalidGap indicates a negative or non-numeric column gap
	ErrInvalidGap = errors.New("column gap must be a non-negative number")

	// ErrInvalidBuffer indicates a negative or non-numeric buffer amount
	ErrInvalidBuffer = errors.New("buffer amount must be a non-negative number")

	// ErrInvalidLoadAhead indicates a negative or non-numeric load-ahead distance
	ErrInvalidLoadAhead = errors.New("load-ahead distance must be a non-negative number")

	// ErrNotMeasured indicates the container width is not known yet
	ErrNotMeasured = errors.New("waterfall has not been measured")

	// ErrNotMounted indicates no scrollable surface is attached
	ErrNotMounted = errors.New("waterfall is not mounted")

	// ErrStaleGeneration indicates an append started before the last reset
	ErrStaleGeneration = errors.New("append belongs to a previous generation")
)
