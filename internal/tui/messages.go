package tui

import (
	"github.com/mmcdole/mosaic/internal/domain"
	"github.com/mmcdole/mosaic/internal/waterfall"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PageLoadedMsg carries a fetched page back to the feed that requested it
type PageLoadedMsg struct {
	Kind       domain.FeedKind
	Generation waterfall.Generation
	Query      domain.Query
	Page       domain.Page
	Reload     bool
}

// PageFailedMsg reports a failed fetch
type PageFailedMsg struct {
	Kind       domain.FeedKind
	Generation waterfall.Generation
	Query      domain.Query
	Reload     bool
	Err        error
}

// ScrollTickMsg advances an animated scroll
type ScrollTickMsg struct {
	Kind domain.FeedKind
}

// ImageOpenedMsg signals that the viewer was launched
type ImageOpenedMsg struct {
	Post domain.Post
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}
