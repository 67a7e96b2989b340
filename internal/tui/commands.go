package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/mosaic/internal/domain"
	"github.com/mmcdole/mosaic/internal/service"
	"github.com/mmcdole/mosaic/internal/waterfall"
)

const fetchTimeout = 30 * time.Second

// Command factories for async operations

// FetchPageCmd loads one page of a listing. The generation travels with the
// result so pages requested before a reset can be dropped.
func FetchPageCmd(svc *service.FeedService, kind domain.FeedKind, gen waterfall.Generation, q domain.Query, pageNum int, reload bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		page, err := svc.FetchPage(ctx, q, pageNum, reload)
		if err != nil {
			return PageFailedMsg{Kind: kind, Generation: gen, Query: q, Reload: reload, Err: err}
		}
		return PageLoadedMsg{Kind: kind, Generation: gen, Query: q, Page: page, Reload: reload}
	}
}

// ImageOpener launches an external viewer for a picture URL
type ImageOpener interface {
	Launch(url string) error
}

// OpenImageCmd opens the cover of a post, or its web page when it has none
func OpenImageCmd(opener ImageOpener, post domain.Post) tea.Cmd {
	return func() tea.Msg {
		url := post.DetailURL()
		if cover, ok := post.Cover(); ok && cover.Src != "" {
			url = cover.Src
		}
		if err := opener.Launch(url); err != nil {
			return ErrMsg{Err: err, Context: "opening image"}
		}
		return ImageOpenedMsg{Post: post}
	}
}

// ClearStatusCmd clears the status message after a delay
func ClearStatusCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
