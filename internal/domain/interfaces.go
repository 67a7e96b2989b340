package domain

import (
	"context"
	"time"
)

// FeedRepository fetches feed pages over the network (or from a fixture)
type FeedRepository interface {
	// FetchPage returns page pageNum (zero-based) of the listing
	FetchPage(ctx context.Context, q Query, pageNum, pageSize int) (Page, error)
}

// CachedPage is a page together with the time it was fetched
type CachedPage struct {
	Page      Page      `json:"page"`
	FetchedAt time.Time `json:"fetched_at"`
}

// PageStore caches fetched pages per listing
type PageStore interface {
	GetPage(q Query, pageNum int) (CachedPage, bool)
	SavePage(q Query, pageNum int, page CachedPage) error

	// InvalidateQuery drops every cached page of the listing
	InvalidateQuery(q Query)
	InvalidateAll()

	Close() error
}
