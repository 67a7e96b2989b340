package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/mosaic/internal/domain"
)

const (
	defaultPageSize = 20
	prefetchLimit   = 4 // concurrent requests in FetchPages
)

// FeedService fetches feed pages through the page cache.
// Cached pages are served until they are older than the TTL.
type FeedService struct {
	repo     domain.FeedRepository
	store    domain.PageStore
	pageSize int
	ttl      time.Duration
	logger   *slog.Logger

	now func() time.Time
}

// NewFeedService creates a new feed service. store may be nil to disable caching.
func NewFeedService(repo domain.FeedRepository, store domain.PageStore, pageSize int, ttl time.Duration, logger *slog.Logger) *FeedService {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &FeedService{
		repo:     repo,
		store:    store,
		pageSize: pageSize,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// PageSize returns the number of posts requested per page
func (s *FeedService) PageSize() int {
	return s.pageSize
}

// FetchPage returns page pageNum of the listing. A reload drops every cached
// page of the listing before fetching.
func (s *FeedService) FetchPage(ctx context.Context, q domain.Query, pageNum int, reload bool) (domain.Page, error) {
	if err := q.Validate(); err != nil {
		return domain.Page{}, err
	}

	if reload && s.store != nil {
		s.store.InvalidateQuery(q)
	}

	if page, ok := s.cached(q, pageNum); ok {
		s.logger.Debug("cache hit", "query", q.Key(), "page", pageNum)
		return page, nil
	}

	reqID := ulid.Make().String()
	start := s.now()
	s.logger.Debug("fetching page", "request", reqID, "query", q.Key(), "page", pageNum)

	page, err := s.repo.FetchPage(ctx, q, pageNum, s.pageSize)
	if err != nil {
		s.logger.Error("failed to fetch page", "request", reqID, "query", q.Key(), "page", pageNum, "error", err)
		return domain.Page{}, fmt.Errorf("fetch %s page %d: %w", q.Key(), pageNum, err)
	}

	s.logger.Info("loaded page",
		"request", reqID,
		"query", q.Key(),
		"page", pageNum,
		"count", len(page.Items),
		"total", page.TotalCount,
		"elapsed", s.now().Sub(start),
	)

	if s.store != nil {
		if err := s.store.SavePage(q, pageNum, domain.CachedPage{Page: page, FetchedAt: s.now()}); err != nil {
			s.logger.Warn("failed to cache page", "query", q.Key(), "page", pageNum, "error", err)
		}
	}

	return page, nil
}

// FetchPages fetches the first n pages of the listing concurrently and
// returns them in page order. Pages past the end of the listing come back
// empty.
func (s *FeedService) FetchPages(ctx context.Context, q domain.Query, n int) ([]domain.Page, error) {
	if n <= 0 {
		return nil, nil
	}

	pages := make([]domain.Page, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchLimit)

	for i := range n {
		g.Go(func() error {
			page, err := s.FetchPage(ctx, q, i, false)
			if err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

func (s *FeedService) cached(q domain.Query, pageNum int) (domain.Page, bool) {
	if s.store == nil {
		return domain.Page{}, false
	}
	entry, ok := s.store.GetPage(q, pageNum)
	if !ok {
		return domain.Page{}, false
	}
	if s.ttl > 0 && s.now().Sub(entry.FetchedAt) > s.ttl {
		s.logger.Debug("cache stale", "query", q.Key(), "page", pageNum, "age", s.now().Sub(entry.FetchedAt))
		return domain.Page{}, false
	}
	return entry.Page, true
}

// Cursor tracks how far a listing has been paged. The zero value starts at
// the first page.
type Cursor struct {
	Query    domain.Query
	PageSize int

	next    int
	total   int
	started bool
}

// NewCursor creates a cursor at the first page of q
func NewCursor(q domain.Query, pageSize int) *Cursor {
	return &Cursor{Query: q, PageSize: pageSize}
}

// Next returns the page number to request
func (c *Cursor) Next() int {
	return c.next
}

// HasMore reports whether another page may exist. It stays true until the
// first page has reported the listing's total.
func (c *Cursor) HasMore() bool {
	if !c.started {
		return true
	}
	return c.PageSize*c.next < c.total
}

// Advance records a page that was appended to the list
func (c *Cursor) Advance(page domain.Page) {
	c.started = true
	c.total = page.TotalCount
	c.next = page.PageNum + 1
	// a short page means the listing ended early
	if len(page.Items) < c.PageSize {
		c.total = min(c.total, c.PageSize*page.PageNum+len(page.Items))
	}
}

// Restart returns the cursor to the first page, optionally for a new query
func (c *Cursor) Restart(q domain.Query) {
	c.Query = q
	c.next = 0
	c.total = 0
	c.started = false
}

// Total returns the listing size reported by the last page
func (c *Cursor) Total() int {
	return c.total
}
