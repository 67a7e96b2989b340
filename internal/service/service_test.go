package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/mosaic/internal/domain"
	"github.com/mmcdole/mosaic/internal/store"
)

// fakeRepo serves total posts per listing and counts requests per page
type fakeRepo struct {
	mu    sync.Mutex
	total int
	calls map[int]int
	err   error
}

func newFakeRepo(total int) *fakeRepo {
	return &fakeRepo{total: total, calls: make(map[int]int)}
}

func (r *fakeRepo) FetchPage(ctx context.Context, q domain.Query, pageNum, pageSize int) (domain.Page, error) {
	r.mu.Lock()
	r.calls[pageNum]++
	err := r.err
	r.mu.Unlock()
	if err != nil {
		return domain.Page{}, err
	}

	start := min(pageNum*pageSize, r.total)
	end := min(start+pageSize, r.total)
	posts := make([]domain.Post, 0, end-start)
	for i := start; i < end; i++ {
		posts = append(posts, domain.Post{DocID: int64(i), Title: fmt.Sprintf("post %d", i)})
	}
	return domain.Page{Items: posts, TotalCount: r.total, PageNum: pageNum, PageSize: pageSize}, nil
}

func (r *fakeRepo) callsFor(pageNum int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[pageNum]
}

func newService(t *testing.T, repo domain.FeedRepository, ttl time.Duration) (*FeedService, *store.PageStore) {
	t.Helper()
	s, err := store.NewPageStore("", "")
	require.NoError(t, err)
	return NewFeedService(repo, s, 20, ttl, nil), s
}

func TestFeedService_CachesPages(t *testing.T) {
	repo := newFakeRepo(45)
	svc, _ := newService(t, repo, time.Minute)
	q := domain.DefaultQuery(domain.FeedKindDraw)

	page, err := svc.FetchPage(context.Background(), q, 0, false)
	require.NoError(t, err)
	assert.Len(t, page.Items, 20)
	assert.True(t, page.HasMore())

	_, err = svc.FetchPage(context.Background(), q, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.callsFor(0))
}

func TestFeedService_ReloadBypassesCache(t *testing.T) {
	repo := newFakeRepo(45)
	svc, _ := newService(t, repo, time.Minute)
	q := domain.DefaultQuery(domain.FeedKindDraw)

	_, err := svc.FetchPage(context.Background(), q, 0, false)
	require.NoError(t, err)
	_, err = svc.FetchPage(context.Background(), q, 1, false)
	require.NoError(t, err)

	_, err = svc.FetchPage(context.Background(), q, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.callsFor(0))

	// page 1 was invalidated along with the rest of the listing
	_, err = svc.FetchPage(context.Background(), q, 1, false)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.callsFor(1))
}

func TestFeedService_StaleEntriesRefetch(t *testing.T) {
	repo := newFakeRepo(45)
	svc, _ := newService(t, repo, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	q := domain.DefaultQuery(domain.FeedKindPhoto)

	_, err := svc.FetchPage(context.Background(), q, 0, false)
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = svc.FetchPage(context.Background(), q, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.callsFor(0))

	now = now.Add(2 * time.Minute)
	_, err = svc.FetchPage(context.Background(), q, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.callsFor(0))
}

func TestFeedService_ErrorsAreWrapped(t *testing.T) {
	repo := newFakeRepo(45)
	repo.err = domain.ErrServerOffline
	svc := NewFeedService(repo, nil, 20, time.Minute, nil)

	_, err := svc.FetchPage(context.Background(), domain.DefaultQuery(domain.FeedKindDraw), 0, false)
	require.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestFeedService_RejectsInvalidQuery(t *testing.T) {
	repo := newFakeRepo(45)
	svc := NewFeedService(repo, nil, 20, time.Minute, nil)

	q := domain.Query{Kind: domain.FeedKindPhoto, ListType: domain.ListTypeHot, Category: domain.CategoryComic}
	_, err := svc.FetchPage(context.Background(), q, 0, false)
	require.ErrorIs(t, err, domain.ErrUnknownCategory)
	assert.Zero(t, repo.callsFor(0))
}

func TestFeedService_FetchPagesInOrder(t *testing.T) {
	repo := newFakeRepo(70)
	svc, _ := newService(t, repo, time.Minute)

	pages, err := svc.FetchPages(context.Background(), domain.DefaultQuery(domain.FeedKindDraw), 5)
	require.NoError(t, err)
	require.Len(t, pages, 5)

	for i, p := range pages {
		assert.Equal(t, i, p.PageNum)
	}
	assert.Equal(t, int64(40), pages[2].Items[0].DocID)
	assert.Len(t, pages[3].Items, 10)
	assert.Empty(t, pages[4].Items)
}

func TestFeedService_FetchPagesError(t *testing.T) {
	repo := newFakeRepo(70)
	repo.err = errors.New("boom")
	svc := NewFeedService(repo, nil, 20, time.Minute, nil)

	_, err := svc.FetchPages(context.Background(), domain.DefaultQuery(domain.FeedKindDraw), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestCursor(t *testing.T) {
	q := domain.DefaultQuery(domain.FeedKindDraw)
	c := NewCursor(q, 20)
	assert.True(t, c.HasMore())
	assert.Equal(t, 0, c.Next())

	c.Advance(domain.Page{Items: make([]domain.Post, 20), TotalCount: 45, PageNum: 0, PageSize: 20})
	assert.True(t, c.HasMore())
	assert.Equal(t, 1, c.Next())

	c.Advance(domain.Page{Items: make([]domain.Post, 20), TotalCount: 45, PageNum: 1, PageSize: 20})
	assert.True(t, c.HasMore())

	c.Advance(domain.Page{Items: make([]domain.Post, 5), TotalCount: 45, PageNum: 2, PageSize: 20})
	assert.False(t, c.HasMore())
	assert.Equal(t, 45, c.Total())

	other := domain.Query{Kind: domain.FeedKindDraw, ListType: domain.ListTypeNew, Category: domain.CategoryComic}
	c.Restart(other)
	assert.True(t, c.HasMore())
	assert.Equal(t, 0, c.Next())
	assert.Equal(t, other, c.Query)
}

func TestCursor_ShortPageEndsListing(t *testing.T) {
	c := NewCursor(domain.DefaultQuery(domain.FeedKindPhoto), 20)
	// the server over-reports the total; an empty page ends the listing
	c.Advance(domain.Page{Items: make([]domain.Post, 20), TotalCount: 100, PageNum: 0, PageSize: 20})
	c.Advance(domain.Page{Items: nil, TotalCount: 100, PageNum: 1, PageSize: 20})
	assert.False(t, c.HasMore())
}

func TestSizer(t *testing.T) {
	s := Sizer{CellAspect: 0.5, CaptionRows: 4}

	portrait := domain.Post{Pictures: []domain.Picture{{Width: 800, Height: 1200}}}
	assert.Equal(t, 34.0, s.Size(portrait, 40)) // ceil(1.5*40*0.5)=30, +4

	landscape := domain.Post{Pictures: []domain.Picture{{Width: 1600, Height: 900}}}
	assert.Equal(t, 16.0, s.Size(landscape, 40)) // ceil(0.5625*40*0.5)=ceil(11.25)=12, +4

	unknown := domain.Post{}
	assert.Equal(t, 24.0, s.Size(unknown, 40))

	assert.Zero(t, s.Size(portrait, 0))
	assert.Equal(t, []float64{34, 16}, s.Sizes([]domain.Post{portrait, landscape}, 40))
}

func TestFilterPosts(t *testing.T) {
	posts := []domain.Post{
		{DocID: 1, Title: "Harbor at dusk", Author: domain.User{Name: "mizu"}},
		{DocID: 2, Title: "Neon station", Author: domain.User{Name: "ren"}},
		{DocID: 3, Title: "", Description: "rainy harbor", Author: domain.User{Name: "sora"}},
	}

	all := FilterPosts("  ", posts)
	require.Len(t, all, 3)
	assert.Equal(t, 2, all[2].Index)

	harbor := FilterPosts("HARBOR", posts)
	require.Len(t, harbor, 2)
	ids := []int64{harbor[0].Post.DocID, harbor[1].Post.DocID}
	assert.ElementsMatch(t, []int64{1, 3}, ids)

	byAuthor := FilterPosts("ren", posts)
	require.NotEmpty(t, byAuthor)
	assert.Equal(t, int64(2), byAuthor[0].Post.DocID)

	assert.Empty(t, FilterPosts("zzz", posts))
}
