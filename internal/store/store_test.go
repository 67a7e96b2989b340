package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/mosaic/internal/domain"
)

func cachedPage(pageNum int, ids ...int64) domain.CachedPage {
	posts := make([]domain.Post, len(ids))
	for i, id := range ids {
		posts[i] = domain.Post{DocID: id, Title: "t"}
	}
	return domain.CachedPage{
		Page:      domain.Page{Items: posts, TotalCount: 100, PageNum: pageNum, PageSize: len(ids)},
		FetchedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPageStore_MemoryOnly(t *testing.T) {
	s, err := NewPageStore("", "")
	require.NoError(t, err)
	defer s.Close()

	q := domain.DefaultQuery(domain.FeedKindDraw)
	_, ok := s.GetPage(q, 0)
	assert.False(t, ok)

	require.NoError(t, s.SavePage(q, 0, cachedPage(0, 1, 2)))
	got, ok := s.GetPage(q, 0)
	require.True(t, ok)
	assert.Len(t, got.Page.Items, 2)
	assert.Equal(t, 100, got.Page.TotalCount)
}

func TestPageStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	q := domain.DefaultQuery(domain.FeedKindPhoto)

	s, err := NewPageStore(dir, "https://api.example.com/")
	require.NoError(t, err)
	require.NoError(t, s.SavePage(q, 3, cachedPage(3, 7, 8, 9)))
	require.NoError(t, s.Close())

	// same source id modulo case and trailing slash
	s, err = NewPageStore(dir, "HTTPS://api.example.com")
	require.NoError(t, err)
	defer s.Close()

	got, ok := s.GetPage(q, 3)
	require.True(t, ok)
	assert.Equal(t, 3, got.Page.PageNum)
	assert.Equal(t, int64(9), got.Page.Items[2].DocID)
	assert.True(t, got.FetchedAt.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
}

func TestPageStore_InvalidateQuery(t *testing.T) {
	s, err := NewPageStore(t.TempDir(), "fixture")
	require.NoError(t, err)
	defer s.Close()

	hot := domain.Query{Kind: domain.FeedKindDraw, ListType: domain.ListTypeHot, Category: domain.CategoryComic}
	fresh := domain.Query{Kind: domain.FeedKindDraw, ListType: domain.ListTypeNew, Category: domain.CategoryComic}

	for n := range 5 {
		require.NoError(t, s.SavePage(hot, n, cachedPage(n, int64(n))))
	}
	require.NoError(t, s.SavePage(fresh, 0, cachedPage(0, 42)))

	s.InvalidateQuery(hot)

	for n := range 5 {
		_, ok := s.GetPage(hot, n)
		assert.False(t, ok, "page %d should be gone", n)
	}
	_, ok := s.GetPage(fresh, 0)
	assert.True(t, ok)
}

func TestPageStore_InvalidateQueryDoesNotMatchLongerCategory(t *testing.T) {
	s, err := NewPageStore("", "")
	require.NoError(t, err)

	draw := domain.Query{Kind: domain.FeedKindDraw, ListType: domain.ListTypeHot, Category: domain.CategoryDraw}
	all := domain.Query{Kind: domain.FeedKindDraw, ListType: domain.ListTypeHot, Category: domain.CategoryAll}
	require.NoError(t, s.SavePage(draw, 0, cachedPage(0, 1)))
	require.NoError(t, s.SavePage(all, 0, cachedPage(0, 2)))

	s.InvalidateQuery(all)

	_, ok := s.GetPage(draw, 0)
	assert.True(t, ok)
}

func TestPageStore_InvalidateAll(t *testing.T) {
	dir := t.TempDir()
	s, err := NewPageStore(dir, "fixture")
	require.NoError(t, err)

	q := domain.DefaultQuery(domain.FeedKindDraw)
	require.NoError(t, s.SavePage(q, 0, cachedPage(0, 1)))
	s.InvalidateAll()

	_, ok := s.GetPage(q, 0)
	assert.False(t, ok)

	// the bucket is recreated and usable
	require.NoError(t, s.SavePage(q, 1, cachedPage(1, 2)))
	require.NoError(t, s.Close())

	s, err = NewPageStore(dir, "fixture")
	require.NoError(t, err)
	defer s.Close()
	_, ok = s.GetPage(q, 0)
	assert.False(t, ok)
	_, ok = s.GetPage(q, 1)
	assert.True(t, ok)
}
