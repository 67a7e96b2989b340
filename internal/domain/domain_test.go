package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		wantErr error
	}{
		{name: "draw default", query: DefaultQuery(FeedKindDraw)},
		{name: "photo default", query: DefaultQuery(FeedKindPhoto)},
		{name: "photo cos new", query: Query{Kind: FeedKindPhoto, ListType: ListTypeNew, Category: CategoryCos}},
		{name: "unknown feed", query: Query{Kind: "video", ListType: ListTypeHot, Category: CategoryAll}, wantErr: ErrInvalidQuery},
		{name: "unknown list type", query: Query{Kind: FeedKindDraw, ListType: "top", Category: CategoryAll}, wantErr: ErrInvalidQuery},
		{name: "photo category in draw feed", query: Query{Kind: FeedKindDraw, ListType: ListTypeHot, Category: CategoryCos}, wantErr: ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDefaultQuery(t *testing.T) {
	assert.Equal(t, CategoryIllustration, DefaultQuery(FeedKindDraw).Category)
	assert.Equal(t, CategoryAll, DefaultQuery(FeedKindPhoto).Category)
	assert.Equal(t, "feed:draw:hot:illustration", DefaultQuery(FeedKindDraw).Key())
}

func TestPost_AspectRatio(t *testing.T) {
	post := Post{Pictures: []Picture{{Width: 400, Height: 600}, {Width: 10, Height: 10}}}
	assert.InDelta(t, 1.5, post.AspectRatio(), 1e-9)

	assert.Zero(t, Post{}.AspectRatio())
	assert.Zero(t, Post{Pictures: []Picture{{Width: 0, Height: 100}}}.AspectRatio())
}

func TestPost_DisplayTitle(t *testing.T) {
	assert.Equal(t, "Sunset", Post{Title: " Sunset "}.DisplayTitle())
	assert.Equal(t, "a sketch", Post{Description: "a sketch"}.DisplayTitle())
	assert.Equal(t, "#42", Post{DocID: 42}.DisplayTitle())
}

func TestPage_HasMore(t *testing.T) {
	assert.True(t, Page{PageNum: 0, PageSize: 20, TotalCount: 45}.HasMore())
	assert.True(t, Page{PageNum: 1, PageSize: 20, TotalCount: 45}.HasMore())
	assert.False(t, Page{PageNum: 2, PageSize: 20, TotalCount: 45}.HasMore())
	assert.False(t, Page{PageNum: 0, PageSize: 20, TotalCount: 20}.HasMore())
}

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		name    string
		kind    FeedKind
		input   string
		want    Category
		wantErr bool
	}{
		{name: "exact", kind: FeedKindDraw, input: "comic", want: CategoryComic},
		{name: "case folded", kind: FeedKindDraw, input: "COMIC", want: CategoryComic},
		{name: "empty uses default", kind: FeedKindDraw, input: "", want: CategoryIllustration},
		{name: "prefix", kind: FeedKindDraw, input: "illus", want: CategoryIllustration},
		{name: "photo prefix", kind: FeedKindPhoto, input: "si", want: CategorySifu},
		{name: "no match", kind: FeedKindPhoto, input: "comic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveCategory(tt.kind, tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFeedKind(t *testing.T) {
	k, err := ParseFeedKind("Photo")
	require.NoError(t, err)
	assert.Equal(t, FeedKindPhoto, k)

	_, err = ParseFeedKind("video")
	require.ErrorIs(t, err, ErrInvalidQuery)

	lt, err := ParseListType("")
	require.NoError(t, err)
	assert.Equal(t, ListTypeHot, lt)
}
