package service

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/mosaic/internal/domain"
)

// FilterResult is a post that matched a filter query
type FilterResult struct {
	Post           domain.Post
	Index          int   // position in the unfiltered list
	MatchedIndexes []int // byte positions of the match in the search text
	Score          int
}

// postIndex implements sahilm/fuzzy.Source over title and author
type postIndex struct {
	posts []domain.Post
	texts []string
}

func newPostIndex(posts []domain.Post) *postIndex {
	texts := make([]string, len(posts))
	for i, p := range posts {
		texts[i] = strings.ToLower(searchText(p))
	}
	return &postIndex{posts: posts, texts: texts}
}

// String returns the lowercase search text at index i (implements fuzzy.Source)
func (idx *postIndex) String(i int) string { return idx.texts[i] }

// Len returns the number of posts (implements fuzzy.Source)
func (idx *postIndex) Len() int { return len(idx.posts) }

func searchText(p domain.Post) string {
	if p.Author.Name == "" {
		return p.DisplayTitle()
	}
	return p.DisplayTitle() + " " + p.Author.Name
}

// FilterPosts fuzzy-matches query against post titles and authors. Results are
// ordered best match first. An empty query matches every post in list order.
func FilterPosts(query string, posts []domain.Post) []FilterResult {
	query = strings.TrimSpace(query)
	if query == "" {
		results := make([]FilterResult, len(posts))
		for i, p := range posts {
			results[i] = FilterResult{Post: p, Index: i}
		}
		return results
	}

	idx := newPostIndex(posts)
	matches := fuzzy.FindFrom(strings.ToLower(query), idx)

	results := make([]FilterResult, len(matches))
	for i, m := range matches {
		results[i] = FilterResult{
			Post:           posts[m.Index],
			Index:          m.Index,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}
