package domain

import (
	"fmt"
	"strings"
	"time"
)

// FeedKind selects which link-draw feed is browsed
type FeedKind string

const (
	FeedKindDraw  FeedKind = "draw"
	FeedKindPhoto FeedKind = "photo"
)

// FeedKinds lists the feeds in tab order
var FeedKinds = []FeedKind{FeedKindDraw, FeedKindPhoto}

// Title returns the tab label for the feed
func (k FeedKind) Title() string {
	switch k {
	case FeedKindDraw:
		return "Draw"
	case FeedKindPhoto:
		return "Photo"
	default:
		return string(k)
	}
}

// ListType is the ordering of a feed
type ListType string

const (
	ListTypeHot ListType = "hot"
	ListTypeNew ListType = "new"
)

// ListTypes lists the orderings in toggle order
var ListTypes = []ListType{ListTypeHot, ListTypeNew}

// Category narrows a feed to one kind of post
type Category string

const (
	CategoryAll          Category = "all"
	CategoryIllustration Category = "illustration"
	CategoryComic        Category = "comic"
	CategoryDraw         Category = "draw"
	CategorySifu         Category = "sifu"
	CategoryCos          Category = "cos"
)

// Categories returns the categories available for a feed, in menu order
func Categories(kind FeedKind) []Category {
	if kind == FeedKindPhoto {
		return []Category{CategoryAll, CategorySifu, CategoryCos}
	}
	return []Category{CategoryAll, CategoryIllustration, CategoryComic, CategoryDraw}
}

// DefaultCategory is the category a feed opens with
func DefaultCategory(kind FeedKind) Category {
	if kind == FeedKindPhoto {
		return CategoryAll
	}
	return CategoryIllustration
}

// Query identifies one paginated feed listing
type Query struct {
	Kind     FeedKind
	ListType ListType
	Category Category
}

// DefaultQuery returns the listing a feed opens with
func DefaultQuery(kind FeedKind) Query {
	return Query{Kind: kind, ListType: ListTypeHot, Category: DefaultCategory(kind)}
}

// Validate checks the query against the known feeds, orderings and categories
func (q Query) Validate() error {
	if q.Kind != FeedKindDraw && q.Kind != FeedKindPhoto {
		return fmt.Errorf("%w: feed %q", ErrInvalidQuery, q.Kind)
	}
	if q.ListType != ListTypeHot && q.ListType != ListTypeNew {
		return fmt.Errorf("%w: list type %q", ErrInvalidQuery, q.ListType)
	}
	for _, c := range Categories(q.Kind) {
		if c == q.Category {
			return nil
		}
	}
	return fmt.Errorf("%w: %q in %s feed", ErrUnknownCategory, q.Category, q.Kind)
}

// Key encodes the query as a cache key prefix
func (q Query) Key() string {
	return fmt.Sprintf("feed:%s:%s:%s", q.Kind, q.ListType, q.Category)
}

// String returns a breadcrumb for the query
func (q Query) String() string {
	return fmt.Sprintf("%s › %s › %s", q.Kind.Title(), q.ListType, q.Category)
}

// Picture is one image attached to a post
type Picture struct {
	Src    string `json:"img_src" yaml:"src"`
	Width  int    `json:"img_width" yaml:"width"`
	Height int    `json:"img_height" yaml:"height"`
}

// User is the author of a post
type User struct {
	UID     int64  `json:"uid" yaml:"uid"`
	Name    string `json:"name" yaml:"name"`
	HeadURL string `json:"head_url" yaml:"head_url"`
}

// Post is a single link-draw document
type Post struct {
	DocID       int64     `json:"doc_id" yaml:"doc_id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Pictures    []Picture `json:"pictures" yaml:"pictures"`
	Author      User      `json:"author" yaml:"author"`
	UploadedAt  time.Time `json:"uploaded_at" yaml:"uploaded_at"`
	Likes       int       `json:"likes" yaml:"likes"`
}

// Cover returns the first picture, or false when the post has none
func (p Post) Cover() (Picture, bool) {
	if len(p.Pictures) == 0 {
		return Picture{}, false
	}
	return p.Pictures[0], true
}

// AspectRatio returns height/width of the cover, 0 when it is unknown
func (p Post) AspectRatio() float64 {
	cover, ok := p.Cover()
	if !ok || cover.Width <= 0 || cover.Height <= 0 {
		return 0
	}
	return float64(cover.Height) / float64(cover.Width)
}

// DisplayTitle returns the title, falling back to the description
func (p Post) DisplayTitle() string {
	if t := strings.TrimSpace(p.Title); t != "" {
		return t
	}
	if d := strings.TrimSpace(p.Description); d != "" {
		return d
	}
	return fmt.Sprintf("#%d", p.DocID)
}

// DetailURL returns the web page for the post
func (p Post) DetailURL() string {
	return fmt.Sprintf("https://h.bilibili.com/%d", p.DocID)
}

// Page is one page of a feed listing
type Page struct {
	Items      []Post `json:"items"`
	TotalCount int    `json:"total_count"`
	PageNum    int    `json:"page_num"` // zero-based
	PageSize   int    `json:"page_size"`
}

// HasMore reports whether pages after this one exist
func (p Page) HasMore() bool {
	return p.PageSize*(p.PageNum+1) < p.TotalCount
}
