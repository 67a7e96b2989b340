// Package fixture serves feed pages from a YAML file, for offline browsing
// and tests.
package fixture

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"time"

	"github.com/mmcdole/mosaic/internal/domain"
	"gopkg.in/yaml.v3"
)

// Entry is a post together with the category it is listed under
type Entry struct {
	domain.Post `yaml:",inline"`
	Category    domain.Category `yaml:"category"`
}

// Feed is the on-disk layout of a fixture file
type Feed struct {
	Draw  []Entry `yaml:"draw"`
	Photo []Entry `yaml:"photo"`
}

// Source implements domain.FeedRepository over an in-memory feed
type Source struct {
	feed  Feed
	delay time.Duration
}

// Load reads a fixture file
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed file: %w", err)
	}
	var feed Feed
	if err := yaml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse feed file %s: %w", path, err)
	}
	return New(feed), nil
}

// New creates a source over feed
func New(feed Feed) *Source {
	return &Source{feed: feed}
}

// WithDelay makes every fetch wait d, to mimic network latency
func (s *Source) WithDelay(d time.Duration) *Source {
	s.delay = d
	return s
}

// Save writes feed to path as YAML
func Save(path string, feed Feed) error {
	data, err := yaml.Marshal(feed)
	if err != nil {
		return fmt.Errorf("failed to encode feed: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write feed file: %w", err)
	}
	return nil
}

// FetchPage implements domain.FeedRepository
func (s *Source) FetchPage(ctx context.Context, q domain.Query, pageNum, pageSize int) (domain.Page, error) {
	if err := q.Validate(); err != nil {
		return domain.Page{}, err
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return domain.Page{}, ctx.Err()
		}
	}

	listing := s.listing(q)
	start := min(pageNum*pageSize, len(listing))
	end := min(start+pageSize, len(listing))

	return domain.Page{
		Items:      listing[start:end],
		TotalCount: len(listing),
		PageNum:    pageNum,
		PageSize:   pageSize,
	}, nil
}

// listing filters and orders the posts of a query
func (s *Source) listing(q domain.Query) []domain.Post {
	entries := s.feed.Draw
	if q.Kind == domain.FeedKindPhoto {
		entries = s.feed.Photo
	}

	var posts []domain.Post
	for _, e := range entries {
		if q.Category == domain.CategoryAll || e.Category == q.Category {
			posts = append(posts, e.Post)
		}
	}

	slices.SortStableFunc(posts, func(a, b domain.Post) int {
		if q.ListType == domain.ListTypeNew {
			return b.UploadedAt.Compare(a.UploadedAt)
		}
		return cmp.Compare(b.Likes, a.Likes)
	})
	return posts
}

var (
	titleWords = []string{"Morning", "Neon", "Quiet", "Paper", "Harbor", "Cat", "Lantern", "Spring",
		"Station", "Garden", "Rain", "Summer", "Orbit", "Studio", "Window", "Festival"}
	authorNames = []string{"mizu", "kanade", "ren", "sora", "hikari", "yuki", "aoi", "tsubasa"}
	aspects     = [][2]int{{1080, 1920}, {1200, 800}, {1000, 1000}, {900, 1600}, {1600, 900}, {768, 1024}}
)

// Generate builds a deterministic feed of n posts per feed kind
func Generate(n int, seed uint64) Feed {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	build := func(kind domain.FeedKind, idOffset int64) []Entry {
		cats := domain.Categories(kind)[1:] // skip "all"
		entries := make([]Entry, n)
		for i := range entries {
			dims := aspects[rng.IntN(len(aspects))]
			id := idOffset + int64(i)
			author := authorNames[rng.IntN(len(authorNames))]
			entries[i] = Entry{
				Post: domain.Post{
					DocID: id,
					Title: fmt.Sprintf("%s %s", titleWords[rng.IntN(len(titleWords))], titleWords[rng.IntN(len(titleWords))]),
					Pictures: []domain.Picture{{
						Src:    fmt.Sprintf("https://picsum.photos/seed/%d/%d/%d", id, dims[0], dims[1]),
						Width:  dims[0],
						Height: dims[1],
					}},
					Author: domain.User{
						UID:  int64(1000 + rng.IntN(len(authorNames))),
						Name: author,
					},
					UploadedAt: base.Add(time.Duration(rng.IntN(365*24)) * time.Hour),
					Likes:      rng.IntN(5000),
				},
				Category: cats[rng.IntN(len(cats))],
			}
		}
		return entries
	}

	return Feed{
		Draw:  build(domain.FeedKindDraw, 100000),
		Photo: build(domain.FeedKindPhoto, 200000),
	}
}
