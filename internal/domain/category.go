package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ResolveCategory matches user input against the feed's categories.
// Exact names win; otherwise the closest fuzzy match is used.
func ResolveCategory(kind FeedKind, input string) (Category, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return DefaultCategory(kind), nil
	}

	cats := Categories(kind)
	names := make([]string, len(cats))
	for i, c := range cats {
		if string(c) == input {
			return c, nil
		}
		names[i] = string(c)
	}

	ranks := fuzzy.RankFindFold(input, names)
	if len(ranks) == 0 {
		return "", fmt.Errorf("%w: %q in %s feed", ErrUnknownCategory, input, kind)
	}
	sort.Sort(ranks)
	return cats[ranks[0].OriginalIndex], nil
}

// ParseFeedKind converts a flag value into a feed kind
func ParseFeedKind(s string) (FeedKind, error) {
	switch FeedKind(strings.ToLower(strings.TrimSpace(s))) {
	case FeedKindDraw, "":
		return FeedKindDraw, nil
	case FeedKindPhoto:
		return FeedKindPhoto, nil
	default:
		return "", fmt.Errorf("%w: feed %q", ErrInvalidQuery, s)
	}
}

// ParseListType converts a flag value into a list type
func ParseListType(s string) (ListType, error) {
	switch ListType(strings.ToLower(strings.TrimSpace(s))) {
	case ListTypeHot, "":
		return ListTypeHot, nil
	case ListTypeNew:
		return ListTypeNew, nil
	default:
		return "", fmt.Errorf("%w: list type %q", ErrInvalidQuery, s)
	}
}
