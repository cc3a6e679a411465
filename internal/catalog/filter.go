package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Filter returns the items in category (nil for all) that match query.
//
// A non-empty query matches case-insensitively against the title,
// description and tags. When nothing matches that way, items are ranked by a
// fuzzy match on their title and tags instead, best first.
func Filter(items []Item, query string, category *Category) []Item {
	var pool []Item
	for _, it := range items {
		if category == nil || it.Category == *category {
			pool = append(pool, it)
		}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return pool
	}

	q := strings.ToLower(query)
	var out []Item
	for _, it := range pool {
		if matches(it, q) {
			out = append(out, it)
		}
	}
	if len(out) > 0 {
		return out
	}
	return fuzzyFilter(pool, query)
}

func matches(it Item, q string) bool {
	if strings.Contains(strings.ToLower(it.Title), q) ||
		strings.Contains(strings.ToLower(it.Description), q) {
		return true
	}
	for _, tag := range it.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// searchSource exposes an item's title and tags to the fuzzy matcher.
type searchSource []Item

func (s searchSource) String(i int) string {
	return s[i].Title + " " + strings.Join(s[i].Tags, " ")
}

func (s searchSource) Len() int { return len(s) }

func fuzzyFilter(pool []Item, query string) []Item {
	found := fuzzy.FindFrom(query, searchSource(pool))
	out := make([]Item, 0, len(found))
	for _, m := range found {
		out = append(out, pool[m.Index])
	}
	return out
}
