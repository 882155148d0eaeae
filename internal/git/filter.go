package git

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// FilterEntries keeps entries whose search text fuzzily matches every
// whitespace-separated term of query, preserving order. An empty query
// keeps everything.
func FilterEntries(entries []*Entry, query string) []*Entry {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return entries
	}
	var out []*Entry
	for _, e := range entries {
		if e != nil && matchesAll(e.SearchText, terms) {
			out = append(out, e)
		}
	}
	return out
}

func matchesAll(text string, terms []string) bool {
	for _, term := range terms {
		if !fuzzy.MatchFold(term, text) {
			return false
		}
	}
	return true
}
