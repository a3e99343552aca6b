// Package present turns search results into display cards. Everything here
// is pure: no I/O, no shared state.
package present

import (
	"regexp"
	"slices"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/indexer/tokenizer"
)

// Markers wrap each highlighted keyword occurrence.
type Markers struct {
	Open  string
	Close string
}

var DefaultMarkers = Markers{Open: "<mark>", Close: "</mark>"}

type Highlighter struct {
	markers Markers
}

func NewHighlighter(m Markers) *Highlighter {
	return &Highlighter{markers: m}
}

// Highlight wraps every case-insensitive occurrence of each whitespace
// separated term of keyword in text. Terms are matched literally, longest
// first. An empty keyword returns text as is.
func (h *Highlighter) Highlight(text, keyword string) string {
	if keyword == "" || text == "" {
		return text
	}
	terms := tokenizer.Terms(keyword)
	if len(terms) == 0 {
		return text
	}
	slices.SortStableFunc(terms, func(a, b string) int { return len(b) - len(a) })
	for i, term := range terms {
		terms[i] = regexp.QuoteMeta(term)
	}
	re := regexp.MustCompile("(?i)" + strings.Join(terms, "|"))
	return re.ReplaceAllStringFunc(text, func(m string) string {
		return h.markers.Open + m + h.markers.Close
	})
}

// Highlight uses DefaultMarkers.
func Highlight(text, keyword string) string {
	return NewHighlighter(DefaultMarkers).Highlight(text, keyword)
}
