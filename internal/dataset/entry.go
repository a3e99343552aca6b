// Package dataset holds the dictionary: normalized Entry values, the
// append-only Dataset that owns insertion order, the key lookup and the
// inverted index, and the record-level normalization applied at load.
package dataset

import "strings"

// Citation is a quotation with the book it comes from.
type Citation struct {
	Text string `json:"text"`
	Book string `json:"book"`
}

// IsZero reports whether the citation carries nothing to display.
func (c Citation) IsZero() bool {
	return c.Text == "" && c.Book == ""
}

// Gloss is optional enrichment merged in after load.
type Gloss struct {
	Literal    string `json:"literal,omitempty"`
	Figurative string `json:"figurative,omitempty"`
}

func (g Gloss) IsZero() bool {
	return g.Literal == "" && g.Figurative == ""
}

// Entry is one dictionary record. Entries are immutable once appended to a
// Dataset; enrichment replaces the pointer instead of mutating in place.
type Entry struct {
	Seq           int      `json:"-"`
	Key           string   `json:"idiom"`
	Pronunciation string   `json:"pinyin"`
	Definition    string   `json:"definition"`
	Usage         string   `json:"usage"`
	Source        Citation `json:"source"`
	Example       Citation `json:"example"`
	Similar       []string `json:"similar"`
	Opposite      []string `json:"opposite"`
	Story         []string `json:"story"`
	Gloss         Gloss    `json:"gloss,omitzero"`

	keyLower           string
	definitionLower    string
	pronunciationLower string
}

func (e *Entry) derive() {
	e.keyLower = strings.ToLower(e.Key)
	e.definitionLower = strings.ToLower(e.Definition)
	e.pronunciationLower = strings.ToLower(e.Pronunciation)
}

// HasStory reports whether the entry carries at least one story paragraph.
func (e *Entry) HasStory() bool {
	return len(e.Story) > 0
}

// Contains reports whether the lowercased query occurs in the key or the
// definition, or the pronunciation when withPronunciation is set.
func (e *Entry) Contains(lowerQuery string, withPronunciation bool) bool {
	if strings.Contains(e.keyLower, lowerQuery) || strings.Contains(e.definitionLower, lowerQuery) {
		return true
	}
	return withPronunciation && strings.Contains(e.pronunciationLower, lowerQuery)
}

// searchable returns the lowercased fields the inverted index tokenizes.
func (e *Entry) searchable(withPronunciation bool) []string {
	if withPronunciation {
		return []string{e.keyLower, e.definitionLower, e.pronunciationLower}
	}
	return []string{e.keyLower, e.definitionLower}
}
