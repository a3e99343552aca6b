// Package index implements the in-memory inverted index over dictionary
// entries. Terms are whitespace tokens; a query token matches every term
// that contains it, which keeps indexed lookups in agreement with a plain
// substring scan over unsegmented text. A patricia trie over entry keys
// serves prefix suggestions.
package index

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/indexer/tokenizer"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Inverted maps terms to the entries that contain them. It is not safe for
// concurrent use; the owning dataset serializes writers against readers.
// Sequence numbers must be added in ascending order.
type Inverted struct {
	terms    []string
	termIDs  map[string]int
	postings []PostingList
	// grams maps every rune unigram and bigram to the ids of the terms
	// containing it, ascending.
	grams    map[string][]int
	keys     *patricia.Trie
	docCount int
}

func NewInverted() *Inverted {
	return &Inverted{
		termIDs: make(map[string]int),
		grams:   make(map[string][]int),
		keys:    patricia.NewTrie(),
	}
}

// Add indexes every term of fields under seq.
func (ix *Inverted) Add(seq int, fields ...string) {
	seen := make(map[int]struct{})
	for _, field := range fields {
		for _, tok := range tokenizer.Tokenize(field) {
			id := ix.termID(tok.Term)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ix.postings[id] = append(ix.postings[id], seq)
		}
	}
	ix.docCount++
}

// AddKey records key for prefix suggestions.
func (ix *Inverted) AddKey(seq int, key string) {
	prefix := patricia.Prefix(strings.ToLower(key))
	if item := ix.keys.Get(prefix); item != nil {
		ix.keys.Set(prefix, append(item.(PostingList), seq))
		return
	}
	ix.keys.Insert(prefix, PostingList{seq})
}

func (ix *Inverted) termID(term string) int {
	if id, ok := ix.termIDs[term]; ok {
		return id
	}
	id := len(ix.terms)
	ix.terms = append(ix.terms, term)
	ix.postings = append(ix.postings, nil)
	ix.termIDs[term] = id
	for _, g := range grams(term) {
		ix.grams[g] = append(ix.grams[g], id)
	}
	return id
}

// grams returns the distinct rune unigrams and bigrams of term.
func grams(term string) []string {
	runes := []rune(term)
	seen := make(map[string]struct{}, 2*len(runes))
	out := make([]string, 0, 2*len(runes))
	add := func(g string) {
		if _, ok := seen[g]; !ok {
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	for i := range runes {
		add(string(runes[i]))
		if i+1 < len(runes) {
			add(string(runes[i : i+2]))
		}
	}
	return out
}

// Lookup returns the entries holding any term that contains token. A nil
// result means the token is absent from the index.
func (ix *Inverted) Lookup(token string) PostingList {
	candidates := ix.candidateTerms(token)
	lists := make([]PostingList, 0, len(candidates))
	for _, id := range candidates {
		if strings.Contains(ix.terms[id], token) {
			lists = append(lists, ix.postings[id])
		}
	}
	if len(lists) == 0 {
		return nil
	}
	return Union(lists...)
}

func (ix *Inverted) candidateTerms(token string) []int {
	switch utf8.RuneCountInString(token) {
	case 0:
		return nil
	case 1:
		return ix.grams[token]
	}
	runes := []rune(token)
	var candidates []int
	for i := 0; i+1 < len(runes); i++ {
		ids, ok := ix.grams[string(runes[i:i+2])]
		if !ok {
			return nil
		}
		if candidates == nil {
			candidates = append([]int(nil), ids...)
			continue
		}
		candidates = intersectPair(candidates, ids)
		if len(candidates) == 0 {
			return nil
		}
	}
	return candidates
}

// Match intersects the postings of the tokens present in the index.
// Absent tokens are skipped; when no token is present the result is empty.
func (ix *Inverted) Match(tokens []string) PostingList {
	present := make([]PostingList, 0, len(tokens))
	for _, tok := range tokens {
		if postings := ix.Lookup(tok); len(postings) > 0 {
			present = append(present, postings)
		}
	}
	return Intersect(present...)
}

// Prefix returns up to limit entries whose key starts with prefix, in
// insertion order. A non-positive limit returns all of them.
func (ix *Inverted) Prefix(prefix string, limit int) PostingList {
	var out PostingList
	ix.keys.VisitSubtree(patricia.Prefix(strings.ToLower(prefix)), func(_ patricia.Prefix, item patricia.Item) error {
		out = append(out, item.(PostingList)...)
		return nil
	})
	sort.Ints(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (ix *Inverted) TermCount() int {
	return len(ix.terms)
}

func (ix *Inverted) DocCount() int {
	return ix.docCount
}
