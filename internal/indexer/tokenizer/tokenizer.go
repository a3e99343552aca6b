// Package tokenizer splits dictionary text into lowercase whitespace
// tokens. Idiom text is mostly unsegmented, so no stemming or stop-word
// removal is applied: a token is exactly a run of non-space characters.
package tokenizer

import "strings"

// Token is a single lowercased term and its position in the text.
type Token struct {
	Term     string
	Position int
}

// Tokenize lowercases text and splits it on Unicode whitespace.
func Tokenize(text string) []Token {
	words := strings.Fields(strings.ToLower(text))
	tokens := make([]Token, 0, len(words))
	for i, word := range words {
		tokens = append(tokens, Token{Term: word, Position: i})
	}
	return tokens
}

// Terms returns the distinct terms of text in first-seen order.
func Terms(text string) []string {
	tokens := Tokenize(text)
	seen := make(map[string]struct{}, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok.Term]; ok {
			continue
		}
		seen[tok.Term] = struct{}{}
		terms = append(terms, tok.Term)
	}
	return terms
}
