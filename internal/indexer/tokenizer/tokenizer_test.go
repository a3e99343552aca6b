package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeLowercasesAndSplitsOnWhitespace(t *testing.T) {
	tokens := Tokenize("  Yī Mǎ\tdāng\nXIĀN ")
	assert.Equal(t, []Token{
		{Term: "yī", Position: 0},
		{Term: "mǎ", Position: 1},
		{Term: "dāng", Position: 2},
		{Term: "xiān", Position: 3},
	}, tokens)
}

func TestTokenizeKeepsUnsegmentedText(t *testing.T) {
	tokens := Tokenize("一马当先　比喻领先")
	assert.Equal(t, []Token{{Term: "一马当先", Position: 0}, {Term: "比喻领先", Position: 1}}, tokens,
		"ideographic space separates tokens")
}

func TestTokenizeEmpty(t *testing.T) {
	assert.Empty(t, Tokenize("   "))
}

func TestTermsDeduplicates(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Terms("A b a B"))
}
