package dataset

import (
	"strings"
	"unicode/utf8"
)

const fullStop = "。"

// EnsureTerminalStop appends a full stop to text unless it is blank or
// already ends in sentence-final punctuation or a closing quote.
func EnsureTerminalStop(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}
	last, _ := utf8.DecodeLastRuneInString(trimmed)
	switch last {
	case '。', '！', '？', '…', '”', '"':
		return text
	}
	return text + fullStop
}

// FixEntryPunctuation applies EnsureTerminalStop to every prose field.
func FixEntryPunctuation(e *Entry) {
	e.Definition = EnsureTerminalStop(e.Definition)
	e.Usage = EnsureTerminalStop(e.Usage)
	e.Source.Text = EnsureTerminalStop(e.Source.Text)
	e.Example.Text = EnsureTerminalStop(e.Example.Text)
	story := make([]string, len(e.Story))
	for i, p := range e.Story {
		story[i] = EnsureTerminalStop(p)
	}
	e.Story = story
}
