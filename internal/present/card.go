package present

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/dataset"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/loader"
)

const (
	LabelDefinition = "释义"
	LabelUsage      = "用法"
	LabelSource     = "出处"
	LabelExample    = "例句"
	LabelOfficial   = "官方"
	LabelSimilar    = "近义"
	LabelOpposite   = "反义"
	LabelLiteral    = "直译"
	LabelFigurative = "喻义"
	LabelStory      = "故事"
)

// Display messages for result states that carry no cards.
const (
	MsgInsufficient = "请输入至少2个字符"
	MsgNoMatches    = "未找到相关成语"
	MsgNoStories    = "暂无成语故事"
	MsgNoExamItems  = "暂无真题成语数据。"
	MsgLoadFailed   = "加载失败"
)

type Section struct {
	Label string
	Text  string
}

// Card is one renderable entry.
type Card struct {
	Key           string
	Title         string
	Pronunciation string
	Sections      []Section
}

// Text joins the sections one per line as "label text".
func (c Card) Text() string {
	lines := make([]string, len(c.Sections))
	for i, s := range c.Sections {
		lines[i] = s.Label + " " + s.Text
	}
	return strings.Join(lines, "\n")
}

// Presenter builds cards, highlighting with its Highlighter.
type Presenter struct {
	hl *Highlighter
}

func New(hl *Highlighter) *Presenter {
	if hl == nil {
		hl = NewHighlighter(DefaultMarkers)
	}
	return &Presenter{hl: hl}
}

// Present builds a card per entry with keyword highlighted in the key and
// the definition.
func (p *Presenter) Present(entries []*dataset.Entry, keyword string) []Card {
	cards := make([]Card, len(entries))
	for i, e := range entries {
		cards[i] = Card{
			Key:           e.Key,
			Title:         p.hl.Highlight(e.Key, keyword),
			Pronunciation: e.Pronunciation,
			Sections:      Sections(e, p.hl.Highlight(e.Definition, keyword), ""),
		}
	}
	return cards
}

// Sections composes the optional fields of e in display order, omitting
// empty ones. definition replaces e.Definition so callers can pass a
// highlighted copy; official is the exam sentence, if any.
func Sections(e *dataset.Entry, definition, official string) []Section {
	var out []Section
	add := func(label, text string) {
		if text != "" {
			out = append(out, Section{Label: label, Text: text})
		}
	}
	add(LabelDefinition, definition)
	add(LabelUsage, e.Usage)
	add(LabelSource, citation(e.Source))
	add(LabelExample, citation(e.Example))
	add(LabelOfficial, official)
	add(LabelSimilar, strings.Join(e.Similar, "、"))
	add(LabelOpposite, strings.Join(e.Opposite, "、"))
	add(LabelLiteral, e.Gloss.Literal)
	add(LabelFigurative, e.Gloss.Figurative)
	return out
}

func citation(c dataset.Citation) string {
	if c.IsZero() {
		return ""
	}
	if c.Book == "" {
		return c.Text
	}
	return c.Text + "（" + c.Book + "）"
}

// Plain builds an unhighlighted card.
func Plain(e *dataset.Entry) Card {
	return Card{Key: e.Key, Title: e.Key, Pronunciation: e.Pronunciation, Sections: Sections(e, e.Definition, "")}
}

// StoryCard shows only the story, paragraphs separated by a blank line.
func StoryCard(e *dataset.Entry) Card {
	c := Card{Key: e.Key, Title: e.Key, Pronunciation: e.Pronunciation}
	if e.HasStory() {
		c.Sections = []Section{{Label: LabelStory, Text: strings.Join(e.Story, "\n\n")}}
	}
	return c
}

// Lookuper resolves entry keys.
type Lookuper interface {
	Lookup(key string) (*dataset.Entry, bool)
}

// ExamItem is an entry paired with an official exam sentence.
type ExamItem struct {
	Entry    *dataset.Entry
	Sentence string
}

// ExamItems flattens exam sets in order, keeping only keys the dataset
// knows. Each sentence is suffixed with its exam id in parentheses.
func ExamItems(sets []loader.ExamSet, ds Lookuper) []ExamItem {
	var items []ExamItem
	for _, set := range sets {
		for _, s := range set.Sentences {
			e, ok := ds.Lookup(s.Key)
			if !ok {
				continue
			}
			items = append(items, ExamItem{Entry: e, Sentence: s.Sentence + " (" + set.Exam + ")"})
		}
	}
	return items
}

func ExamCard(item ExamItem) Card {
	e := item.Entry
	return Card{Key: e.Key, Title: e.Key, Pronunciation: e.Pronunciation, Sections: Sections(e, e.Definition, item.Sentence)}
}
