package present

import (
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/dataset"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/loader"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlightEmptyKeywordIsIdentity(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("highlight(text, \"\") == text", prop.ForAll(
		func(text string) bool {
			return Highlight(text, "") == text
		},
		gen.AnyString(),
	))
	properties.TestingRun(t)
}

func TestHighlightIsCaseInsensitive(t *testing.T) {
	got := Highlight("Carpe diem, CARPE noctem", "carpe")
	assert.Equal(t, "<mark>Carpe</mark> diem, <mark>CARPE</mark> noctem", got)
}

func TestHighlightEscapesMetacharacters(t *testing.T) {
	tests := []struct {
		text, keyword, want string
	}{
		{"a.b axb", ".", "a<mark>.</mark>b axb"},
		{"f(x) = fx", "(x)", "f<mark>(x)</mark> = fx"},
		{"一马当先。", "当先。", "一马<mark>当先。</mark>"},
		{"$1 and $2", "$1", "<mark>$1</mark> and $2"},
		{"a+b", "+", "a<mark>+</mark>b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Highlight(tt.text, tt.keyword), tt.keyword)
	}
}

func TestHighlightEachTerm(t *testing.T) {
	assert.Equal(t, "一<mark>马</mark>当<mark>先</mark>", Highlight("一马当先", "马 先"))
	assert.Equal(t, "<mark>画蛇</mark>添足", Highlight("画蛇添足", "画 画蛇"), "longer term wins")
	assert.Equal(t, "画蛇添足", Highlight("画蛇添足", "   "))
}

func TestHighlightCustomMarkers(t *testing.T) {
	h := NewHighlighter(Markers{Open: "[", Close: "]"})
	assert.Equal(t, "画[蛇]添足", h.Highlight("画蛇添足", "蛇"))
}

func TestHighlightReapplicationWithNonMatchingMarkers(t *testing.T) {
	once := Highlight("画蛇添足 画蛇", "画蛇")
	assert.Equal(t, "<mark>画蛇</mark>添足 <mark>画蛇</mark>", once)
	assert.Equal(t, strings.Count(once, "<mark>")*2, strings.Count(Highlight(once, "画蛇"), "<mark>"))
}

func fullEntry() *dataset.Entry {
	return &dataset.Entry{
		Key:           "画蛇添足",
		Pronunciation: "huà shé tiān zú",
		Definition:    "比喻做了多余的事。",
		Usage:         "作谓语。",
		Source:        dataset.Citation{Text: "蛇固无足。", Book: "战国策"},
		Example:       dataset.Citation{Text: "何必画蛇添足。"},
		Similar:       []string{"多此一举", "徒劳无功"},
		Opposite:      []string{"恰到好处"},
		Story:         []string{"第一段。", "第二段。"},
	}
}

func labels(sections []Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Label
	}
	return out
}

func TestSectionsFieldOrder(t *testing.T) {
	e := fullEntry()
	sections := Sections(e, e.Definition, "别画蛇添足了。 (2023 June)")

	assert.Equal(t, []string{"释义", "用法", "出处", "例句", "官方", "近义", "反义"}, labels(sections))
	assert.Equal(t, "蛇固无足。（战国策）", sections[2].Text)
	assert.Equal(t, "何必画蛇添足。", sections[3].Text)
	assert.Equal(t, "多此一举、徒劳无功", sections[5].Text)
}

func TestSectionsOmitEmptyFields(t *testing.T) {
	e := &dataset.Entry{Key: "一马当先", Definition: "领先。", Opposite: []string{"落后"}}
	assert.Equal(t, []string{"释义", "反义"}, labels(Sections(e, e.Definition, "")))

	e.Gloss = dataset.Gloss{Figurative: "take the lead"}
	assert.Equal(t, []string{"释义", "反义", "喻义"}, labels(Sections(e, e.Definition, "")))
}

func TestPresentHighlightsKeyAndDefinitionOnly(t *testing.T) {
	cards := New(nil).Present([]*dataset.Entry{fullEntry()}, "蛇")
	require.Len(t, cards, 1)
	c := cards[0]
	assert.Equal(t, "画蛇添足", c.Key)
	assert.Equal(t, "画<mark>蛇</mark>添足", c.Title)
	assert.Equal(t, "huà shé tiān zú", c.Pronunciation)
	assert.Equal(t, "比喻做了多余的事。", c.Sections[0].Text)
	assert.Equal(t, "蛇固无足。（战国策）", c.Sections[2].Text, "other fields untouched")

	cards = New(nil).Present([]*dataset.Entry{fullEntry()}, "多余")
	assert.Equal(t, "比喻做了<mark>多余</mark>的事。", cards[0].Sections[0].Text)
}

func TestPresentMarksEveryQueryTerm(t *testing.T) {
	e := &dataset.Entry{Key: "一马当先", Definition: "策马冲在最前面。"}
	cards := New(nil).Present([]*dataset.Entry{e}, "马 先")
	require.Len(t, cards, 1)
	assert.Equal(t, "一<mark>马</mark>当<mark>先</mark>", cards[0].Title)
	assert.Equal(t, "策<mark>马</mark>冲在最前面。", cards[0].Sections[0].Text)
}

func TestStoryCard(t *testing.T) {
	c := StoryCard(fullEntry())
	require.Len(t, c.Sections, 1)
	assert.Equal(t, "故事", c.Sections[0].Label)
	assert.Equal(t, "第一段。\n\n第二段。", c.Sections[0].Text)
	assert.Empty(t, StoryCard(&dataset.Entry{Key: "x"}).Sections)
}

func TestCardText(t *testing.T) {
	c := Plain(&dataset.Entry{Key: "一马当先", Definition: "领先。", Usage: "作谓语。"})
	assert.Equal(t, "释义 领先。\n用法 作谓语。", c.Text())
}

type mapLookup map[string]*dataset.Entry

func (m mapLookup) Lookup(key string) (*dataset.Entry, bool) {
	e, ok := m[key]
	return e, ok
}

func TestExamItemsSkipUnknownKeys(t *testing.T) {
	e := fullEntry()
	ds := mapLookup{e.Key: e}
	sets := []loader.ExamSet{
		{Exam: "2023 June", Sentences: []loader.ExamSentence{
			{Key: "画蛇添足", Sentence: "别画蛇添足了。"},
			{Key: "守株待兔", Sentence: "不能守株待兔。"},
		}},
		{Exam: "2019 May", Sentences: []loader.ExamSentence{{Key: "画蛇添足", Sentence: "他又画蛇添足。"}}},
	}

	items := ExamItems(sets, ds)
	require.Len(t, items, 2)
	assert.Equal(t, "别画蛇添足了。 (2023 June)", items[0].Sentence)
	assert.Equal(t, "他又画蛇添足。 (2019 May)", items[1].Sentence)

	card := ExamCard(items[0])
	assert.Equal(t, []string{"释义", "用法", "出处", "例句", "官方", "近义", "反义"}, labels(card.Sections))
	assert.Equal(t, "别画蛇添足了。 (2023 June)", card.Sections[4].Text)
}
