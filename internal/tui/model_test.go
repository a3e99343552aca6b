package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/app"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/present"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/score"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `[
	{"idiom":"一马当先","pinyin":"yī mǎ dāng xiān","definition":"作战时策马冲在最前面。形容领先。"},
	{"idiom":"画蛇添足","definition":"比喻做了多余的事。","story":["楚国有个贵族。"]},
	{"idiom":"守株待兔","definition":"比喻死守狭隘经验。"},
	{"idiom":"对牛弹琴","definition":"比喻对不懂道理的人讲道理。"}
]`

const exams = `{"2023 June": {"画蛇添足": "别画蛇添足了。", "守株待兔": "不能守株待兔。"}, "2019 May": {"一马当先": "他总是一马当先。"}}`

func newModel(t *testing.T, write bool) (*Model, *app.App) {
	t.Helper()
	dir := t.TempDir()
	if write {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "idioms.min.json"), []byte(fixture), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "idioms_cam_masked.min.json"), []byte(exams), 0o644))
	}
	cfg := config.Default()
	cfg.Dataset.BaseURL = dir
	cfg.Dataset.PartitionCount = 0
	cfg.Pager.PageSize = 1
	cfg.Score.Backend = "memory"
	cfg.Logging.File = ""

	ctx := context.Background()
	a, err := app.New(ctx, cfg, app.WithScoreStore(score.NewMemoryStore()), app.WithMarkers(Markers))
	require.NoError(t, err)
	m := New(ctx, a)
	t.Cleanup(func() {
		m.Close()
		a.Close()
	})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	m.Update(loadedMsg{load: a.Load(ctx)})
	return m, a
}

func press(m *Model, k tea.KeyType) {
	m.Update(tea.KeyMsg{Type: k})
}

func typeRune(m *Model, r rune) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return cmd
}

func TestLoadedModelShowsHomeCards(t *testing.T) {
	m, _ := newModel(t, true)
	assert.False(t, m.loading)
	assert.Len(t, m.home, 3)
	assert.Contains(t, m.View(), "首页")
}

func TestFailedLoadClearsIndicator(t *testing.T) {
	m, _ := newModel(t, false)
	assert.False(t, m.loading)
	assert.True(t, m.failed)
	assert.Contains(t, m.View(), present.MsgLoadFailed)
	assert.NotContains(t, m.View(), "加载中")
}

func TestTabSwitchReleasesListeners(t *testing.T) {
	m, a := newModel(t, true)
	assert.Zero(t, a.Bus.Len())

	press(m, tea.KeyTab) // dictionary: story sample
	assert.Equal(t, TabDictionary, m.tab)
	assert.Equal(t, 1, a.Bus.Len())

	press(m, tea.KeyTab) // exam
	assert.Equal(t, TabExam, m.tab)
	assert.Equal(t, 1, a.Bus.Len())
	require.NotNil(t, m.exam.pages)
	assert.Equal(t, 3, m.exam.pages.TotalPages())

	press(m, tea.KeyTab) // game
	assert.Zero(t, a.Bus.Len())
	assert.Nil(t, m.exam.pages)

	for range 4 {
		press(m, tea.KeyTab)
		press(m, tea.KeyShiftTab)
		press(m, tea.KeyTab)
	}
	assert.LessOrEqual(t, a.Bus.Len(), 1)
}

func TestArrowKeysPageOnlyTheVisibleTab(t *testing.T) {
	m, a := newModel(t, true)
	m.switchTab(TabExam)
	require.NotNil(t, m.exam.pages)

	press(m, tea.KeyRight)
	assert.Equal(t, 2, m.exam.pages.Current())
	assert.Equal(t, "守株待兔", m.exam.visible[0].Key, "newest exam first, document order within it")
	press(m, tea.KeyLeft)
	assert.Equal(t, 1, m.exam.pages.Current())

	m.switchTab(TabHome)
	assert.Zero(t, a.Bus.Dispatch(0))
}

func TestFocusedInputBlocksPaging(t *testing.T) {
	m, _ := newModel(t, true)
	m.switchTab(TabDictionary)
	m.showSearch(m.app.Engine.Search("比喻"))
	require.NotNil(t, m.dict.pages)
	m.input.Focus()

	press(m, tea.KeyRight)
	assert.Equal(t, 1, m.dict.pages.Current())

	press(m, tea.KeyEsc)
	assert.False(t, m.input.Focused())
	press(m, tea.KeyRight)
	assert.Equal(t, 2, m.dict.pages.Current())
}

func TestShowSearchStatuses(t *testing.T) {
	m, a := newModel(t, true)
	m.switchTab(TabDictionary)

	m.showSearch(a.Engine.Search("马"))
	assert.Equal(t, present.MsgInsufficient, m.dict.message)

	m.showSearch(a.Engine.Search("雪中送炭"))
	assert.Equal(t, present.MsgNoMatches, m.dict.message)

	m.showSearch(a.Engine.Search("领先"))
	assert.Empty(t, m.dict.message)
	require.Len(t, m.dict.cards, 1)
	assert.Equal(t, "一马当先", m.dict.cards[0].Key)
	assert.Contains(t, m.dict.cards[0].Sections[0].Text, markOpen+"领先"+markClose)

	m.showSearch(a.Engine.Search(""))
	require.Len(t, m.dict.cards, 1)
	assert.Equal(t, "画蛇添足", m.dict.cards[0].Key)
}

func TestVirtualModeScrolls(t *testing.T) {
	m, a := newModel(t, true)
	a.Config.Pager.Mode = "virtual"
	a.Config.Pager.RowHeight = 4
	a.Config.Pager.Buffer = 0
	m.switchTab(TabExam)
	require.NotNil(t, m.exam.list)
	assert.Zero(t, a.Bus.Len())

	press(m, tea.KeyDown)
	assert.GreaterOrEqual(t, m.exam.scroll.ScrollTop(), 0)
	assert.NotEmpty(t, m.exam.view(80))

	m.switchTab(TabGame)
	assert.Nil(t, m.exam.list)
}

func TestGameAnswerFlow(t *testing.T) {
	m, _ := newModel(t, true)
	m.switchTab(TabGame)
	require.True(t, m.hasQuestion)

	correct, wrong := -1, -1
	for i, o := range m.question.Options {
		if o.Definition == m.question.Definition {
			correct = i
		} else if wrong < 0 {
			wrong = i
		}
	}
	require.GreaterOrEqual(t, correct, 0)

	assert.Nil(t, typeRune(m, rune('1'+wrong)))
	assert.True(t, m.feedbackErr)
	assert.True(t, m.hasQuestion)

	cmd := typeRune(m, rune('1'+correct))
	require.NotNil(t, cmd)
	assert.False(t, m.hasQuestion)
	assert.Equal(t, 10, m.game.Score())
	assert.Equal(t, 10, m.game.Best())

	m.Update(nextQuestionMsg{})
	assert.True(t, m.hasQuestion)

	typeRune(m, 'r')
	assert.Zero(t, m.game.Score())
	assert.Equal(t, 10, m.game.Best())
}

func TestRenderMarks(t *testing.T) {
	out := renderMarks("一" + markOpen + "马" + markClose + "当先")
	assert.NotContains(t, out, markOpen)
	assert.True(t, strings.Contains(out, "马"))
	assert.Equal(t, "plain", renderMarks("plain"))
	assert.Equal(t, "ab", renderMarks("a"+markOpen+"b"))
}
