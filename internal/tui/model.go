// Package tui is the terminal client: a tabbed bubbletea program over the
// loaded dictionary with live search, exam-linked entries and the quiz.
package tui

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/app"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/pager"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/present"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/quiz"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/search"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type Tab int

const (
	TabHome Tab = iota
	TabDictionary
	TabExam
	TabGame
	tabCount
)

var tabNames = [tabCount]string{"首页", "词典", "真题", "游戏"}

func (t Tab) String() string { return tabNames[t] }

const nextQuestionDelay = 300 * time.Millisecond

// Markers is what the presenter must wrap highlights in for this client.
var Markers = present.Markers{Open: markOpen, Close: markClose}

type loadedMsg struct{ load app.Load }

type resultMsg struct{ res search.Result }

type nextQuestionMsg struct{}

// Model is the root bubbletea model. It is used through a pointer so the
// result views can reach back into it.
type Model struct {
	app  *app.App
	ctx  context.Context
	keys keyMap
	help help.Model
	rng  *rand.Rand

	tab     Tab
	width   int
	height  int
	loading bool
	failed  bool

	home []present.Card

	input   textinput.Model
	live    *search.Live
	results chan search.Result
	last    search.Result
	dict    *resultView

	examItems []present.ExamItem
	exam      *resultView

	game        *quiz.Game
	question    quiz.Question
	hasQuestion bool
	feedback    string
	feedbackErr bool

	logger *slog.Logger
}

// New builds the client over a. The dictionary is loaded by Init.
func New(ctx context.Context, a *app.App) *Model {
	ti := textinput.New()
	ti.Placeholder = "输入成语、释义或拼音"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	m := &Model{
		app:     a,
		ctx:     ctx,
		keys:    keys,
		help:    help.New(),
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		loading: true,
		input:   ti,
		results: make(chan search.Result, 8),
		logger:  slog.Default().With("component", "tui"),
	}
	m.dict = &resultView{m: m, tab: TabDictionary}
	m.exam = &resultView{m: m, tab: TabExam}
	m.live = a.NewLive(func(res search.Result) {
		select {
		case m.results <- res:
		default:
			m.logger.Warn("result channel full, dropping result", "query", res.Query)
		}
	})
	return m
}

// Init starts loading the dictionary and listening for search results.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.load(), waitForResult(m.results), textinput.Blink)
}

// Close stops pending searches and releases every view listener.
func (m *Model) Close() {
	m.live.Close()
	m.dict.destroy()
	m.exam.destroy()
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{load: m.app.Load(m.ctx)}
	}
}

func waitForResult(ch <-chan search.Result) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return nil
		}
		return resultMsg{res: res}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(10, msg.Width-8)
		m.dict.resize(m.viewportLines())
		m.exam.resize(m.viewportLines())
		return m, nil

	case loadedMsg:
		m.onLoaded(msg.load)
		return m, nil

	case resultMsg:
		m.last = msg.res
		if m.tab == TabDictionary {
			m.showSearch(msg.res)
		}
		return m, waitForResult(m.results)

	case nextQuestionMsg:
		m.nextQuestion()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.input.Focused() {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Tab):
		m.switchTab((m.tab + 1) % tabCount)
	case key.Matches(msg, m.keys.ShiftTab):
		m.switchTab((m.tab + tabCount - 1) % tabCount)
	case key.Matches(msg, m.keys.Search):
		m.switchTab(TabDictionary)
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Left):
		m.app.Bus.Dispatch(pager.KeyLeft)
	case key.Matches(msg, m.keys.Right):
		m.app.Bus.Dispatch(pager.KeyRight)
	case key.Matches(msg, m.keys.Up):
		m.currentView().scrollBy(-1)
	case key.Matches(msg, m.keys.Down):
		m.currentView().scrollBy(1)
	case key.Matches(msg, m.keys.Answer):
		if m.tab == TabGame {
			return m, m.answer(int(msg.Runes[0] - '1'))
		}
	case key.Matches(msg, m.keys.Shuffle):
		switch m.tab {
		case TabHome:
			m.shuffleHome()
		case TabGame:
			m.restartGame()
		}
	}
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Blur) {
		m.input.Blur()
		return m, nil
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.live.Input(v)
	}
	return m, cmd
}

// currentView is the result view of the active tab, or a detached one.
func (m *Model) currentView() *resultView {
	switch m.tab {
	case TabDictionary:
		return m.dict
	case TabExam:
		return m.exam
	}
	return &resultView{m: m}
}

// switchTab tears down the old tab's controllers before the new tab builds
// its own, so no listener outlives its view.
func (m *Model) switchTab(t Tab) {
	if t == m.tab {
		return
	}
	switch m.tab {
	case TabDictionary:
		m.input.Blur()
		m.dict.destroy()
	case TabExam:
		m.exam.destroy()
	}
	m.tab = t
	m.enterTab()
}

func (m *Model) enterTab() {
	if m.loading {
		return
	}
	switch m.tab {
	case TabDictionary:
		m.showSearch(m.last)
	case TabExam:
		m.showExam()
	case TabGame:
		if !m.hasQuestion {
			m.nextQuestion()
		}
	}
}

func (m *Model) onLoaded(load app.Load) {
	m.loading = false
	m.failed = load.Failed
	m.examItems = load.Exams
	m.game = m.app.NewGame(m.ctx)
	m.shuffleHome()
	m.logger.Info("dictionary ready",
		"entries", m.app.Dataset.Len(),
		"failed_partitions", load.Report.Failed(),
		"exam_items", len(load.Exams),
	)
	m.enterTab()
}

func (m *Model) shuffleHome() {
	entries := search.Sample(m.app.Dataset.Entries(), m.app.Config.Search.SampleSize, m.rng)
	m.home = make([]present.Card, len(entries))
	for i, e := range entries {
		m.home[i] = present.Plain(e)
	}
}

func (m *Model) virtual() bool {
	return m.app.Config.Pager.Mode == "virtual"
}

// showSearch renders res in the dictionary tab. A cleared query falls back
// to a sample of story cards.
func (m *Model) showSearch(res search.Result) {
	switch res.Status {
	case search.StatusClear:
		stories := search.StorySample(m.app.Dataset.Entries(), m.app.Config.Search.SampleSize, m.rng)
		if len(stories) == 0 {
			m.dict.showMessage(present.MsgNoStories)
			return
		}
		cards := make([]present.Card, len(stories))
		for i, e := range stories {
			cards[i] = present.StoryCard(e)
		}
		m.dict.show(cards, false)
	case search.StatusInsufficient:
		m.dict.showMessage(present.MsgInsufficient)
	case search.StatusNoMatches:
		m.dict.showMessage(present.MsgNoMatches)
	default:
		m.dict.show(m.app.Presenter.Present(res.Entries, res.Query), m.virtual())
	}
}

func (m *Model) showExam() {
	if len(m.examItems) == 0 {
		m.exam.showMessage(present.MsgNoExamItems)
		return
	}
	cards := make([]present.Card, len(m.examItems))
	for i, item := range m.examItems {
		cards[i] = present.ExamCard(item)
	}
	m.exam.show(cards, m.virtual())
}

func (m *Model) nextQuestion() {
	q, err := m.game.Next()
	m.setQuestion(q, err)
}

func (m *Model) restartGame() {
	if m.game == nil {
		return
	}
	q, err := m.game.Restart()
	m.setQuestion(q, err)
}

func (m *Model) setQuestion(q quiz.Question, err error) {
	if err != nil {
		m.hasQuestion = false
		m.feedback, m.feedbackErr = "成语数据不足，无法出题", true
		m.logger.Warn("no question drawn", "error", err)
		return
	}
	m.question, m.hasQuestion = q, true
	m.feedback, m.feedbackErr = "", false
}

// answer checks option i. A correct answer schedules the next question.
func (m *Model) answer(i int) tea.Cmd {
	if m.game == nil || !m.hasQuestion {
		return nil
	}
	res, err := m.game.Answer(m.ctx, i)
	if err != nil {
		m.feedback, m.feedbackErr = "请选择 1-3", true
		return nil
	}
	if !res.Correct {
		m.feedback, m.feedbackErr = "回答错误，再想想", true
		return nil
	}
	m.hasQuestion = false
	m.feedback, m.feedbackErr = "回答正确！", false
	if res.NewBest {
		m.feedback += " 新纪录！"
	}
	return tea.Tick(nextQuestionDelay, func(time.Time) tea.Msg { return nextQuestionMsg{} })
}

// viewportLines is the height left for cards under the chrome.
func (m *Model) viewportLines() int {
	return max(m.app.Config.Pager.RowHeight, m.height-12)
}
