package tui

import (
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/present"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("成语词典"))
	b.WriteString("\n")
	b.WriteString(m.tabBar())
	b.WriteString("\n")
	b.WriteString(contentStyle.Render(m.content()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m *Model) tabBar() string {
	tabs := make([]string, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		if t == m.tab {
			tabs[t] = activeTabStyle.Render(t.String())
			continue
		}
		tabs[t] = inactiveTabStyle.Render(t.String())
	}
	return lipgloss.NewStyle().MarginLeft(2).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m *Model) content() string {
	if m.loading {
		return mutedStyle.Render("加载中…")
	}
	switch m.tab {
	case TabDictionary:
		return m.input.View() + "\n\n" + m.dict.view(m.width)
	case TabExam:
		return m.exam.view(m.width)
	case TabGame:
		return m.gameView()
	}
	return m.homeView()
}

func (m *Model) homeView() string {
	if len(m.home) == 0 {
		if m.failed {
			return errorStyle.Render(present.MsgLoadFailed)
		}
		return mutedStyle.Render(present.MsgNoMatches)
	}
	blocks := make([]string, len(m.home))
	for i, c := range m.home {
		blocks[i] = renderCard(c, m.width, 0)
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (m *Model) gameView() string {
	var b strings.Builder
	if m.game != nil {
		b.WriteString(labelStyle.Render("得分 ") + strconv.Itoa(m.game.Score()))
		b.WriteString("   ")
		b.WriteString(labelStyle.Render("最高分 ") + strconv.Itoa(m.game.Best()))
		b.WriteString("\n\n")
	}
	if m.hasQuestion {
		b.WriteString(cardTitleStyle.Render(m.question.Prompt()))
		b.WriteString("\n")
		for i, o := range m.question.Options {
			b.WriteString("\n  " + strconv.Itoa(i+1) + ". " + o.Key)
		}
		b.WriteString("\n")
	}
	if m.feedback != "" {
		style := successStyle
		if m.feedbackErr {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(m.feedback))
	}
	return b.String()
}
