package tui

import (
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/pager"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/present"
	"github.com/charmbracelet/lipgloss"
)

const (
	markOpen  = "\uE000"
	markClose = "\uE001"
)

// resultView is one tab's card area plus the controller paging it. It is
// the pager.View the paginator draws into.
type resultView struct {
	m       *Model
	tab     Tab
	message string
	cards   []present.Card
	visible []present.Card
	strip   pager.Strip

	pages  *pager.Paginator
	list   *pager.VirtualList[present.Card]
	scroll *pager.Scroll
	window pager.Window
}

func (v *resultView) Draw(s pager.Strip) { v.strip = s }
func (v *resultView) Clear()             { v.strip = pager.Strip{} }

func (v *resultView) Visible() bool {
	return v.m.tab == v.tab && len(v.cards) > 0
}

// Active is false while the search input owns the arrow keys.
func (v *resultView) Active() bool {
	return v.m.tab == v.tab && !v.m.input.Focused()
}

// showMessage replaces the cards with a single line.
func (v *resultView) showMessage(msg string) {
	v.destroy()
	v.message = msg
}

// show pages cards with a paginator, or a virtual list when virtual is
// set. Any previous controller is destroyed first.
func (v *resultView) show(cards []present.Card, virtual bool) {
	v.destroy()
	v.cards = cards
	cfg := v.m.app.Config.Pager
	if virtual {
		v.scroll = pager.NewScroll(v.m.viewportLines())
		v.list = pager.NewVirtualList(v.scroll, cards, cfg.RowHeight, cfg.Buffer, func(items []present.Card, w pager.Window) {
			v.visible, v.window = items, w
		})
		return
	}
	var p *pager.Paginator
	p = pager.NewPaginator(v, len(cards), func(page int) {
		start, end := p.Bounds(page)
		v.visible = v.cards[start:end]
	}, pager.Options{PageSize: cfg.PageSize, ButtonWindow: cfg.ButtonWindow, Bus: v.m.app.Bus})
	v.pages = p
	start, end := p.Bounds(1)
	v.visible = cards[start:end]
	p.Render(1)
}

// destroy releases listeners and forgets the cards.
func (v *resultView) destroy() {
	if v.pages != nil {
		v.pages.Destroy()
		v.pages = nil
	}
	if v.list != nil {
		v.list.Destroy()
		v.list, v.scroll = nil, nil
	}
	v.cards, v.visible, v.message = nil, nil, ""
	v.window = pager.Window{}
}

func (v *resultView) scrollBy(lines int) {
	if v.scroll != nil {
		v.scroll.ScrollBy(lines)
	}
}

func (v *resultView) resize(lines int) {
	if v.scroll != nil {
		v.scroll.SetHeight(lines)
	}
}

func (v *resultView) view(width int) string {
	if v.message != "" {
		return mutedStyle.Render(v.message)
	}
	if v.list != nil {
		return v.virtualView(width)
	}
	blocks := make([]string, 0, len(v.visible)+1)
	for _, c := range v.visible {
		blocks = append(blocks, renderCard(c, width, 0))
	}
	if len(v.strip.Controls) > 0 {
		blocks = append(blocks, renderStrip(v.strip))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// virtualView renders the buffered window and cuts out the lines the
// viewport shows.
func (v *resultView) virtualView(width int) string {
	rowHeight := v.m.app.Config.Pager.RowHeight
	var lines []string
	for _, c := range v.visible {
		lines = append(lines, strings.Split(renderCard(c, width, rowHeight), "\n")...)
	}
	offset := v.scroll.ScrollTop() - v.window.Start*rowHeight
	offset = max(0, min(offset, len(lines)))
	end := min(len(lines), offset+v.scroll.Height())
	footer := mutedStyle.Render(positionLabel(v.scroll.ScrollTop()/rowHeight+1, len(v.cards)))
	return strings.Join(lines[offset:end], "\n") + "\n" + footer
}

func positionLabel(first, total int) string {
	return "第 " + strconv.Itoa(min(first, total)) + " / " + strconv.Itoa(total) + " 条"
}

func renderStrip(s pager.Strip) string {
	parts := make([]string, 0, len(s.Controls))
	for _, c := range s.Controls {
		if c.Active {
			parts = append(parts, activePageStyle.Render(c.Label))
			continue
		}
		parts = append(parts, pageStyle.Render(c.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderCard draws c. A positive height pads or cuts it to exactly that
// many lines.
func renderCard(c present.Card, width, height int) string {
	var b strings.Builder
	b.WriteString(cardTitleStyle.Render(renderMarks(c.Title)))
	if c.Pronunciation != "" {
		b.WriteString("  " + pronunciationStyle.Render(c.Pronunciation))
	}
	for _, s := range c.Sections {
		b.WriteString("\n" + labelStyle.Render(s.Label) + " " + renderMarks(s.Text))
	}
	style := cardStyle
	if width > 8 {
		style = style.Width(width - 4)
	}
	out := style.Render(b.String())
	if height <= 0 {
		return out
	}
	lines := strings.Split(out, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderMarks styles the spans the highlighter wrapped.
func renderMarks(s string) string {
	var b strings.Builder
	for {
		open := strings.Index(s, markOpen)
		if open < 0 {
			b.WriteString(s)
			return b.String()
		}
		rest := s[open+len(markOpen):]
		end := strings.Index(rest, markClose)
		if end < 0 {
			b.WriteString(s[:open])
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(s[:open])
		b.WriteString(markStyle.Render(rest[:end]))
		s = rest[end+len(markClose):]
	}
}
