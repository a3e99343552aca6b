package pager

import (
	"log/slog"
	"strconv"
	"sync"
)

const (
	LabelPrev = "上一页"
	LabelNext = "下一页"
)

type ControlKind int

const (
	ControlPrev ControlKind = iota
	ControlPage
	ControlNext
)

// Control is one clickable element of the strip.
type Control struct {
	Kind   ControlKind
	Page   int
	Label  string
	Active bool
}

// Strip is the rendered navigation for one current page.
type Strip struct {
	Current  int
	Total    int
	Controls []Control
}

// Pages returns the numbered buttons in order.
func (s Strip) Pages() []int {
	var out []int
	for _, c := range s.Controls {
		if c.Kind == ControlPage {
			out = append(out, c.Page)
		}
	}
	return out
}

func (s Strip) HasPrev() bool { return s.has(ControlPrev) }
func (s Strip) HasNext() bool { return s.has(ControlNext) }

func (s Strip) has(kind ControlKind) bool {
	for _, c := range s.Controls {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

// View is where a Paginator draws its strip. Visible and Active gate
// keyboard navigation.
type View interface {
	Draw(Strip)
	Clear()
	Visible() bool
	Active() bool
}

type Options struct {
	PageSize     int
	ButtonWindow int
	// Bus enables left/right keyboard navigation when set.
	Bus *Bus
}

type Paginator struct {
	mu         sync.Mutex
	view       View
	totalItems int
	totalPages int
	pageSize   int
	window     int
	current    int
	onChange   func(page int)
	unsub      func()
	destroyed  bool
	logger     *slog.Logger
}

// NewPaginator splits totalItems into pages of opts.PageSize. onChange is
// called once for every distinct page the user moves to; the initial page
// is drawn with Render.
func NewPaginator(view View, totalItems int, onChange func(page int), opts Options) *Paginator {
	if opts.PageSize < 1 {
		opts.PageSize = 3
	}
	if opts.ButtonWindow < 1 {
		opts.ButtonWindow = 5
	}
	p := &Paginator{
		view:       view,
		totalItems: totalItems,
		totalPages: (totalItems + opts.PageSize - 1) / opts.PageSize,
		pageSize:   opts.PageSize,
		window:     opts.ButtonWindow,
		current:    1,
		onChange:   onChange,
		logger:     slog.Default().With("component", "paginator"),
	}
	if opts.Bus != nil {
		p.unsub = opts.Bus.Subscribe(p.handleKey)
	}
	return p
}

// ButtonRange returns the first and last numbered button shown for current.
// Exactly min(total, width) buttons fit, centered where possible.
func ButtonRange(current, total, width int) (start, end int) {
	if total <= width {
		return 1, total
	}
	start = current - width/2
	if start < 1 {
		start = 1
	}
	if start > total-width+1 {
		start = total - width + 1
	}
	return start, start + width - 1
}

func (p *Paginator) clamp(page int) int {
	if page > p.totalPages {
		page = p.totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Render clamps page, marks it current and draws the strip.
func (p *Paginator) Render(page int) Strip {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return Strip{}
	}
	p.current = p.clamp(page)
	strip := p.strip()
	p.mu.Unlock()

	p.view.Draw(strip)
	return strip
}

// strip must be called with mu held.
func (p *Paginator) strip() Strip {
	s := Strip{Current: p.current, Total: p.totalPages}
	if p.totalPages == 0 {
		return s
	}
	if p.current > 1 {
		s.Controls = append(s.Controls, Control{Kind: ControlPrev, Page: p.current - 1, Label: LabelPrev})
	}
	start, end := ButtonRange(p.current, p.totalPages, p.window)
	for i := start; i <= end; i++ {
		s.Controls = append(s.Controls, Control{Kind: ControlPage, Page: i, Label: strconv.Itoa(i), Active: i == p.current})
	}
	if p.current < p.totalPages {
		s.Controls = append(s.Controls, Control{Kind: ControlNext, Page: p.current + 1, Label: LabelNext})
	}
	return s
}

// Select moves to page as a click would. Out-of-range pages and the current
// page are ignored. It reports whether the page changed.
func (p *Paginator) Select(page int) bool {
	p.mu.Lock()
	if p.destroyed || page < 1 || page > p.totalPages || page == p.current {
		p.mu.Unlock()
		return false
	}
	p.current = page
	strip := p.strip()
	p.mu.Unlock()

	p.view.Draw(strip)
	if p.onChange != nil {
		p.onChange(page)
	}
	return true
}

// Activate selects the page a control points at.
func (p *Paginator) Activate(c Control) bool {
	return p.Select(c.Page)
}

func (p *Paginator) handleKey(k Key) bool {
	if !p.view.Visible() || !p.view.Active() {
		return false
	}
	p.mu.Lock()
	cur := p.current
	p.mu.Unlock()
	switch k {
	case KeyLeft:
		return p.Select(cur - 1)
	case KeyRight:
		return p.Select(cur + 1)
	}
	return false
}

func (p *Paginator) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *Paginator) TotalPages() int {
	return p.totalPages
}

// Bounds returns the half-open item range shown on page.
func (p *Paginator) Bounds(page int) (start, end int) {
	page = p.clamp(page)
	start = (page - 1) * p.pageSize
	end = min(start+p.pageSize, p.totalItems)
	return max(start, 0), max(end, 0)
}

// Destroy releases the key listener and clears the view. Later calls do
// nothing.
func (p *Paginator) Destroy() {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return
	}
	p.destroyed = true
	unsub := p.unsub
	p.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	p.view.Clear()
	p.logger.Debug("paginator destroyed", "pages", p.totalPages)
}
