package pager

import "sync"

// Scroll is an in-memory Viewport driven by the terminal client.
type Scroll struct {
	mu        sync.Mutex
	top       int
	height    int
	content   int
	next      int
	listeners map[int]func()
}

func NewScroll(height int) *Scroll {
	return &Scroll{height: height, listeners: make(map[int]func())}
}

func (s *Scroll) ScrollTop() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.top
}

func (s *Scroll) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height
}

// SetScrollTop moves without notifying listeners.
func (s *Scroll) SetScrollTop(top int) {
	s.mu.Lock()
	s.top = s.clampTop(top)
	s.mu.Unlock()
}

func (s *Scroll) SetContentHeight(h int) {
	s.mu.Lock()
	s.content = h
	s.top = s.clampTop(s.top)
	s.mu.Unlock()
}

func (s *Scroll) ContentHeight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// SetHeight resizes the viewport and notifies listeners.
func (s *Scroll) SetHeight(h int) {
	s.mu.Lock()
	s.height = h
	s.top = s.clampTop(s.top)
	s.mu.Unlock()
	s.notify()
}

func (s *Scroll) OnScroll(fn func()) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// ScrollTo moves to top, clamped to the content, and notifies listeners.
func (s *Scroll) ScrollTo(top int) {
	s.SetScrollTop(top)
	s.notify()
}

func (s *Scroll) ScrollBy(delta int) {
	s.mu.Lock()
	top := s.top + delta
	s.mu.Unlock()
	s.ScrollTo(top)
}

// Listeners is the number of registered scroll listeners.
func (s *Scroll) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// clampTop must be called with mu held.
func (s *Scroll) clampTop(top int) int {
	top = min(top, s.content-s.height)
	return max(top, 0)
}

func (s *Scroll) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
