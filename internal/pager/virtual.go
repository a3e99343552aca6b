package pager

import "sync"

// Viewport is the scrollable container a VirtualList renders into.
type Viewport interface {
	ScrollTop() int
	Height() int
	SetScrollTop(int)
	SetContentHeight(int)
	// OnScroll registers fn and returns the function that removes it.
	OnScroll(fn func()) func()
}

// Window is a half-open item range.
type Window struct {
	Start int
	End   int
}

// VisibleWindow computes the rows to render for a scroll position, padded
// by buffer rows on each side.
func VisibleWindow(scrollTop, viewportHeight, rowHeight, buffer, n int) Window {
	if rowHeight < 1 {
		rowHeight = 1
	}
	start := min(n, max(0, scrollTop/rowHeight-buffer))
	end := min(n, (scrollTop+viewportHeight+rowHeight-1)/rowHeight+buffer)
	if end < start {
		end = start
	}
	return Window{Start: start, End: end}
}

// VirtualList renders only the visible slice of items and re-renders only
// when that slice changes.
type VirtualList[T any] struct {
	mu        sync.Mutex
	vp        Viewport
	items     []T
	rowHeight int
	buffer    int
	render    func(visible []T, w Window)
	window    Window
	drawn     bool
	renders   int
	unsub     func()
}

func NewVirtualList[T any](vp Viewport, items []T, rowHeight, buffer int, render func([]T, Window)) *VirtualList[T] {
	if rowHeight < 1 {
		rowHeight = 1
	}
	v := &VirtualList[T]{vp: vp, items: items, rowHeight: rowHeight, buffer: buffer, render: render}
	vp.SetContentHeight(len(items) * rowHeight)
	v.unsub = vp.OnScroll(v.Refresh)
	v.Refresh()
	return v
}

// Update replaces the items, scrolls back to the top and renders.
func (v *VirtualList[T]) Update(items []T) {
	v.mu.Lock()
	if v.unsub == nil {
		v.mu.Unlock()
		return
	}
	v.items = items
	v.drawn = false
	v.mu.Unlock()

	v.vp.SetContentHeight(len(items) * v.rowHeight)
	v.vp.SetScrollTop(0)
	v.Refresh()
}

// Refresh recomputes the visible window and renders if it moved.
func (v *VirtualList[T]) Refresh() {
	v.mu.Lock()
	if v.unsub == nil && v.drawn {
		v.mu.Unlock()
		return
	}
	w := VisibleWindow(v.vp.ScrollTop(), v.vp.Height(), v.rowHeight, v.buffer, len(v.items))
	if v.drawn && w == v.window {
		v.mu.Unlock()
		return
	}
	v.window = w
	v.drawn = true
	v.renders++
	visible := v.items[w.Start:w.End]
	v.mu.Unlock()

	v.render(visible, w)
}

func (v *VirtualList[T]) Window() Window {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.window
}

// Renders counts render callbacks so far.
func (v *VirtualList[T]) Renders() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renders
}

func (v *VirtualList[T]) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.items)
}

// Destroy releases the scroll listener.
func (v *VirtualList[T]) Destroy() {
	v.mu.Lock()
	unsub := v.unsub
	v.unsub = nil
	v.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}
