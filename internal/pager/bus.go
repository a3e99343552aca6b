// Package pager exposes ordered results a window at a time: numbered pages
// with a sliding button strip, or a virtual list that renders only the rows
// a viewport can see. Both register listeners that must be released with
// Destroy when their view goes away.
package pager

import (
	"sync"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/metrics"
)

type Key int

const (
	KeyLeft Key = iota
	KeyRight
)

// Handler reports whether it consumed the key.
type Handler func(Key) bool

// Bus is the process-wide key listener registry.
type Bus struct {
	mu       sync.Mutex
	next     uint64
	handlers map[uint64]Handler
	order    []uint64
	metrics  *metrics.Metrics
}

// NewBus returns an empty bus. m may be nil.
func NewBus(m *metrics.Metrics) *Bus {
	return &Bus{handlers: make(map[uint64]Handler), metrics: m}
}

// Subscribe registers h and returns the function that removes it. The
// returned function is safe to call more than once.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = h
	b.order = append(b.order, id)
	b.report()
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	b.report()
}

// Dispatch offers k to every handler in registration order and returns
// how many consumed it.
func (b *Bus) Dispatch(k Key) int {
	b.mu.Lock()
	hs := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		hs = append(hs, b.handlers[id])
	}
	b.mu.Unlock()

	n := 0
	for _, h := range hs {
		if h(k) {
			n++
		}
	}
	return n
}

// Len is the number of live registrations.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}

// report must be called with mu held.
func (b *Bus) report() {
	if b.metrics != nil {
		b.metrics.ActiveListeners.Set(float64(len(b.handlers)))
	}
}
