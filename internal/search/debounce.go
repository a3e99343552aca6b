package search

import (
	"sync"
	"time"
)

// Debouncer delays calls to fn until delay has passed without a new
// Trigger, then calls it once with the latest value.
type Debouncer[T any] struct {
	mu         sync.Mutex
	delay      time.Duration
	fn         func(T)
	timer      *time.Timer
	gen        uint64
	stopped    bool
	superseded func()
}

// NewDebouncer returns a trailing-edge debouncer. onSupersede, when not
// nil, is called for every value replaced before it fired.
func NewDebouncer[T any](delay time.Duration, fn func(T), onSupersede func()) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn, superseded: onSupersede}
}

func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil && d.timer.Stop() && d.superseded != nil {
		d.superseded()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen, v) })
}

func (d *Debouncer[T]) fire(gen uint64, v T) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn(v)
}

// Stop cancels any pending call; later Triggers are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
