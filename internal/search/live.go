package search

import (
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/metrics"
)

// Live turns a stream of raw input into debounced searches. A result is
// delivered only if no newer input arrived while it was computed.
type Live struct {
	engine    *Engine
	deliver   func(Result)
	debouncer *Debouncer[liveInput]
	latest    atomic.Uint64
}

type liveInput struct {
	gen   uint64
	query string
}

// NewLive wires engine behind a debouncer of the given delay. m may be nil.
func NewLive(engine *Engine, delay time.Duration, deliver func(Result), m *metrics.Metrics) *Live {
	l := &Live{engine: engine, deliver: deliver}
	var onSupersede func()
	if m != nil {
		onSupersede = m.DebouncedInputsTotal.Inc
	}
	l.debouncer = NewDebouncer(delay, l.run, onSupersede)
	return l
}

// Input records the current query text.
func (l *Live) Input(query string) {
	gen := l.latest.Add(1)
	l.debouncer.Trigger(liveInput{gen: gen, query: query})
}

func (l *Live) run(in liveInput) {
	res := l.engine.Search(in.query)
	if l.latest.Load() != in.gen {
		return
	}
	l.deliver(res)
}

// Close drops any pending search.
func (l *Live) Close() {
	l.debouncer.Stop()
}
