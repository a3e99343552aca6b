// Package search answers dictionary queries. A query is trimmed, checked
// against the minimum length and matched either through the inverted index
// or by a substring scan; results keep dataset insertion order.
package search

import (
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/dataset"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/metrics"
)

// Status classifies a search outcome for display.
type Status int

const (
	// StatusClear means the query was empty; callers show their default view.
	StatusClear Status = iota
	StatusInsufficient
	StatusNoMatches
	StatusMatches
)

func (s Status) String() string {
	switch s {
	case StatusClear:
		return "clear"
	case StatusInsufficient:
		return "insufficient"
	case StatusNoMatches:
		return "no_matches"
	case StatusMatches:
		return "matches"
	default:
		return "unknown"
	}
}

type Strategy string

const (
	StrategyIndexed Strategy = "indexed"
	StrategyScan    Strategy = "scan"
)

type Result struct {
	Query    string
	Status   Status
	Entries  []*dataset.Entry
	Strategy Strategy
	Elapsed  time.Duration
}

// Tracker receives one event per search.
type Tracker interface {
	Track(event any)
}

type Options struct {
	Strategy       Strategy
	MinQueryLength int
}

type Engine struct {
	ds      *dataset.Dataset
	opts    Options
	metrics *metrics.Metrics
	tracker Tracker
	logger  *slog.Logger
}

type EngineOption func(*Engine)

func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

func WithTracker(t Tracker) EngineOption {
	return func(e *Engine) { e.tracker = t }
}

func NewEngine(ds *dataset.Dataset, opts Options, engineOpts ...EngineOption) *Engine {
	if opts.MinQueryLength < 1 {
		opts.MinQueryLength = 2
	}
	if opts.Strategy == "" {
		opts.Strategy = StrategyIndexed
	}
	e := &Engine{
		ds:     ds,
		opts:   opts,
		logger: slog.Default().With("component", "search-engine"),
	}
	for _, opt := range engineOpts {
		opt(e)
	}
	return e
}

// Search classifies and runs query. Length is counted in characters after
// trimming surrounding whitespace.
func (e *Engine) Search(query string) Result {
	start := time.Now()
	q := strings.TrimSpace(query)
	res := Result{Query: q, Strategy: e.opts.Strategy}
	switch n := utf8.RuneCountInString(q); {
	case n == 0:
		res.Status = StatusClear
	case n < e.opts.MinQueryLength:
		res.Status = StatusInsufficient
	default:
		if e.opts.Strategy == StrategyIndexed && e.ds.IsReady() {
			res.Entries = e.ds.MatchTokens(tokenizer.Terms(q))
		} else {
			res.Strategy = StrategyScan
			res.Entries = e.Scan(q)
		}
		res.Status = StatusMatches
		if len(res.Entries) == 0 {
			res.Status = StatusNoMatches
		}
	}
	res.Elapsed = time.Since(start)
	e.observe(res)
	return res
}

// Scan returns every entry whose key or definition contains the whole
// query, case-insensitively, in insertion order.
func (e *Engine) Scan(query string) []*dataset.Entry {
	lower := strings.ToLower(query)
	withPron := e.ds.MatchesPronunciation()
	var out []*dataset.Entry
	for _, entry := range e.ds.Entries() {
		if entry.Contains(lower, withPron) {
			out = append(out, entry)
		}
	}
	return out
}

// Suggest returns up to limit entries whose key starts with the query.
func (e *Engine) Suggest(query string, limit int) []*dataset.Entry {
	return e.ds.Suggest(strings.TrimSpace(query), limit)
}

func (e *Engine) observe(res Result) {
	if e.metrics != nil {
		e.metrics.SearchQueriesTotal.WithLabelValues(res.Status.String()).Inc()
		if res.Status == StatusMatches || res.Status == StatusNoMatches {
			e.metrics.SearchLatency.WithLabelValues(string(res.Strategy)).Observe(res.Elapsed.Seconds())
			e.metrics.SearchResultsCount.Observe(float64(len(res.Entries)))
		}
	}
	if e.tracker != nil && res.Status != StatusClear {
		e.tracker.Track(analytics.SearchEvent{
			Type:      analytics.EventSearch,
			Query:     res.Query,
			Status:    res.Status.String(),
			Strategy:  string(res.Strategy),
			TotalHits: len(res.Entries),
			LatencyUs: res.Elapsed.Microseconds(),
			Timestamp: time.Now().UTC(),
		})
	}
	e.logger.Debug("search executed",
		"query", res.Query,
		"status", res.Status.String(),
		"strategy", res.Strategy,
		"results", len(res.Entries),
		"elapsed", res.Elapsed,
	)
}

// Sample returns n distinct entries chosen uniformly at random, or all of
// them shuffled when fewer exist.
func Sample(entries []*dataset.Entry, n int, rng *rand.Rand) []*dataset.Entry {
	pool := append([]*dataset.Entry(nil), entries...)
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n >= 0 && n < len(pool) {
		pool = pool[:n]
	}
	return pool
}

// StorySample is Sample restricted to entries that carry a story.
func StorySample(entries []*dataset.Entry, n int, rng *rand.Rand) []*dataset.Entry {
	withStory := make([]*dataset.Entry, 0, len(entries))
	for _, e := range entries {
		if e.HasStory() {
			withStory = append(withStory, e)
		}
	}
	return Sample(withStory, n, rng)
}
