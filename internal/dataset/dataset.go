package dataset

import (
	"log/slog"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/indexer/index"
)

// AppendResult reports what a single Append did.
type AppendResult struct {
	Added      int
	Duplicates []string
}

// Dataset is the append-only, insertion-ordered collection of entries
// together with the key lookup and the inverted index over them. Each
// Append updates all three under one lock, so readers never observe an
// entry that is missing from either index. Duplicate keys keep the first
// entry seen; later ones are dropped and reported.
type Dataset struct {
	mu                 sync.RWMutex
	entries            []*Entry
	byKey              map[string]*Entry
	index              *index.Inverted
	matchPronunciation bool

	readyOnce sync.Once
	ready     chan struct{}
	failed    int
	logger    *slog.Logger
}

type Option func(*Dataset)

// WithPronunciationIndex also indexes pronunciations.
func WithPronunciationIndex(enabled bool) Option {
	return func(d *Dataset) { d.matchPronunciation = enabled }
}

func New(opts ...Option) *Dataset {
	d := &Dataset{
		byKey:  make(map[string]*Entry),
		index:  index.NewInverted(),
		ready:  make(chan struct{}),
		logger: slog.Default().With("component", "dataset"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Append adds a normalized batch in order.
func (d *Dataset) Append(batch []Entry) AppendResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	var res AppendResult
	for i := range batch {
		e := batch[i]
		if _, dup := d.byKey[e.Key]; dup {
			res.Duplicates = append(res.Duplicates, e.Key)
			continue
		}
		if e.keyLower == "" {
			e.derive()
		}
		e.Seq = len(d.entries)
		d.entries = append(d.entries, &e)
		d.byKey[e.Key] = &e
		d.index.Add(e.Seq, e.searchable(d.matchPronunciation)...)
		d.index.AddKey(e.Seq, e.Key)
		res.Added++
	}
	if len(res.Duplicates) > 0 {
		d.logger.Warn("duplicate keys dropped", "count", len(res.Duplicates), "first", res.Duplicates[0])
	}
	return res
}

// Enrich merges glosses into existing entries by key, replacing each
// touched entry with an updated copy. It returns the number merged.
func (d *Dataset) Enrich(glosses map[string]Gloss) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	merged := 0
	for key, g := range glosses {
		old, ok := d.byKey[key]
		if !ok || g.IsZero() {
			continue
		}
		updated := *old
		if g.Literal != "" {
			updated.Gloss.Literal = g.Literal
		}
		if g.Figurative != "" {
			updated.Gloss.Figurative = g.Figurative
		}
		d.entries[old.Seq] = &updated
		d.byKey[key] = &updated
		merged++
	}
	return merged
}

// MarkReady signals that every partition has settled. failed is the number
// of partitions that could not be loaded. Only the first call counts.
func (d *Dataset) MarkReady(failed int) {
	d.readyOnce.Do(func() {
		d.mu.Lock()
		d.failed = failed
		d.mu.Unlock()
		close(d.ready)
		d.logger.Info("dataset ready", "entries", d.Len(), "failed_partitions", failed)
	})
}

// Ready is closed once every partition has settled.
func (d *Dataset) Ready() <-chan struct{} {
	return d.ready
}

func (d *Dataset) IsReady() bool {
	select {
	case <-d.ready:
		return true
	default:
		return false
	}
}

// FailedPartitions is meaningful once the dataset is ready.
func (d *Dataset) FailedPartitions() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.failed
}

func (d *Dataset) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Entries returns a snapshot of all entries in insertion order.
func (d *Dataset) Entries() []*Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]*Entry(nil), d.entries...)
}

func (d *Dataset) Lookup(key string) (*Entry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.byKey[key]
	return e, ok
}

// MatchesPronunciation reports whether pronunciations are searchable.
func (d *Dataset) MatchesPronunciation() bool {
	return d.matchPronunciation
}

// MatchTokens resolves tokens through the inverted index: tokens that no
// term contains are skipped, the rest are intersected. Results are in
// insertion order.
func (d *Dataset) MatchTokens(tokens []string) []*Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.resolve(d.index.Match(tokens))
}

// Suggest returns up to limit entries whose key starts with prefix.
func (d *Dataset) Suggest(prefix string, limit int) []*Entry {
	if prefix == "" {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.resolve(d.index.Prefix(prefix, limit))
}

// resolve must be called with mu held.
func (d *Dataset) resolve(postings index.PostingList) []*Entry {
	out := make([]*Entry, 0, len(postings))
	for _, seq := range postings {
		out = append(out, d.entries[seq])
	}
	return out
}
