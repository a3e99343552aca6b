// Package loader fetches the partitioned dictionary and its companion
// resources concurrently and folds each partition into the dataset as soon
// as it arrives. A failed partition is logged and skipped; readiness fires
// once every partition has settled either way.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/dataset"
	apperrors "github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/resilience"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/tracing"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Options tune fetching and normalization.
type Options struct {
	Attempts      int
	Timeout       time.Duration
	MaxConcurrent int
	RetryDelay    time.Duration
	Normalize     dataset.NormalizeOptions
}

// PartitionResult is the settled outcome of one partition.
type PartitionResult struct {
	Ref        string
	Added      int
	Duplicates int
	Skipped    int
	Elapsed    time.Duration
	Err        error
}

// Report summarises a whole dataset load.
type Report struct {
	Partitions []PartitionResult
	Entries    int
	Elapsed    time.Duration
}

func (r Report) Failed() int {
	n := 0
	for _, p := range r.Partitions {
		if p.Err != nil {
			n++
		}
	}
	return n
}

func (r Report) Loaded() int {
	return len(r.Partitions) - r.Failed()
}

type Loader struct {
	source  Source
	opts    Options
	metrics *metrics.Metrics
	flight  singleflight.Group
	logger  *slog.Logger
}

// New returns a Loader reading from source. m may be nil.
func New(source Source, m *metrics.Metrics, opts Options) *Loader {
	if opts.Attempts <= 0 {
		opts.Attempts = 1
	}
	return &Loader{
		source:  source,
		opts:    opts,
		metrics: m,
		logger:  slog.Default().With("component", "loader", "source", source.String()),
	}
}

// Fetch retrieves one resource with retry and timeout. Concurrent fetches
// of the same ref share a single request.
func (l *Loader) Fetch(ctx context.Context, ref string) ([]byte, error) {
	v, err, shared := l.flight.Do(ref, func() (any, error) {
		var body []byte
		err := resilience.Retry(ctx, "fetch "+ref, resilience.RetryConfig{
			MaxAttempts:  l.opts.Attempts,
			InitialDelay: l.opts.RetryDelay,
			Retryable:    apperrors.Retryable,
		}, func() error {
			return resilience.WithTimeout(ctx, l.opts.Timeout, ref, func(ctx context.Context) error {
				b, err := l.source.Fetch(ctx, ref)
				if err != nil {
					return err
				}
				body = b
				return nil
			})
		})
		return body, err
	})
	if shared {
		l.logger.Debug("fetch shared with in-flight request", "ref", ref)
	}
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// LoadPartitions fetches every ref concurrently, appends each partition to
// ds in completion order and marks ds ready once all have settled.
func (l *Loader) LoadPartitions(ctx context.Context, ds *dataset.Dataset, refs []string) Report {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "dataset.load", "")
	span.SetAttr("partitions", len(refs))

	results := make([]PartitionResult, len(refs))
	var g errgroup.Group
	if l.opts.MaxConcurrent > 0 {
		g.SetLimit(l.opts.MaxConcurrent)
	}
	for i, ref := range refs {
		g.Go(func() error {
			results[i] = l.loadPartition(ctx, ds, ref)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Partitions: results, Entries: ds.Len(), Elapsed: time.Since(start)}
	ds.MarkReady(report.Failed())
	if l.metrics != nil {
		l.metrics.DatasetReady.Set(1)
		l.metrics.EntriesLoaded.Set(float64(report.Entries))
	}

	span.SetAttr("entries", report.Entries)
	span.SetAttr("failed", report.Failed())
	var spanErr error
	if report.Failed() > 0 {
		spanErr = fmt.Errorf("%d of %d partitions failed", report.Failed(), len(refs))
	}
	span.End(spanErr)
	span.Log(l.logger)

	l.logger.Info("dataset load settled",
		"entries", report.Entries,
		"loaded", report.Loaded(),
		"failed", report.Failed(),
		"elapsed", report.Elapsed,
	)
	return report
}

func (l *Loader) loadPartition(ctx context.Context, ds *dataset.Dataset, ref string) PartitionResult {
	start := time.Now()
	ctx, span := tracing.StartChildSpan(ctx, "partition")
	span.SetAttr("ref", ref)
	res := PartitionResult{Ref: ref}

	body, err := l.Fetch(ctx, ref)
	if err == nil {
		var batch dataset.Batch
		batch, err = dataset.Normalize(body, l.opts.Normalize)
		if err == nil {
			appended := ds.Append(batch.Entries)
			res.Added = appended.Added
			res.Duplicates = len(appended.Duplicates)
			res.Skipped = batch.Skipped
		}
	}
	res.Err = err
	res.Elapsed = time.Since(start)
	span.SetAttr("added", res.Added)
	span.End(err)

	if err != nil {
		l.logger.Error("partition failed", "ref", ref, "status", apperrors.StatusCode(err), "error", err)
	} else {
		l.logger.Debug("partition loaded", "ref", ref, "added", res.Added, "duplicates", res.Duplicates, "skipped", res.Skipped)
	}
	if l.metrics != nil {
		outcome := "loaded"
		if err != nil {
			outcome = "failed"
		}
		l.metrics.PartitionsTotal.WithLabelValues(outcome).Inc()
		l.metrics.PartitionLatency.Observe(res.Elapsed.Seconds())
		l.metrics.DuplicateKeysTotal.Add(float64(res.Duplicates))
		l.metrics.SkippedRecordsTotal.Add(float64(res.Skipped))
		l.metrics.EntriesLoaded.Set(float64(ds.Len()))
	}
	return res
}
