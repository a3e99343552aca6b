// Package app owns the process state: configuration, the dataset and the
// components built around it. Nothing here is global; the terminal client
// and tests each construct their own App.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/dataset"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/loader"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/pager"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/present"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/quiz"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/score"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/search"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/resilience"
	"golang.org/x/sync/errgroup"
)

const diagnosticsTimeout = 3 * time.Second

type App struct {
	Config    *config.Config
	Metrics   *metrics.Metrics
	Health    *health.Checker
	Dataset   *dataset.Dataset
	Loader    *loader.Loader
	Engine    *search.Engine
	Presenter *present.Presenter
	Bus       *pager.Bus
	Analytics *analytics.Collector
	Best      *score.Best

	scores          score.Store
	producer        *kafka.Producer
	breaker         *resilience.CircuitBreaker
	stopMetrics     func(context.Context) error
	cancelAnalytics context.CancelFunc
	logger          *slog.Logger
}

// Option adjusts an App before its components are built.
type Option func(*options)

type options struct {
	source    loader.Source
	publisher analytics.Publisher
	store     score.Store
	markers   *present.Markers
}

// WithSource replaces the source derived from dataset.baseURL.
func WithSource(s loader.Source) Option {
	return func(o *options) { o.source = s }
}

// WithScoreStore replaces the store named by score.backend.
func WithScoreStore(s score.Store) Option {
	return func(o *options) { o.store = s }
}

// WithPublisher sends analytics batches to p instead of Kafka.
func WithPublisher(p analytics.Publisher) Option {
	return func(o *options) { o.publisher = p }
}

// WithMarkers sets the highlight markers the presenter wraps matches in.
func WithMarkers(m present.Markers) Option {
	return func(o *options) { o.markers = &m }
}

// New builds every component. Only an invalid dataset location is fatal;
// an unreachable score backend falls back to memory.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	a := &App{
		Config:  cfg,
		Metrics: metrics.New(),
		Health:  health.NewChecker(),
		Dataset: dataset.New(dataset.WithPronunciationIndex(cfg.Dataset.MatchPronunciation)),
		logger:  slog.Default().With("component", "app"),
	}
	a.Bus = pager.NewBus(a.Metrics)

	a.breaker = resilience.NewCircuitBreaker("dictionary", resilience.CircuitBreakerConfig{
		FailureThreshold: 5,
		ResetTimeout:     30 * time.Second,
		OnStateChange: func(name string, to resilience.State) {
			a.Metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
	src := o.source
	if src == nil {
		var err error
		if src, err = loader.NewSource(cfg.Dataset.BaseURL, a.breaker); err != nil {
			return nil, err
		}
	}
	a.Loader = loader.New(src, a.Metrics, loader.Options{
		Attempts:      cfg.Dataset.FetchAttempts,
		Timeout:       cfg.Dataset.FetchTimeout,
		MaxConcurrent: cfg.Dataset.MaxConcurrentFetches,
		RetryDelay:    200 * time.Millisecond,
		Normalize:     dataset.NormalizeOptions{FixPunctuation: cfg.Dataset.FixPunctuation},
	})

	publisher := o.publisher
	if publisher == nil && cfg.Analytics.Enabled {
		a.producer = kafka.NewProducer(cfg.Kafka)
		publisher = a.producer
	}
	a.Analytics = analytics.NewCollector(publisher, cfg.Analytics.BufferSize)
	actx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a.cancelAnalytics = cancel
	a.Analytics.Start(actx)

	a.Engine = search.NewEngine(a.Dataset, search.Options{
		Strategy:       search.Strategy(cfg.Search.Strategy),
		MinQueryLength: cfg.Search.MinQueryLength,
	}, search.WithMetrics(a.Metrics), search.WithTracker(a.Analytics))
	if o.markers != nil {
		a.Presenter = present.New(present.NewHighlighter(*o.markers))
	} else {
		a.Presenter = present.New(nil)
	}

	a.scores = o.store
	if a.scores == nil {
		s, err := score.Open(ctx, cfg)
		if err != nil {
			a.logger.Warn("score backend unavailable, best score kept in memory", "backend", cfg.Score.Backend, "error", err)
			s = score.NewMemoryStore()
		}
		a.scores = s
	}
	a.Best = score.NewBest(a.scores, cfg.Score.Key)

	a.registerChecks()
	if cfg.Metrics.Enabled {
		routes := a.Health.Handlers()
		routes["/analytics"] = analytics.NewHandler(a.Analytics.Aggregator())
		for path, h := range routes {
			routes[path] = middleware.Chain(h, middleware.Metrics(a.Metrics, path), middleware.Timeout(diagnosticsTimeout))
		}
		a.stopMetrics = a.Metrics.StartServer(cfg.Metrics.Port, routes)
	}
	a.logger.Info("application assembled",
		"source", src.String(),
		"strategy", cfg.Search.Strategy,
		"score_backend", cfg.Score.Backend,
		"analytics", publisher != nil,
	)
	return a, nil
}

func (a *App) registerChecks() {
	a.Health.Register("dataset", func(ctx context.Context) health.ComponentHealth {
		switch {
		case !a.Dataset.IsReady():
			return health.ComponentHealth{Status: health.StatusDown, Message: "loading"}
		case a.Dataset.Len() == 0:
			return health.ComponentHealth{Status: health.StatusDown, Message: "no entries loaded"}
		case a.Dataset.FailedPartitions() > 0:
			return health.ComponentHealth{
				Status:  health.StatusDegraded,
				Message: fmt.Sprintf("%d partitions failed", a.Dataset.FailedPartitions()),
			}
		}
		return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d entries", a.Dataset.Len())}
	})
	a.Health.Register("dictionary_source", func(ctx context.Context) health.ComponentHealth {
		if st := a.breaker.State(); st != resilience.StateClosed {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "circuit " + st.String()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	a.Health.Register("score_store", health.Ping(a.scores.Ping))
}

// Load is the outcome of loading the dictionary and its companions.
type Load struct {
	Report loader.Report
	Exams  []present.ExamItem
	// Failed is set when no dictionary resource could be loaded at all.
	Failed bool
}

// Refs lists the dictionary resources to fetch: the numbered partitions, or
// the single full resource when the partition count is zero.
func (a *App) Refs() []string {
	d := a.Config.Dataset
	if d.PartitionCount == 0 {
		return []string{d.FullResource}
	}
	return loader.PartitionRefs(d.PartitionPattern, d.PartitionCount)
}

// Load fetches the dictionary and the exam resource concurrently, then
// merges glosses. It never fails; failures are reported in the result.
func (a *App) Load(ctx context.Context) Load {
	var (
		res  Load
		sets []loader.ExamSet
	)
	var g errgroup.Group
	g.Go(func() error {
		res.Report = a.Loader.LoadPartitions(ctx, a.Dataset, a.Refs())
		return nil
	})
	if ref := a.Config.Dataset.ExamResource; ref != "" {
		g.Go(func() error {
			var err error
			if sets, err = a.Loader.LoadExams(ctx, ref); err != nil {
				a.logger.Warn("exam resource unavailable", "ref", ref, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if refs := a.Config.Dataset.GlossResources; len(refs) > 0 {
		a.Loader.LoadGlosses(ctx, a.Dataset, refs)
	}
	res.Exams = present.ExamItems(sets, a.Dataset)
	res.Failed = len(res.Report.Partitions) > 0 && res.Report.Loaded() == 0
	return res
}

// NewGame starts a quiz over the loaded dataset.
func (a *App) NewGame(ctx context.Context) *quiz.Game {
	return quiz.NewGame(ctx, a.Dataset, a.Best, quiz.WithMetrics(a.Metrics), quiz.WithTracker(a.Analytics))
}

// NewLive wires the engine behind the configured debounce.
func (a *App) NewLive(deliver func(search.Result)) *search.Live {
	return search.NewLive(a.Engine, a.Config.Search.Debounce, deliver, a.Metrics)
}

// Close flushes analytics and releases external resources.
func (a *App) Close() error {
	a.Analytics.Close()
	a.cancelAnalytics()
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("closing kafka producer", "error", err)
		}
	}
	if a.stopMetrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.stopMetrics(ctx); err != nil {
			a.logger.Warn("stopping diagnostics server", "error", err)
		}
	}
	if err := a.scores.Close(); err != nil {
		return fmt.Errorf("closing score store: %w", err)
	}
	return nil
}

// Diagnostics reports the current health summary, for display.
func (a *App) Diagnostics(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return a.Health.Run(ctx).Summary()
}
