// Package quiz runs the multiple-choice game: show a definition, pick the
// matching entry among three options.
package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/dataset"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/score"
	apperrors "github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/metrics"
)

const (
	OptionCount   = 3
	PointsPerHit  = 10
	definitionTry = 10
)

// EntrySource supplies the entries questions are drawn from.
type EntrySource interface {
	Entries() []*dataset.Entry
}

// Question is one round. Options holds exactly OptionCount distinct entries.
type Question struct {
	Definition string
	Options    []*dataset.Entry
	correct    int
}

// Prompt is the question line shown to the player.
func (q Question) Prompt() string {
	return fmt.Sprintf("“%s” 对应的成语是？", q.Definition)
}

type Answer struct {
	Correct      bool
	CorrectIndex int
	Score        int
	Best         int
	NewBest      bool
}

// Tracker receives one event per answer.
type Tracker interface {
	Track(event any)
}

type Option func(*Game)

func WithRand(r *rand.Rand) Option {
	return func(g *Game) { g.rng = r }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Game) { g.metrics = m }
}

func WithTracker(t Tracker) Option {
	return func(g *Game) { g.tracker = t }
}

type Game struct {
	mu      sync.Mutex
	src     EntrySource
	best    *score.Best
	rng     *rand.Rand
	score   int
	top     int
	current *Question
	metrics *metrics.Metrics
	tracker Tracker
	logger  *slog.Logger
}

// NewGame reads the persisted best score once.
func NewGame(ctx context.Context, src EntrySource, best *score.Best, opts ...Option) *Game {
	g := &Game{
		src:    src,
		best:   best,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger: slog.Default().With("component", "quiz"),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.top = best.Load(ctx)
	return g
}

// Next draws a new question. It fails with ErrNotEnoughEntries when fewer
// than OptionCount entries are loaded.
func (g *Game) Next() (Question, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	entries := g.src.Entries()
	if len(entries) < OptionCount {
		return Question{}, apperrors.Newf(apperrors.ErrNotEnoughEntries, 0, "have %d entries, need %d", len(entries), OptionCount)
	}

	answerAt := g.rng.IntN(len(entries))
	for range definitionTry {
		if entries[answerAt].Definition != "" {
			break
		}
		answerAt = g.rng.IntN(len(entries))
	}
	answer := entries[answerAt]

	picked := map[int]struct{}{answerAt: {}}
	options := []*dataset.Entry{answer}
	for len(options) < OptionCount {
		i := g.rng.IntN(len(entries))
		if _, dup := picked[i]; dup {
			continue
		}
		picked[i] = struct{}{}
		options = append(options, entries[i])
	}
	g.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	q := Question{Definition: answer.Definition, Options: options}
	for i, o := range options {
		if o == answer {
			q.correct = i
		}
	}
	g.current = &q
	return q, nil
}

// Answer checks index against the current question. A correct answer adds
// PointsPerHit and closes the question; a wrong one leaves both unchanged.
// A new best score is persisted immediately.
func (g *Game) Answer(ctx context.Context, index int) (Answer, error) {
	g.mu.Lock()
	q := g.current
	if q == nil {
		g.mu.Unlock()
		return Answer{}, apperrors.New(apperrors.ErrInvalidInput, 0, "no open question")
	}
	if index < 0 || index >= len(q.Options) {
		g.mu.Unlock()
		return Answer{}, apperrors.Newf(apperrors.ErrInvalidInput, 0, "option %d out of range", index)
	}
	res := Answer{Correct: index == q.correct, CorrectIndex: q.correct}
	if res.Correct {
		g.score += PointsPerHit
		g.current = nil
		if g.score > g.top {
			g.top = g.score
			res.NewBest = true
		}
	}
	res.Score, res.Best = g.score, g.top
	g.mu.Unlock()

	if res.NewBest {
		if err := g.best.Save(ctx, res.Best); err != nil {
			g.logger.Warn("best score not persisted", "score", res.Best, "error", err)
		}
	}
	g.observe(q.Options[q.correct].Key, res)
	return res, nil
}

func (g *Game) observe(key string, res Answer) {
	result := "wrong"
	if res.Correct {
		result = "correct"
	}
	if g.metrics != nil {
		g.metrics.QuizAnswersTotal.WithLabelValues(result).Inc()
	}
	if g.tracker != nil {
		g.tracker.Track(analytics.QuizEvent{
			Type:      analytics.EventQuizAnswer,
			Key:       key,
			Correct:   res.Correct,
			Score:     res.Score,
			Timestamp: time.Now().UTC(),
		})
	}
	g.logger.Debug("answer checked", "key", key, "result", result, "score", res.Score)
}

// Restart zeroes the current score and draws a question. The best score
// is kept.
func (g *Game) Restart() (Question, error) {
	g.mu.Lock()
	g.score = 0
	g.current = nil
	g.mu.Unlock()
	return g.Next()
}

func (g *Game) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score
}

func (g *Game) Best() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.top
}

// Current returns the open question, if any.
func (g *Game) Current() (Question, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return Question{}, false
	}
	return *g.current, true
}
