package quiz

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/dataset"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/score"
	apperrors "github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticEntries []*dataset.Entry

func (s staticEntries) Entries() []*dataset.Entry { return s }

func pool(keys ...string) staticEntries {
	out := make(staticEntries, len(keys))
	for i, k := range keys {
		out[i] = &dataset.Entry{Key: k, Definition: "释义" + k}
	}
	return out
}

type recorder struct{ events []any }

func (r *recorder) Track(e any) { r.events = append(r.events, e) }

const bestKey = "idiomGameBestScore"

func newGame(t *testing.T, src EntrySource, store score.Store, opts ...Option) *Game {
	t.Helper()
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(7, 11)))}, opts...)
	return NewGame(context.Background(), src, score.NewBest(store, bestKey), opts...)
}

func wrongIndex(q Question) int {
	return (q.correct + 1) % len(q.Options)
}

func TestNextDrawsDistinctOptionsIncludingAnswer(t *testing.T) {
	g := newGame(t, pool("一", "二", "三", "四", "五"), score.NewMemoryStore())
	for range 50 {
		q, err := g.Next()
		require.NoError(t, err)
		require.Len(t, q.Options, OptionCount)
		seen := map[string]bool{}
		for _, o := range q.Options {
			assert.False(t, seen[o.Key])
			seen[o.Key] = true
		}
		assert.Equal(t, q.Definition, q.Options[q.correct].Definition)
		assert.Contains(t, q.Prompt(), q.Definition)
	}
}

func TestNextNeedsThreeEntries(t *testing.T) {
	g := newGame(t, pool("一", "二"), score.NewMemoryStore())
	_, err := g.Next()
	assert.True(t, errors.Is(err, apperrors.ErrNotEnoughEntries))
}

func TestAnswerScoring(t *testing.T) {
	ctx := context.Background()
	store := score.NewMemoryStore()
	tracker := &recorder{}
	g := newGame(t, pool("一", "二", "三", "四"), store, WithMetrics(metrics.New()), WithTracker(tracker))

	q, err := g.Next()
	require.NoError(t, err)

	res, err := g.Answer(ctx, wrongIndex(q))
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Zero(t, res.Score)

	res, err = g.Answer(ctx, q.correct)
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, 10, res.Score)
	assert.True(t, res.NewBest)

	_, err = g.Answer(ctx, q.correct)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), "question closed after a hit")

	v, found, _ := store.Get(ctx, bestKey)
	assert.True(t, found)
	assert.Equal(t, "10", v)

	require.Len(t, tracker.events, 2)
	ev := tracker.events[1].(analytics.QuizEvent)
	assert.True(t, ev.Correct)
	assert.Equal(t, 10, ev.Score)
}

func TestBestScoreOnlyWrittenWhenExceeded(t *testing.T) {
	ctx := context.Background()
	store := score.NewMemoryStore()
	require.NoError(t, store.Put(ctx, bestKey, "20"))
	g := newGame(t, pool("一", "二", "三"), store)
	assert.Equal(t, 20, g.Best())

	for i, wantNew := range []bool{false, false, true} {
		q, err := g.Next()
		require.NoError(t, err)
		res, err := g.Answer(ctx, q.correct)
		require.NoError(t, err)
		assert.Equal(t, wantNew, res.NewBest, "hit %d", i+1)
	}
	v, _, _ := store.Get(ctx, bestKey)
	assert.Equal(t, "30", v)
}

func TestRestartKeepsBest(t *testing.T) {
	ctx := context.Background()
	g := newGame(t, pool("一", "二", "三"), score.NewMemoryStore())
	q, _ := g.Next()
	_, err := g.Answer(ctx, q.correct)
	require.NoError(t, err)

	_, err = g.Restart()
	require.NoError(t, err)
	assert.Zero(t, g.Score())
	assert.Equal(t, 10, g.Best())
	_, open := g.Current()
	assert.True(t, open)
}

func TestAnswerRejectsBadIndex(t *testing.T) {
	g := newGame(t, pool("一", "二", "三"), score.NewMemoryStore())
	_, err := g.Answer(context.Background(), 0)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	g.Next()
	_, err = g.Answer(context.Background(), 3)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}
