// Package score persists the quiz best score: one integer under a fixed
// key, stored as its decimal string. Reads never fail the caller; an absent,
// unreadable or unparsable value counts as zero.
package score

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/errors"
)

// Store is a durable string key/value store.
type Store interface {
	// Get returns found=false with a nil error when key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Put(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
	Close() error
}

// Best reads and writes the best score through a Store.
type Best struct {
	store  Store
	key    string
	logger *slog.Logger
}

func NewBest(store Store, key string) *Best {
	return &Best{
		store:  store,
		key:    key,
		logger: slog.Default().With("component", "best-score", "key", key),
	}
}

// Load returns the stored best score, or 0 when it cannot be read.
func (b *Best) Load(ctx context.Context) int {
	raw, found, err := b.store.Get(ctx, b.key)
	if err != nil {
		b.logger.Warn("best score read failed, using 0", "error", err)
		return 0
	}
	if !found {
		return 0
	}
	n, err := Parse(raw)
	if err != nil {
		b.logger.Warn("best score unparsable, using 0", "error", err)
		return 0
	}
	return n
}

// Save writes score unconditionally.
func (b *Best) Save(ctx context.Context, score int) error {
	if err := b.store.Put(ctx, b.key, strconv.Itoa(score)); err != nil {
		return fmt.Errorf("saving best score: %w", err)
	}
	b.logger.Debug("best score saved", "score", score)
	return nil
}

// Parse reads a stored score. Negative values clamp to 0.
func Parse(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperrors.Newf(apperrors.ErrUnparsableScore, 0, "%q", raw)
	}
	return max(n, 0), nil
}
