package score

import (
	"context"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/redis"
)

// Open builds the Store named by cfg.Score.Backend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Score.Backend {
	case "", "bolt":
		return OpenBolt(cfg.Score.BoltPath)
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		client, err := pkgredis.NewClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client), nil
	case "postgres":
		client, err := postgres.New(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		store, err := NewPostgresStore(ctx, client)
		if err != nil {
			client.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown score backend %q", cfg.Score.Backend)
	}
}
