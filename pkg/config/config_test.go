package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Dataset.PartitionCount)
	assert.Equal(t, "idioms_part%d.json", cfg.Dataset.PartitionPattern)
	assert.Equal(t, 2, cfg.Search.MinQueryLength)
	assert.Equal(t, 3, cfg.Pager.PageSize)
	assert.Equal(t, 5, cfg.Pager.ButtonWindow)
	assert.Equal(t, "idiomGameBestScore", cfg.Score.Key)
	assert.Equal(t, "bolt", cfg.Score.Backend)
	assert.Zero(t, cfg.Dataset.FetchTimeout)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idiomdex.yaml")
	data := []byte(`
dataset:
  baseURL: https://example.org/dict
  partitionCount: 4
search:
  strategy: scan
  debounce: 100ms
pager:
  mode: virtual
  rowHeight: 180
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.org/dict", cfg.Dataset.BaseURL)
	assert.Equal(t, 4, cfg.Dataset.PartitionCount)
	assert.Equal(t, "scan", cfg.Search.Strategy)
	assert.Equal(t, 100*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, "virtual", cfg.Pager.Mode)
	assert.Equal(t, 180, cfg.Pager.RowHeight)
	assert.Equal(t, 5, cfg.Pager.Buffer, "unset fields keep their defaults")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("IDX_SEARCH_STRATEGY", "scan")
	t.Setenv("IDX_DATASET_PARTITIONS", "3")
	t.Setenv("IDX_KAFKA_BROKERS", "a:9092,b:9092")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "scan", cfg.Search.Strategy)
	assert.Equal(t, 3, cfg.Dataset.PartitionCount)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"strategy", func(c *Config) { c.Search.Strategy = "fuzzy" }},
		{"mode", func(c *Config) { c.Pager.Mode = "infinite" }},
		{"backend", func(c *Config) { c.Score.Backend = "sqlite" }},
		{"pattern", func(c *Config) { c.Dataset.PartitionPattern = "idioms.json" }},
		{"page size", func(c *Config) { c.Pager.PageSize = 0 }},
		{"min query", func(c *Config) { c.Search.MinQueryLength = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	dsn := Default().Postgres.DSN()
	assert.Contains(t, dsn, "dbname=idiomdex")
	assert.Contains(t, dsn, "sslmode=disable")
}
