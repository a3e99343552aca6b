// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// subsystem (Dataset, Search, Pager, Score, Redis, Postgres, Kafka, etc.).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Dataset   DatasetConfig   `yaml:"dataset"`
	Search    SearchConfig    `yaml:"search"`
	Pager     PagerConfig     `yaml:"pager"`
	Score     ScoreConfig     `yaml:"score"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Redis     RedisConfig     `yaml:"redis"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// DatasetConfig locates the partitioned dictionary and its optional
// companion resources.
type DatasetConfig struct {
	// BaseURL is either an http(s) URL or a local directory.
	BaseURL              string        `yaml:"baseURL"`
	PartitionPattern     string        `yaml:"partitionPattern"`
	PartitionCount       int           `yaml:"partitionCount"`
	FullResource         string        `yaml:"fullResource"`
	ExamResource         string        `yaml:"examResource"`
	GlossResources       []string      `yaml:"glossResources"`
	FetchAttempts        int           `yaml:"fetchAttempts"`
	// FetchTimeout bounds one fetch attempt. Zero leaves it to the transport.
	FetchTimeout         time.Duration `yaml:"fetchTimeout"`
	MaxConcurrentFetches int           `yaml:"maxConcurrentFetches"`
	FixPunctuation       bool          `yaml:"fixPunctuation"`
	MatchPronunciation   bool          `yaml:"matchPronunciation"`
}

// SearchConfig controls query handling.
type SearchConfig struct {
	Strategy       string        `yaml:"strategy"`
	MinQueryLength int           `yaml:"minQueryLength"`
	Debounce       time.Duration `yaml:"debounce"`
	SampleSize     int           `yaml:"sampleSize"`
}

// PagerConfig controls discrete pagination and the virtual list.
type PagerConfig struct {
	Mode         string `yaml:"mode"`
	PageSize     int    `yaml:"pageSize"`
	ButtonWindow int    `yaml:"buttonWindow"`
	RowHeight    int    `yaml:"rowHeight"`
	Buffer       int    `yaml:"buffer"`
}

// ScoreConfig selects where the quiz best score is persisted.
type ScoreConfig struct {
	Backend  string `yaml:"backend"`
	Key      string `yaml:"key"`
	BoltPath string `yaml:"boltPath"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"poolSize"`
}

// AnalyticsConfig controls the search analytics collector.
type AnalyticsConfig struct {
	Enabled    bool `yaml:"enabled"`
	BufferSize int  `yaml:"bufferSize"`
}

// LoggingConfig controls structured logging level, output format and
// destination. An empty File logs to stderr.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with sensible defaults for any
// missing values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config with defaults for local use.
func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			BaseURL:          "dictionaries",
			PartitionPattern: "idioms_part%d.json",
			PartitionCount:   10,
			FullResource:     "idioms.min.json",
			ExamResource:     "idioms_cam_masked.min.json",
			FetchAttempts:    2,
		},
		Search: SearchConfig{
			Strategy:       "indexed",
			MinQueryLength: 2,
			Debounce:       150 * time.Millisecond,
			SampleSize:     3,
		},
		Pager: PagerConfig{
			Mode:         "pages",
			PageSize:     3,
			ButtonWindow: 5,
			RowHeight:    8,
			Buffer:       5,
		},
		Score: ScoreConfig{
			Backend:  "bolt",
			Key:      "idiomGameBestScore",
			BoltPath: "idiomdex.db",
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "idiomdex",
			User:            "idiomdex",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "idiomdex-search-events",
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 4,
		},
		Analytics: AnalyticsConfig{
			BufferSize: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "idiomdex.log",
		},
		Metrics: MetricsConfig{
			Port: 9090,
		},
	}
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	switch c.Search.Strategy {
	case "indexed", "scan":
	default:
		return fmt.Errorf("search.strategy must be indexed or scan, got %q", c.Search.Strategy)
	}
	switch c.Pager.Mode {
	case "pages", "virtual":
	default:
		return fmt.Errorf("pager.mode must be pages or virtual, got %q", c.Pager.Mode)
	}
	switch c.Score.Backend {
	case "bolt", "redis", "postgres", "memory":
	default:
		return fmt.Errorf("score.backend must be bolt, redis, postgres or memory, got %q", c.Score.Backend)
	}
	if c.Dataset.PartitionCount < 0 {
		return fmt.Errorf("dataset.partitionCount must not be negative")
	}
	if c.Dataset.PartitionCount > 0 && !strings.Contains(c.Dataset.PartitionPattern, "%d") {
		return fmt.Errorf("dataset.partitionPattern must contain %%d, got %q", c.Dataset.PartitionPattern)
	}
	if c.Search.MinQueryLength < 1 {
		return fmt.Errorf("search.minQueryLength must be at least 1")
	}
	if c.Pager.PageSize < 1 || c.Pager.ButtonWindow < 1 {
		return fmt.Errorf("pager.pageSize and pager.buttonWindow must be positive")
	}
	if c.Pager.RowHeight < 1 || c.Pager.Buffer < 0 {
		return fmt.Errorf("pager.rowHeight must be positive and pager.buffer not negative")
	}
	return nil
}

// applyEnvOverrides reads IDX_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("IDX_DATASET_BASE_URL"); v != "" {
		cfg.Dataset.BaseURL = v
	}
	if v := os.Getenv("IDX_DATASET_PARTITIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Dataset.PartitionCount = n
		}
	}
	if v := os.Getenv("IDX_SEARCH_STRATEGY"); v != "" {
		cfg.Search.Strategy = v
	}
	if v := os.Getenv("IDX_SCORE_BACKEND"); v != "" {
		cfg.Score.Backend = v
	}
	if v := os.Getenv("IDX_SCORE_BOLT_PATH"); v != "" {
		cfg.Score.BoltPath = v
	}
	if v := os.Getenv("IDX_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("IDX_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("IDX_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("IDX_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("IDX_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("IDX_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("IDX_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("IDX_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("IDX_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("IDX_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("IDX_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
			cfg.Metrics.Enabled = true
		}
	}
}
