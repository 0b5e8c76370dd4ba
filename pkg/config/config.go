// Package config loads and validates the word indexer configuration from an
// optional YAML file with environment-variable overrides. The indexer itself
// needs only the Indexer section; the remaining sections control logging,
// metrics output and the optional sinks the finished index is published to.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/Adithya-Monish-Kumar-K/wordindex/pkg/errors"
)

// Config is the top-level application configuration.
type Config struct {
	Indexer  IndexerConfig  `yaml:"indexer"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Tracing  TracingConfig  `yaml:"tracing"`
	Publish  PublishConfig  `yaml:"publish"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	Kafka    KafkaConfig    `yaml:"kafka"`
}

// IndexerConfig controls the table and tokenizer.
type IndexerConfig struct {
	InitialCapacity int `yaml:"initialCapacity"`
	MaxWordLength   int `yaml:"maxWordLength"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls where run metrics are written. The file uses the
// Prometheus text exposition format.
type MetricsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	TextfilePath string `yaml:"textfilePath"`
}

// TracingConfig toggles logging of per-phase spans.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// PublishConfig bounds how long and how often each sink is attempted.
type PublishConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxAttempts  int           `yaml:"maxAttempts"`
	InitialDelay time.Duration `yaml:"initialDelay"`
}

// RedisConfig holds the connection and key layout of the Redis sink.
type RedisConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	PoolSize  int           `yaml:"poolSize"`
	KeyPrefix string        `yaml:"keyPrefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// PostgresConfig holds PostgreSQL connection parameters for the Postgres sink.
type PostgresConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	Table           string        `yaml:"table"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// KafkaConfig holds the brokers and topic for index completion events.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// MaxWordLengthLimit is the largest accepted indexer.maxWordLength.
const MaxWordLengthLimit = 1 << 20

// Load reads a YAML config file (if provided), applies environment-variable
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
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

// Default returns the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Indexer: IndexerConfig{
			InitialCapacity: 1000,
			MaxWordLength:   255,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Publish: PublishConfig{
			Timeout:      10 * time.Second,
			MaxAttempts:  3,
			InitialDelay: 200 * time.Millisecond,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			PoolSize:  4,
			KeyPrefix: "wordindex",
			TTL:       24 * time.Hour,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "wordindex",
			User:            "wordindex",
			Password:        "localdev",
			SSLMode:         "disable",
			Table:           "word_occurrences",
			MaxOpenConns:    4,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "index.complete",
		},
	}
}

// Validate rejects settings the indexer cannot run with.
func (c *Config) Validate() error {
	if c.Indexer.InitialCapacity < 1 {
		return apperrors.Newf(apperrors.ErrInvalidConfig, apperrors.ExitFailure,
			"indexer.initialCapacity must be at least 1, got %d", c.Indexer.InitialCapacity)
	}
	if c.Indexer.MaxWordLength < 1 || c.Indexer.MaxWordLength > MaxWordLengthLimit {
		return apperrors.Newf(apperrors.ErrInvalidConfig, apperrors.ExitFailure,
			"indexer.maxWordLength must be between 1 and %d, got %d", MaxWordLengthLimit, c.Indexer.MaxWordLength)
	}
	if c.Metrics.Enabled && c.Metrics.TextfilePath == "" {
		return apperrors.New(apperrors.ErrInvalidConfig, apperrors.ExitFailure,
			"metrics.textfilePath is required when metrics are enabled")
	}
	if c.Postgres.Enabled && c.Postgres.Table == "" {
		return apperrors.New(apperrors.ErrInvalidConfig, apperrors.ExitFailure,
			"postgres.table is required when the postgres sink is enabled")
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return apperrors.New(apperrors.ErrInvalidConfig, apperrors.ExitFailure,
			"kafka.brokers and kafka.topic are required when the kafka sink is enabled")
	}
	return nil
}

// applyEnvOverrides reads WI_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WI_INDEXER_INITIAL_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Indexer.InitialCapacity = n
		}
	}
	if v := os.Getenv("WI_INDEXER_MAX_WORD_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Indexer.MaxWordLength = n
		}
	}
	if v := os.Getenv("WI_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("WI_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("WI_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.TextfilePath = v
	}
	if v := os.Getenv("WI_TRACING_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tracing.Enabled = b
		}
	}
	if v := os.Getenv("WI_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("WI_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("WI_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("WI_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("WI_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("WI_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
}
