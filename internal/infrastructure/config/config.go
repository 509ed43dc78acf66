package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds the full service configuration. Values are layered: code
// defaults, then the optional YAML file, then environment variables.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port         int    `yaml:"port" envconfig:"SERVER_PORT"`
	ReadTimeout  string `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout string `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`

	ReadTimeoutDur  time.Duration `yaml:"-" ignored:"true"`
	WriteTimeoutDur time.Duration `yaml:"-" ignored:"true"`
}

type UpstreamConfig struct {
	// Mode selects the listing source: "binance" or "synthetic".
	Mode  string `yaml:"mode" envconfig:"UPSTREAM_MODE"`
	URL   string `yaml:"url" envconfig:"UPSTREAM_URL"`
	Fiat  string `yaml:"fiat" envconfig:"UPSTREAM_FIAT"`
	Asset string `yaml:"asset" envconfig:"UPSTREAM_ASSET"`
	Rows  int    `yaml:"rows" envconfig:"UPSTREAM_ROWS"`
}

type IngestConfig struct {
	Interval     string        `yaml:"interval" envconfig:"INGEST_INTERVAL"`
	HistoryLimit int           `yaml:"history_limit" envconfig:"INGEST_HISTORY_LIMIT"`
	IntervalDur  time.Duration `yaml:"-" ignored:"true"`
}

type SnapshotConfig struct {
	// Backend selects snapshot persistence: "file", "redis" or "off".
	Backend  string `yaml:"backend" envconfig:"SNAPSHOT_BACKEND"`
	FilePath string `yaml:"file_path" envconfig:"SNAPSHOT_FILE_PATH"`
	Addr     string `yaml:"addr" envconfig:"SNAPSHOT_REDIS_ADDR"`
	Password string `yaml:"password" envconfig:"SNAPSHOT_REDIS_PASSWORD"`
	DB       int    `yaml:"db" envconfig:"SNAPSHOT_REDIS_DB"`
	Key      string `yaml:"key" envconfig:"SNAPSHOT_REDIS_KEY"`
}

type ArchiveConfig struct {
	// DSN enables the Postgres archive when non-empty.
	DSN string `yaml:"dsn" envconfig:"ARCHIVE_DSN"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  "15s",
			WriteTimeout: "0s",
		},
		Upstream: UpstreamConfig{
			Mode:  "binance",
			URL:   "https://p2p.binance.com/bapi/c2c/v2/friendly/c2c/adv/search",
			Fiat:  "BOB",
			Asset: "USDT",
			Rows:  20,
		},
		Ingest: IngestConfig{
			Interval:     "60s",
			HistoryLimit: 1000,
		},
		Snapshot: SnapshotConfig{
			Backend:  "file",
			FilePath: "data/price_history.json",
			Addr:     "localhost:6379",
			Key:      "binance-bob-usdt:history",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// .env is optional; missing file is fine.
	_ = godotenv.Load()

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.parseDurations(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) parseDurations() error {
	var err error
	if c.Server.ReadTimeoutDur, err = time.ParseDuration(c.Server.ReadTimeout); err != nil {
		return fmt.Errorf("invalid server.read_timeout: %w", err)
	}
	if c.Server.WriteTimeoutDur, err = time.ParseDuration(c.Server.WriteTimeout); err != nil {
		return fmt.Errorf("invalid server.write_timeout: %w", err)
	}
	if c.Ingest.IntervalDur, err = time.ParseDuration(c.Ingest.Interval); err != nil {
		return fmt.Errorf("invalid ingest.interval: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	if c.Ingest.IntervalDur <= 0 {
		return fmt.Errorf("ingest.interval must be positive")
	}
	if c.Ingest.HistoryLimit <= 0 {
		return fmt.Errorf("ingest.history_limit must be positive")
	}
	if c.Upstream.Rows <= 0 {
		return fmt.Errorf("upstream.rows must be positive")
	}
	switch c.Upstream.Mode {
	case "binance", "synthetic":
	default:
		return fmt.Errorf("unknown upstream.mode: %q", c.Upstream.Mode)
	}
	switch c.Snapshot.Backend {
	case "file", "redis", "off":
	default:
		return fmt.Errorf("unknown snapshot.backend: %q", c.Snapshot.Backend)
	}
	return nil
}
