package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/research"
	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/scoring"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Rescore  RescoreConfig  `yaml:"rescore"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Research ResearchConfig `yaml:"research"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port              int    `yaml:"port"`
	MetricsPort       int    `yaml:"metrics_port"`
	AdminToken        string `yaml:"admin_token"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

// DatabaseConfig selects Postgres when URL is set; otherwise products are
// kept in memory on the local device.
type DatabaseConfig struct {
	URL     string `yaml:"url"`
	Migrate bool   `yaml:"migrate"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type RescoreConfig struct {
	Enabled         bool `yaml:"enabled"`
	TickIntervalMs  int  `yaml:"tick_interval_ms"`
	BatchSize       int  `yaml:"batch_size"`
	StatsIntervalMs int  `yaml:"stats_interval_ms"`
}

type ScoringConfig struct {
	Weights ScoringWeights `yaml:"weights"`
}

type ScoringWeights struct {
	Revenue     float64 `yaml:"revenue"`
	Demand      float64 `yaml:"demand"`
	Competition float64 `yaml:"competition"`
	Barriers    float64 `yaml:"barriers"`
	Seasonality float64 `yaml:"seasonality"`
	Margin      float64 `yaml:"margin"`
	Reviews     float64 `yaml:"reviews"`
	Price       float64 `yaml:"price"`
}

type ResearchConfig struct {
	Marketplace string `yaml:"marketplace"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Rescore.TickIntervalMs) * time.Millisecond
}

func (c *Config) StatsInterval() time.Duration {
	return time.Duration(c.Rescore.StatsIntervalMs) * time.Millisecond
}

// WeightSet converts the configured default weights for the scoring engine.
func (s ScoringConfig) WeightSet() scoring.WeightSet {
	return scoring.WeightSet{
		Revenue:     s.Weights.Revenue,
		Demand:      s.Weights.Demand,
		Competition: s.Weights.Competition,
		Barriers:    s.Weights.Barriers,
		Seasonality: s.Weights.Seasonality,
		Margin:      s.Weights.Margin,
		Reviews:     s.Weights.Reviews,
		Price:       s.Weights.Price,
	}
}

// LogLevel maps logging.level to a slog level, defaulting to info.
func (l LoggingConfig) LogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Load(path string) (*Config, error) {
	dw := scoring.DefaultWeights()
	cfg := &Config{
		Server: ServerConfig{
			Port:              8700,
			MetricsPort:       8701,
			RequestsPerMinute: 120,
		},
		Database: DatabaseConfig{
			Migrate: true,
		},
		Rescore: RescoreConfig{
			Enabled:         true,
			TickIntervalMs:  5000,
			BatchSize:       50,
			StatsIntervalMs: 60000,
		},
		Scoring: ScoringConfig{
			Weights: ScoringWeights{
				Revenue:     dw.Revenue,
				Demand:      dw.Demand,
				Competition: dw.Competition,
				Barriers:    dw.Barriers,
			},
		},
		Research: ResearchConfig{
			Marketplace: "com",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Scoring.WeightSet().Validate(); err != nil {
		return nil, fmt.Errorf("scoring weights: %w", err)
	}
	if cfg.Rescore.TickIntervalMs <= 0 || cfg.Rescore.StatsIntervalMs <= 0 {
		return nil, fmt.Errorf("rescore intervals must be positive")
	}
	if _, err := research.LookupMarketplace(cfg.Research.Marketplace); err != nil {
		return nil, fmt.Errorf("research: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PLAYBOOK_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("PLAYBOOK_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("PLAYBOOK_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("PLAYBOOK_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("PLAYBOOK_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("PLAYBOOK_RESCORE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Rescore.Enabled = b
		}
	}
	if v := os.Getenv("PLAYBOOK_TICK_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Rescore.TickIntervalMs = n
		}
	}
	if v := os.Getenv("PLAYBOOK_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Rescore.BatchSize = n
		}
	}
	if v := os.Getenv("PLAYBOOK_MARKETPLACE"); v != "" {
		cfg.Research.Marketplace = v
	}
	if v := os.Getenv("PLAYBOOK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
