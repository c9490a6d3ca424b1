package config

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envVars = []string{
	"PLAYBOOK_PORT", "PLAYBOOK_METRICS_PORT", "PLAYBOOK_ADMIN_TOKEN",
	"PLAYBOOK_DATABASE_URL", "PLAYBOOK_HERMES_URL", "PLAYBOOK_RESCORE_ENABLED",
	"PLAYBOOK_TICK_INTERVAL_MS", "PLAYBOOK_BATCH_SIZE", "PLAYBOOK_MARKETPLACE",
	"PLAYBOOK_LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.RequestsPerMinute != 120 {
		t.Errorf("expected 120 requests per minute, got %d", cfg.Server.RequestsPerMinute)
	}
	if cfg.Database.URL != "" {
		t.Errorf("expected empty database URL (memory store), got %s", cfg.Database.URL)
	}
	if cfg.Hermes.URL != "" {
		t.Errorf("expected hermes disabled by default, got %s", cfg.Hermes.URL)
	}
	if !cfg.Rescore.Enabled {
		t.Error("expected rescore enabled by default")
	}
	if cfg.Rescore.BatchSize != 50 {
		t.Errorf("expected batch size 50, got %d", cfg.Rescore.BatchSize)
	}
	if cfg.Research.Marketplace != "com" {
		t.Errorf("expected marketplace com, got %s", cfg.Research.Marketplace)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json', got '%s'", cfg.Logging.Format)
	}

	w := cfg.Scoring.WeightSet()
	if w.Revenue != 30 || w.Demand != 25 || w.Competition != 20 || w.Barriers != 25 {
		t.Errorf("unexpected default weights: %+v", w)
	}
	if math.Abs(w.Sum()-100) > 0.001 {
		t.Errorf("scoring weights sum to %f, expected 100", w.Sum())
	}

	if cfg.StatsInterval() != time.Minute {
		t.Errorf("expected StatsInterval 1m, got %v", cfg.StatsInterval())
	}
	if cfg.TickInterval() != 5*time.Second {
		t.Errorf("expected TickInterval 5s, got %v", cfg.TickInterval())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PLAYBOOK_PORT", "9000")
	t.Setenv("PLAYBOOK_METRICS_PORT", "9001")
	t.Setenv("PLAYBOOK_ADMIN_TOKEN", "secret-token")
	t.Setenv("PLAYBOOK_DATABASE_URL", "postgres://localhost/playbook_test")
	t.Setenv("PLAYBOOK_HERMES_URL", "nats://nats:4222")
	t.Setenv("PLAYBOOK_RESCORE_ENABLED", "false")
	t.Setenv("PLAYBOOK_TICK_INTERVAL_MS", "2000")
	t.Setenv("PLAYBOOK_BATCH_SIZE", "10")
	t.Setenv("PLAYBOOK_MARKETPLACE", "co.uk")
	t.Setenv("PLAYBOOK_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 9001 {
		t.Errorf("expected metrics port 9001, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.AdminToken != "secret-token" {
		t.Errorf("expected admin token 'secret-token', got '%s'", cfg.Server.AdminToken)
	}
	if cfg.Database.URL != "postgres://localhost/playbook_test" {
		t.Errorf("expected database URL, got '%s'", cfg.Database.URL)
	}
	if cfg.Hermes.URL != "nats://nats:4222" {
		t.Errorf("expected hermes URL, got '%s'", cfg.Hermes.URL)
	}
	if cfg.Rescore.Enabled {
		t.Error("expected rescore disabled")
	}
	if cfg.Rescore.TickIntervalMs != 2000 {
		t.Errorf("expected tick 2000, got %d", cfg.Rescore.TickIntervalMs)
	}
	if cfg.Rescore.BatchSize != 10 {
		t.Errorf("expected batch size 10, got %d", cfg.Rescore.BatchSize)
	}
	if cfg.Research.Marketplace != "co.uk" {
		t.Errorf("expected marketplace co.uk, got '%s'", cfg.Research.Marketplace)
	}
	if cfg.Logging.LogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.Logging.LogLevel())
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "playbook.yaml")
	data := []byte(`
server:
  port: 7000
scoring:
  weights:
    revenue: 40
    demand: 30
    competition: 30
    barriers: 0
logging:
  level: warn
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("expected port 7000, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected default metrics port to survive, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Scoring.Weights.Revenue != 40 || cfg.Scoring.Weights.Barriers != 0 {
		t.Errorf("unexpected weights: %+v", cfg.Scoring.Weights)
	}
	if cfg.Logging.LogLevel() != slog.LevelWarn {
		t.Errorf("expected warn level, got %v", cfg.Logging.LogLevel())
	}
}

func TestLoadRejectsUnbalancedWeights(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	data := []byte("scoring:\n  weights:\n    revenue: 90\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for weights not summing to 100")
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLogLevelFallback(t *testing.T) {
	if (LoggingConfig{Level: "verbose"}).LogLevel() != slog.LevelInfo {
		t.Error("expected unknown level to fall back to info")
	}
	if (LoggingConfig{Level: "ERROR"}).LogLevel() != slog.LevelError {
		t.Error("expected case-insensitive error level")
	}
}

func TestLoadRejectsZeroTickInterval(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLAYBOOK_TICK_INTERVAL_MS", "0")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for zero tick interval")
	}
}

func TestLoadRejectsUnknownMarketplace(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLAYBOOK_MARKETPLACE", "moon")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unknown marketplace")
	}

	t.Setenv("PLAYBOOK_MARKETPLACE", "CO.JP")
	if _, err := Load(""); err != nil {
		t.Fatalf("expected mixed-case marketplace to load: %v", err)
	}
}
