package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("ENABLE_IN_MEMORY_STORE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServiceName != "verdict" || cfg.HTTPPort != "8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.OutboxBatchSize != 100 || cfg.StandingsFanOut != 4 {
		t.Fatalf("unexpected worker defaults: %+v", cfg)
	}
	if cfg.PollInterval != time.Second {
		t.Fatalf("expected 1s poll interval, got %s", cfg.PollInterval)
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "localhost:9092" {
		t.Fatalf("unexpected brokers: %v", cfg.KafkaBrokers)
	}
	if !cfg.EnableOutboxRelay || cfg.EnableMigrations {
		t.Fatalf("unexpected feature flags: %+v", cfg)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://judging")
	t.Setenv("KAFKA_BROKERS", "a:9092, ,b:9092")
	t.Setenv("WORKER_POLL_INTERVAL", "250ms")
	t.Setenv("ENABLE_MIGRATIONS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.PostgresDSN != "postgres://judging" {
		t.Fatalf("unexpected dsn %q", cfg.PostgresDSN)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "b:9092" {
		t.Fatalf("expected blank brokers dropped, got %v", cfg.KafkaBrokers)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Fatalf("unexpected poll interval %s", cfg.PollInterval)
	}
	if !cfg.EnableMigrations {
		t.Fatalf("expected migrations enabled")
	}
}

func TestLoadRequiresDSNWithoutInMemoryStore(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("ENABLE_IN_MEMORY_STORE", "false")

	if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("ENABLE_IN_MEMORY_STORE", "true")
	t.Setenv("OUTBOX_BATCH_SIZE", "many")

	if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidateRejectsNonPositiveFanOut(t *testing.T) {
	cfg := Config{
		ServiceName:         "verdict",
		HTTPPort:            "8080",
		EnableInMemoryStore: true,
		OutboxBatchSize:     10,
		PollInterval:        time.Second,
	}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
