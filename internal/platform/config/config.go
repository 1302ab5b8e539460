package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName      string   `env:"SERVICE_NAME" envDefault:"verdict"`
	HTTPPort         string   `env:"HTTP_PORT" envDefault:"8080"`
	PostgresDSN      string   `env:"POSTGRES_DSN"`
	KafkaBrokers     []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	MetricsNamespace string   `env:"METRICS_NAMESPACE" envDefault:"verdict"`

	OutboxBatchSize int           `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`
	PollInterval    time.Duration `env:"WORKER_POLL_INTERVAL" envDefault:"1s"`
	StandingsFanOut int           `env:"STANDINGS_FAN_OUT" envDefault:"4"`

	EnableOutboxRelay   bool `env:"ENABLE_OUTBOX_RELAY" envDefault:"true"`
	EnableMigrations    bool `env:"ENABLE_MIGRATIONS" envDefault:"false"`
	EnableInMemoryStore bool `env:"ENABLE_IN_MEMORY_STORE" envDefault:"false"`
}

func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.KafkaBrokers = compact(cfg.KafkaBrokers)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values a process cannot start without.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.ServiceName) == "":
		return fmt.Errorf("%w: SERVICE_NAME is required", ErrInvalidConfig)
	case strings.TrimSpace(c.HTTPPort) == "":
		return fmt.Errorf("%w: HTTP_PORT is required", ErrInvalidConfig)
	case !c.EnableInMemoryStore && strings.TrimSpace(c.PostgresDSN) == "":
		return fmt.Errorf("%w: POSTGRES_DSN is required unless ENABLE_IN_MEMORY_STORE is set", ErrInvalidConfig)
	case c.OutboxBatchSize <= 0:
		return fmt.Errorf("%w: OUTBOX_BATCH_SIZE must be positive", ErrInvalidConfig)
	case c.PollInterval <= 0:
		return fmt.Errorf("%w: WORKER_POLL_INTERVAL must be positive", ErrInvalidConfig)
	case c.StandingsFanOut <= 0:
		return fmt.Errorf("%w: STANDINGS_FAN_OUT must be positive", ErrInvalidConfig)
	}
	return nil
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value != "" {
			out = append(out, value)
		}
	}
	return out
}
