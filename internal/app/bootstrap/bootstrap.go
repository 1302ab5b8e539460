package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	certificationservice "verdict/contexts/judging/certification-service"
	postgresadapter "verdict/contexts/judging/certification-service/adapters/postgres"
	"verdict/contexts/judging/certification-service/adapters/postgres/migrations"
	workerapp "verdict/contexts/judging/certification-service/application/workers"
	contractsv1 "verdict/contracts/gen/events/v1"
	"verdict/internal/platform/config"
	"verdict/internal/platform/db"
	"verdict/internal/platform/httpserver"
	"verdict/internal/platform/messaging"
	"verdict/internal/platform/metrics"

	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const shutdownTimeout = 10 * time.Second

type APIApp struct {
	server       *httpserver.Server
	postgres     *db.Postgres
	bus          *messaging.Bus
	relay        *workerapp.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	bus          *messaging.Bus
	outboxRelay  workerapp.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	recorder := metrics.NewRecorder(cfg.MetricsNamespace)
	bus := messaging.NewBus(cfg.KafkaBrokers, logger)

	app := &APIApp{
		bus:          bus,
		pollInterval: cfg.PollInterval,
		logger:       logger,
	}

	var module certificationservice.Module
	if cfg.EnableInMemoryStore {
		// No worker can reach an in-process store, so the API relays its own
		// outbox.
		module = certificationservice.NewInMemoryModule(bus, recorder, logger)
		if cfg.EnableOutboxRelay {
			relay := module.Relay
			relay.BatchSize = cfg.OutboxBatchSize
			app.relay = &relay
		}
		logger.Warn("api using in-memory judging store",
			"event", "bootstrap_in_memory_store",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	} else {
		pg, err := openPostgres(cfg, logger)
		if err != nil {
			bus.Close()
			return nil, err
		}
		app.postgres = pg
		module = newPostgresModule(cfg, pg, bus, recorder, logger)
	}

	app.server = httpserver.New(module, recorder.Handler(), logger, normalizeAddr(cfg.HTTPPort))
	return app, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.EnableInMemoryStore {
		return nil, fmt.Errorf("%w: worker requires POSTGRES_DSN and cannot use the in-memory store", config.ErrInvalidConfig)
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	pg, err := openPostgres(cfg, logger)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(cfg.KafkaBrokers, logger)
	module := newPostgresModule(cfg, pg, bus, metrics.NewRecorder(cfg.MetricsNamespace), logger)
	return &WorkerApp{
		postgres:     pg,
		bus:          bus,
		outboxRelay:  module.Relay,
		pollInterval: cfg.PollInterval,
		logger:       logger,
	}, nil
}

func openPostgres(cfg config.Config, logger *slog.Logger) (*db.Postgres, error) {
	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if !cfg.EnableMigrations {
		return pg, nil
	}
	applied, err := pg.Migrate(context.Background(), migrations.FS)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	logger.Info("judging migrations applied",
		"event", "bootstrap_migrations_applied",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"applied", applied,
	)
	return pg, nil
}

func newPostgresModule(
	cfg config.Config,
	pg *db.Postgres,
	bus *messaging.Bus,
	recorder *metrics.Recorder,
	logger *slog.Logger,
) certificationservice.Module {
	repo := postgresadapter.NewRepository(pg.DB, logger)
	return certificationservice.NewModule(certificationservice.Dependencies{
		Catalog:         repo,
		Scores:          repo,
		Ledger:          repo,
		Quorum:          repo,
		Outbox:          repo,
		Publisher:       bus,
		Clock:           postgresadapter.SystemClock{},
		IDGenerator:     postgresadapter.UUIDGenerator{},
		Metrics:         recorder,
		FanOut:          cfg.StandingsFanOut,
		OutboxBatchSize: cfg.OutboxBatchSize,
		Logger:          logger,
	})
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"outbox_relay", a.relay != nil,
		)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(a.server.Start)
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})
	if a.relay != nil {
		relay := *a.relay
		group.Go(func() error {
			return runRelay(groupCtx, relay, a.pollInterval)
		})
	}
	return group.Wait()
}

func (a *APIApp) Close() error {
	if a.bus != nil {
		a.bus.Close()
	}
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.bus.Subscribe(ctx, messaging.AllTopics, "judging-audit-log", w.logPublished); err != nil {
		return err
	}

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"brokers", strings.Join(w.bus.Brokers(), ","),
	)
	return runRelay(ctx, w.outboxRelay, w.pollInterval)
}

func (w *WorkerApp) Close() error {
	if w.bus != nil {
		w.bus.Close()
	}
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) logPublished(_ context.Context, event contractsv1.Envelope) error {
	w.logger.Info("judging event published",
		"event", "judging_event_published",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"partition_key", event.PartitionKey,
	)
	return nil
}

// runRelay drains the outbox every interval until ctx is done.
func runRelay(ctx context.Context, relay workerapp.OutboxRelay, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := relay.RunOnce(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
