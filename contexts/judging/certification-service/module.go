package certificationservice

import (
	"log/slog"

	httpadapter "verdict/contexts/judging/certification-service/adapters/http"
	"verdict/contexts/judging/certification-service/adapters/memory"
	"verdict/contexts/judging/certification-service/application/commands"
	"verdict/contexts/judging/certification-service/application/queries"
	"verdict/contexts/judging/certification-service/application/workers"
	"verdict/contexts/judging/certification-service/application/workflow"
	"verdict/contexts/judging/certification-service/ports"
)

// Module is the composition surface for judging certification.
// Runtime wiring consumes Handler and Relay; Store is set only for the
// in-memory bootstrap and tests.
type Module struct {
	Handler      httpadapter.Handler
	Orchestrator workflow.Orchestrator
	Quorum       commands.QuorumUseCase
	Relay        workers.OutboxRelay
	Store        *memory.Store
}

type Dependencies struct {
	Catalog         ports.CatalogReader
	Scores          ports.ScoreRepository
	Ledger          ports.CertificationLedger
	Quorum          ports.QuorumRepository
	Outbox          ports.OutboxRepository
	Publisher       ports.EventPublisher
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	Metrics         ports.Metrics
	FanOut          int
	OutboxBatchSize int
	Logger          *slog.Logger
}

// NewModule wires the certification use cases against explicit ports.
func NewModule(deps Dependencies) Module {
	certifications := commands.CertificationUseCase{
		Catalog: deps.Catalog,
		Scores:  deps.Scores,
		Ledger:  deps.Ledger,
		Clock:   deps.Clock,
		IDGen:   deps.IDGenerator,
		Metrics: deps.Metrics,
		Logger:  deps.Logger,
	}
	scoring := commands.ScoringUseCase{
		Catalog: deps.Catalog,
		Scores:  deps.Scores,
		Ledger:  deps.Ledger,
		Quorum:  deps.Quorum,
		Clock:   deps.Clock,
		IDGen:   deps.IDGenerator,
		Logger:  deps.Logger,
	}
	quorum := commands.QuorumUseCase{
		Catalog: deps.Catalog,
		Quorum:  deps.Quorum,
		Clock:   deps.Clock,
		IDGen:   deps.IDGenerator,
		Metrics: deps.Metrics,
		Logger:  deps.Logger,
	}
	progress := queries.ProgressUseCase{
		Catalog: deps.Catalog,
		Ledger:  deps.Ledger,
	}
	standings := queries.StandingsUseCase{
		Catalog: deps.Catalog,
		Scores:  deps.Scores,
		Ledger:  deps.Ledger,
		Metrics: deps.Metrics,
		FanOut:  deps.FanOut,
		Logger:  deps.Logger,
	}
	orchestrator := workflow.Orchestrator{
		Certifications: certifications,
		Progress:       progress,
		Standings:      standings,
		Logger:         deps.Logger,
	}

	handler := httpadapter.Handler{
		Orchestrator: orchestrator,
		Scoring:      scoring,
		Quorum:       quorum,
		Requests:     queries.RequestsUseCase{Quorum: deps.Quorum},
		Logger:       deps.Logger,
	}

	return Module{
		Handler:      handler,
		Orchestrator: orchestrator,
		Quorum:       quorum,
		Relay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			BatchSize: deps.OutboxBatchSize,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module against a fresh in-memory store. The
// returned Store is empty; callers seed the catalog through its setters.
func NewInMemoryModule(publisher ports.EventPublisher, metrics ports.Metrics, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Catalog:         store,
		Scores:          store,
		Ledger:          store,
		Quorum:          store,
		Outbox:          store,
		Publisher:       publisher,
		Clock:           store,
		IDGenerator:     store,
		Metrics:         metrics,
		FanOut:          4,
		OutboxBatchSize: 100,
		Logger:          logger,
	})
	module.Store = store
	return module
}
