package ports

import (
	"context"
	"time"

	"verdict/contexts/judging/certification-service/domain/entities"
	contractsv1 "verdict/contracts/gen/events/v1"
)

type EventEnvelope = contractsv1.Envelope

// CatalogReader resolves the administrative projections the workflow reads.
type CatalogReader interface {
	GetEvent(ctx context.Context, eventID string) (entities.Event, error)
	GetContest(ctx context.Context, contestID string) (entities.Contest, error)
	ListContestsByEvent(ctx context.Context, eventID string) ([]entities.Contest, error)
	GetCategory(ctx context.Context, categoryID string) (entities.Category, error)
	ListCategoriesByContest(ctx context.Context, contestID string) ([]entities.Category, error)
	ListCriteria(ctx context.Context, categoryID string) ([]entities.Criterion, error)
	GetJudge(ctx context.Context, judgeID string) (entities.Judge, error)
}

type ScoreRepository interface {
	// ListScores returns the category's scores in insertion order.
	ListScores(ctx context.Context, categoryID string) ([]entities.Score, error)
	ListDeductions(ctx context.Context, categoryID string) ([]entities.OverallDeduction, error)
	// CreateScore fails with ErrDuplicateScore when the judge already scored
	// the contestant on the criterion.
	CreateScore(ctx context.Context, score entities.Score, events []EventEnvelope) error
	CreateDeduction(ctx context.Context, deduction entities.OverallDeduction, events []EventEnvelope) error
}

// CertificationWrite is one atomic ledger write.
type CertificationWrite struct {
	Certification entities.CategoryCertification
	// Advance is applied to the workflow record when one exists.
	Advance func(entities.CategoryWorkflow) entities.CategoryWorkflow
	// MarkTallyTotals flips category.TallyTotalsCertified in the same write.
	MarkTallyTotals bool
	Events          []EventEnvelope
}

// JudgeCertificationWrite is one atomic judge attestation.
type JudgeCertificationWrite struct {
	Certification entities.JudgeCertification
	// Workflow receives the current record (found=false when none exists) and
	// returns the record to store.
	Workflow func(existing entities.CategoryWorkflow, found bool) entities.CategoryWorkflow
	Events   []EventEnvelope
}

type CertificationLedger interface {
	// InsertCategoryCertification fails with a CertificationConflictError when
	// the (category, role) slot is already taken.
	InsertCategoryCertification(ctx context.Context, write CertificationWrite) (entities.CategoryCertification, error)
	ListCategoryCertifications(ctx context.Context, categoryID string) ([]entities.CategoryCertification, error)
	// InsertJudgeCertification also marks the judge's scores certified.
	InsertJudgeCertification(ctx context.Context, write JudgeCertificationWrite) (entities.JudgeCertification, int, error)
	ListJudgeCertifications(ctx context.Context, categoryID string) ([]entities.JudgeCertification, error)
	GetWorkflow(ctx context.Context, categoryID string) (entities.CategoryWorkflow, bool, error)
}

// RequestMutation transforms a locked request and names the events to append
// with the update.
type RequestMutation func(entities.QuorumRequest) (entities.QuorumRequest, []EventEnvelope, error)

// ExecutionFinalizer books a completed execution pass.
type ExecutionFinalizer func(request entities.QuorumRequest, affected int) (entities.QuorumRequest, []EventEnvelope, error)

type QuorumRepository interface {
	CreateRequest(ctx context.Context, request entities.QuorumRequest, events []EventEnvelope) error
	GetRequest(ctx context.Context, requestID string) (entities.QuorumRequest, error)
	ListRequests(ctx context.Context, filter entities.RequestFilter) ([]entities.QuorumRequest, error)
	// UpdateRequest is an atomic read-modify-write under a row lock.
	UpdateRequest(ctx context.Context, requestID string, mutate RequestMutation) (entities.QuorumRequest, error)
	// ExecuteRequest locks the request, runs guard, applies the request's
	// score predicate (delete or uncertify by kind) and finalizes, all in one
	// transaction. It returns the rows affected by this call.
	ExecuteRequest(
		ctx context.Context,
		requestID string,
		guard func(entities.QuorumRequest) error,
		finalize ExecutionFinalizer,
	) (entities.QuorumRequest, int, error)
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Metrics records workflow outcomes. Outcome labels are error kind names or
// "ok".
type Metrics interface {
	ObserveCertification(role string, outcome string)
	ObserveSignature(kind string, role string, outcome string)
	ObserveExecution(kind string, affected int)
	ObserveStandings(scope string, duration time.Duration)
	ObserveSkipped(scope string)
}
