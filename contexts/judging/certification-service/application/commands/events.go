package commands

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"verdict/contexts/judging/certification-service/ports"
)

const (
	EventScoreSubmitted      = "judging.score.submitted"
	EventDeductionRecorded   = "judging.deduction.recorded"
	EventJudgeCertified      = "judging.judge.certified"
	EventCategoryCertified   = "judging.category.certified"
	EventWinnersSigned       = "judging.winners.signed"
	EventRequestCreated      = "judging.request.created"
	EventRequestSigned       = "judging.request.signed"
	EventRequestApproved     = "judging.request.approved"
	EventRequestRejected     = "judging.request.rejected"
	EventRequestExecuted     = "judging.request.executed"
	sourceService            = "certification-service"
	categoryPartitionKeyPath = "category_id"
)

func newJudgingEnvelope(
	eventID string,
	eventType string,
	categoryID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Partitioned by category so consumers see one category's sign-offs in order.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    sourceService,
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: categoryPartitionKeyPath,
		PartitionKey:     strings.TrimSpace(categoryID),
		Data:             payload,
	}, nil
}

// envelopeBuilder allocates ids for a command's events.
type envelopeBuilder struct {
	idGen      ports.IDGenerator
	categoryID string
	occurredAt time.Time
	events     []ports.EventEnvelope
}

func (b *envelopeBuilder) add(ctx context.Context, eventType string, data map[string]any) error {
	eventID, err := b.idGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newJudgingEnvelope(eventID, eventType, b.categoryID, b.occurredAt, data)
	if err != nil {
		return err
	}
	b.events = append(b.events, envelope)
	return nil
}
