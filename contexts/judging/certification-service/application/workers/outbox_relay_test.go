package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"verdict/contexts/judging/certification-service/adapters/memory"
	"verdict/contexts/judging/certification-service/domain/entities"
	"verdict/contexts/judging/certification-service/ports"
)

type fakePublisher struct {
	topics  []string
	events  []ports.EventEnvelope
	failFor string
}

func (p *fakePublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if event.EventID == p.failFor {
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func storeWithEvents(t *testing.T, eventIDs ...string) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	for i, eventID := range eventIDs {
		value := float64(i)
		err := store.CreateScore(context.Background(), entities.Score{
			ScoreID:      "score-" + eventID,
			JudgeID:      "judge-a",
			ContestantID: eventID,
			CategoryID:   "gown",
			CriterionID:  "poise",
			Value:        &value,
		}, []ports.EventEnvelope{{
			EventID:      eventID,
			EventType:    "judging.score.submitted",
			OccurredAt:   time.Date(2026, 5, 1, 10, i, 0, 0, time.UTC),
			PartitionKey: "gown",
			Data:         []byte(`{"category_id":"gown"}`),
		}})
		if err != nil {
			t.Fatalf("seed score: %v", err)
		}
	}
	return store
}

func TestOutboxRelayPublishesInOrderAndMarksRows(t *testing.T) {
	store := storeWithEvents(t, "evt-1", "evt-2", "evt-3")
	publisher := &fakePublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store, BatchSize: 2}

	published, err := relay.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	if published != 2 || len(publisher.events) != 2 || publisher.events[0].EventID != "evt-1" {
		t.Fatalf("expected first batch of two in order, got %d %+v", published, publisher.events)
	}
	if publisher.topics[0] != "judging.score.submitted" {
		t.Fatalf("expected event type used as topic, got %q", publisher.topics[0])
	}

	published, err = relay.RunOnce(context.Background())
	if err != nil || published != 1 || publisher.events[2].EventID != "evt-3" {
		t.Fatalf("expected remaining row published, got %d err=%v", published, err)
	}

	published, err = relay.RunOnce(context.Background())
	if err != nil || published != 0 {
		t.Fatalf("expected idle cycle, got %d err=%v", published, err)
	}
}

func TestOutboxRelayStopsAtFirstFailure(t *testing.T) {
	store := storeWithEvents(t, "evt-1", "evt-2", "evt-3")
	publisher := &fakePublisher{failFor: "evt-2"}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	published, err := relay.RunOnce(context.Background())
	if err == nil {
		t.Fatalf("expected publish failure")
	}
	if published != 1 {
		t.Fatalf("expected one row published before failure, got %d", published)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 || pending[0].OutboxID != "evt-2" {
		t.Fatalf("expected failed and later rows left pending, got %+v", pending)
	}

	publisher.failFor = ""
	published, err = relay.RunOnce(context.Background())
	if err != nil || published != 2 {
		t.Fatalf("expected retry to drain outbox, got %d err=%v", published, err)
	}
}
