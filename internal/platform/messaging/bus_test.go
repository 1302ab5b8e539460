package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	contractsv1 "verdict/contracts/gen/events/v1"
)

func TestBusDeliversToTopicAndWildcardSubscribers(t *testing.T) {
	bus := NewBus([]string{"localhost:9092"}, nil)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	topicEvents := make(chan contractsv1.Envelope, 1)
	allEvents := make(chan contractsv1.Envelope, 2)
	if err := bus.Subscribe(ctx, "judging.category.certified", "progress", func(_ context.Context, event contractsv1.Envelope) error {
		topicEvents <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if err := bus.Subscribe(ctx, AllTopics, "audit", func(_ context.Context, event contractsv1.Envelope) error {
		allEvents <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Publish(ctx, "judging.category.certified", contractsv1.Envelope{EventID: "e-1", EventType: "judging.category.certified"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if err := bus.Publish(ctx, "judging.request.created", contractsv1.Envelope{EventID: "e-2", EventType: "judging.request.created"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case event := <-topicEvents:
		if event.EventID != "e-1" {
			t.Fatalf("unexpected event %s", event.EventID)
		}
	case <-time.After(time.Second):
		t.Fatalf("topic subscriber did not receive event")
	}
	for _, want := range []string{"e-1", "e-2"} {
		select {
		case event := <-allEvents:
			if event.EventID != want {
				t.Fatalf("expected %s, got %s", want, event.EventID)
			}
		case <-time.After(time.Second):
			t.Fatalf("wildcard subscriber missed %s", want)
		}
	}
}

func TestBusRejectsPublishAfterClose(t *testing.T) {
	bus := NewBus(nil, nil)
	bus.Close()

	err := bus.Publish(context.Background(), "judging.winners.signed", contractsv1.Envelope{EventID: "e-1"})
	if !errors.Is(err, ErrBusClosed) {
		t.Fatalf("expected ErrBusClosed, got %v", err)
	}
	if err := bus.Subscribe(context.Background(), "x", "g", func(context.Context, contractsv1.Envelope) error { return nil }); !errors.Is(err, ErrBusClosed) {
		t.Fatalf("expected ErrBusClosed on subscribe, got %v", err)
	}
}

func TestBusKeepsBrokerList(t *testing.T) {
	brokers := []string{"a:9092", "b:9092"}
	bus := NewBus(brokers, nil)
	brokers[0] = "mutated"
	if got := bus.Brokers(); got[0] != "a:9092" || len(got) != 2 {
		t.Fatalf("unexpected brokers %v", got)
	}
}

func TestBusRefusesEventWhenSubscriberIsFull(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	if err := bus.Subscribe(ctx, AllTopics, "slow-audit", func(context.Context, contractsv1.Envelope) error {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	fast := make(chan contractsv1.Envelope, subscriberBuffer+2)
	if err := bus.Subscribe(ctx, "judging.score.submitted", "fast", func(_ context.Context, event contractsv1.Envelope) error {
		fast <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	topic := "judging.score.submitted"
	if err := bus.Publish(ctx, topic, contractsv1.Envelope{EventID: "held"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatalf("slow subscriber never started")
	}
	for i := 0; i < subscriberBuffer; i++ {
		if err := bus.Publish(ctx, topic, contractsv1.Envelope{EventID: "queued"}); err != nil {
			t.Fatalf("publish %d failed: %v", i, err)
		}
	}

	err := bus.Publish(ctx, topic, contractsv1.Envelope{EventID: "overflow"})
	if !errors.Is(err, ErrSubscriberFull) {
		t.Fatalf("expected ErrSubscriberFull, got %v", err)
	}

	received := 0
	deadline := time.After(time.Second)
	for received < subscriberBuffer+1 {
		select {
		case event := <-fast:
			if event.EventID == "overflow" {
				t.Fatalf("refused event must not reach any subscriber")
			}
			received++
		case <-deadline:
			t.Fatalf("fast subscriber received %d events", received)
		}
	}
	select {
	case event := <-fast:
		t.Fatalf("unexpected extra event %s", event.EventID)
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
}
