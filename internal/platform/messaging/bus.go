package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	contractsv1 "verdict/contracts/gen/events/v1"
)

// AllTopics subscribes a consumer to every published topic.
const AllTopics = "*"

const subscriberBuffer = 128

var (
	ErrBusClosed = errors.New("event bus closed")
	// ErrSubscriberFull means a subscriber buffer had no room; nothing was
	// delivered and the caller should retry.
	ErrSubscriberFull = errors.New("event bus subscriber buffer full")
)

type subscriber struct {
	group string
	ch    chan contractsv1.Envelope
}

// Bus is the event bus the outbox relay publishes judging events to. It
// delivers in process with Kafka topic semantics; Brokers records the
// configured cluster for the external transport.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]*subscriber
	brokers     []string
	closed      bool
	logger      *slog.Logger
}

func NewBus(brokers []string, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscribers: make(map[string][]*subscriber),
		brokers:     append([]string(nil), brokers...),
		logger:      logger,
	}
}

func (b *Bus) Brokers() []string {
	return append([]string(nil), b.brokers...)
}

// Publish hands event to every subscriber of topic and of AllTopics.
// Delivery is all or nothing: when any subscriber buffer is full the event
// reaches nobody and Publish returns ErrSubscriberFull.
func (b *Bus) Publish(ctx context.Context, topic string, event contractsv1.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Publishers are serialised, so room checked below cannot be taken by
	// another send before delivery.
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}
	targets := make([]*subscriber, 0, len(b.subscribers[topic])+len(b.subscribers[AllTopics]))
	targets = append(targets, b.subscribers[topic]...)
	if topic != AllTopics {
		targets = append(targets, b.subscribers[AllTopics]...)
	}

	for _, sub := range targets {
		if len(sub.ch) < cap(sub.ch) {
			continue
		}
		b.logger.Warn("subscriber buffer full",
			"event", "bus_publish_backpressure",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"consumer_group", sub.group,
			"event_id", event.EventID,
		)
		return fmt.Errorf("%w: consumer group %s", ErrSubscriberFull, sub.group)
	}
	for _, sub := range targets {
		sub.ch <- event
	}

	b.logger.Debug("event published",
		"event", "bus_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"event_id", event.EventID,
		"event_type", event.EventType,
		"partition_key", event.PartitionKey,
		"subscribers", len(targets),
	)
	return nil
}

// Subscribe runs handler for each delivered event until ctx is done. Events
// reach one subscriber in publish order.
func (b *Bus) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, contractsv1.Envelope) error,
) error {
	sub := &subscriber{group: consumerGroup, ch: make(chan contractsv1.Envelope, subscriberBuffer)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBusClosed
	}
	b.subscribers[topic] = append(b.subscribers[topic], sub)
	b.mu.Unlock()

	go func() {
		defer b.removeSubscriber(topic, sub)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-sub.ch:
				if !ok {
					return
				}
				if err := handler(ctx, event); err != nil {
					b.logger.Error("consumer handler failed",
						"event", "bus_consume_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"topic", topic,
						"consumer_group", consumerGroup,
						"event_id", event.EventID,
						"event_type", event.EventType,
						"error", err.Error(),
					)
				}
			}
		}
	}()
	return nil
}

// Close stops delivery; later Publish and Subscribe calls fail with
// ErrBusClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for topic, subs := range b.subscribers {
		for _, sub := range subs {
			close(sub.ch)
		}
		delete(b.subscribers, topic)
	}
}

func (b *Bus) removeSubscriber(topic string, target *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := b.subscribers[topic]
	if len(items) == 0 {
		return
	}
	filtered := make([]*subscriber, 0, len(items))
	for _, item := range items {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	b.subscribers[topic] = filtered
}
