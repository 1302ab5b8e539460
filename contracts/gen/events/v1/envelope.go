package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the versioned shape of every judging audit event. The outbox
// stores it verbatim and the relay publishes it unchanged, so field names are
// wire contract. Data holds the event-type specific payload.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}
