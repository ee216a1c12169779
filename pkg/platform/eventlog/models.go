// Package eventlog is the append-only domain event log: event metadata, the
// self-describing record encoding, and the store contract shared by adapters.
package eventlog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Metadata identifies a single occurrence of a domain event.
// Every event carries one; it is fixed at construction and never changed.
type Metadata struct {
	EventID       uuid.UUID
	OccurredOn    time.Time
	AggregateID   string
	AggregateType string
	EventType     string
}

// NewMetadata stamps a fresh event id and normalises the occurrence time to UTC.
// Ids are random, so two events built from identical input in the same instant differ.
func NewMetadata(aggregateType, aggregateID, eventType string, occurredOn time.Time) Metadata {
	return Metadata{
		EventID:       uuid.New(),
		OccurredOn:    occurredOn.UTC(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
	}
}

// Event is an immutable fact about an aggregate. Concrete events are pure data:
// Metadata describes the occurrence, Payload returns the event-specific fields
// that get encoded into the log.
type Event interface {
	Metadata() Metadata
	Payload() any
}

// Record is the persisted and broadcast shape of an event.
type Record struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	OccurredOn    time.Time       `json:"occurred_on"`
}
