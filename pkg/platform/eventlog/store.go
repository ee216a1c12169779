package eventlog

import "context"

// Store defines the append-only event log.
// Implementations must be safe for concurrent use.
//
// Find methods return events ascending by occurrence time (insertion order breaks
// ties). A key with no events yields an empty slice and a nil error.
type Store interface {
	// Save appends one event. It is durable once Save returns nil.
	Save(ctx context.Context, event Event) error
	// SaveAll appends a batch all-or-nothing.
	SaveAll(ctx context.Context, events []Event) error

	FindByAggregateID(ctx context.Context, aggregateID string) ([]Event, error)
	FindByAggregateType(ctx context.Context, aggregateType string) ([]Event, error)
	FindByEventType(ctx context.Context, eventType string) ([]Event, error)
}
