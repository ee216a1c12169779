// Package memory is an in-process event log used by tests and by the server
// when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	dErrors "policyhub/pkg/domain-errors"
	"policyhub/pkg/platform/eventlog"
	"policyhub/pkg/platform/sentinel"

	"github.com/google/uuid"
)

// Store keeps encoded records in insertion order. Events are encoded on write
// and decoded on read so the in-memory path exercises the same codec as postgres.
type Store struct {
	mu      sync.RWMutex
	reg     *eventlog.Registry
	records []eventlog.Record
	ids     map[uuid.UUID]struct{}
}

// New creates an empty in-memory event log.
func New(reg *eventlog.Registry) *Store {
	return &Store{
		reg: reg,
		ids: make(map[uuid.UUID]struct{}),
	}
}

func (s *Store) Save(ctx context.Context, event eventlog.Event) error {
	return s.SaveAll(ctx, []eventlog.Event{event})
}

// SaveAll appends every event or none. A duplicate event id rejects the whole batch.
func (s *Store) SaveAll(ctx context.Context, events []eventlog.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	records, err := s.reg.EncodeAll(events)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[uuid.UUID]struct{}, len(records))
	for _, rec := range records {
		if _, dup := s.ids[rec.EventID]; dup {
			return dErrors.Wrap(sentinel.ErrConflict, dErrors.CodeConflict, "event already stored: "+rec.EventID.String())
		}
		if _, dup := seen[rec.EventID]; dup {
			return dErrors.Wrap(sentinel.ErrConflict, dErrors.CodeConflict, "duplicate event in batch: "+rec.EventID.String())
		}
		seen[rec.EventID] = struct{}{}
	}
	for _, rec := range records {
		s.ids[rec.EventID] = struct{}{}
		s.records = append(s.records, rec)
	}
	return nil
}

func (s *Store) FindByAggregateID(ctx context.Context, aggregateID string) ([]eventlog.Event, error) {
	return s.find(ctx, func(r eventlog.Record) bool { return r.AggregateID == aggregateID })
}

func (s *Store) FindByAggregateType(ctx context.Context, aggregateType string) ([]eventlog.Event, error) {
	return s.find(ctx, func(r eventlog.Record) bool { return r.AggregateType == aggregateType })
}

func (s *Store) FindByEventType(ctx context.Context, eventType string) ([]eventlog.Event, error) {
	return s.find(ctx, func(r eventlog.Record) bool { return r.EventType == eventType })
}

func (s *Store) find(ctx context.Context, match func(eventlog.Record) bool) ([]eventlog.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	matched := make([]eventlog.Record, 0)
	for _, rec := range s.records {
		if match(rec) {
			matched = append(matched, rec)
		}
	}
	s.mu.RUnlock()

	// insertion order breaks ties
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].OccurredOn.Before(matched[j].OccurredOn)
	})
	return s.reg.DecodeAll(matched)
}
