// Package postgres persists the event log in the domain_events table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dErrors "policyhub/pkg/domain-errors"
	"policyhub/pkg/platform/eventlog"
	"policyhub/pkg/platform/sentinel"
	txcontext "policyhub/pkg/platform/tx"

	"github.com/jackc/pgx/v5/pgconn"
)

const insertEvent = `
	INSERT INTO domain_events (event_id, aggregate_id, aggregate_type, event_type, payload, occurred_on)
	VALUES ($1, $2, $3, $4, $5, $6)
`

const selectEvents = `
	SELECT event_id, aggregate_id, aggregate_type, event_type, payload, occurred_on
	FROM domain_events
`

// Store implements eventlog.Store using PostgreSQL.
// When the context carries a transaction the writes join it; otherwise each
// SaveAll runs in its own transaction.
type Store struct {
	db  *sql.DB
	reg *eventlog.Registry
}

// New creates a PostgreSQL event store.
func New(db *sql.DB, reg *eventlog.Registry) *Store {
	return &Store{db: db, reg: reg}
}

func (s *Store) Save(ctx context.Context, event eventlog.Event) error {
	return s.SaveAll(ctx, []eventlog.Event{event})
}

func (s *Store) SaveAll(ctx context.Context, events []eventlog.Event) error {
	if len(events) == 0 {
		return nil
	}
	records, err := s.reg.EncodeAll(events)
	if err != nil {
		return err
	}

	if tx, ok := txcontext.From(ctx); ok {
		return insertRecords(ctx, tx, records)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin event batch: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is no-op; error already captured
	}()
	if err := insertRecords(ctx, tx, records); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit event batch: %w", err)
	}
	return nil
}

func insertRecords(ctx context.Context, tx *sql.Tx, records []eventlog.Record) error {
	for _, rec := range records {
		_, err := tx.ExecContext(ctx, insertEvent,
			rec.EventID,
			rec.AggregateID,
			rec.AggregateType,
			rec.EventType,
			string(rec.Payload),
			rec.OccurredOn,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return dErrors.Wrap(fmt.Errorf("event %s: %w", rec.EventID, sentinel.ErrConflict), dErrors.CodeConflict, "event already stored: "+rec.EventID.String())
			}
			return fmt.Errorf("insert domain event: %w", err)
		}
	}
	return nil
}

func (s *Store) FindByAggregateID(ctx context.Context, aggregateID string) ([]eventlog.Event, error) {
	return s.query(ctx, selectEvents+` WHERE aggregate_id = $1 ORDER BY occurred_on ASC, seq ASC`, aggregateID)
}

func (s *Store) FindByAggregateType(ctx context.Context, aggregateType string) ([]eventlog.Event, error) {
	return s.query(ctx, selectEvents+` WHERE aggregate_type = $1 ORDER BY occurred_on ASC, seq ASC`, aggregateType)
}

func (s *Store) FindByEventType(ctx context.Context, eventType string) ([]eventlog.Event, error) {
	return s.query(ctx, selectEvents+` WHERE event_type = $1 ORDER BY occurred_on ASC, seq ASC`, eventType)
}

func (s *Store) query(ctx context.Context, query string, arg string) ([]eventlog.Event, error) {
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query domain events: %w", err)
	}
	defer rows.Close()

	records := make([]eventlog.Record, 0)
	for rows.Next() {
		var rec eventlog.Record
		var payload []byte
		if err := rows.Scan(
			&rec.EventID,
			&rec.AggregateID,
			&rec.AggregateType,
			&rec.EventType,
			&payload,
			&rec.OccurredOn,
		); err != nil {
			return nil, fmt.Errorf("scan domain event: %w", err)
		}
		rec.Payload = payload
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate domain events: %w", err)
	}
	return s.reg.DecodeAll(records)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
