package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "policyhub/pkg/domain-errors"
	"policyhub/pkg/platform/eventlog"
	"policyhub/pkg/platform/eventlog/eventlogtest"
	"policyhub/pkg/platform/sentinel"
	txcontext "policyhub/pkg/platform/tx"
)

var columns = []string{"event_id", "aggregate_id", "aggregate_type", "event_type", "payload", "occurred_on"}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Store) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock, New(db, eventlogtest.Registry())
}

func TestSaveAll_OwnTransaction(t *testing.T) {
	_, mock, store := setupMockDB(t)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a := eventlogtest.NewRenamed("W-1", "a", at)
	b := eventlogtest.NewRenamed("W-1", "b", at)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO domain_events`).
		WithArgs(a.Metadata().EventID, "W-1", eventlogtest.AggregateType, eventlogtest.EventType, `{"name":"a"}`, at).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO domain_events`).
		WithArgs(b.Metadata().EventID, "W-1", eventlogtest.AggregateType, eventlogtest.EventType, `{"name":"b"}`, at).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, store.SaveAll(context.Background(), []eventlog.Event{a, b}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAll_RollsBackOnFailure(t *testing.T) {
	_, mock, store := setupMockDB(t)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO domain_events`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO domain_events`).WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := store.SaveAll(context.Background(), []eventlog.Event{
		eventlogtest.NewRenamed("W-1", "a", at),
		eventlogtest.NewRenamed("W-1", "b", at),
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	assert.True(t, errors.Is(err, sentinel.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAll_JoinsContextTransaction(t *testing.T) {
	db, mock, store := setupMockDB(t)

	mock.ExpectBegin()
	sqlTx, err := db.Begin()
	require.NoError(t, err)
	mock.ExpectExec(`INSERT INTO domain_events`).WillReturnResult(sqlmock.NewResult(1, 1))

	ctx := txcontext.WithTx(context.Background(), sqlTx)
	require.NoError(t, store.Save(ctx, eventlogtest.NewRenamed("W-1", "a", time.Now())))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAll_EmptyIsNoop(t *testing.T) {
	_, mock, store := setupMockDB(t)
	require.NoError(t, store.SaveAll(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByAggregateID_Decodes(t *testing.T) {
	_, mock, store := setupMockDB(t)
	original := eventlogtest.NewRenamed("W-1", "gizmo", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	meta := original.Metadata()

	rows := sqlmock.NewRows(columns).
		AddRow(meta.EventID.String(), "W-1", eventlogtest.AggregateType, eventlogtest.EventType, []byte(`{"name":"gizmo"}`), meta.OccurredOn)
	mock.ExpectQuery(`SELECT event_id, aggregate_id, aggregate_type, event_type, payload, occurred_on\s+FROM domain_events\s+WHERE aggregate_id = \$1 ORDER BY occurred_on ASC, seq ASC`).
		WithArgs("W-1").
		WillReturnRows(rows)

	events, err := store.FindByAggregateID(context.Background(), "W-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, original, events[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEventType_EmptyResult(t *testing.T) {
	_, mock, store := setupMockDB(t)
	mock.ExpectQuery(`WHERE event_type = \$1`).
		WithArgs("Nothing").
		WillReturnRows(sqlmock.NewRows(columns))

	events, err := store.FindByEventType(context.Background(), "Nothing")
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestFindByAggregateType_UnknownTagFails(t *testing.T) {
	_, mock, store := setupMockDB(t)
	rows := sqlmock.NewRows(columns).
		AddRow("7f1c2a52-8d1e-4f57-9a55-2a8a4f3c9b10", "W-1", eventlogtest.AggregateType, "WidgetMelted", []byte(`{}`), time.Now().UTC())
	mock.ExpectQuery(`WHERE aggregate_type = \$1`).
		WithArgs(eventlogtest.AggregateType).
		WillReturnRows(rows)

	_, err := store.FindByAggregateType(context.Background(), eventlogtest.AggregateType)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeDeserialization))
}
