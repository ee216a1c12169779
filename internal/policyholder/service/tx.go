package service

import (
	"context"
	"database/sql"
	"time"

	dErrors "policyhub/pkg/domain-errors"
	platformsync "policyhub/pkg/platform/sync"
	txcontext "policyhub/pkg/platform/tx"
)

// StoreTx provides the transactional boundary for one load-mutate-save cycle.
// Implementations may wrap a database transaction or an in-memory lock.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const defaultTxTimeout = 5 * time.Second

type lockKeyCtx struct{}

// WithLockKey names the resource a unit of work touches. The in-memory runner
// serializes work per key; work without a key shares one lock.
func WithLockKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, lockKeyCtx{}, key)
}

func lockKey(ctx context.Context) string {
	key, _ := ctx.Value(lockKeyCtx{}).(string)
	return key
}

// inMemoryStoreTx serializes commands for the in-memory store, one lock shard
// per aggregate.
type inMemoryStoreTx struct {
	mu      *platformsync.ShardedMutex
	timeout time.Duration
}

// NewInMemoryTx returns a StoreTx that runs one unit of work per lock key at a
// time, each bounded by timeout (5s when zero).
func NewInMemoryTx(timeout time.Duration) StoreTx {
	return &inMemoryStoreTx{mu: platformsync.NewShardedMutex(0), timeout: timeout}
}

func (t *inMemoryStoreTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	key := lockKey(ctx)
	t.mu.Lock(key)
	defer t.mu.Unlock(key)

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(ctx)
}

// postgresStoreTx runs one unit of work in a SQL transaction carried through
// ctx, so the holder store and any other participating store share it.
type postgresStoreTx struct {
	db      *sql.DB
	timeout time.Duration
}

// NewPostgresTx returns a StoreTx backed by db. A ctx that already carries a
// transaction joins it instead of opening a nested one.
func NewPostgresTx(db *sql.DB, timeout time.Duration) StoreTx {
	return &postgresStoreTx{db: db, timeout: timeout}
}

func (t *postgresStoreTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, ok := txcontext.From(ctx); ok {
		return fn(ctx)
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to begin transaction")
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is no-op; error already captured
	}()

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit transaction")
	}
	return nil
}
