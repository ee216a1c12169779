//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"policyhub/migrations"
)

const postgresImage = "postgres:18-alpine"

// policyhubTables lists every table the schema creates, children first.
var policyhubTables = []string{"domain_events", "policies", "policy_holders"}

type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts Postgres and applies the embedded schema. The
// container is shared through Manager, so no t.Cleanup is registered here.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("policyhub_test"),
		postgres.WithUsername("policyhub"),
		postgres.WithPassword("policyhub"),
		testcontainers.WithWaitStrategy(wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		).WithDeadline(time.Minute)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	pc, err := connect(ctx, container)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("prepare postgres: %v", err)
	}
	return pc
}

func connect(ctx context.Context, container *postgres.PostgresContainer) (*PostgresContainer, error) {
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, fmt.Errorf("connection string: %w", err)
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := applySchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresContainer{Container: container, DSN: dsn, DB: db}, nil
}

// applySchema runs the golang-migrate "up" files in version order inside one
// transaction, so a broken migration leaves an empty database behind.
func applySchema(ctx context.Context, db *sql.DB) error {
	ups, err := fs.Glob(migrations.FS, "*.up.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	if len(ups) == 0 {
		return fmt.Errorf("no migrations embedded")
	}
	slices.Sort(ups)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is no-op
	}()
	for _, name := range ups {
		script, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, string(script)); err != nil {
			return fmt.Errorf("apply %s: %w", strings.TrimSuffix(path.Base(name), ".up.sql"), err)
		}
	}
	return tx.Commit()
}

// TruncateAll empties every policyhub table and restarts the event sequence,
// so each test sees event seq values from 1.
func (p *PostgresContainer) TruncateAll(ctx context.Context) error {
	stmt := "TRUNCATE TABLE " + strings.Join(policyhubTables, ", ") + " RESTART IDENTITY CASCADE"
	if _, err := p.DB.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("reset tables: %w", err)
	}
	return nil
}

// QueryRow runs a query expected to return a single row.
func (p *PostgresContainer) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return p.DB.QueryRowContext(ctx, query, args...)
}
