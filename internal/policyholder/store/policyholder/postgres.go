package policyholder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"policyhub/internal/policyholder/models"
	id "policyhub/pkg/domain"
	"policyhub/pkg/platform/sentinel"
	txcontext "policyhub/pkg/platform/tx"
)

// PostgresStore persists policy holders and their policies in PostgreSQL.
// Writes join the transaction carried by ctx; without one, Save opens its own.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed policy holder store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const holderColumns = `id, national_id, name, gender, birth_date, mobile, email,
		zip_code, city, district, street, status, created_at, updated_at, version`

const policyColumns = `id, policy_type, premium_amount, premium_currency, sum_insured_amount,
		sum_insured_currency, start_date, end_date, status, terminated_on, version`

func (s *PostgresStore) FindByID(ctx context.Context, holderID id.PolicyHolderID) (*models.PolicyHolder, error) {
	return s.findOne(ctx, `SELECT `+holderColumns+` FROM policy_holders WHERE id = $1`, holderID.String())
}

func (s *PostgresStore) FindByNationalID(ctx context.Context, nationalID id.NationalID) (*models.PolicyHolder, error) {
	return s.findOne(ctx, `SELECT `+holderColumns+` FROM policy_holders WHERE national_id = $1`, nationalID.String())
}

func (s *PostgresStore) ExistsByNationalID(ctx context.Context, nationalID id.NationalID) (bool, error) {
	var exists bool
	err := txcontext.Executor(ctx, s.db).
		QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM policy_holders WHERE national_id = $1)`, nationalID.String()).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check national id: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg string) (*models.PolicyHolder, error) {
	exec := txcontext.Executor(ctx, s.db)
	snap, err := scanHolder(exec.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find policy holder: %w", err)
	}
	policies, err := s.loadPolicies(ctx, exec, snap.ID)
	if err != nil {
		return nil, err
	}
	snap.Policies = policies
	return models.Reconstitute(snap), nil
}

func (s *PostgresStore) loadPolicies(ctx context.Context, exec txcontext.DBTX, holderID id.PolicyHolderID) ([]models.PolicySnapshot, error) {
	rows, err := exec.QueryContext(ctx,
		`SELECT `+policyColumns+` FROM policies WHERE policy_holder_id = $1 ORDER BY position ASC`,
		holderID.String())
	if err != nil {
		return nil, fmt.Errorf("query policies: %w", err)
	}
	defer rows.Close()

	policies := make([]models.PolicySnapshot, 0)
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan policy: %w", err)
		}
		policies = append(policies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate policies: %w", err)
	}
	return policies, nil
}

// Save inserts a new holder at version 0 or updates a loaded one when the stored
// version still matches, advancing it by one.
func (s *PostgresStore) Save(ctx context.Context, h *models.PolicyHolder) error {
	if h == nil {
		return fmt.Errorf("policy holder is required")
	}
	if tx, ok := txcontext.From(ctx); ok {
		if err := s.save(ctx, tx, h); err != nil {
			return err
		}
		h.MarkPersisted()
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is no-op; error already captured
	}()
	if err := s.save(ctx, tx, h); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	h.MarkPersisted()
	return nil
}

func (s *PostgresStore) save(ctx context.Context, tx *sql.Tx, h *models.PolicyHolder) error {
	snap := h.Snapshot()
	if h.IsNew() {
		if err := insertHolder(ctx, tx, snap); err != nil {
			return err
		}
	} else if err := updateHolder(ctx, tx, snap); err != nil {
		return err
	}
	for i, p := range snap.Policies {
		if err := upsertPolicy(ctx, tx, snap.ID, i, p); err != nil {
			return err
		}
	}
	return nil
}

func insertHolder(ctx context.Context, tx *sql.Tx, snap models.Snapshot) error {
	query := `
		INSERT INTO policy_holders (` + holderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 0)
	`
	_, err := tx.ExecContext(ctx, query,
		snap.ID.String(),
		snap.NationalID.String(),
		snap.Name,
		string(snap.Gender),
		snap.BirthDate,
		snap.Mobile,
		nullString(snap.Email),
		snap.ZipCode,
		snap.City,
		snap.District,
		snap.Street,
		string(snap.Status),
		snap.CreatedAt,
		snap.UpdatedAt,
	)
	if err != nil {
		switch uniqueViolation(err) {
		case holderPrimaryKey:
			return fmt.Errorf("policy holder id %s: %w", snap.ID, sentinel.ErrIDTaken)
		case "":
			return fmt.Errorf("insert policy holder: %w", err)
		default:
			return fmt.Errorf("national id: %w", sentinel.ErrAlreadyUsed)
		}
	}
	return nil
}

func updateHolder(ctx context.Context, tx *sql.Tx, snap models.Snapshot) error {
	query := `
		UPDATE policy_holders
		SET mobile = $2, email = $3, zip_code = $4, city = $5, district = $6, street = $7,
			status = $8, updated_at = $9, version = version + 1
		WHERE id = $1 AND version = $10
	`
	res, err := tx.ExecContext(ctx, query,
		snap.ID.String(),
		snap.Mobile,
		nullString(snap.Email),
		snap.ZipCode,
		snap.City,
		snap.District,
		snap.Street,
		string(snap.Status),
		snap.UpdatedAt,
		snap.Version,
	)
	if err != nil {
		return fmt.Errorf("update policy holder: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update policy holder rows: %w", err)
	}
	if rows > 0 {
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM policy_holders WHERE id = $1)`, snap.ID.String()).Scan(&exists); err != nil {
		return fmt.Errorf("check policy holder: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return fmt.Errorf("policy holder %s at version %d: %w", snap.ID, snap.Version, sentinel.ErrConflict)
}

func upsertPolicy(ctx context.Context, tx *sql.Tx, holderID id.PolicyHolderID, position int, p models.PolicySnapshot) error {
	query := `
		INSERT INTO policies (policy_holder_id, position, ` + policyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status, terminated_on = EXCLUDED.terminated_on, version = policies.version + 1
		WHERE policies.policy_holder_id = EXCLUDED.policy_holder_id
			AND policies.status IS DISTINCT FROM EXCLUDED.status
	`
	_, err := tx.ExecContext(ctx, query,
		holderID.String(),
		position,
		p.ID.String(),
		string(p.Type),
		p.Premium.Amount(),
		p.Premium.Currency(),
		p.SumInsured.Amount(),
		p.SumInsured.Currency(),
		p.StartDate,
		p.EndDate,
		string(p.Status),
		nullTime(p),
		p.Version,
	)
	if err != nil {
		return fmt.Errorf("upsert policy %s: %w", p.ID, err)
	}
	return nil
}

// LastSequences returns the highest sequence numbers embedded in stored holder
// and policy ids, or zero for an empty table.
func (s *PostgresStore) LastSequences(ctx context.Context) (holders, policies int64, err error) {
	exec := txcontext.Executor(ctx, s.db)
	if err := exec.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(CAST(SUBSTRING(id FROM 3) AS BIGINT)), 0) FROM policy_holders`,
	).Scan(&holders); err != nil {
		return 0, 0, fmt.Errorf("last policy holder sequence: %w", err)
	}
	if err := exec.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(CAST(SUBSTRING(id FROM 3) AS BIGINT)), 0) FROM policies`,
	).Scan(&policies); err != nil {
		return 0, 0, fmt.Errorf("last policy sequence: %w", err)
	}
	return holders, policies, nil
}

func (s *PostgresStore) DeleteByID(ctx context.Context, holderID id.PolicyHolderID) error {
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `DELETE FROM policy_holders WHERE id = $1`, holderID.String())
	if err != nil {
		return fmt.Errorf("delete policy holder: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete policy holder rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type row interface {
	Scan(dest ...any) error
}

func scanHolder(r row) (models.Snapshot, error) {
	var snap models.Snapshot
	var holderID, nationalID, gender, status string
	var email sql.NullString
	if err := r.Scan(
		&holderID, &nationalID, &snap.Name, &gender, &snap.BirthDate, &snap.Mobile, &email,
		&snap.ZipCode, &snap.City, &snap.District, &snap.Street, &status,
		&snap.CreatedAt, &snap.UpdatedAt, &snap.Version,
	); err != nil {
		return models.Snapshot{}, err
	}
	snap.ID = id.PolicyHolderID(holderID)
	snap.NationalID = id.RestoreNationalID(nationalID)
	snap.Gender = models.Gender(gender)
	snap.Status = models.Status(status)
	snap.Email = email.String
	snap.BirthDate = snap.BirthDate.UTC()
	snap.CreatedAt = snap.CreatedAt.UTC()
	snap.UpdatedAt = snap.UpdatedAt.UTC()
	return snap, nil
}

func scanPolicy(r row) (models.PolicySnapshot, error) {
	var p models.PolicySnapshot
	var policyID, policyType, premiumCurrency, sumCurrency, status string
	var premium, sumInsured decimal.Decimal
	var terminated sql.NullTime
	if err := r.Scan(
		&policyID, &policyType, &premium, &premiumCurrency, &sumInsured,
		&sumCurrency, &p.StartDate, &p.EndDate, &status, &terminated, &p.Version,
	); err != nil {
		return models.PolicySnapshot{}, err
	}
	p.ID = id.PolicyID(policyID)
	p.Type = models.PolicyType(policyType)
	p.Premium = models.RestoreMoney(premium, premiumCurrency)
	p.SumInsured = models.RestoreMoney(sumInsured, sumCurrency)
	p.Status = models.PolicyStatus(status)
	p.StartDate = p.StartDate.UTC()
	p.EndDate = p.EndDate.UTC()
	if terminated.Valid {
		p.TerminatedOn = terminated.Time.UTC()
	}
	return p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(p models.PolicySnapshot) sql.NullTime {
	return sql.NullTime{Time: p.TerminatedOn, Valid: !p.TerminatedOn.IsZero()}
}

const holderPrimaryKey = "policy_holders_pkey"

// uniqueViolation returns the name of the violated unique constraint, or ""
// when err is not a unique violation. A violation without a constraint name
// reports "unique".
func uniqueViolation(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return ""
	}
	if pgErr.ConstraintName == "" {
		return "unique"
	}
	return pgErr.ConstraintName
}
