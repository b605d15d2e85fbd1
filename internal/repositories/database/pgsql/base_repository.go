package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes the ledger reacts to.
const (
	pgUniqueViolation      = "23505"
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so one
// repository implementation serves both pooled and transactional use.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	DB querier
}

// translateError maps lock and serialization failures to ErrConcurrencyConflict.
// Everything else is returned unchanged.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return fmt.Errorf("%w: %s", apperrors.ErrConcurrencyConflict, pgErr.Message)
		}
	}
	return err
}

// uniqueViolation reports the violated constraint name of a 23505 error.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// exclusionViolation reports whether err is a 23P01 error, raised by the
// financial year overlap constraint.
func exclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// isUUID filters ids that Postgres would reject with invalid_text_representation.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func dbError(msg string, err error) error {
	err = translateError(err)
	if apperrors.IsRetryable(err) {
		return err
	}
	return apperrors.NewAppError(http.StatusInternalServerError, msg, err)
}

// PgxTxManager implements portsrepo.TransactionManager over a pgx pool.
type PgxTxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a transaction manager for pool.
func NewTxManager(pool *pgxpool.Pool) *PgxTxManager {
	return &PgxTxManager{pool: pool}
}

var _ portsrepo.TransactionManager = (*PgxTxManager)(nil)

// WithTransaction runs fn in a READ COMMITTED transaction. Correctness relies
// on the explicit row locks the repositories take, not on the isolation level.
func (m *PgxTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx portsrepo.TxRepositories) error) error {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	// Rollback after Commit is a no-op returning ErrTxClosed.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, txRepositories(tx)); err != nil {
		return translateError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return dbError("failed to commit transaction", err)
	}
	return nil
}

func txRepositories(q querier) portsrepo.TxRepositories {
	base := BaseRepository{DB: q}
	return portsrepo.TxRepositories{
		Accounts: &PgxAccountRepository{BaseRepository: base},
		Years:    &PgxFinancialYearRepository{BaseRepository: base},
		Journals: &PgxJournalRepository{BaseRepository: base},
	}
}
