package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/models"
	"github.com/SscSPs/erp_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const yearColumns = `financial_year_id, name, start_date, end_date, is_active, posting_unlocked, next_entry_seq, created_at, created_by, last_updated_at, last_updated_by`

// ledgerStateID is the primary key of the single ledger_state row.
const ledgerStateID = 1

type PgxFinancialYearRepository struct {
	BaseRepository
}

var _ portsrepo.FinancialYearRepositoryFacade = (*PgxFinancialYearRepository)(nil)

func yearNotFound(what string) error {
	return apperrors.NewNotFoundError("financial year " + what + " not found")
}

func (r *PgxFinancialYearRepository) queryYears(ctx context.Context, query string, args ...any) ([]domain.FinancialYear, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("failed to query financial years", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.FinancialYear])
	if err != nil {
		return nil, dbError("failed to scan financial years", err)
	}
	return mapping.ToDomainFinancialYearSlice(ms), nil
}

func (r *PgxFinancialYearRepository) queryYear(ctx context.Context, what, query string, args ...any) (*domain.FinancialYear, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("failed to query financial year", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.FinancialYear])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, yearNotFound(what)
		}
		return nil, dbError("failed to scan financial year", err)
	}
	y := mapping.ToDomainFinancialYear(m)
	return &y, nil
}

func (r *PgxFinancialYearRepository) FindYearByID(ctx context.Context, yearID string) (*domain.FinancialYear, error) {
	if !isUUID(yearID) {
		return nil, yearNotFound(yearID)
	}
	return r.queryYear(ctx, yearID, `SELECT `+yearColumns+` FROM financial_years WHERE financial_year_id = $1`, yearID)
}

func (r *PgxFinancialYearRepository) FindYearForDate(ctx context.Context, date time.Time) (*domain.FinancialYear, error) {
	d := domain.DateOnly(date)
	return r.queryYear(ctx, "covering "+d.Format(time.DateOnly),
		`SELECT `+yearColumns+` FROM financial_years WHERE start_date <= $1::date AND end_date > $1::date`, d)
}

func (r *PgxFinancialYearRepository) FindOverlappingYears(ctx context.Context, start, end time.Time) ([]domain.FinancialYear, error) {
	return r.queryYears(ctx,
		`SELECT `+yearColumns+` FROM financial_years WHERE start_date < $2::date AND end_date > $1::date ORDER BY start_date`,
		domain.DateOnly(start), domain.DateOnly(end))
}

func (r *PgxFinancialYearRepository) FindActiveYear(ctx context.Context) (*domain.FinancialYear, error) {
	query := `
		SELECT fy.financial_year_id, fy.name, fy.start_date, fy.end_date, fy.is_active, fy.posting_unlocked, fy.next_entry_seq,
		       fy.created_at, fy.created_by, fy.last_updated_at, fy.last_updated_by
		FROM ledger_state ls
		JOIN financial_years fy ON fy.financial_year_id = ls.active_year_id
		WHERE ls.id = $1;
	`
	return r.queryYear(ctx, "active", query, ledgerStateID)
}

func (r *PgxFinancialYearRepository) ListYears(ctx context.Context) ([]domain.FinancialYear, error) {
	return r.queryYears(ctx, `SELECT `+yearColumns+` FROM financial_years ORDER BY start_date`)
}

func (r *PgxFinancialYearRepository) ledgerState(ctx context.Context, lockClause string) (domain.LedgerState, error) {
	rows, err := r.DB.Query(ctx, `SELECT ledger_id, active_year_id, version FROM ledger_state WHERE id = $1 `+lockClause, ledgerStateID)
	if err != nil {
		return domain.LedgerState{}, dbError("failed to read ledger state", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.LedgerState])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.LedgerState{}, fmt.Errorf("ledger_state row missing, run migrations: %w", err)
		}
		return domain.LedgerState{}, dbError("failed to scan ledger state", err)
	}
	return mapping.ToDomainLedgerState(m), nil
}

func (r *PgxFinancialYearRepository) GetLedgerState(ctx context.Context) (domain.LedgerState, error) {
	return r.ledgerState(ctx, "")
}

// LockLedgerState fails immediately with 55P03 when another transaction holds
// the row; translateError turns that into ErrConcurrencyConflict.
func (r *PgxFinancialYearRepository) LockLedgerState(ctx context.Context) (domain.LedgerState, error) {
	return r.ledgerState(ctx, "FOR UPDATE NOWAIT")
}

func (r *PgxFinancialYearRepository) SaveYear(ctx context.Context, year domain.FinancialYear) error {
	m := mapping.ToModelFinancialYear(year)
	query := `
		INSERT INTO financial_years (` + yearColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.DB.Exec(ctx, query,
		m.FinancialYearID, m.Name, m.StartDate, m.EndDate, m.IsActive, m.PostingUnlocked, m.NextEntrySeq,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if _, dup := uniqueViolation(err); dup {
			return fmt.Errorf("%w: financial year named %s", apperrors.ErrDuplicate, m.Name)
		}
		if exclusionViolation(err) {
			return fmt.Errorf("%w: %s", apperrors.ErrOverlappingPeriod, m.Name)
		}
		return dbError("failed to save financial year "+m.Name, err)
	}
	return nil
}

// ActivateYear clears the previous active year before setting the new one so
// the partial unique index on is_active never sees two rows.
func (r *PgxFinancialYearRepository) ActivateYear(ctx context.Context, yearID string, userID string, now time.Time) error {
	if !isUUID(yearID) {
		return yearNotFound(yearID)
	}
	_, err := r.DB.Exec(ctx, `
		UPDATE financial_years
		SET is_active = false, last_updated_at = $2, last_updated_by = $3
		WHERE is_active AND financial_year_id <> $1;
	`, yearID, now, userID)
	if err != nil {
		return dbError("failed to deactivate previous financial year", err)
	}

	tag, err := r.DB.Exec(ctx, `
		UPDATE financial_years
		SET is_active = true, last_updated_at = $2, last_updated_by = $3
		WHERE financial_year_id = $1;
	`, yearID, now, userID)
	if err != nil {
		if _, dup := uniqueViolation(err); dup {
			return fmt.Errorf("%w: another financial year became active", apperrors.ErrConcurrencyConflict)
		}
		return dbError("failed to activate financial year", err)
	}
	if tag.RowsAffected() == 0 {
		return yearNotFound(yearID)
	}

	if _, err := r.DB.Exec(ctx, `UPDATE ledger_state SET active_year_id = $2 WHERE id = $1`, ledgerStateID, yearID); err != nil {
		return dbError("failed to record active financial year", err)
	}
	return nil
}

// LockYearForPosting takes FOR SHARE: concurrent posts proceed together while
// activation, which updates the row, waits for them.
func (r *PgxFinancialYearRepository) LockYearForPosting(ctx context.Context, yearID string) (*domain.FinancialYear, error) {
	if !isUUID(yearID) {
		return nil, yearNotFound(yearID)
	}
	return r.queryYear(ctx, yearID, `SELECT `+yearColumns+` FROM financial_years WHERE financial_year_id = $1 FOR SHARE`, yearID)
}

func (r *PgxFinancialYearRepository) NextEntrySequence(ctx context.Context, yearID string) (int64, error) {
	var seq int64
	err := r.DB.QueryRow(ctx, `
		UPDATE financial_years
		SET next_entry_seq = next_entry_seq + 1
		WHERE financial_year_id = $1
		RETURNING next_entry_seq - 1;
	`, yearID).Scan(&seq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, yearNotFound(yearID)
		}
		return 0, dbError("failed to reserve entry sequence", err)
	}
	return seq, nil
}

func (r *PgxFinancialYearRepository) SetPostingUnlocked(ctx context.Context, yearID string, unlocked bool, userID string, now time.Time) error {
	if !isUUID(yearID) {
		return yearNotFound(yearID)
	}
	tag, err := r.DB.Exec(ctx, `
		UPDATE financial_years
		SET posting_unlocked = $2, last_updated_at = $3, last_updated_by = $4
		WHERE financial_year_id = $1;
	`, yearID, unlocked, now, userID)
	if err != nil {
		return dbError("failed to change posting lock", err)
	}
	if tag.RowsAffected() == 0 {
		return yearNotFound(yearID)
	}
	return nil
}

func (r *PgxFinancialYearRepository) BumpLedgerVersion(ctx context.Context) (int64, error) {
	var version int64
	err := r.DB.QueryRow(ctx, `UPDATE ledger_state SET version = version + 1 WHERE id = $1 RETURNING version`, ledgerStateID).Scan(&version)
	if err != nil {
		return 0, dbError("failed to bump ledger version", err)
	}
	return version, nil
}
