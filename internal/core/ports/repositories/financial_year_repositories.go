package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// FinancialYearReader defines read operations for financial years and the ledger state row.
type FinancialYearReader interface {
	FindYearByID(ctx context.Context, yearID string) (*domain.FinancialYear, error)

	// FindYearForDate returns the year whose [start, end) covers date, or ErrNotFound.
	FindYearForDate(ctx context.Context, date time.Time) (*domain.FinancialYear, error)

	// FindOverlappingYears returns every year intersecting [start, end).
	FindOverlappingYears(ctx context.Context, start, end time.Time) ([]domain.FinancialYear, error)

	// FindActiveYear returns the year named by ledger_state.active_year_id, or ErrNotFound.
	FindActiveYear(ctx context.Context) (*domain.FinancialYear, error)

	// ListYears returns all years ordered by start date.
	ListYears(ctx context.Context) ([]domain.FinancialYear, error)

	// GetLedgerState reads the ledger state row without locking it.
	GetLedgerState(ctx context.Context) (domain.LedgerState, error)
}

// FinancialYearWriter defines write and locking operations. The locking methods
// are only meaningful inside TransactionManager.WithTransaction.
type FinancialYearWriter interface {
	// SaveYear persists a new year. A duplicate name fails with ErrDuplicate.
	SaveYear(ctx context.Context, year domain.FinancialYear) error

	// LockLedgerState locks the ledger state row without waiting. A held lock
	// surfaces as ErrConcurrencyConflict.
	LockLedgerState(ctx context.Context) (domain.LedgerState, error)

	// ActivateYear clears the active flag of every other year, sets it on yearID and
	// records yearID in the ledger state row.
	ActivateYear(ctx context.Context, yearID string, userID string, now time.Time) error

	// LockYearForPosting takes a shared lock on the year row so activation cannot
	// change it under a concurrent post.
	LockYearForPosting(ctx context.Context, yearID string) (*domain.FinancialYear, error)

	// NextEntrySequence reserves and returns the next entry number of the year.
	NextEntrySequence(ctx context.Context, yearID string) (int64, error)

	// SetPostingUnlocked toggles acceptance of historical postings.
	SetPostingUnlocked(ctx context.Context, yearID string, unlocked bool, userID string, now time.Time) error

	// BumpLedgerVersion increments and returns the ledger version.
	BumpLedgerVersion(ctx context.Context) (int64, error)
}

// FinancialYearRepositoryFacade combines all financial year repository interfaces
type FinancialYearRepositoryFacade interface {
	FinancialYearReader
	FinancialYearWriter
}
