package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository aggregates POSTED journal items. Draft and cancelled entries never count.
type ReportingRepository interface {
	// SumAccountItems totals the posted debits and credits of one account dated on or before asOf (nil = all time).
	SumAccountItems(ctx context.Context, accountID string, asOf *time.Time) (debit, credit decimal.Decimal, err error)

	// GetAccountTotals returns one row per account having posted items dated within
	// [from, to], both bounds inclusive and optional. Rows are ordered by account code.
	GetAccountTotals(ctx context.Context, from, to *time.Time) ([]domain.TrialBalanceRow, error)
}

// BalanceCache memoises derived balances under a ledger id and version. Every
// post, cancel or account update bumps the version, so stale entries are never
// read again, and the ledger id keeps stores sharing one cache apart.
type BalanceCache interface {
	GetAccountBalance(ctx context.Context, ledger domain.LedgerState, accountID string, asOf *time.Time) (*domain.AccountBalance, bool)
	SetAccountBalance(ctx context.Context, ledger domain.LedgerState, balance domain.AccountBalance)
	GetTrialBalance(ctx context.Context, ledger domain.LedgerState, asOf *time.Time) (*domain.TrialBalance, bool)
	SetTrialBalance(ctx context.Context, ledger domain.LedgerState, tb domain.TrialBalance)
}
