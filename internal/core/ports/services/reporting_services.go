package services

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// ReportingSvcFacade derives balances and statements from posted journal items.
type ReportingSvcFacade interface {
	// BalanceOf returns the account balance as of a date (nil = all time), positive on the account's normal side.
	BalanceOf(ctx context.Context, actor domain.Actor, accountID string, asOf *time.Time) (*domain.AccountBalance, error)

	// TrialBalance generates a trial balance report as of a specific date
	TrialBalance(ctx context.Context, actor domain.Actor, asOf *time.Time) (*domain.TrialBalance, error)

	// ProfitAndLoss generates a profit and loss report for a specific period
	ProfitAndLoss(ctx context.Context, actor domain.Actor, from, to *time.Time) (*domain.PAndLReport, error)

	// BalanceSheet generates a balance sheet report as of a specific date
	BalanceSheet(ctx context.Context, actor domain.Actor, asOf *time.Time) (*domain.BalanceSheetReport, error)
}
