package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reportingService derives balances by aggregating posted items on demand.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountReader
	yearRepo      portsrepo.FinancialYearReader
	cache         portsrepo.BalanceCache
}

// NewReportingService creates a new reporting service. cache may be nil.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, accountRepo portsrepo.AccountReader, yearRepo portsrepo.FinancialYearReader, cache portsrepo.BalanceCache, opts ...Option) portssvc.ReportingSvcFacade {
	return &reportingService{
		BaseService:   newBaseService(opts...),
		reportingRepo: reportingRepo,
		accountRepo:   accountRepo,
		yearRepo:      yearRepo,
		cache:         cache,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func dateOrNil(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := domain.DateOnly(*t)
	return &d
}

// ledgerState is read before aggregating, so whatever is cached under a
// version is at least as new as that version.
func (s *reportingService) ledgerState(ctx context.Context) (domain.LedgerState, bool) {
	if s.cache == nil {
		return domain.LedgerState{}, false
	}
	state, err := s.yearRepo.GetLedgerState(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to read ledger version, bypassing balance cache")
		return domain.LedgerState{}, false
	}
	if state.LedgerID == "" {
		s.GetLogger(ctx).Warn("Ledger state has no ledger id, bypassing balance cache")
		return domain.LedgerState{}, false
	}
	return state, true
}

func (s *reportingService) BalanceOf(ctx context.Context, actor domain.Actor, accountID string, asOf *time.Time) (*domain.AccountBalance, error) {
	if err := s.Authorize(ctx, actor, domain.OpLedgerRead); err != nil {
		return nil, err
	}
	asOf = dateOrNil(asOf)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	ledger, cacheable := s.ledgerState(ctx)
	if cacheable {
		if b, ok := s.cache.GetAccountBalance(ctx, ledger, accountID, asOf); ok {
			return b, nil
		}
	}

	debit, credit, err := s.reportingRepo.SumAccountItems(ctx, accountID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum account items", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to compute balance of account %s: %w", account.Code, err)
	}

	balance := domain.AccountBalance{
		AccountID: account.AccountID,
		Code:      account.Code,
		Category:  account.Category,
		AsOf:      asOf,
		Debit:     debit,
		Credit:    credit,
		Balance:   accounting.NormalizeBalance(debit.Sub(credit), account.Category),
	}
	if cacheable {
		s.cache.SetAccountBalance(ctx, ledger, balance)
	}
	return &balance, nil
}

func (s *reportingService) TrialBalance(ctx context.Context, actor domain.Actor, asOf *time.Time) (*domain.TrialBalance, error) {
	if err := s.Authorize(ctx, actor, domain.OpLedgerRead); err != nil {
		return nil, err
	}
	asOf = dateOrNil(asOf)

	ledger, cacheable := s.ledgerState(ctx)
	if cacheable {
		if tb, ok := s.cache.GetTrialBalance(ctx, ledger, asOf); ok {
			return tb, nil
		}
	}

	rows, err := s.reportingRepo.GetAccountTotals(ctx, nil, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to get trial balance data")
		return nil, fmt.Errorf("failed to compute trial balance: %w", err)
	}

	tb := domain.TrialBalance{
		AsOf:        asOf,
		Rows:        rows,
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	if tb.Rows == nil {
		tb.Rows = []domain.TrialBalanceRow{}
	}
	for _, r := range rows {
		tb.TotalDebit = tb.TotalDebit.Add(r.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(r.Credit)
	}
	tb.Balanced = tb.TotalDebit.Equal(tb.TotalCredit)
	if !tb.Balanced {
		// Posting refuses unbalanced entries, so this means the store was edited behind the ledger's back.
		s.GetLogger(ctx).Error("Trial balance does not balance",
			slog.String("total_debit", tb.TotalDebit.String()),
			slog.String("total_credit", tb.TotalCredit.String()))
	}

	if cacheable {
		s.cache.SetTrialBalance(ctx, ledger, tb)
	}
	return &tb, nil
}

func (s *reportingService) ProfitAndLoss(ctx context.Context, actor domain.Actor, from, to *time.Time) (*domain.PAndLReport, error) {
	if err := s.Authorize(ctx, actor, domain.OpLedgerRead); err != nil {
		return nil, err
	}
	from, to = dateOrNil(from), dateOrNil(to)
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: 'to' date must not be before 'from' date", apperrors.ErrValidation)
	}

	rows, err := s.reportingRepo.GetAccountTotals(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to get profit and loss data")
		return nil, fmt.Errorf("failed to compute profit and loss: %w", err)
	}

	report := domain.PAndLReport{
		From:      from,
		To:        to,
		Revenue:   []domain.AccountAmount{},
		Expenses:  []domain.AccountAmount{},
		NetProfit: decimal.Zero,
	}
	for _, r := range rows {
		switch r.Category {
		case domain.Revenue:
			amt := toAccountAmount(r)
			report.Revenue = append(report.Revenue, amt)
			report.NetProfit = report.NetProfit.Add(amt.NetAmount)
		case domain.Expense:
			amt := toAccountAmount(r)
			report.Expenses = append(report.Expenses, amt)
			report.NetProfit = report.NetProfit.Sub(amt.NetAmount)
		}
	}
	return &report, nil
}

func (s *reportingService) BalanceSheet(ctx context.Context, actor domain.Actor, asOf *time.Time) (*domain.BalanceSheetReport, error) {
	if err := s.Authorize(ctx, actor, domain.OpLedgerRead); err != nil {
		return nil, err
	}
	asOf = dateOrNil(asOf)

	rows, err := s.reportingRepo.GetAccountTotals(ctx, nil, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to get balance sheet data")
		return nil, fmt.Errorf("failed to compute balance sheet: %w", err)
	}

	report := domain.BalanceSheetReport{
		AsOf:             asOf,
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		Equity:           []domain.AccountAmount{},
		CurrentEarnings:  decimal.Zero,
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	for _, r := range rows {
		amt := toAccountAmount(r)
		switch r.Category {
		case domain.Asset:
			report.Assets = append(report.Assets, amt)
			report.TotalAssets = report.TotalAssets.Add(amt.NetAmount)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, amt)
			report.TotalLiabilities = report.TotalLiabilities.Add(amt.NetAmount)
		case domain.Equity:
			report.Equity = append(report.Equity, amt)
			report.TotalEquity = report.TotalEquity.Add(amt.NetAmount)
		case domain.Revenue:
			report.CurrentEarnings = report.CurrentEarnings.Add(amt.NetAmount)
		case domain.Expense:
			report.CurrentEarnings = report.CurrentEarnings.Sub(amt.NetAmount)
		}
	}
	// Unclosed revenue and expense belong to equity; with it the sheet balances.
	report.TotalEquity = report.TotalEquity.Add(report.CurrentEarnings)
	return &report, nil
}

func toAccountAmount(r domain.TrialBalanceRow) domain.AccountAmount {
	return domain.AccountAmount{
		AccountID: r.AccountID,
		Code:      r.AccountCode,
		Name:      r.AccountName,
		NetAmount: accounting.NormalizeBalance(r.Net(), r.Category),
	}
}
