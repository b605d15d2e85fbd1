package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) accountResult(args mock.Arguments) (*domain.Account, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, actor domain.Actor, accountID string) (*domain.Account, error) {
	return m.accountResult(m.Called(ctx, actor, accountID))
}
func (m *MockAccountService) GetAccountByCode(ctx context.Context, actor domain.Actor, code string) (*domain.Account, error) {
	return m.accountResult(m.Called(ctx, actor, code))
}
func (m *MockAccountService) ListAccounts(ctx context.Context, actor domain.Actor, filter domain.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error) {
	return m.accountResult(m.Called(ctx, actor, req))
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, actor domain.Actor, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	return m.accountResult(m.Called(ctx, actor, accountID, req))
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, actor domain.Actor, accountID string) (*domain.Account, error) {
	return m.accountResult(m.Called(ctx, actor, accountID))
}
func (m *MockAccountService) ReactivateAccount(ctx context.Context, actor domain.Actor, accountID string) (*domain.Account, error) {
	return m.accountResult(m.Called(ctx, actor, accountID))
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, actor domain.Actor, accountID string) error {
	return m.Called(ctx, actor, accountID).Error(0)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock FinancialYearService ---
type MockFinancialYearService struct {
	mock.Mock
}

func (m *MockFinancialYearService) yearResult(args mock.Arguments) (*domain.FinancialYear, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialYear), args.Error(1)
}

func (m *MockFinancialYearService) CreateYear(ctx context.Context, actor domain.Actor, req dto.CreateFinancialYearRequest) (*domain.FinancialYear, error) {
	return m.yearResult(m.Called(ctx, actor, req))
}
func (m *MockFinancialYearService) ActivateYear(ctx context.Context, actor domain.Actor, yearID string) (*domain.FinancialYear, error) {
	return m.yearResult(m.Called(ctx, actor, yearID))
}
func (m *MockFinancialYearService) UnlockYear(ctx context.Context, actor domain.Actor, yearID string) (*domain.FinancialYear, error) {
	return m.yearResult(m.Called(ctx, actor, yearID))
}
func (m *MockFinancialYearService) LockYear(ctx context.Context, actor domain.Actor, yearID string) (*domain.FinancialYear, error) {
	return m.yearResult(m.Called(ctx, actor, yearID))
}
func (m *MockFinancialYearService) IsOpenFor(ctx context.Context, date time.Time) (bool, error) {
	args := m.Called(ctx, date)
	return args.Bool(0), args.Error(1)
}
func (m *MockFinancialYearService) GetYear(ctx context.Context, actor domain.Actor, yearID string) (*domain.FinancialYear, error) {
	return m.yearResult(m.Called(ctx, actor, yearID))
}
func (m *MockFinancialYearService) GetActiveYear(ctx context.Context, actor domain.Actor) (*domain.FinancialYear, error) {
	return m.yearResult(m.Called(ctx, actor))
}
func (m *MockFinancialYearService) ListYears(ctx context.Context, actor domain.Actor) ([]domain.FinancialYear, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialYear), args.Error(1)
}

var _ portssvc.FinancialYearSvcFacade = (*MockFinancialYearService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) entryResult(args mock.Arguments) (*domain.JournalEntry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) GetEntry(ctx context.Context, actor domain.Actor, entryID string) (*domain.JournalEntry, error) {
	return m.entryResult(m.Called(ctx, actor, entryID))
}
func (m *MockJournalService) ListEntries(ctx context.Context, actor domain.Actor, params domain.EntryListParams) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, actor, params)
	var entries []domain.JournalEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.JournalEntry)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return entries, next, args.Error(2)
}
func (m *MockJournalService) ListAccountItems(ctx context.Context, actor domain.Actor, accountID string, limit int, nextToken *string) ([]domain.AccountLedgerLine, *string, error) {
	args := m.Called(ctx, actor, accountID, limit, nextToken)
	var lines []domain.AccountLedgerLine
	if args.Get(0) != nil {
		lines = args.Get(0).([]domain.AccountLedgerLine)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return lines, next, args.Error(2)
}
func (m *MockJournalService) CreateEntry(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error) {
	return m.entryResult(m.Called(ctx, actor, req))
}
func (m *MockJournalService) UpdateDraft(ctx context.Context, actor domain.Actor, entryID string, req dto.UpdateJournalEntryRequest) (*domain.JournalEntry, error) {
	return m.entryResult(m.Called(ctx, actor, entryID, req))
}
func (m *MockJournalService) PostEntry(ctx context.Context, actor domain.Actor, entryID string) (*domain.JournalEntry, error) {
	return m.entryResult(m.Called(ctx, actor, entryID))
}
func (m *MockJournalService) CancelEntry(ctx context.Context, actor domain.Actor, entryID string, reason string) (*domain.JournalEntry, error) {
	return m.entryResult(m.Called(ctx, actor, entryID, reason))
}
func (m *MockJournalService) DeleteEntry(ctx context.Context, actor domain.Actor, entryID string) error {
	return m.Called(ctx, actor, entryID).Error(0)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) BalanceOf(ctx context.Context, actor domain.Actor, accountID string, asOf *time.Time) (*domain.AccountBalance, error) {
	args := m.Called(ctx, actor, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}
func (m *MockReportingService) TrialBalance(ctx context.Context, actor domain.Actor, asOf *time.Time) (*domain.TrialBalance, error) {
	args := m.Called(ctx, actor, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}
func (m *MockReportingService) ProfitAndLoss(ctx context.Context, actor domain.Actor, from, to *time.Time) (*domain.PAndLReport, error) {
	args := m.Called(ctx, actor, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PAndLReport), args.Error(1)
}
func (m *MockReportingService) BalanceSheet(ctx context.Context, actor domain.Actor, asOf *time.Time) (*domain.BalanceSheetReport, error) {
	args := m.Called(ctx, actor, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheetReport), args.Error(1)
}

var _ portssvc.ReportingSvcFacade = (*MockReportingService)(nil)
