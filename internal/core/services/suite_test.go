package services

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var (
	admin      = domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
	accountant = domain.Actor{UserID: "acct-1", Role: domain.RoleAccountant}
	viewer     = domain.Actor{UserID: "view-1", Role: domain.RoleReadOnly}

	// "today" for every service under test
	testNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
)

// ledgerSuite wires every service to one in-memory store with a fixed clock.
type ledgerSuite struct {
	suite.Suite
	ctx      context.Context
	repos    portsrepo.RepositoryProvider
	accounts portssvc.AccountSvcFacade
	years    portssvc.FinancialYearSvcFacade
	journal  portssvc.JournalSvcFacade
	reports  portssvc.ReportingSvcFacade
	seed     portssvc.SeedSvc

	posting domain.PostingPolicy

	fy2024  *domain.FinancialYear
	cash    *domain.Account
	bank    *domain.Account
	capital *domain.Account
	sales   *domain.Account
	rent    *domain.Account
}

func (s *ledgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.posting = domain.PostingPolicy{}
	s.repos = memory.NewRepositoryProvider(memory.NewStore())
	s.build()

	var err error
	s.fy2024, err = s.years.CreateYear(s.ctx, admin, dto.CreateFinancialYearRequest{Name: "2024-25", StartDate: "2024-04-01", EndDate: "2025-04-01"})
	s.Require().NoError(err)
	s.fy2024, err = s.years.ActivateYear(s.ctx, admin, s.fy2024.FinancialYearID)
	s.Require().NoError(err)

	s.cash = s.mustAccount("1000", "Cash", domain.Asset)
	s.bank = s.mustAccount("1100", "Bank", domain.Asset)
	s.capital = s.mustAccount("3000", "Owner Capital", domain.Equity)
	s.sales = s.mustAccount("4000", "Sales", domain.Revenue)
	s.rent = s.mustAccount("5000", "Rent", domain.Expense)
}

// build (re)creates the services over the current store, e.g. after changing s.posting.
func (s *ledgerSuite) build(extra ...Option) {
	opts := append([]Option{WithClock(func() time.Time { return testNow }), WithPostingPolicy(s.posting)}, extra...)
	s.accounts = NewAccountService(s.repos.AccountRepo, s.repos.TxManager, opts...)
	s.years = NewFinancialYearService(s.repos.YearRepo, s.repos.TxManager, opts...)
	s.journal = NewJournalService(s.repos.JournalRepo, s.repos.AccountRepo, s.repos.TxManager, opts...)
	s.reports = NewReportingService(s.repos.ReportingRepo, s.repos.AccountRepo, s.repos.YearRepo, s.repos.BalanceCache, opts...)
	s.seed = NewSeedService(s.repos.AccountRepo, opts...)
}

func (s *ledgerSuite) mustAccount(code, name string, c domain.Category) *domain.Account {
	acc, err := s.accounts.CreateAccount(s.ctx, admin, dto.CreateAccountRequest{Code: code, Name: name, Category: c})
	s.Require().NoError(err)
	return acc
}

func line(acc *domain.Account, t domain.ItemType, amount string) dto.JournalItemRequest {
	return dto.JournalItemRequest{AccountID: acc.AccountID, Type: t, Amount: decimal.RequireFromString(amount)}
}

func (s *ledgerSuite) draft(date string, items ...dto.JournalItemRequest) *domain.JournalEntry {
	e, err := s.journal.CreateEntry(s.ctx, accountant, dto.CreateJournalEntryRequest{EntryDate: date, Narration: "test entry", Items: items})
	s.Require().NoError(err)
	return e
}

func (s *ledgerSuite) posted(date string, items ...dto.JournalItemRequest) *domain.JournalEntry {
	e := s.draft(date, items...)
	p, err := s.journal.PostEntry(s.ctx, accountant, e.JournalEntryID)
	s.Require().NoError(err)
	return p
}

func (s *ledgerSuite) balance(acc *domain.Account) decimal.Decimal {
	b, err := s.reports.BalanceOf(s.ctx, viewer, acc.AccountID, nil)
	s.Require().NoError(err)
	return b.Balance
}

func (s *ledgerSuite) assertDecimal(expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	s.Truef(decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s %v", expected, actual.String(), msgAndArgs)
}
