package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/repositories/cache"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockBalanceCache is a mock implementation of repositories.BalanceCache
type MockBalanceCache struct {
	mock.Mock
}

func (m *MockBalanceCache) GetAccountBalance(ctx context.Context, ledger domain.LedgerState, accountID string, asOf *time.Time) (*domain.AccountBalance, bool) {
	args := m.Called(ctx, ledger, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Bool(1)
}

func (m *MockBalanceCache) SetAccountBalance(ctx context.Context, ledger domain.LedgerState, balance domain.AccountBalance) {
	m.Called(ctx, ledger, balance)
}

func (m *MockBalanceCache) GetTrialBalance(ctx context.Context, ledger domain.LedgerState, asOf *time.Time) (*domain.TrialBalance, bool) {
	args := m.Called(ctx, ledger, asOf)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Bool(1)
}

func (m *MockBalanceCache) SetTrialBalance(ctx context.Context, ledger domain.LedgerState, tb domain.TrialBalance) {
	m.Called(ctx, ledger, tb)
}

// mapBalanceCache keeps entries in memory under the same keys the Redis cache uses.
type mapBalanceCache struct {
	mu      sync.Mutex
	entries map[string]any
}

func newMapBalanceCache() *mapBalanceCache {
	return &mapBalanceCache{entries: make(map[string]any)}
}

func (c *mapBalanceCache) GetAccountBalance(_ context.Context, ledger domain.LedgerState, accountID string, asOf *time.Time) (*domain.AccountBalance, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[cache.BalanceKey(ledger, accountID, asOf)].(domain.AccountBalance)
	if !ok {
		return nil, false
	}
	return &b, true
}

func (c *mapBalanceCache) SetAccountBalance(_ context.Context, ledger domain.LedgerState, balance domain.AccountBalance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cache.BalanceKey(ledger, balance.AccountID, balance.AsOf)] = balance
}

func (c *mapBalanceCache) GetTrialBalance(_ context.Context, ledger domain.LedgerState, asOf *time.Time) (*domain.TrialBalance, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tb, ok := c.entries[cache.TrialBalanceKey(ledger, asOf)].(domain.TrialBalance)
	if !ok {
		return nil, false
	}
	return &tb, true
}

func (c *mapBalanceCache) SetTrialBalance(_ context.Context, ledger domain.LedgerState, tb domain.TrialBalance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cache.TrialBalanceKey(ledger, tb.AsOf)] = tb
}

type ReportingServiceTestSuite struct {
	ledgerSuite
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func (s *ReportingServiceTestSuite) seedActivity() {
	s.posted("2024-04-01", line(s.cash, domain.Debit, "1000"), line(s.capital, domain.Credit, "1000"))
	s.posted("2024-05-10", line(s.bank, domain.Debit, "300"), line(s.sales, domain.Credit, "300"))
	s.posted("2024-06-15", line(s.rent, domain.Debit, "120.25"), line(s.cash, domain.Credit, "120.25"))
	s.draft("2024-06-16", line(s.rent, domain.Debit, "5000"), line(s.cash, domain.Credit, "5000"))
}

func (s *ReportingServiceTestSuite) TestBalanceOf_AsOf() {
	s.seedActivity()

	s.assertDecimal("879.75", s.balance(s.cash))

	b, err := s.reports.BalanceOf(s.ctx, viewer, s.cash.AccountID, date(2024, 6, 14))
	s.Require().NoError(err)
	s.assertDecimal("1000", b.Balance)

	// asOf is inclusive of the whole day
	evening := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	b, err = s.reports.BalanceOf(s.ctx, viewer, s.cash.AccountID, &evening)
	s.Require().NoError(err)
	s.assertDecimal("879.75", b.Balance)
	s.assertDecimal("1000", b.Debit)
	s.assertDecimal("120.25", b.Credit)

	_, err = s.reports.BalanceOf(s.ctx, viewer, "missing", nil)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ReportingServiceTestSuite) TestTrialBalance() {
	s.seedActivity()

	tb, err := s.reports.TrialBalance(s.ctx, viewer, nil)
	s.Require().NoError(err)
	s.True(tb.Balanced)
	s.assertDecimal("1420.25", tb.TotalDebit)
	s.Require().Len(tb.Rows, 5)
	s.Equal("1000", tb.Rows[0].AccountCode)
	s.Equal("5000", tb.Rows[4].AccountCode)

	tb, err = s.reports.TrialBalance(s.ctx, viewer, date(2024, 4, 30))
	s.Require().NoError(err)
	s.Len(tb.Rows, 2)
	s.assertDecimal("1000", tb.TotalCredit)
}

func (s *ReportingServiceTestSuite) TestProfitAndLoss() {
	s.seedActivity()

	pl, err := s.reports.ProfitAndLoss(s.ctx, viewer, nil, nil)
	s.Require().NoError(err)
	s.Require().Len(pl.Revenue, 1)
	s.Require().Len(pl.Expenses, 1)
	s.assertDecimal("300", pl.Revenue[0].NetAmount)
	s.assertDecimal("120.25", pl.Expenses[0].NetAmount)
	s.assertDecimal("179.75", pl.NetProfit)

	pl, err = s.reports.ProfitAndLoss(s.ctx, viewer, date(2024, 6, 1), date(2024, 6, 30))
	s.Require().NoError(err)
	s.Empty(pl.Revenue)
	s.assertDecimal("-120.25", pl.NetProfit)

	_, err = s.reports.ProfitAndLoss(s.ctx, viewer, date(2024, 6, 30), date(2024, 6, 1))
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ReportingServiceTestSuite) TestBalanceSheet_Balances() {
	s.seedActivity()

	bs, err := s.reports.BalanceSheet(s.ctx, viewer, nil)
	s.Require().NoError(err)
	s.assertDecimal("1179.75", bs.TotalAssets)
	s.assertDecimal("0", bs.TotalLiabilities)
	s.assertDecimal("179.75", bs.CurrentEarnings)
	s.assertDecimal("1179.75", bs.TotalEquity)
	s.True(bs.TotalAssets.Equal(bs.TotalLiabilities.Add(bs.TotalEquity)))
}

func (s *ReportingServiceTestSuite) TestReports_RequireReadPermission() {
	nobody := domain.Actor{UserID: "u", Role: "GUEST"}
	_, err := s.reports.TrialBalance(s.ctx, nobody, nil)
	s.ErrorIs(err, apperrors.ErrForbidden)
	_, err = s.reports.BalanceSheet(s.ctx, domain.Actor{}, nil)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *ReportingServiceTestSuite) TestBalanceOf_UsesCacheUnderLedgerVersion() {
	s.posted("2024-05-01", line(s.cash, domain.Debit, "100"), line(s.capital, domain.Credit, "100"))
	state, err := s.repos.YearRepo.GetLedgerState(s.ctx)
	s.Require().NoError(err)

	cache := new(MockBalanceCache)
	svc := NewReportingService(s.repos.ReportingRepo, s.repos.AccountRepo, s.repos.YearRepo, cache, WithClock(func() time.Time { return testNow }))

	cache.On("GetAccountBalance", mock.Anything, state, s.cash.AccountID, (*time.Time)(nil)).Return(nil, false).Once()
	cache.On("SetAccountBalance", mock.Anything, state, mock.MatchedBy(func(b domain.AccountBalance) bool {
		return b.AccountID == s.cash.AccountID && b.Balance.String() == "100"
	})).Once()

	b, err := svc.BalanceOf(s.ctx, viewer, s.cash.AccountID, nil)
	s.Require().NoError(err)
	s.assertDecimal("100", b.Balance)

	cached := *b
	cache.On("GetAccountBalance", mock.Anything, state, s.cash.AccountID, (*time.Time)(nil)).Return(&cached, true).Once()
	b, err = svc.BalanceOf(s.ctx, viewer, s.cash.AccountID, nil)
	s.Require().NoError(err)
	s.Same(&cached, b)

	// a post moves the version so the old entry is never consulted
	s.posted("2024-05-02", line(s.cash, domain.Debit, "1"), line(s.capital, domain.Credit, "1"))
	next := state
	next.Version++
	cache.On("GetTrialBalance", mock.Anything, next, (*time.Time)(nil)).Return(nil, false).Once()
	cache.On("SetTrialBalance", mock.Anything, next, mock.AnythingOfType("domain.TrialBalance")).Once()
	tb, err := svc.TrialBalance(s.ctx, viewer, nil)
	s.Require().NoError(err)
	s.True(tb.Balanced)

	cache.AssertExpectations(s.T())
}

func (s *ReportingServiceTestSuite) useCache(c *mapBalanceCache) {
	s.repos.BalanceCache = c
	s.build()
}

func (s *ReportingServiceTestSuite) TestTrialBalance_SharedCacheKeepsLedgersApart() {
	shared := newMapBalanceCache()

	s.useCache(shared)
	s.posted("2024-05-01", line(s.cash, domain.Debit, "100"), line(s.capital, domain.Credit, "100"))
	tb, err := s.reports.TrialBalance(s.ctx, viewer, nil)
	s.Require().NoError(err)
	s.assertDecimal("100", tb.TotalDebit)
	first, err := s.repos.YearRepo.GetLedgerState(s.ctx)
	s.Require().NoError(err)

	// a brand new store replays the same history, so its version matches
	s.SetupTest()
	s.useCache(shared)
	s.posted("2024-05-01", line(s.cash, domain.Debit, "250"), line(s.capital, domain.Credit, "250"))
	second, err := s.repos.YearRepo.GetLedgerState(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(first.Version, second.Version)
	s.NotEqual(first.LedgerID, second.LedgerID)

	tb, err = s.reports.TrialBalance(s.ctx, viewer, nil)
	s.Require().NoError(err)
	s.assertDecimal("250", tb.TotalDebit)

	b, err := s.reports.BalanceOf(s.ctx, viewer, s.cash.AccountID, nil)
	s.Require().NoError(err)
	s.assertDecimal("250", b.Balance)
}

func (s *ReportingServiceTestSuite) TestTrialBalance_RenameInvalidatesCachedNames() {
	s.useCache(newMapBalanceCache())
	s.posted("2024-05-01", line(s.cash, domain.Debit, "100"), line(s.capital, domain.Credit, "100"))

	tb, err := s.reports.TrialBalance(s.ctx, viewer, nil)
	s.Require().NoError(err)
	s.Require().Len(tb.Rows, 2)
	s.Equal("Cash", tb.Rows[0].AccountName)

	name := "Petty Cash"
	_, err = s.accounts.UpdateAccount(s.ctx, admin, s.cash.AccountID, dto.UpdateAccountRequest{Name: &name})
	s.Require().NoError(err)

	tb, err = s.reports.TrialBalance(s.ctx, viewer, nil)
	s.Require().NoError(err)
	s.Require().Len(tb.Rows, 2)
	s.Equal("Petty Cash", tb.Rows[0].AccountName)
}
