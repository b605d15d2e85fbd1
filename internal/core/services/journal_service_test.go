package services

import (
	"testing"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type JournalServiceTestSuite struct {
	ledgerSuite
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

func (s *JournalServiceTestSuite) TestPostBalancedEntry_MovesBothBalances() {
	entry := s.posted("2024-05-01", line(s.cash, domain.Debit, "100"), line(s.capital, domain.Credit, "100"))

	s.Equal(domain.Posted, entry.Status)
	s.Require().NotNil(entry.PostedAt)
	s.Require().NotNil(entry.PostedBy)
	s.Equal(accountant.UserID, *entry.PostedBy)
	s.assertDecimal("100", s.balance(s.cash))
	s.assertDecimal("100", s.balance(s.capital))
}

func (s *JournalServiceTestSuite) TestPostUnbalancedEntry_StaysDraft() {
	entry := s.draft("2024-05-01", line(s.cash, domain.Debit, "100"), line(s.capital, domain.Credit, "90"))

	_, err := s.journal.PostEntry(s.ctx, accountant, entry.JournalEntryID)
	s.ErrorIs(err, apperrors.ErrUnbalancedEntry)

	got, err := s.journal.GetEntry(s.ctx, viewer, entry.JournalEntryID)
	s.Require().NoError(err)
	s.Equal(domain.Draft, got.Status)
	s.Nil(got.PostedAt)
	s.assertDecimal("0", s.balance(s.cash))
	s.assertDecimal("0", s.balance(s.capital))
}

func (s *JournalServiceTestSuite) TestPostEntry_NeedsBothSides() {
	empty := s.draft("2024-05-01")
	_, err := s.journal.PostEntry(s.ctx, accountant, empty.JournalEntryID)
	s.ErrorIs(err, apperrors.ErrEmptyEntry)

	oneSided := s.draft("2024-05-01", line(s.cash, domain.Debit, "10"), line(s.bank, domain.Debit, "10"))
	_, err = s.journal.PostEntry(s.ctx, accountant, oneSided.JournalEntryID)
	s.ErrorIs(err, apperrors.ErrEmptyEntry)
}

func (s *JournalServiceTestSuite) TestPostEntry_Twice() {
	entry := s.posted("2024-05-01", line(s.cash, domain.Debit, "1"), line(s.capital, domain.Credit, "1"))
	_, err := s.journal.PostEntry(s.ctx, accountant, entry.JournalEntryID)
	s.ErrorIs(err, apperrors.ErrImmutableEntry)
	s.assertDecimal("1", s.balance(s.cash))
}

func (s *JournalServiceTestSuite) TestPostEntry_InactiveAccount() {
	entry := s.draft("2024-05-01", line(s.cash, domain.Debit, "5"), line(s.capital, domain.Credit, "5"))
	_, err := s.accounts.DeactivateAccount(s.ctx, admin, s.capital.AccountID)
	s.Require().NoError(err)

	_, err = s.journal.PostEntry(s.ctx, accountant, entry.JournalEntryID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *JournalServiceTestSuite) TestCreateEntry_AssignsSequentialReferences() {
	first := s.draft("2024-05-01")
	second := s.draft("2024-12-31", line(s.cash, domain.Debit, "3"))

	s.Equal("JV/2024-25/00001", first.Reference)
	s.Equal("JV/2024-25/00002", second.Reference)
	s.Equal(s.fy2024.FinancialYearID, second.FinancialYearID)
	s.Equal(1, second.Items[0].LineNo)
}

func (s *JournalServiceTestSuite) TestCreateEntry_Rejects() {
	tests := []struct {
		name string
		req  dto.CreateJournalEntryRequest
		err  error
	}{
		{
			name: "no covering year",
			req:  dto.CreateJournalEntryRequest{EntryDate: "2030-01-01", Narration: "x"},
			err:  apperrors.ErrValidation,
		},
		{
			name: "blank narration",
			req:  dto.CreateJournalEntryRequest{EntryDate: "2024-05-01", Narration: "  "},
			err:  apperrors.ErrValidation,
		},
		{
			name: "bad date",
			req:  dto.CreateJournalEntryRequest{EntryDate: "01/05/2024", Narration: "x"},
			err:  apperrors.ErrValidation,
		},
		{
			name: "zero amount",
			req:  dto.CreateJournalEntryRequest{EntryDate: "2024-05-01", Narration: "x", Items: []dto.JournalItemRequest{line(s.cash, domain.Debit, "0")}},
			err:  apperrors.ErrValidation,
		},
		{
			name: "too many decimals",
			req:  dto.CreateJournalEntryRequest{EntryDate: "2024-05-01", Narration: "x", Items: []dto.JournalItemRequest{line(s.cash, domain.Debit, "0.00001")}},
			err:  apperrors.ErrValidation,
		},
		{
			name: "unknown account",
			req: dto.CreateJournalEntryRequest{EntryDate: "2024-05-01", Narration: "x", Items: []dto.JournalItemRequest{
				{AccountID: "missing", Type: domain.Debit, Amount: decimal.NewFromInt(1)},
			}},
			err: apperrors.ErrValidation,
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.journal.CreateEntry(s.ctx, accountant, tt.req)
			s.ErrorIs(err, tt.err)
		})
	}
}

func (s *JournalServiceTestSuite) TestCreateEntry_ReadOnlyForbidden() {
	_, err := s.journal.CreateEntry(s.ctx, viewer, dto.CreateJournalEntryRequest{EntryDate: "2024-05-01", Narration: "x"})
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *JournalServiceTestSuite) TestUpdateDraft() {
	entry := s.draft("2024-05-01", line(s.cash, domain.Debit, "7"))

	narration := "opening capital"
	items := []dto.JournalItemRequest{line(s.cash, domain.Debit, "7"), line(s.capital, domain.Credit, "7")}
	updated, err := s.journal.UpdateDraft(s.ctx, accountant, entry.JournalEntryID, dto.UpdateJournalEntryRequest{Narration: &narration, Items: &items})
	s.Require().NoError(err)
	s.Equal(narration, updated.Narration)
	s.Len(updated.Items, 2)
	s.Equal(entry.Reference, updated.Reference)

	_, err = s.journal.PostEntry(s.ctx, accountant, entry.JournalEntryID)
	s.Require().NoError(err)

	_, err = s.journal.UpdateDraft(s.ctx, accountant, entry.JournalEntryID, dto.UpdateJournalEntryRequest{Narration: &narration})
	s.ErrorIs(err, apperrors.ErrImmutableEntry)
}

func (s *JournalServiceTestSuite) TestUpdateDraft_MovesToAnotherYear() {
	next, err := s.years.CreateYear(s.ctx, admin, dto.CreateFinancialYearRequest{Name: "2025-26", StartDate: "2025-04-01", EndDate: "2026-04-01"})
	s.Require().NoError(err)

	entry := s.draft("2024-05-01")
	date := "2025-04-01"
	moved, err := s.journal.UpdateDraft(s.ctx, accountant, entry.JournalEntryID, dto.UpdateJournalEntryRequest{EntryDate: &date})
	s.Require().NoError(err)
	s.Equal(next.FinancialYearID, moved.FinancialYearID)
	s.Equal("JV/2025-26/00001", moved.Reference)

	// the number left behind in the old year is not reused
	s.Equal("JV/2024-25/00002", s.draft("2024-05-02").Reference)
}

func (s *JournalServiceTestSuite) TestCancelEntry_ExcludesItems() {
	kept := s.posted("2024-05-01", line(s.cash, domain.Debit, "100"), line(s.capital, domain.Credit, "100"))
	cancelled := s.posted("2024-05-02", line(s.cash, domain.Debit, "40"), line(s.capital, domain.Credit, "40"))
	s.assertDecimal("140", s.balance(s.cash))

	out, err := s.journal.CancelEntry(s.ctx, accountant, cancelled.JournalEntryID, "duplicate receipt")
	s.Require().NoError(err)
	s.Equal(domain.Cancelled, out.Status)
	s.Equal("duplicate receipt", out.CancelReason)
	s.Require().NotNil(out.CancelledBy)
	s.assertDecimal("100", s.balance(s.cash))
	s.assertDecimal("100", s.balance(s.capital))

	// items survive for the audit trail
	got, err := s.journal.GetEntry(s.ctx, viewer, cancelled.JournalEntryID)
	s.Require().NoError(err)
	s.Len(got.Items, 2)

	_, err = s.journal.CancelEntry(s.ctx, accountant, cancelled.JournalEntryID, "again")
	s.ErrorIs(err, apperrors.ErrAlreadyCancelled)
	s.NotEqual(kept.JournalEntryID, cancelled.JournalEntryID)
}

func (s *JournalServiceTestSuite) TestCancelEntry_Rejects() {
	draft := s.draft("2024-05-01")
	_, err := s.journal.CancelEntry(s.ctx, accountant, draft.JournalEntryID, "nope")
	s.ErrorIs(err, apperrors.ErrAlreadyCancelled)

	posted := s.posted("2024-05-01", line(s.cash, domain.Debit, "1"), line(s.capital, domain.Credit, "1"))
	_, err = s.journal.CancelEntry(s.ctx, accountant, posted.JournalEntryID, " ")
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = s.journal.CancelEntry(s.ctx, viewer, posted.JournalEntryID, "x")
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *JournalServiceTestSuite) TestDeleteEntry() {
	posted := s.posted("2024-05-01", line(s.cash, domain.Debit, "1"), line(s.capital, domain.Credit, "1"))
	err := s.journal.DeleteEntry(s.ctx, accountant, posted.JournalEntryID)
	s.ErrorIs(err, apperrors.ErrImmutableEntry)

	draft := s.draft("2024-05-01", line(s.cash, domain.Debit, "1"))
	s.Require().NoError(s.journal.DeleteEntry(s.ctx, accountant, draft.JournalEntryID))
	_, err = s.journal.GetEntry(s.ctx, viewer, draft.JournalEntryID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *JournalServiceTestSuite) TestTrialBalanceAlwaysBalances() {
	s.posted("2024-05-01", line(s.cash, domain.Debit, "1000"), line(s.capital, domain.Credit, "1000"))
	s.posted("2024-05-03", line(s.bank, domain.Debit, "250.5"), line(s.cash, domain.Credit, "250.5"))
	c := s.posted("2024-05-04", line(s.rent, domain.Debit, "80"), line(s.cash, domain.Credit, "30"), line(s.bank, domain.Credit, "50"))
	s.draft("2024-05-05", line(s.cash, domain.Debit, "999"))

	check := func() {
		tb, err := s.reports.TrialBalance(s.ctx, viewer, nil)
		s.Require().NoError(err)
		s.True(tb.Balanced)
		s.True(tb.TotalDebit.Equal(tb.TotalCredit))
	}
	check()

	_, err := s.journal.CancelEntry(s.ctx, accountant, c.JournalEntryID, "wrong split")
	s.Require().NoError(err)
	check()
}

func (s *JournalServiceTestSuite) TestListEntries() {
	for i := 0; i < 5; i++ {
		s.draft("2024-05-01")
	}
	s.posted("2024-05-02", line(s.cash, domain.Debit, "1"), line(s.capital, domain.Credit, "1"))

	seen := map[string]bool{}
	var token *string
	for pages := 0; pages < 10; pages++ {
		page, next, err := s.journal.ListEntries(s.ctx, viewer, domain.EntryListParams{Limit: 2, NextToken: token})
		s.Require().NoError(err)
		for _, e := range page {
			s.False(seen[e.JournalEntryID], "entry listed twice")
			seen[e.JournalEntryID] = true
		}
		if next == nil {
			break
		}
		token = next
	}
	s.Len(seen, 6)

	status := domain.Posted
	posted, _, err := s.journal.ListEntries(s.ctx, viewer, domain.EntryListParams{Status: &status})
	s.Require().NoError(err)
	s.Len(posted, 1)
	s.Equal("2024-05-02", posted[0].EntryDate.Format(dto.DateLayout))

	bogus := domain.EntryStatus("VOID")
	_, _, err = s.journal.ListEntries(s.ctx, viewer, domain.EntryListParams{Status: &bogus})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *JournalServiceTestSuite) TestListAccountItems_RunningBalance() {
	s.posted("2024-05-01", line(s.capital, domain.Debit, "0.5"), line(s.cash, domain.Debit, "100"), line(s.capital, domain.Credit, "100.5"))
	s.posted("2024-05-02", line(s.rent, domain.Debit, "30"), line(s.cash, domain.Credit, "30"))

	lines, next, err := s.journal.ListAccountItems(s.ctx, viewer, s.cash.AccountID, 10, nil)
	s.Require().NoError(err)
	s.Nil(next)
	s.Require().Len(lines, 2)
	s.assertDecimal("100", lines[0].RunningBalance)
	s.assertDecimal("70", lines[1].RunningBalance)

	// credit-normal account reads positive on the credit side
	lines, _, err = s.journal.ListAccountItems(s.ctx, viewer, s.capital.AccountID, 10, nil)
	s.Require().NoError(err)
	s.Require().Len(lines, 2)
	s.assertDecimal("100", lines[1].RunningBalance)
	s.assertDecimal("100", s.balance(s.capital))

	_, _, err = s.journal.ListAccountItems(s.ctx, viewer, "missing", 10, nil)
	s.ErrorIs(err, apperrors.ErrNotFound)
}
