package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainFinancialYear_KeepsCivilDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	m := models.FinancialYear{
		FinancialYearID: "fy",
		Name:            "2024-25",
		StartDate:       time.Date(2024, 4, 1, 0, 0, 0, 0, ist),
		EndDate:         time.Date(2025, 4, 1, 0, 0, 0, 0, ist),
		NextEntrySeq:    3,
	}
	d := ToDomainFinancialYear(m)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), d.StartDate)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), d.EndDate)
	assert.Equal(t, int64(3), d.NextEntrySeq)
}

func TestJournalEntryMapping_CancelReason(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	by := "u1"
	d := domain.JournalEntry{
		JournalEntryID: "e1",
		Status:         domain.Cancelled,
		EntryDate:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		CancelledAt:    &now,
		CancelledBy:    &by,
		CancelReason:   "typo",
	}
	m := ToModelJournalEntry(d)
	require.NotNil(t, m.CancelReason)
	assert.Equal(t, "typo", *m.CancelReason)
	assert.Equal(t, "CANCELLED", m.Status)

	back := ToDomainJournalEntry(m)
	assert.Equal(t, d.CancelReason, back.CancelReason)
	assert.Equal(t, d.EntryDate, back.EntryDate)

	m.CancelReason = nil
	assert.Empty(t, ToDomainJournalEntry(m).CancelReason)
	assert.Nil(t, ToModelJournalEntry(domain.JournalEntry{}).CancelReason)
}

func TestJournalItemMapping(t *testing.T) {
	d := domain.JournalItem{JournalItemID: "i", JournalEntryID: "e", LineNo: 2, AccountID: "a", Type: domain.Credit, Amount: decimal.RequireFromString("12.3400"), Memo: "m"}
	back := ToDomainJournalItem(ToModelJournalItem(d))
	assert.True(t, d.Amount.Equal(back.Amount))
	back.Amount = d.Amount
	assert.Equal(t, d, back)
}

func TestToDomainLedgerState(t *testing.T) {
	active := "fy"
	d := ToDomainLedgerState(models.LedgerState{LedgerID: "3f0c", ActiveYearID: &active, Version: 9})
	assert.Equal(t, "3f0c", d.LedgerID)
	assert.Equal(t, int64(9), d.Version)
	require.NotNil(t, d.ActiveYearID)
	assert.Equal(t, "fy", *d.ActiveYearID)
}
