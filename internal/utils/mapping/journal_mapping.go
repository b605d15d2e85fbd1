package mapping

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/models"
)

// civil keeps the wall-clock date of a DATE column regardless of its location.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// ToModelJournalEntry converts a domain JournalEntry header to a model row
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	m := models.JournalEntry{
		JournalEntryID:  d.JournalEntryID,
		FinancialYearID: d.FinancialYearID,
		Reference:       d.Reference,
		Sequence:        d.Sequence,
		EntryDate:       d.EntryDate,
		Narration:       d.Narration,
		Status:          string(d.Status),
		PostedAt:        d.PostedAt,
		PostedBy:        d.PostedBy,
		CancelledAt:     d.CancelledAt,
		CancelledBy:     d.CancelledBy,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
	if d.CancelReason != "" {
		reason := d.CancelReason
		m.CancelReason = &reason
	}
	return m
}

// ToDomainJournalEntry converts a model row to a domain JournalEntry without items
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	d := domain.JournalEntry{
		JournalEntryID:  m.JournalEntryID,
		FinancialYearID: m.FinancialYearID,
		Reference:       m.Reference,
		Sequence:        m.Sequence,
		EntryDate:       civil(m.EntryDate),
		Narration:       m.Narration,
		Status:          domain.EntryStatus(m.Status),
		PostedAt:        utcPtr(m.PostedAt),
		PostedBy:        m.PostedBy,
		CancelledAt:     utcPtr(m.CancelledAt),
		CancelledBy:     m.CancelledBy,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
	if m.CancelReason != nil {
		d.CancelReason = *m.CancelReason
	}
	return d
}

// ToModelJournalItem converts a domain JournalItem to a model JournalItem
func ToModelJournalItem(d domain.JournalItem) models.JournalItem {
	return models.JournalItem{
		JournalItemID:  d.JournalItemID,
		JournalEntryID: d.JournalEntryID,
		LineNo:         d.LineNo,
		AccountID:      d.AccountID,
		ItemType:       string(d.Type),
		Amount:         d.Amount,
		Memo:           d.Memo,
	}
}

// ToDomainJournalItem converts a model JournalItem to a domain JournalItem
func ToDomainJournalItem(m models.JournalItem) domain.JournalItem {
	return domain.JournalItem{
		JournalItemID:  m.JournalItemID,
		JournalEntryID: m.JournalEntryID,
		LineNo:         m.LineNo,
		AccountID:      m.AccountID,
		Type:           domain.ItemType(m.ItemType),
		Amount:         m.Amount,
		Memo:           m.Memo,
	}
}

// ToDomainJournalItemSlice converts a slice of model items to domain items
func ToDomainJournalItemSlice(ms []models.JournalItem) []domain.JournalItem {
	ds := make([]domain.JournalItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalItem(m)
	}
	return ds
}

// ToDomainAccountLedgerLine converts a joined ledger row; RunningBalance is left to the caller.
func ToDomainAccountLedgerLine(m models.AccountLedgerRow) domain.AccountLedgerLine {
	return domain.AccountLedgerLine{
		JournalItemID:  m.JournalItemID,
		JournalEntryID: m.JournalEntryID,
		Reference:      m.Reference,
		EntryDate:      civil(m.EntryDate),
		Narration:      m.Narration,
		Type:           domain.ItemType(m.ItemType),
		Amount:         m.Amount,
		Memo:           m.Memo,
		PostedAt:       m.PostedAt.UTC(),
		RunningNet:     m.RunningNet,
	}
}
