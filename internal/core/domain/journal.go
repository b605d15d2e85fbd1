package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft     EntryStatus = "DRAFT"
	Posted    EntryStatus = "POSTED"
	Cancelled EntryStatus = "CANCELLED"
)

// ItemType indicates whether a journal line is a Debit or a Credit.
type ItemType string

const (
	Debit  ItemType = "DEBIT"
	Credit ItemType = "CREDIT"
)

// IsValid reports whether t is DEBIT or CREDIT.
func (t ItemType) IsValid() bool {
	return t == Debit || t == Credit
}

// JournalItem is a single line of a journal entry, affecting one account.
type JournalItem struct {
	JournalItemID  string          `json:"journalItemID"`
	JournalEntryID string          `json:"journalEntryID"`
	LineNo         int             `json:"lineNo"`
	AccountID      string          `json:"accountID"`
	Type           ItemType        `json:"type"`
	Amount         decimal.Decimal `json:"amount"` // always positive
	Memo           string          `json:"memo"`
}

// JournalEntry is a dated, narrated group of debit/credit lines.
type JournalEntry struct {
	JournalEntryID  string        `json:"journalEntryID"`
	FinancialYearID string        `json:"financialYearID"`
	Reference       string        `json:"reference"`
	Sequence        int64         `json:"sequence"`
	EntryDate       time.Time     `json:"entryDate"`
	Narration       string        `json:"narration"`
	Status          EntryStatus   `json:"status"`
	Items           []JournalItem `json:"items"`
	PostedAt        *time.Time    `json:"postedAt,omitempty"`
	PostedBy        *string       `json:"postedBy,omitempty"`
	CancelledAt     *time.Time    `json:"cancelledAt,omitempty"`
	CancelledBy     *string       `json:"cancelledBy,omitempty"`
	CancelReason    string        `json:"cancelReason,omitempty"`
	AuditFields
}

// IsDraft reports whether the entry may still be edited or deleted.
func (e *JournalEntry) IsDraft() bool {
	return e.Status == Draft
}

// Totals sums the debit and credit sides of the entry.
func (e *JournalEntry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, item := range e.Items {
		switch item.Type {
		case Debit:
			debit = debit.Add(item.Amount)
		case Credit:
			credit = credit.Add(item.Amount)
		}
	}
	return debit, credit
}

// AccountIDs returns the distinct account ids referenced by the entry, in line order.
func (e *JournalEntry) AccountIDs() []string {
	seen := make(map[string]struct{}, len(e.Items))
	ids := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		if _, ok := seen[item.AccountID]; ok {
			continue
		}
		seen[item.AccountID] = struct{}{}
		ids = append(ids, item.AccountID)
	}
	return ids
}

// Clone returns a deep copy so stores never share item slices with callers.
func (e JournalEntry) Clone() JournalEntry {
	out := e
	out.Items = append([]JournalItem(nil), e.Items...)
	if e.PostedAt != nil {
		t := *e.PostedAt
		out.PostedAt = &t
	}
	if e.PostedBy != nil {
		s := *e.PostedBy
		out.PostedBy = &s
	}
	if e.CancelledAt != nil {
		t := *e.CancelledAt
		out.CancelledAt = &t
	}
	if e.CancelledBy != nil {
		s := *e.CancelledBy
		out.CancelledBy = &s
	}
	return out
}

// EntryListParams filters and pages ListEntries.
type EntryListParams struct {
	Status          *EntryStatus
	FinancialYearID *string
	Limit           int
	NextToken       *string
}
