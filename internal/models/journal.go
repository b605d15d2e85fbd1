package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	JournalEntryID  string     `db:"journal_entry_id"`
	FinancialYearID string     `db:"financial_year_id"`
	Reference       string     `db:"reference"`
	Sequence        int64      `db:"sequence"`
	EntryDate       time.Time  `db:"entry_date"`
	Narration       string     `db:"narration"`
	Status          string     `db:"status"`
	PostedAt        *time.Time `db:"posted_at"`
	PostedBy        *string    `db:"posted_by"`
	CancelledAt     *time.Time `db:"cancelled_at"`
	CancelledBy     *string    `db:"cancelled_by"`
	CancelReason    *string    `db:"cancel_reason"`
	AuditFields
}

// JournalItem is a row of the journal_items table. Amount is NUMERIC(20,4) and always positive.
type JournalItem struct {
	JournalItemID  string          `db:"journal_item_id"`
	JournalEntryID string          `db:"journal_entry_id"`
	LineNo         int             `db:"line_no"`
	AccountID      string          `db:"account_id"`
	ItemType       string          `db:"item_type"`
	Amount         decimal.Decimal `db:"amount"`
	Memo           string          `db:"memo"`
}

// AccountLedgerRow is a posted item joined with its entry header plus the
// window-function running total.
type AccountLedgerRow struct {
	JournalItemID  string          `db:"journal_item_id"`
	JournalEntryID string          `db:"journal_entry_id"`
	Reference      string          `db:"reference"`
	EntryDate      time.Time       `db:"entry_date"`
	Narration      string          `db:"narration"`
	ItemType       string          `db:"item_type"`
	Amount         decimal.Decimal `db:"amount"`
	Memo           string          `db:"memo"`
	PostedAt       time.Time       `db:"posted_at"`
	RunningNet     decimal.Decimal `db:"running_net"`
}
