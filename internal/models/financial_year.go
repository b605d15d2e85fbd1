package models

import "time"

// FinancialYear is a row of the financial_years table. end_date is exclusive.
type FinancialYear struct {
	FinancialYearID string    `db:"financial_year_id"`
	Name            string    `db:"name"`
	StartDate       time.Time `db:"start_date"`
	EndDate         time.Time `db:"end_date"`
	IsActive        bool      `db:"is_active"`
	PostingUnlocked bool      `db:"posting_unlocked"`
	NextEntrySeq    int64     `db:"next_entry_seq"`
	AuditFields
}

// LedgerState is the single row of the ledger_state table.
type LedgerState struct {
	LedgerID     string  `db:"ledger_id"`
	ActiveYearID *string `db:"active_year_id"`
	Version      int64   `db:"version"`
}
