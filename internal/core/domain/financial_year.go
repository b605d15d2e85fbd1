package domain

import (
	"fmt"
	"time"
)

// FinancialYear is an accounting period covering [StartDate, EndDate).
type FinancialYear struct {
	FinancialYearID string    `json:"financialYearID"`
	Name            string    `json:"name"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"` // exclusive
	IsActive        bool      `json:"isActive"`
	PostingUnlocked bool      `json:"postingUnlocked"` // accepts backdated postings while not active
	NextEntrySeq    int64     `json:"nextEntrySeq"`
	AuditFields
}

// Contains reports whether the calendar date of t falls inside the year.
func (y FinancialYear) Contains(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(y.StartDate) && d.Before(y.EndDate)
}

// Overlaps reports whether [start, end) intersects the year.
func (y FinancialYear) Overlaps(start, end time.Time) bool {
	return start.Before(y.EndDate) && y.StartDate.Before(end)
}

// HasEnded reports whether the year's last day is before the date of now.
func (y FinancialYear) HasEnded(now time.Time) bool {
	return !DateOnly(now).Before(y.EndDate)
}

// EntryReference formats the reference number of the seq-th entry of the year.
func (y FinancialYear) EntryReference(seq int64) string {
	return fmt.Sprintf("JV/%s/%05d", y.Name, seq)
}

// LedgerState is the single ledger-wide row: which year is active and a version
// bumped by every post, cancel and account update. LedgerID is fixed when the
// store is created and tells apart ledgers whose versions restart at zero.
type LedgerState struct {
	LedgerID     string  `json:"ledgerID"`
	ActiveYearID *string `json:"activeYearID"`
	Version      int64   `json:"version"`
}

// PostingPolicy decides which financial years accept postings.
type PostingPolicy struct {
	// AllowHistoricalPostings lets explicitly unlocked, non-active years accept postings.
	AllowHistoricalPostings bool
	// AllowReactivateClosedYears permits activating a year whose end date has passed.
	AllowReactivateClosedYears bool
}

// IsOpen reports whether postings into y are permitted.
func (p PostingPolicy) IsOpen(y FinancialYear) bool {
	if y.IsActive {
		return true
	}
	return p.AllowHistoricalPostings && y.PostingUnlocked
}
