package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Category    Category        `json:"category"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// Net is debit minus credit.
func (r TrialBalanceRow) Net() decimal.Decimal {
	return r.Debit.Sub(r.Credit)
}

// TrialBalance lists per-account debit and credit totals of posted items.
type TrialBalance struct {
	AsOf        *time.Time        `json:"asOf,omitempty"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	Balanced    bool              `json:"balanced"`
}

// AccountBalance is the signed balance of one account, positive on its normal side.
type AccountBalance struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Category  Category        `json:"category"`
	AsOf      *time.Time      `json:"asOf,omitempty"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Balance   decimal.Decimal `json:"balance"`
}

// AccountAmount represents an account with its net amount for financial reports
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// PAndLReport represents a profit and loss report
type PAndLReport struct {
	From      *time.Time      `json:"from,omitempty"`
	To        *time.Time      `json:"to,omitempty"`
	Revenue   []AccountAmount `json:"revenue"`
	Expenses  []AccountAmount `json:"expenses"`
	NetProfit decimal.Decimal `json:"netProfit"` // Total revenue minus total expenses
}

// BalanceSheetReport represents a balance sheet report
type BalanceSheetReport struct {
	AsOf             *time.Time      `json:"asOf,omitempty"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	CurrentEarnings  decimal.Decimal `json:"currentEarnings"` // revenue less expenses not yet closed to equity
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
}

// AccountLedgerLine is one posted item in an account's ledger with the running net after it.
type AccountLedgerLine struct {
	JournalItemID  string          `json:"journalItemID"`
	JournalEntryID string          `json:"journalEntryID"`
	Reference      string          `json:"reference"`
	EntryDate      time.Time       `json:"entryDate"`
	Narration      string          `json:"narration"`
	Type           ItemType        `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Memo           string          `json:"memo"`
	PostedAt       time.Time       `json:"postedAt"`
	RunningNet     decimal.Decimal `json:"-"`              // debit minus credit
	RunningBalance decimal.Decimal `json:"runningBalance"` // normalized by category
}
