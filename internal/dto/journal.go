package dto

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalItemRequest is one debit or credit line.
type JournalItemRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Type      domain.ItemType `json:"type" binding:"required,oneof=DEBIT CREDIT"`
	Amount    decimal.Decimal `json:"amount" binding:"required,decimal_gt0" swaggertype:"string" example:"100.00"`
	Memo      string          `json:"memo" binding:"max=255"`
}

// CreateJournalEntryRequest defines the data needed to create a draft entry.
// Items may be incomplete or unbalanced until the entry is posted.
type CreateJournalEntryRequest struct {
	EntryDate string               `json:"entryDate" binding:"required,datetime=2006-01-02" example:"2024-05-01"`
	Narration string               `json:"narration" binding:"required,max=1000"`
	Items     []JournalItemRequest `json:"items" binding:"omitempty,dive"`
}

// UpdateJournalEntryRequest replaces fields of a draft. Items, when present,
// replace the whole item list.
type UpdateJournalEntryRequest struct {
	EntryDate *string               `json:"entryDate" binding:"omitempty,datetime=2006-01-02"`
	Narration *string               `json:"narration" binding:"omitempty,min=1,max=1000"`
	Items     *[]JournalItemRequest `json:"items" binding:"omitempty,dive"`
}

// CancelJournalEntryRequest carries the reason recorded on cancellation.
type CancelJournalEntryRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ToDomainItems converts request lines to domain items numbered from 1.
func ToDomainItems(items []JournalItemRequest) []domain.JournalItem {
	out := make([]domain.JournalItem, len(items))
	for i, it := range items {
		out[i] = domain.JournalItem{
			LineNo:    i + 1,
			AccountID: it.AccountID,
			Type:      it.Type,
			Amount:    it.Amount,
			Memo:      it.Memo,
		}
	}
	return out
}

// JournalItemResponse defines the data returned for a journal item.
type JournalItemResponse struct {
	JournalItemID string          `json:"journalItemID"`
	LineNo        int             `json:"lineNo"`
	AccountID     string          `json:"accountID"`
	Type          domain.ItemType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Memo          string          `json:"memo,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	JournalEntryID  string                `json:"journalEntryID"`
	FinancialYearID string                `json:"financialYearID"`
	Reference       string                `json:"reference"`
	EntryDate       string                `json:"entryDate"`
	Narration       string                `json:"narration"`
	Status          domain.EntryStatus    `json:"status"`
	TotalDebit      decimal.Decimal       `json:"totalDebit"`
	TotalCredit     decimal.Decimal       `json:"totalCredit"`
	Items           []JournalItemResponse `json:"items,omitempty"`
	PostedAt        *time.Time            `json:"postedAt,omitempty"`
	PostedBy        *string               `json:"postedBy,omitempty"`
	CancelledAt     *time.Time            `json:"cancelledAt,omitempty"`
	CancelledBy     *string               `json:"cancelledBy,omitempty"`
	CancelReason    string                `json:"cancelReason,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	CreatedBy       string                `json:"createdBy"`
	LastUpdatedAt   time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy   string                `json:"lastUpdatedBy"`
}

// ToJournalEntryResponse converts a domain.JournalEntry.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	debit, credit := e.Totals()
	res := JournalEntryResponse{
		JournalEntryID:  e.JournalEntryID,
		FinancialYearID: e.FinancialYearID,
		Reference:       e.Reference,
		EntryDate:       e.EntryDate.Format(DateLayout),
		Narration:       e.Narration,
		Status:          e.Status,
		TotalDebit:      debit,
		TotalCredit:     credit,
		PostedAt:        e.PostedAt,
		PostedBy:        e.PostedBy,
		CancelledAt:     e.CancelledAt,
		CancelledBy:     e.CancelledBy,
		CancelReason:    e.CancelReason,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
		LastUpdatedAt:   e.LastUpdatedAt,
		LastUpdatedBy:   e.LastUpdatedBy,
	}
	if len(e.Items) > 0 {
		res.Items = make([]JournalItemResponse, len(e.Items))
		for i, it := range e.Items {
			res.Items[i] = JournalItemResponse{
				JournalItemID: it.JournalItemID,
				LineNo:        it.LineNo,
				AccountID:     it.AccountID,
				Type:          it.Type,
				Amount:        it.Amount,
				Memo:          it.Memo,
			}
		}
	}
	return res
}

// ListJournalEntriesParams defines query parameters for listing entries.
type ListJournalEntriesParams struct {
	Status          string  `form:"status" binding:"omitempty,oneof=DRAFT POSTED CANCELLED"`
	FinancialYearID string  `form:"financialYearID"`
	Limit           int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken       *string `form:"nextToken"`
}

// ToDomain converts the query parameters.
func (p ListJournalEntriesParams) ToDomain() domain.EntryListParams {
	out := domain.EntryListParams{Limit: p.Limit, NextToken: p.NextToken}
	if p.Status != "" {
		s := domain.EntryStatus(p.Status)
		out.Status = &s
	}
	if p.FinancialYearID != "" {
		id := p.FinancialYearID
		out.FinancialYearID = &id
	}
	return out
}

// ListJournalEntriesResponse wraps a page of entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ListAccountItemsParams defines query parameters for an account's ledger view.
type ListAccountItemsParams struct {
	Limit     int     `form:"limit,default=50" binding:"min=1,max=200"`
	NextToken *string `form:"nextToken"`
}

// AccountLedgerResponse wraps a page of posted lines of one account.
type AccountLedgerResponse struct {
	AccountID string                     `json:"accountID"`
	Lines     []domain.AccountLedgerLine `json:"lines"`
	NextToken *string                    `json:"nextToken,omitempty"`
}
