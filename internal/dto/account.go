package dto

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
// The mapstructure tags let the seed tool decode chart-of-accounts files into it.
type CreateAccountRequest struct {
	Code        string          `json:"code" mapstructure:"code" binding:"required,max=32"`
	Name        string          `json:"name" mapstructure:"name" binding:"required,max=255"`
	Category    domain.Category `json:"category" mapstructure:"category" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Description string          `json:"description" mapstructure:"description"` // Optional
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Category    *domain.Category `json:"category" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string          `json:"accountID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Category      domain.Category `json:"category"`
	NormalSide    domain.ItemType `json:"normalSide"`
	Description   string          `json:"description"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Code:          acc.Code,
		Name:          acc.Name,
		Category:      acc.Category,
		NormalSide:    acc.Category.NormalSide(),
		Description:   acc.Description,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Status   string `form:"status,default=active" binding:"omitempty,oneof=active all"`
	Category string `form:"category" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
}

// Filter converts the query parameters into a domain filter.
func (p ListAccountsParams) Filter() domain.AccountFilter {
	f := domain.AccountFilter{Status: domain.AccountsActive}
	if p.Status == string(domain.AccountsAll) {
		f.Status = domain.AccountsAll
	}
	if p.Category != "" {
		c := domain.Category(p.Category)
		f.Category = &c
	}
	return f
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Category  domain.Category `json:"category"`
	AsOf      string          `json:"asOf,omitempty"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Balance   decimal.Decimal `json:"balance"`
}

// ToAccountBalanceResponse converts a domain.AccountBalance.
func ToAccountBalanceResponse(b *domain.AccountBalance) AccountBalanceResponse {
	return AccountBalanceResponse{
		AccountID: b.AccountID,
		Code:      b.Code,
		Category:  b.Category,
		AsOf:      FormatDate(b.AsOf),
		Debit:     b.Debit,
		Credit:    b.Credit,
		Balance:   b.Balance,
	}
}
