package domain

import (
	"fmt"
	"strings"
)

// Category is the fundamental accounting type of an account.
type Category string

const (
	Asset     Category = "ASSET"
	Liability Category = "LIABILITY"
	Equity    Category = "EQUITY"
	Revenue   Category = "REVENUE"
	Expense   Category = "EXPENSE"
)

// Categories lists the fixed account categories in statement order.
var Categories = []Category{Asset, Liability, Equity, Revenue, Expense}

// IsValid reports whether c is one of the five fixed categories.
func (c Category) IsValid() bool {
	switch c {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// NormalSide is the side on which balances of this category increase.
// ASSET and EXPENSE are debit-normal, the rest credit-normal.
func (c Category) NormalSide() ItemType {
	if c == Asset || c == Expense {
		return Debit
	}
	return Credit
}

// ParseCategory accepts any casing of a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("unknown account category %q", s)
	}
	return c, nil
}

// Account is a chart of accounts entry.
type Account struct {
	AccountID   string   `json:"accountID"`
	Code        string   `json:"code"` // unique, ordering key for listings
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	IsActive    bool     `json:"isActive"`
	AuditFields
}

// AccountStatusFilter selects accounts by their active flag.
type AccountStatusFilter string

const (
	AccountsActive AccountStatusFilter = "active"
	AccountsAll    AccountStatusFilter = "all"
)

// AccountFilter narrows ListAccounts.
type AccountFilter struct {
	Status   AccountStatusFilter
	Category *Category
}

// Matches reports whether a passes the filter.
func (f AccountFilter) Matches(a Account) bool {
	if f.Status == AccountsActive && !a.IsActive {
		return false
	}
	if f.Category != nil && a.Category != *f.Category {
		return false
	}
	return true
}
