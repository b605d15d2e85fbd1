package accounting

import (
	"testing"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(t domain.ItemType, amount string) domain.JournalItem {
	return domain.JournalItem{AccountID: "acc", Type: t, Amount: decimal.RequireFromString(amount)}
}

func TestCalculateSignedAmount(t *testing.T) {
	tests := []struct {
		category domain.Category
		itemType domain.ItemType
		want     string
	}{
		{domain.Asset, domain.Debit, "100"},
		{domain.Asset, domain.Credit, "-100"},
		{domain.Expense, domain.Debit, "100"},
		{domain.Liability, domain.Credit, "100"},
		{domain.Liability, domain.Debit, "-100"},
		{domain.Equity, domain.Credit, "100"},
		{domain.Revenue, domain.Debit, "-100"},
	}
	for _, tt := range tests {
		t.Run(string(tt.category)+"_"+string(tt.itemType), func(t *testing.T) {
			got, err := CalculateSignedAmount(item(tt.itemType, "100"), tt.category)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}

	_, err := CalculateSignedAmount(item(domain.Debit, "1"), domain.Category("BOGUS"))
	assert.Error(t, err)
}

func TestNormalizeBalance(t *testing.T) {
	net := decimal.NewFromInt(-250)
	assert.True(t, NormalizeBalance(net, domain.Equity).Equal(decimal.NewFromInt(250)))
	assert.True(t, NormalizeBalance(net, domain.Asset).Equal(net))
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(decimal.RequireFromString("0.0001")))
	assert.ErrorIs(t, ValidateAmount(decimal.Zero), apperrors.ErrValidation)
	assert.ErrorIs(t, ValidateAmount(decimal.NewFromInt(-5)), apperrors.ErrValidation)
	assert.ErrorIs(t, ValidateAmount(decimal.RequireFromString("1.00001")), apperrors.ErrValidation)
}

func TestValidateItems(t *testing.T) {
	assert.NoError(t, ValidateItems(nil), "drafts may be empty")
	assert.NoError(t, ValidateItems([]domain.JournalItem{item(domain.Debit, "10")}), "drafts need not balance")

	bad := item("SIDEWAYS", "10")
	assert.ErrorIs(t, ValidateItems([]domain.JournalItem{bad}), apperrors.ErrValidation)

	noAccount := item(domain.Debit, "10")
	noAccount.AccountID = ""
	assert.ErrorIs(t, ValidateItems([]domain.JournalItem{noAccount}), apperrors.ErrValidation)
}

func TestValidateEntryBalance(t *testing.T) {
	tests := []struct {
		name  string
		items []domain.JournalItem
		want  error
	}{
		{"balanced", []domain.JournalItem{item(domain.Debit, "100"), item(domain.Credit, "100")}, nil},
		{"balanced split", []domain.JournalItem{item(domain.Debit, "100"), item(domain.Credit, "60.5"), item(domain.Credit, "39.5")}, nil},
		{"unbalanced", []domain.JournalItem{item(domain.Debit, "100"), item(domain.Credit, "90")}, apperrors.ErrUnbalancedEntry},
		{"off by smallest unit", []domain.JournalItem{item(domain.Debit, "100"), item(domain.Credit, "99.9999")}, apperrors.ErrUnbalancedEntry},
		{"no items", nil, apperrors.ErrEmptyEntry},
		{"debits only", []domain.JournalItem{item(domain.Debit, "1"), item(domain.Debit, "1")}, apperrors.ErrEmptyEntry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntryBalance(domain.JournalEntry{Items: tt.items})
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
