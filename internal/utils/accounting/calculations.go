package accounting

import (
	"fmt"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MaxAmountScale is the number of fractional digits an amount may carry (NUMERIC(20,4)).
const MaxAmountScale = 4

// CalculateSignedAmount applies the correct sign to an item amount based on account category and item type.
// This is used in both services and repositories to ensure consistent accounting logic.
func CalculateSignedAmount(item domain.JournalItem, category domain.Category) (decimal.Decimal, error) {
	if !category.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account category '%s' encountered for account ID %s", category, item.AccountID)
	}
	// DEBIT to ASSET/EXPENSE -> Positive (+)
	// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
	if item.Type == category.NormalSide() {
		return item.Amount, nil
	}
	return item.Amount.Neg(), nil
}

// NormalizeBalance turns a raw debit-minus-credit net into a balance that is
// positive on the category's normal side.
func NormalizeBalance(net decimal.Decimal, category domain.Category) decimal.Decimal {
	if category.NormalSide() == domain.Credit {
		return net.Neg()
	}
	return net
}

// ValidateAmount checks that amount is strictly positive and fits the stored scale.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero, got %s", apperrors.ErrValidation, amount.String())
	}
	if !amount.Equal(amount.Truncate(MaxAmountScale)) {
		return fmt.Errorf("%w: amount %s has more than %d decimal places", apperrors.ErrValidation, amount.String(), MaxAmountScale)
	}
	return nil
}

// ValidateItems performs the per-line checks applied to drafts: a valid type and a
// positive amount on every line. Balance is not required.
func ValidateItems(items []domain.JournalItem) error {
	for i, item := range items {
		if item.AccountID == "" {
			return fmt.Errorf("%w: item %d has no account", apperrors.ErrValidation, i+1)
		}
		if !item.Type.IsValid() {
			return fmt.Errorf("%w: item %d has invalid type '%s'", apperrors.ErrValidation, i+1, item.Type)
		}
		if err := ValidateAmount(item.Amount); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return nil
}

// ValidateEntryBalance checks the posting preconditions on an entry's lines: at least
// one debit and one credit, and debit total exactly equal to credit total.
func ValidateEntryBalance(entry domain.JournalEntry) error {
	var debits, credits int
	for _, item := range entry.Items {
		switch item.Type {
		case domain.Debit:
			debits++
		case domain.Credit:
			credits++
		}
	}
	if debits == 0 || credits == 0 {
		return fmt.Errorf("%w: %d debit and %d credit lines", apperrors.ErrEmptyEntry, debits, credits)
	}

	debit, credit := entry.Totals()
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: debit total %s, credit total %s", apperrors.ErrUnbalancedEntry, debit.String(), credit.String())
	}
	return nil
}
