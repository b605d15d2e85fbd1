package services

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/dto"
)

// SeedSvc loads initial chart of accounts data.
type SeedSvc interface {
	// SeedAccounts bulk-inserts accounts, enforcing only code uniqueness. It
	// returns the number of accounts inserted.
	SeedAccounts(ctx context.Context, accounts []dto.CreateAccountRequest) (int, error)
}
