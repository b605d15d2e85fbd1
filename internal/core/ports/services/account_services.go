package services

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, actor domain.Actor, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its chart of accounts code.
	GetAccountByCode(ctx context.Context, actor domain.Actor, code string) (*domain.Account, error)

	// ListAccounts retrieves accounts passing the filter, ordered by code.
	ListAccounts(ctx context.Context, actor domain.Actor, filter domain.AccountFilter) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount changes name, description or category. A category change
	// fails with ErrCategoryLocked once journal items reference the account.
	UpdateAccount(ctx context.Context, actor domain.Actor, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	DeactivateAccount(ctx context.Context, actor domain.Actor, accountID string) (*domain.Account, error)
	ReactivateAccount(ctx context.Context, actor domain.Actor, accountID string) (*domain.Account, error)

	// DeleteAccount hard-deletes an account no journal item references.
	DeleteAccount(ctx context.Context, actor domain.Actor, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
