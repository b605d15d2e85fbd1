package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its chart of accounts code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing ids are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves the accounts passing filter, ordered by code ascending.
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)

	// IsAccountReferenced reports whether any journal item, in any entry status, points at the account.
	IsAccountReferenced(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// LockAccount reads an account and holds a row lock on it until the
	// transaction ends. New journal items referencing it wait for that lock.
	LockAccount(ctx context.Context, accountID string) (*domain.Account, error)

	// SaveAccount persists a new account. Fails with ErrDuplicateCode when the code is taken.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SaveAccounts bulk-inserts accounts. Only code uniqueness is enforced.
	SaveAccounts(ctx context.Context, accounts []domain.Account) error

	// UpdateAccount updates an existing account's name, description and category.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// SetAccountActive flips the active flag.
	SetAccountActive(ctx context.Context, accountID string, active bool, userID string, now time.Time) error

	// DeleteAccount removes an account row. Callers check references first.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
