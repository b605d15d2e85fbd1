package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/models"
	"github.com/SscSPs/erp_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `account_id, code, name, category, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

var accountCopyColumns = []string{"account_id", "code", "name", "category", "description", "is_active", "created_at", "created_by", "last_updated_at", "last_updated_by"}

type PgxAccountRepository struct {
	BaseRepository
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func accountSaveError(code string, err error) error {
	if constraint, ok := uniqueViolation(err); ok {
		if constraint == "accounts_code_key" {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, code)
		}
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, code)
	}
	return dbError("failed to save account "+code, err)
}

func (r *PgxAccountRepository) findOne(ctx context.Context, where string, arg any) (*domain.Account, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE `+where, arg)
	if err != nil {
		return nil, dbError("failed to query account", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %v not found", arg))
		}
		return nil, dbError("failed to scan account", err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if !isUUID(accountID) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", accountID))
	}
	return r.findOne(ctx, "account_id = $1", accountID)
}

// LockAccount takes FOR UPDATE on the row, which conflicts with the KEY SHARE
// lock the journal_items foreign key takes on insert.
func (r *PgxAccountRepository) LockAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	if !isUUID(accountID) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", accountID))
	}
	return r.findOne(ctx, "account_id = $1 FOR UPDATE", accountID)
}

func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return r.findOne(ctx, "code = $1", code)
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	ids := make([]string, 0, len(accountIDs))
	for _, id := range accountIDs {
		if isUUID(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return map[string]domain.Account{}, nil
	}
	rows, err := r.DB.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, dbError("failed to query accounts by IDs", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, dbError("failed to scan accounts", err)
	}
	out := make(map[string]domain.Account, len(ms))
	for _, m := range ms {
		out[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return out, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	var category *string
	if filter.Category != nil {
		c := string(*filter.Category)
		category = &c
	}
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE ($1::boolean = false OR is_active)
		  AND ($2::text IS NULL OR category = $2)
		ORDER BY code;
	`
	rows, err := r.DB.Query(ctx, query, filter.Status == domain.AccountsActive, category)
	if err != nil {
		return nil, dbError("failed to list accounts", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, dbError("failed to scan accounts", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

func (r *PgxAccountRepository) IsAccountReferenced(ctx context.Context, accountID string) (bool, error) {
	if !isUUID(accountID) {
		return false, nil
	}
	var referenced bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journal_items WHERE account_id = $1)`, accountID).Scan(&referenced)
	if err != nil {
		return false, dbError("failed to check account references", err)
	}
	return referenced, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.DB.Exec(ctx, query,
		m.AccountID, m.Code, m.Name, m.Category, m.Description, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return accountSaveError(m.Code, err)
	}
	return nil
}

// SaveAccounts bulk loads a chart of accounts with COPY; a single statement
// either inserts every row or none.
func (r *PgxAccountRepository) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	_, err := r.DB.CopyFrom(ctx, pgx.Identifier{"accounts"}, accountCopyColumns,
		pgx.CopyFromSlice(len(accounts), func(i int) ([]any, error) {
			m := mapping.ToModelAccount(accounts[i])
			return []any{m.AccountID, m.Code, m.Name, m.Category, m.Description, m.IsActive,
				m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy}, nil
		}))
	if err != nil {
		return accountSaveError(fmt.Sprintf("batch of %d", len(accounts)), err)
	}
	return nil
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	if !isUUID(account.AccountID) {
		return apperrors.NewNotFoundError("account " + account.AccountID + " not found")
	}
	query := `
		UPDATE accounts
		SET name = $2, description = $3, category = $4, last_updated_at = $5, last_updated_by = $6
		WHERE account_id = $1;
	`
	tag, err := r.DB.Exec(ctx, query, account.AccountID, account.Name, account.Description, string(account.Category), account.LastUpdatedAt, account.LastUpdatedBy)
	if err != nil {
		return dbError("failed to update account "+account.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + account.AccountID + " not found")
	}
	return nil
}

func (r *PgxAccountRepository) SetAccountActive(ctx context.Context, accountID string, active bool, userID string, now time.Time) error {
	if !isUUID(accountID) {
		return apperrors.NewNotFoundError("account " + accountID + " not found")
	}
	query := `
		UPDATE accounts
		SET is_active = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	tag, err := r.DB.Exec(ctx, query, accountID, active, now, userID)
	if err != nil {
		return dbError("failed to change account status "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + accountID + " not found")
	}
	return nil
}

func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	if !isUUID(accountID) {
		return apperrors.NewNotFoundError("account " + accountID + " not found")
	}
	tag, err := r.DB.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1`, accountID)
	if err != nil {
		return dbError("failed to delete account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + accountID + " not found")
	}
	return nil
}
