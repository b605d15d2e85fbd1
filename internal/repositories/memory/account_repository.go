package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

func accountNotFound(id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", id))
}

func (st *state) codeTaken(code string) bool {
	for _, a := range st.accounts {
		if a.Code == code {
			return true
		}
	}
	return false
}

func (r *repo) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	var out *domain.Account
	err := r.read(func(st *state) error {
		a, ok := st.accounts[accountID]
		if !ok {
			return accountNotFound(accountID)
		}
		out = &a
		return nil
	})
	return out, err
}

// LockAccount is a plain read: transactions here are already serialised.
func (r *repo) LockAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.FindAccountByID(ctx, accountID)
}

func (r *repo) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	var out *domain.Account
	err := r.read(func(st *state) error {
		for _, a := range st.accounts {
			if a.Code == code {
				a := a
				out = &a
				return nil
			}
		}
		return apperrors.NewNotFoundError(fmt.Sprintf("account with code %s not found", code))
	})
	return out, err
}

func (r *repo) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	err := r.read(func(st *state) error {
		for _, id := range accountIDs {
			if a, ok := st.accounts[id]; ok {
				out[id] = a
			}
		}
		return nil
	})
	return out, err
}

func (r *repo) ListAccounts(_ context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	out := []domain.Account{}
	err := r.read(func(st *state) error {
		for _, a := range st.accounts {
			if filter.Matches(a) {
				out = append(out, a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *repo) IsAccountReferenced(_ context.Context, accountID string) (bool, error) {
	var found bool
	err := r.read(func(st *state) error {
		for _, e := range st.entries {
			for _, it := range e.Items {
				if it.AccountID == accountID {
					found = true
					return nil
				}
			}
		}
		return nil
	})
	return found, err
}

func (r *repo) SaveAccount(ctx context.Context, account domain.Account) error {
	return r.SaveAccounts(ctx, []domain.Account{account})
}

func (r *repo) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	return r.write(ctx, func(st *state) error {
		for _, a := range accounts {
			if st.codeTaken(a.Code) {
				return fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, a.Code)
			}
			if _, ok := st.accounts[a.AccountID]; ok {
				return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, a.AccountID)
			}
			st.accounts[a.AccountID] = a
		}
		return nil
	})
}

func (r *repo) UpdateAccount(ctx context.Context, account domain.Account) error {
	return r.write(ctx, func(st *state) error {
		cur, ok := st.accounts[account.AccountID]
		if !ok {
			return accountNotFound(account.AccountID)
		}
		cur.Name = account.Name
		cur.Description = account.Description
		cur.Category = account.Category
		cur.LastUpdatedAt = account.LastUpdatedAt
		cur.LastUpdatedBy = account.LastUpdatedBy
		st.accounts[account.AccountID] = cur
		return nil
	})
}

func (r *repo) SetAccountActive(ctx context.Context, accountID string, active bool, userID string, now time.Time) error {
	return r.write(ctx, func(st *state) error {
		a, ok := st.accounts[accountID]
		if !ok {
			return accountNotFound(accountID)
		}
		a.IsActive = active
		a.Touch(userID, now)
		st.accounts[accountID] = a
		return nil
	})
}

func (r *repo) DeleteAccount(ctx context.Context, accountID string) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.accounts[accountID]; !ok {
			return accountNotFound(accountID)
		}
		delete(st.accounts, accountID)
		return nil
	})
}
