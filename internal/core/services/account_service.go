package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/google/uuid"
)

// accountService implements the chart of accounts registry.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	txManager   portsrepo.TransactionManager
}

// NewAccountService creates a new account service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, txManager portsrepo.TransactionManager, opts ...Option) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(opts...),
		accountRepo: repo,
		txManager:   txManager,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// newAccount validates a create request and builds the domain account.
func newAccount(req dto.CreateAccountRequest, userID string, s *BaseService) (domain.Account, error) {
	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" {
		return domain.Account{}, fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}
	if name == "" {
		return domain.Account{}, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	category, err := domain.ParseCategory(string(req.Category))
	if err != nil {
		return domain.Account{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return domain.Account{
		AccountID:   uuid.NewString(),
		Code:        code,
		Name:        name,
		Category:    category,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(userID, s.now()),
	}, nil
}

func (s *accountService) CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error) {
	if err := s.Authorize(ctx, actor, domain.OpAccountManage); err != nil {
		return nil, err
	}

	account, err := newAccount(req, actor.UserID, &s.BaseService)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.logUnexpected(ctx, err, "Failed to save account in repository", slog.String("code", account.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, actor domain.Actor, accountID string) (*domain.Account, error) {
	if err := s.Authorize(ctx, actor, domain.OpLedgerRead); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		// Note: Don't log if error is ErrNotFound, as it's an expected outcome
		s.logUnexpected(ctx, err, "Failed to find account by ID in repository", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, actor domain.Actor, code string) (*domain.Account, error) {
	if err := s.Authorize(ctx, actor, domain.OpLedgerRead); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to find account by code in repository", slog.String("code", code))
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, actor domain.Actor, filter domain.AccountFilter) ([]domain.Account, error) {
	if err := s.Authorize(ctx, actor, domain.OpLedgerRead); err != nil {
		return nil, err
	}
	if filter.Status == "" {
		filter.Status = domain.AccountsActive
	}
	if filter.Category != nil && !filter.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %s", apperrors.ErrValidation, *filter.Category)
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts from repository")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// UpdateAccount runs in a transaction holding the account row lock, so no item
// can start referencing the account between the reference check and the
// category write. Name and category appear in cached reports, so changing
// either bumps the ledger version.
func (s *accountService) UpdateAccount(ctx context.Context, actor domain.Actor, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	if err := s.Authorize(ctx, actor, domain.OpAccountManage); err != nil {
		return nil, err
	}

	var updated domain.Account
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		account, err := tx.Accounts.LockAccount(ctx, accountID)
		if err != nil {
			return err
		}

		reported := false
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("%w: account name cannot be empty", apperrors.ErrValidation)
			}
			reported = name != account.Name
			account.Name = name
		}
		if req.Description != nil {
			account.Description = *req.Description
		}
		if req.Category != nil && *req.Category != account.Category {
			category, err := domain.ParseCategory(string(*req.Category))
			if err != nil {
				return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
			}
			referenced, err := tx.Accounts.IsAccountReferenced(ctx, accountID)
			if err != nil {
				return err
			}
			if referenced {
				return fmt.Errorf("%w: account %s", apperrors.ErrCategoryLocked, account.Code)
			}
			account.Category = category
			reported = true
		}

		account.Touch(actor.UserID, s.now())
		if err := tx.Accounts.UpdateAccount(ctx, *account); err != nil {
			return err
		}
		if reported {
			if _, err := tx.Years.BumpLedgerVersion(ctx); err != nil {
				return err
			}
		}
		updated = *account
		return nil
	})
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return &updated, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, actor domain.Actor, accountID string) (*domain.Account, error) {
	return s.setActive(ctx, actor, accountID, false)
}

func (s *accountService) ReactivateAccount(ctx context.Context, actor domain.Actor, accountID string) (*domain.Account, error) {
	return s.setActive(ctx, actor, accountID, true)
}

func (s *accountService) setActive(ctx context.Context, actor domain.Actor, accountID string, active bool) (*domain.Account, error) {
	if err := s.Authorize(ctx, actor, domain.OpAccountManage); err != nil {
		return nil, err
	}
	if err := s.accountRepo.SetAccountActive(ctx, accountID, active, actor.UserID, s.now()); err != nil {
		s.logUnexpected(ctx, err, "Failed to change account active flag", slog.String("account_id", accountID), slog.Bool("active", active))
		return nil, err
	}
	s.LogInfo(ctx, "Account active flag changed", slog.String("account_id", accountID), slog.Bool("active", active))
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

func (s *accountService) DeleteAccount(ctx context.Context, actor domain.Actor, accountID string) error {
	if err := s.Authorize(ctx, actor, domain.OpAccountManage); err != nil {
		return err
	}
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		account, err := tx.Accounts.LockAccount(ctx, accountID)
		if err != nil {
			return err
		}
		referenced, err := tx.Accounts.IsAccountReferenced(ctx, accountID)
		if err != nil {
			return err
		}
		if referenced {
			return fmt.Errorf("%w: account %s must be deactivated instead", apperrors.ErrReferencedAccount, account.Code)
		}
		return tx.Accounts.DeleteAccount(ctx, accountID)
	})
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}
