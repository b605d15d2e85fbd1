package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
)

type seedService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewSeedService creates the service used by seed tooling.
func NewSeedService(accountRepo portsrepo.AccountRepositoryFacade, opts ...Option) portssvc.SeedSvc {
	return &seedService{BaseService: newBaseService(opts...), accountRepo: accountRepo}
}

var _ portssvc.SeedSvc = (*seedService)(nil)

// SeedAccounts inserts the whole batch or nothing. Duplicate codes inside the
// batch are rejected before touching the store.
func (s *seedService) SeedAccounts(ctx context.Context, reqs []dto.CreateAccountRequest) (int, error) {
	if len(reqs) == 0 {
		return 0, nil
	}

	seen := make(map[string]struct{}, len(reqs))
	accounts := make([]domain.Account, 0, len(reqs))
	for i, req := range reqs {
		account, err := newAccount(req, domain.SystemActor.UserID, &s.BaseService)
		if err != nil {
			return 0, fmt.Errorf("seed row %d: %w", i+1, err)
		}
		if _, dup := seen[account.Code]; dup {
			return 0, fmt.Errorf("%w: %s appears twice in the seed data", apperrors.ErrDuplicateCode, account.Code)
		}
		seen[account.Code] = struct{}{}
		accounts = append(accounts, account)
	}

	if err := s.accountRepo.SaveAccounts(ctx, accounts); err != nil {
		s.logUnexpected(ctx, err, "Failed to seed accounts")
		return 0, err
	}
	s.LogInfo(ctx, "Accounts seeded", slog.Int("count", len(accounts)))
	return len(accounts), nil
}
