package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/google/uuid"
)

// financialYearService defines accounting periods and the single active year.
type financialYearService struct {
	BaseService
	yearRepo  portsrepo.FinancialYearRepositoryFacade
	txManager portsrepo.TransactionManager
}

// NewFinancialYearService creates a new financial year service.
func NewFinancialYearService(repo portsrepo.FinancialYearRepositoryFacade, txManager portsrepo.TransactionManager, opts ...Option) portssvc.FinancialYearSvcFacade {
	return &financialYearService{
		BaseService: newBaseService(opts...),
		yearRepo:    repo,
		txManager:   txManager,
	}
}

var _ portssvc.FinancialYearSvcFacade = (*financialYearService)(nil)

func (s *financialYearService) CreateYear(ctx context.Context, actor domain.Actor, req dto.CreateFinancialYearRequest) (*domain.FinancialYear, error) {
	if err := s.Authorize(ctx, actor, domain.OpYearManage); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: financial year name is required", apperrors.ErrValidation)
	}
	start, err := dto.ParseDate("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := dto.ParseDate("endDate", req.EndDate)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: endDate must be after startDate", apperrors.ErrValidation)
	}

	year := domain.FinancialYear{
		FinancialYearID: uuid.NewString(),
		Name:            name,
		StartDate:       start,
		EndDate:         end,
		NextEntrySeq:    1,
		AuditFields:     domain.NewAuditFields(actor.UserID, s.now()),
	}

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		overlapping, err := tx.Years.FindOverlappingYears(ctx, start, end)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return fmt.Errorf("%w: %s intersects %s", apperrors.ErrOverlappingPeriod, name, overlapping[0].Name)
		}
		return tx.Years.SaveYear(ctx, year)
	})
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to create financial year", slog.String("name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Financial year created", slog.String("financial_year_id", year.FinancialYearID), slog.String("name", name))
	return &year, nil
}

// ActivateYear locks the ledger state row first, so two activations never
// interleave: the loser fails fast with ErrConcurrencyConflict.
func (s *financialYearService) ActivateYear(ctx context.Context, actor domain.Actor, yearID string) (*domain.FinancialYear, error) {
	if err := s.Authorize(ctx, actor, domain.OpYearManage); err != nil {
		return nil, err
	}

	var activated *domain.FinancialYear
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		state, err := tx.Years.LockLedgerState(ctx)
		if err != nil {
			return err
		}
		year, err := tx.Years.FindYearByID(ctx, yearID)
		if err != nil {
			return err
		}
		if state.ActiveYearID != nil && *state.ActiveYearID == yearID && year.IsActive {
			activated = year
			return nil
		}
		if year.HasEnded(s.now()) && !s.posting.AllowReactivateClosedYears {
			return fmt.Errorf("%w: %s ended on %s", apperrors.ErrClosedPeriod, year.Name, year.EndDate.Format(dto.DateLayout))
		}
		if err := tx.Years.ActivateYear(ctx, yearID, actor.UserID, s.now()); err != nil {
			return err
		}
		activated, err = tx.Years.FindYearByID(ctx, yearID)
		return err
	})
	if err != nil {
		if apperrors.IsRetryable(err) {
			s.GetLogger(ctx).Warn("Financial year activation lost a race", slog.String("financial_year_id", yearID))
		} else {
			s.logUnexpected(ctx, err, "Failed to activate financial year", slog.String("financial_year_id", yearID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Financial year activated", slog.String("financial_year_id", yearID))
	return activated, nil
}

func (s *financialYearService) UnlockYear(ctx context.Context, actor domain.Actor, yearID string) (*domain.FinancialYear, error) {
	return s.setPostingUnlocked(ctx, actor, yearID, true)
}

func (s *financialYearService) LockYear(ctx context.Context, actor domain.Actor, yearID string) (*domain.FinancialYear, error) {
	return s.setPostingUnlocked(ctx, actor, yearID, false)
}

func (s *financialYearService) setPostingUnlocked(ctx context.Context, actor domain.Actor, yearID string, unlocked bool) (*domain.FinancialYear, error) {
	if err := s.Authorize(ctx, actor, domain.OpYearManage); err != nil {
		return nil, err
	}
	if !s.posting.AllowHistoricalPostings {
		return nil, fmt.Errorf("%w: historical postings are disabled", apperrors.ErrValidation)
	}

	var year *domain.FinancialYear
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if err := tx.Years.SetPostingUnlocked(ctx, yearID, unlocked, actor.UserID, s.now()); err != nil {
			return err
		}
		var err error
		year, err = tx.Years.FindYearByID(ctx, yearID)
		return err
	})
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to change posting lock", slog.String("financial_year_id", yearID))
		return nil, err
	}
	s.LogInfo(ctx, "Financial year posting lock changed", slog.String("financial_year_id", yearID), slog.Bool("unlocked", unlocked))
	return year, nil
}

// IsOpenFor needs no actor: it is a pure policy query used by the ledger.
func (s *financialYearService) IsOpenFor(ctx context.Context, date time.Time) (bool, error) {
	year, err := s.yearRepo.FindYearForDate(ctx, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.posting.IsOpen(*year), nil
}

func (s *financialYearService) GetYear(ctx context.Context, actor domain.Actor, yearID string) (*domain.FinancialYear, error) {
	if err := s.Authorize(ctx, actor, domain.OpLedgerRead); err != nil {
		return nil, err
	}
	return s.yearRepo.FindYearByID(ctx, yearID)
}

func (s *financialYearService) GetActiveYear(ctx context.Context, actor domain.Actor) (*domain.FinancialYear, error) {
	if err := s.Authorize(ctx, actor, domain.OpLedgerRead); err != nil {
		return nil, err
	}
	return s.yearRepo.FindActiveYear(ctx)
}

func (s *financialYearService) ListYears(ctx context.Context, actor domain.Actor) ([]domain.FinancialYear, error) {
	if err := s.Authorize(ctx, actor, domain.OpLedgerRead); err != nil {
		return nil, err
	}
	years, err := s.yearRepo.ListYears(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list financial years")
		return nil, err
	}
	return years, nil
}
