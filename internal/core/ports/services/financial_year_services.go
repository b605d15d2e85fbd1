package services

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
)

// FinancialYearSvcFacade manages accounting periods and decides whether a date accepts postings.
type FinancialYearSvcFacade interface {
	CreateYear(ctx context.Context, actor domain.Actor, req dto.CreateFinancialYearRequest) (*domain.FinancialYear, error)

	// ActivateYear makes yearID the single active year.
	ActivateYear(ctx context.Context, actor domain.Actor, yearID string) (*domain.FinancialYear, error)

	// UnlockYear and LockYear toggle historical postings into a non-active year.
	UnlockYear(ctx context.Context, actor domain.Actor, yearID string) (*domain.FinancialYear, error)
	LockYear(ctx context.Context, actor domain.Actor, yearID string) (*domain.FinancialYear, error)

	// IsOpenFor reports whether a posting dated date would be accepted.
	IsOpenFor(ctx context.Context, date time.Time) (bool, error)

	GetYear(ctx context.Context, actor domain.Actor, yearID string) (*domain.FinancialYear, error)
	GetActiveYear(ctx context.Context, actor domain.Actor) (*domain.FinancialYear, error)
	ListYears(ctx context.Context, actor domain.Actor) ([]domain.FinancialYear, error)
}
