package dto

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// CreateFinancialYearRequest defines the data needed to create a financial year.
// EndDate is exclusive.
type CreateFinancialYearRequest struct {
	Name      string `json:"name" binding:"required,max=64"`
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02" example:"2024-04-01"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02" example:"2025-04-01"`
}

// FinancialYearResponse defines the data returned for a financial year.
type FinancialYearResponse struct {
	FinancialYearID string    `json:"financialYearID"`
	Name            string    `json:"name"`
	StartDate       string    `json:"startDate"`
	EndDate         string    `json:"endDate"`
	IsActive        bool      `json:"isActive"`
	PostingUnlocked bool      `json:"postingUnlocked"`
	CreatedAt       time.Time `json:"createdAt"`
	CreatedBy       string    `json:"createdBy"`
	LastUpdatedAt   time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy   string    `json:"lastUpdatedBy"`
}

// ToFinancialYearResponse converts a domain.FinancialYear.
func ToFinancialYearResponse(y *domain.FinancialYear) FinancialYearResponse {
	return FinancialYearResponse{
		FinancialYearID: y.FinancialYearID,
		Name:            y.Name,
		StartDate:       y.StartDate.Format(DateLayout),
		EndDate:         y.EndDate.Format(DateLayout),
		IsActive:        y.IsActive,
		PostingUnlocked: y.PostingUnlocked,
		CreatedAt:       y.CreatedAt,
		CreatedBy:       y.CreatedBy,
		LastUpdatedAt:   y.LastUpdatedAt,
		LastUpdatedBy:   y.LastUpdatedBy,
	}
}

// ListFinancialYearsResponse wraps the list of years.
type ListFinancialYearsResponse struct {
	FinancialYears []FinancialYearResponse `json:"financialYears"`
}

// ToListFinancialYearsResponse converts a slice of years.
func ToListFinancialYearsResponse(years []domain.FinancialYear) ListFinancialYearsResponse {
	res := ListFinancialYearsResponse{FinancialYears: make([]FinancialYearResponse, len(years))}
	for i := range years {
		res.FinancialYears[i] = ToFinancialYearResponse(&years[i])
	}
	return res
}
