package dto

import (
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AsOfParams is the optional cut-off date of balance queries.
type AsOfParams struct {
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// PeriodParams bounds a profit and loss query. Both dates are inclusive and optional.
type PeriodParams struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Category    domain.Category `json:"category"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf     string                    `json:"asOf,omitempty"`
	Rows     []TrialBalanceRowResponse `json:"rows"`
	Balanced bool                      `json:"balanced"`
	Totals   struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	res := TrialBalanceResponse{
		AsOf:     FormatDate(tb.AsOf),
		Rows:     make([]TrialBalanceRowResponse, len(tb.Rows)),
		Balanced: tb.Balanced,
	}
	for i, r := range tb.Rows {
		res.Rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			AccountCode: r.AccountCode,
			AccountName: r.AccountName,
			Category:    r.Category,
			Debit:       r.Debit,
			Credit:      r.Credit,
		}
	}
	res.Totals.Debit = tb.TotalDebit
	res.Totals.Credit = tb.TotalCredit
	return res
}

// ProfitAndLossResponse represents the profit and loss report response
type ProfitAndLossResponse struct {
	FromDate string                 `json:"fromDate,omitempty"`
	ToDate   string                 `json:"toDate,omitempty"`
	Revenue  []domain.AccountAmount `json:"revenue"`
	Expenses []domain.AccountAmount `json:"expenses"`
	Summary  struct {
		TotalRevenue  decimal.Decimal `json:"totalRevenue"`
		TotalExpenses decimal.Decimal `json:"totalExpenses"`
		NetProfit     decimal.Decimal `json:"netProfit"`
	} `json:"summary"`
}

// ToProfitAndLossResponse converts a domain.PAndLReport.
func ToProfitAndLossResponse(r *domain.PAndLReport) ProfitAndLossResponse {
	res := ProfitAndLossResponse{
		FromDate: FormatDate(r.From),
		ToDate:   FormatDate(r.To),
		Revenue:  r.Revenue,
		Expenses: r.Expenses,
	}
	res.Summary.TotalRevenue = sumAmounts(r.Revenue)
	res.Summary.TotalExpenses = sumAmounts(r.Expenses)
	res.Summary.NetProfit = r.NetProfit
	return res
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf        string                 `json:"asOf,omitempty"`
	Assets      []domain.AccountAmount `json:"assets"`
	Liabilities []domain.AccountAmount `json:"liabilities"`
	Equity      []domain.AccountAmount `json:"equity"`
	Summary     struct {
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		TotalEquity      decimal.Decimal `json:"totalEquity"`
		CurrentEarnings  decimal.Decimal `json:"currentEarnings"`
	} `json:"summary"`
}

// ToBalanceSheetResponse converts a domain.BalanceSheetReport.
func ToBalanceSheetResponse(r *domain.BalanceSheetReport) BalanceSheetResponse {
	res := BalanceSheetResponse{
		AsOf:        FormatDate(r.AsOf),
		Assets:      r.Assets,
		Liabilities: r.Liabilities,
		Equity:      r.Equity,
	}
	res.Summary.TotalAssets = r.TotalAssets
	res.Summary.TotalLiabilities = r.TotalLiabilities
	res.Summary.TotalEquity = r.TotalEquity
	res.Summary.CurrentEarnings = r.CurrentEarnings
	return res
}

func sumAmounts(rows []domain.AccountAmount) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.NetAmount)
	}
	return total
}
