package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

func inRange(d time.Time, from, to *time.Time) bool {
	if from != nil && d.Before(domain.DateOnly(*from)) {
		return false
	}
	if to != nil && d.After(domain.DateOnly(*to)) {
		return false
	}
	return true
}

func (r *repo) SumAccountItems(_ context.Context, accountID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	debit, credit := decimal.Zero, decimal.Zero
	err := r.read(func(st *state) error {
		for _, e := range st.entries {
			if e.Status != domain.Posted || !inRange(e.EntryDate, nil, asOf) {
				continue
			}
			for _, it := range e.Items {
				if it.AccountID != accountID {
					continue
				}
				if it.Type == domain.Debit {
					debit = debit.Add(it.Amount)
				} else {
					credit = credit.Add(it.Amount)
				}
			}
		}
		return nil
	})
	return debit, credit, err
}

func (r *repo) GetAccountTotals(_ context.Context, from, to *time.Time) ([]domain.TrialBalanceRow, error) {
	rows := map[string]*domain.TrialBalanceRow{}
	err := r.read(func(st *state) error {
		for _, e := range st.entries {
			if e.Status != domain.Posted || !inRange(e.EntryDate, from, to) {
				continue
			}
			for _, it := range e.Items {
				row, ok := rows[it.AccountID]
				if !ok {
					acc := st.accounts[it.AccountID]
					row = &domain.TrialBalanceRow{
						AccountID:   it.AccountID,
						AccountCode: acc.Code,
						AccountName: acc.Name,
						Category:    acc.Category,
						Debit:       decimal.Zero,
						Credit:      decimal.Zero,
					}
					rows[it.AccountID] = row
				}
				if it.Type == domain.Debit {
					row.Debit = row.Debit.Add(it.Amount)
				} else {
					row.Credit = row.Credit.Add(it.Amount)
				}
			}
		}
		return nil
	})

	out := make([]domain.TrialBalanceRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
	return out, err
}
