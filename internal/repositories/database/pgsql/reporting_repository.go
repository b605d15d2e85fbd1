package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// PgxReportingRepository aggregates posted items with SQL.
type PgxReportingRepository struct {
	BaseRepository
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

func datePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := domain.DateOnly(*t)
	return &d
}

// SumAccountItems totals posted debits and credits of one account up to asOf.
func (r *PgxReportingRepository) SumAccountItems(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	if !isUUID(accountID) {
		return decimal.Zero, decimal.Zero, nil
	}
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN ji.item_type = 'DEBIT' THEN ji.amount END), 0) AS total_debit,
			COALESCE(SUM(CASE WHEN ji.item_type = 'CREDIT' THEN ji.amount END), 0) AS total_credit
		FROM journal_items ji
		JOIN journal_entries je ON je.journal_entry_id = ji.journal_entry_id
		WHERE ji.account_id = $1
		  AND je.status = 'POSTED'
		  AND ($2::date IS NULL OR je.entry_date <= $2::date);
	`
	var debit, credit decimal.Decimal
	if err := r.DB.QueryRow(ctx, query, accountID, datePtr(asOf)).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, dbError("error summing account items", err)
	}
	return debit, credit, nil
}

// GetAccountTotals retrieves per-account posted totals between from and to, both inclusive.
func (r *PgxReportingRepository) GetAccountTotals(ctx context.Context, from, to *time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.account_id,
			a.code,
			a.name,
			a.category,
			SUM(CASE WHEN ji.item_type = 'DEBIT' THEN ji.amount ELSE 0 END) AS total_debit,
			SUM(CASE WHEN ji.item_type = 'CREDIT' THEN ji.amount ELSE 0 END) AS total_credit
		FROM journal_items ji
		JOIN journal_entries je ON je.journal_entry_id = ji.journal_entry_id
		JOIN accounts a ON a.account_id = ji.account_id
		WHERE je.status = 'POSTED'
		  AND ($1::date IS NULL OR je.entry_date >= $1::date)
		  AND ($2::date IS NULL OR je.entry_date <= $2::date)
		GROUP BY a.account_id, a.code, a.name, a.category
		ORDER BY a.code;
	`
	rows, err := r.DB.Query(ctx, query, datePtr(from), datePtr(to))
	if err != nil {
		return nil, dbError("error querying account totals", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		var category string
		if err := rows.Scan(&row.AccountID, &row.AccountCode, &row.AccountName, &category, &row.Debit, &row.Credit); err != nil {
			return nil, dbError("error scanning account totals row", err)
		}
		row.Category = domain.Category(category)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("error iterating account totals rows", err)
	}
	return result, nil
}
