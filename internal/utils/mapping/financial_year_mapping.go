package mapping

import (
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/models"
)

// ToModelFinancialYear converts a domain FinancialYear to a model FinancialYear
func ToModelFinancialYear(d domain.FinancialYear) models.FinancialYear {
	return models.FinancialYear{
		FinancialYearID: d.FinancialYearID,
		Name:            d.Name,
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		IsActive:        d.IsActive,
		PostingUnlocked: d.PostingUnlocked,
		NextEntrySeq:    d.NextEntrySeq,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFinancialYear converts a model FinancialYear to a domain FinancialYear.
// DATE columns come back at midnight in the session zone; they are pinned to UTC.
func ToDomainFinancialYear(m models.FinancialYear) domain.FinancialYear {
	return domain.FinancialYear{
		FinancialYearID: m.FinancialYearID,
		Name:            m.Name,
		StartDate:       domain.DateOnly(civil(m.StartDate)),
		EndDate:         domain.DateOnly(civil(m.EndDate)),
		IsActive:        m.IsActive,
		PostingUnlocked: m.PostingUnlocked,
		NextEntrySeq:    m.NextEntrySeq,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFinancialYearSlice converts a slice of model years to domain years
func ToDomainFinancialYearSlice(ms []models.FinancialYear) []domain.FinancialYear {
	ds := make([]domain.FinancialYear, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFinancialYear(m)
	}
	return ds
}

// ToDomainLedgerState converts the ledger_state row.
func ToDomainLedgerState(m models.LedgerState) domain.LedgerState {
	return domain.LedgerState{LedgerID: m.LedgerID, ActiveYearID: m.ActiveYearID, Version: m.Version}
}
