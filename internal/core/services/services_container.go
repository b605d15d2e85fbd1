package services

import (
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, opts ...Option) *portssvc.ServiceContainer {
	opts = append([]Option{WithPostingPolicy(domain.PostingPolicy{
		AllowHistoricalPostings:    cfg.Ledger.AllowHistoricalPostings,
		AllowReactivateClosedYears: cfg.Ledger.AllowReactivateClosedYears,
	})}, opts...)

	return &portssvc.ServiceContainer{
		Account:       NewAccountService(repos.AccountRepo, repos.TxManager, opts...),
		FinancialYear: NewFinancialYearService(repos.YearRepo, repos.TxManager, opts...),
		Journal:       NewJournalService(repos.JournalRepo, repos.AccountRepo, repos.TxManager, opts...),
		Reporting:     NewReportingService(repos.ReportingRepo, repos.AccountRepo, repos.YearRepo, repos.BalanceCache, opts...),
		Seed:          NewSeedService(repos.AccountRepo, opts...),
	}
}
