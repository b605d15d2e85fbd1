package pgsql

import (
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every Postgres repository to dbPool. cache may be nil.
func NewRepositoryProvider(dbPool *pgxpool.Pool, cache portsrepo.BalanceCache) portsrepo.RepositoryProvider {
	base := BaseRepository{DB: dbPool}

	return portsrepo.RepositoryProvider{
		AccountRepo:   &PgxAccountRepository{BaseRepository: base},
		YearRepo:      &PgxFinancialYearRepository{BaseRepository: base},
		JournalRepo:   &PgxJournalRepository{BaseRepository: base},
		ReportingRepo: &PgxReportingRepository{BaseRepository: base},
		TxManager:     NewTxManager(dbPool),
		BalanceCache:  cache,
	}
}
