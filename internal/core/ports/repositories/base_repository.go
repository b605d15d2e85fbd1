package repositories

import "context"

// TxRepositories are repositories bound to one open transaction.
type TxRepositories struct {
	Accounts AccountRepositoryFacade
	Years    FinancialYearRepositoryFacade
	Journals JournalRepositoryFacade
}

// TransactionManager runs fn inside a single atomic transaction. fn returning an
// error rolls everything back; the error is returned unchanged apart from
// translation of serialization and lock failures into ErrConcurrencyConflict.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx TxRepositories) error) error
}
