// Package memory is an in-process implementation of the repository ports. It
// backs the service tests and the STORAGE_DRIVER=memory development mode.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/google/uuid"
)

type state struct {
	accounts map[string]domain.Account
	years    map[string]domain.FinancialYear
	entries  map[string]domain.JournalEntry
	ledger   domain.LedgerState
}

func newState() *state {
	return &state{
		accounts: make(map[string]domain.Account),
		years:    make(map[string]domain.FinancialYear),
		entries:  make(map[string]domain.JournalEntry),
	}
}

func (s *state) clone() *state {
	out := newState()
	for k, v := range s.accounts {
		out.accounts[k] = v
	}
	for k, v := range s.years {
		out.years[k] = v
	}
	for k, v := range s.entries {
		out.entries[k] = v.Clone()
	}
	out.ledger.LedgerID = s.ledger.LedgerID
	out.ledger.Version = s.ledger.Version
	if s.ledger.ActiveYearID != nil {
		id := *s.ledger.ActiveYearID
		out.ledger.ActiveYearID = &id
	}
	return out
}

// Store holds committed ledger state. Transactions work on a private copy that
// replaces the committed state only when the callback succeeds; txMu serialises
// them, so every transaction sees the effects of the ones before it.
type Store struct {
	txMu      sync.Mutex
	mu        sync.RWMutex
	committed *state
}

// NewStore returns an empty store with a fresh ledger id.
func NewStore() *Store {
	st := newState()
	st.ledger.LedgerID = uuid.NewString()
	return &Store{committed: st}
}

// NewRepositoryProvider wires every repository port to one store.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	r := &repo{store: s}
	return portsrepo.RepositoryProvider{
		AccountRepo:   r,
		YearRepo:      r,
		JournalRepo:   r,
		ReportingRepo: r,
		TxManager:     s,
	}
}

// WithTransaction runs fn against a copy of the committed state.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx portsrepo.TxRepositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	r := &repo{store: s, tx: work}
	if err := fn(ctx, portsrepo.TxRepositories{Accounts: r, Years: r, Journals: r}); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
	return nil
}

// repo implements the repository ports either against the committed state
// (tx == nil) or inside a running transaction.
type repo struct {
	store *Store
	tx    *state
}

var (
	_ portsrepo.AccountRepositoryFacade       = (*repo)(nil)
	_ portsrepo.FinancialYearRepositoryFacade = (*repo)(nil)
	_ portsrepo.JournalRepositoryFacade       = (*repo)(nil)
	_ portsrepo.ReportingRepository           = (*repo)(nil)
	_ portsrepo.TransactionManager            = (*Store)(nil)
)

func (r *repo) read(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return fn(r.store.committed)
}

// write applies fn inside the running transaction, or as a single-statement
// transaction of its own.
func (r *repo) write(ctx context.Context, fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.store.WithTransaction(ctx, func(_ context.Context, tx portsrepo.TxRepositories) error {
		return fn(tx.Accounts.(*repo).tx)
	})
}
