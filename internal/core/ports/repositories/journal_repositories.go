package repositories

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindEntryByID retrieves an entry together with its items ordered by line number.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries returns entry headers (without items), newest entry date first,
	// and a token for the next page.
	ListEntries(ctx context.Context, params domain.EntryListParams) ([]domain.JournalEntry, *string, error)

	// ListPostedItemsByAccount returns posted items of an account oldest first. Each
	// line carries RunningNet, the debit-minus-credit total up to and including it.
	ListPostedItemsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountLedgerLine, *string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// FindEntryByIDForUpdate loads an entry with items and locks its row for the
	// rest of the transaction.
	FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// SaveEntry persists a new entry and its items.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// ReplaceDraft rewrites a draft's header and replaces all of its items.
	ReplaceDraft(ctx context.Context, entry domain.JournalEntry) error

	// UpdateEntryStatus writes the status, posting and cancellation fields and audit fields.
	UpdateEntryStatus(ctx context.Context, entry domain.JournalEntry) error

	// DeleteEntry removes an entry and its items.
	DeleteEntry(ctx context.Context, entryID string) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
