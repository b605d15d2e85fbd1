package services

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	GetEntry(ctx context.Context, actor domain.Actor, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, actor domain.Actor, params domain.EntryListParams) ([]domain.JournalEntry, *string, error)

	// ListAccountItems pages through the posted lines of one account with running balances.
	ListAccountItems(ctx context.Context, actor domain.Actor, accountID string, limit int, nextToken *string) ([]domain.AccountLedgerLine, *string, error)
}

// JournalWriterSvc drives the entry lifecycle: DRAFT -> POSTED -> CANCELLED, or DRAFT -> deleted.
type JournalWriterSvc interface {
	CreateEntry(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error)
	UpdateDraft(ctx context.Context, actor domain.Actor, entryID string, req dto.UpdateJournalEntryRequest) (*domain.JournalEntry, error)
	PostEntry(ctx context.Context, actor domain.Actor, entryID string) (*domain.JournalEntry, error)
	CancelEntry(ctx context.Context, actor domain.Actor, entryID string, reason string) (*domain.JournalEntry, error)
	DeleteEntry(ctx context.Context, actor domain.Actor, entryID string) error
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
