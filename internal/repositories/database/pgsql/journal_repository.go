package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/models"
	"github.com/SscSPs/erp_ledger/internal/utils/mapping"
	"github.com/SscSPs/erp_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const entryColumns = `journal_entry_id, financial_year_id, reference, sequence, entry_date, narration, status,
	posted_at, posted_by, cancelled_at, cancelled_by, cancel_reason, created_at, created_by, last_updated_at, last_updated_by`

const itemColumns = `journal_item_id, journal_entry_id, line_no, account_id, item_type, amount, memo`

const (
	defaultEntryPageSize = 20
	maxEntryPageSize     = 100
	defaultItemPageSize  = 50
	maxItemPageSize      = 200
)

type PgxJournalRepository struct {
	BaseRepository
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func entryNotFound(entryID string) error {
	return apperrors.NewNotFoundError("journal entry " + entryID + " not found")
}

func decodeCursor(nextToken *string) (*pagination.Cursor, error) {
	if nextToken == nil || *nextToken == "" {
		return nil, nil
	}
	c, err := pagination.DecodeToken(*nextToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return &c, nil
}

// cursorArgs splits an optional cursor into nullable query parameters.
func cursorArgs(c *pagination.Cursor) (date, at *time.Time, id *string) {
	if c == nil {
		return nil, nil, nil
	}
	return &c.Date, &c.At, &c.ID
}

func (r *PgxJournalRepository) loadEntry(ctx context.Context, entryID, lockClause string) (*domain.JournalEntry, error) {
	if !isUUID(entryID) {
		return nil, entryNotFound(entryID)
	}
	rows, err := r.DB.Query(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE journal_entry_id = $1 `+lockClause, entryID)
	if err != nil {
		return nil, dbError("failed to query journal entry "+entryID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entryNotFound(entryID)
		}
		return nil, dbError("failed to scan journal entry "+entryID, err)
	}

	rows, err = r.DB.Query(ctx, `SELECT `+itemColumns+` FROM journal_items WHERE journal_entry_id = $1 ORDER BY line_no`, entryID)
	if err != nil {
		return nil, dbError("failed to query items of journal entry "+entryID, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalItem])
	if err != nil {
		return nil, dbError("failed to scan items of journal entry "+entryID, err)
	}

	entry := mapping.ToDomainJournalEntry(m)
	entry.Items = mapping.ToDomainJournalItemSlice(items)
	return &entry, nil
}

// FindEntryByID retrieves an entry and its items.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.loadEntry(ctx, entryID, "")
}

// FindEntryByIDForUpdate locks the entry row until the surrounding transaction ends.
func (r *PgxJournalRepository) FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.loadEntry(ctx, entryID, "FOR UPDATE")
}

// ListEntries returns headers newest first using keyset pagination on
// (entry_date, created_at, journal_entry_id).
func (r *PgxJournalRepository) ListEntries(ctx context.Context, params domain.EntryListParams) ([]domain.JournalEntry, *string, error) {
	cursor, err := decodeCursor(params.NextToken)
	if err != nil {
		return nil, nil, err
	}
	limit := pagination.NormalizeLimit(params.Limit, defaultEntryPageSize, maxEntryPageSize)

	var status, yearID *string
	if params.Status != nil {
		s := string(*params.Status)
		status = &s
	}
	if params.FinancialYearID != nil {
		if !isUUID(*params.FinancialYearID) {
			return []domain.JournalEntry{}, nil, nil
		}
		yearID = params.FinancialYearID
	}
	cDate, cAt, cID := cursorArgs(cursor)

	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::uuid IS NULL OR financial_year_id = $2)
		  AND ($3::date IS NULL OR (entry_date, created_at, journal_entry_id) < ($3::date, $4::timestamptz, $5::uuid))
		ORDER BY entry_date DESC, created_at DESC, journal_entry_id DESC
		LIMIT $6;
	`
	// one extra row tells whether another page exists
	rows, err := r.DB.Query(ctx, query, status, yearID, cDate, cAt, cID, limit+1)
	if err != nil {
		return nil, nil, dbError("failed to list journal entries", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, nil, dbError("failed to scan journal entries", err)
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt, last.JournalEntryID)
		next = &token
	}
	entries := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		entries[i] = mapping.ToDomainJournalEntry(m)
	}
	return entries, next, nil
}

// ListPostedItemsByAccount pages through an account's posted items oldest
// first. The running total is computed over every prior item, not just the page.
func (r *PgxJournalRepository) ListPostedItemsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountLedgerLine, *string, error) {
	cursor, err := decodeCursor(nextToken)
	if err != nil {
		return nil, nil, err
	}
	limit = pagination.NormalizeLimit(limit, defaultItemPageSize, maxItemPageSize)
	if !isUUID(accountID) {
		return []domain.AccountLedgerLine{}, nil, nil
	}
	cDate, cAt, cID := cursorArgs(cursor)

	query := `
		SELECT journal_item_id, journal_entry_id, reference, entry_date, narration, item_type, amount, memo, posted_at, running_net
		FROM (
			SELECT ji.journal_item_id, ji.journal_entry_id, je.reference, je.entry_date, je.narration,
			       ji.item_type, ji.amount, ji.memo, je.posted_at,
			       SUM(CASE WHEN ji.item_type = 'DEBIT' THEN ji.amount ELSE -ji.amount END)
			           OVER (ORDER BY je.entry_date, je.posted_at, ji.journal_item_id
			                 ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW) AS running_net
			FROM journal_items ji
			JOIN journal_entries je ON je.journal_entry_id = ji.journal_entry_id
			WHERE ji.account_id = $1 AND je.status = 'POSTED'
		) ledger
		WHERE ($2::date IS NULL OR (entry_date, posted_at, journal_item_id) > ($2::date, $3::timestamptz, $4::uuid))
		ORDER BY entry_date, posted_at, journal_item_id
		LIMIT $5;
	`
	rows, err := r.DB.Query(ctx, query, accountID, cDate, cAt, cID, limit+1)
	if err != nil {
		return nil, nil, dbError("failed to list items of account "+accountID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AccountLedgerRow])
	if err != nil {
		return nil, nil, dbError("failed to scan items of account "+accountID, err)
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.PostedAt, last.JournalItemID)
		next = &token
	}
	lines := make([]domain.AccountLedgerLine, len(ms))
	for i, m := range ms {
		lines[i] = mapping.ToDomainAccountLedgerLine(m)
	}
	return lines, next, nil
}

// insertItems queues every item of an entry into one batch round trip.
func (r *PgxJournalRepository) insertItems(ctx context.Context, items []domain.JournalItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `INSERT INTO journal_items (` + itemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, it := range items {
		m := mapping.ToModelJournalItem(it)
		batch.Queue(query, m.JournalItemID, m.JournalEntryID, m.LineNo, m.AccountID, m.ItemType, m.Amount, m.Memo)
	}
	br := r.DB.SendBatch(ctx, batch)
	for range items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return dbError("failed to insert journal item", err)
		}
	}
	if err := br.Close(); err != nil {
		return dbError("failed to insert journal items", err)
	}
	return nil
}

// SaveEntry inserts the header and items. Call it inside a transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.DB.Exec(ctx, query,
		m.JournalEntryID, m.FinancialYearID, m.Reference, m.Sequence, m.EntryDate, m.Narration, m.Status,
		m.PostedAt, m.PostedBy, m.CancelledAt, m.CancelledBy, m.CancelReason,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if _, dup := uniqueViolation(err); dup {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, m.Reference)
		}
		return dbError("failed to insert journal entry "+m.JournalEntryID, err)
	}
	return r.insertItems(ctx, entry.Items)
}

func (r *PgxJournalRepository) ReplaceDraft(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		UPDATE journal_entries
		SET financial_year_id = $2, reference = $3, sequence = $4, entry_date = $5, narration = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE journal_entry_id = $1 AND status = 'DRAFT';
	`
	tag, err := r.DB.Exec(ctx, query, m.JournalEntryID, m.FinancialYearID, m.Reference, m.Sequence, m.EntryDate, m.Narration, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return dbError("failed to update journal entry "+m.JournalEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrImmutableEntry, m.JournalEntryID)
	}
	if _, err := r.DB.Exec(ctx, `DELETE FROM journal_items WHERE journal_entry_id = $1`, m.JournalEntryID); err != nil {
		return dbError("failed to clear items of journal entry "+m.JournalEntryID, err)
	}
	return r.insertItems(ctx, entry.Items)
}

func (r *PgxJournalRepository) UpdateEntryStatus(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		UPDATE journal_entries
		SET status = $2, posted_at = $3, posted_by = $4, cancelled_at = $5, cancelled_by = $6, cancel_reason = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE journal_entry_id = $1;
	`
	tag, err := r.DB.Exec(ctx, query, m.JournalEntryID, m.Status, m.PostedAt, m.PostedBy, m.CancelledAt, m.CancelledBy, m.CancelReason, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return dbError("failed to update status of journal entry "+m.JournalEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return entryNotFound(m.JournalEntryID)
	}
	return nil
}

func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	if !isUUID(entryID) {
		return entryNotFound(entryID)
	}
	if _, err := r.DB.Exec(ctx, `DELETE FROM journal_items WHERE journal_entry_id = $1`, entryID); err != nil {
		return dbError("failed to delete items of journal entry "+entryID, err)
	}
	tag, err := r.DB.Exec(ctx, `DELETE FROM journal_entries WHERE journal_entry_id = $1`, entryID)
	if err != nil {
		return dbError("failed to delete journal entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return entryNotFound(entryID)
	}
	return nil
}
