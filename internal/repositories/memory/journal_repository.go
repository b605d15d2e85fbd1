package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const defaultPageSize = 20

func entryNotFound(id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("journal entry %s not found", id))
}

func sortItems(items []domain.JournalItem) {
	sort.Slice(items, func(i, j int) bool { return items[i].LineNo < items[j].LineNo })
}

func (r *repo) FindEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	var out *domain.JournalEntry
	err := r.read(func(st *state) error {
		e, ok := st.entries[entryID]
		if !ok {
			return entryNotFound(entryID)
		}
		c := e.Clone()
		sortItems(c.Items)
		out = &c
		return nil
	})
	return out, err
}

// FindEntryByIDForUpdate needs no row lock: the whole transaction is exclusive.
func (r *repo) FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.FindEntryByID(ctx, entryID)
}

func (r *repo) ListEntries(_ context.Context, params domain.EntryListParams) ([]domain.JournalEntry, *string, error) {
	var cursor *pagination.Cursor
	if params.NextToken != nil && *params.NextToken != "" {
		c, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}
	limit := pagination.NormalizeLimit(params.Limit, defaultPageSize, 100)

	var all []domain.JournalEntry
	_ = r.read(func(st *state) error {
		for _, e := range st.entries {
			if params.Status != nil && e.Status != *params.Status {
				continue
			}
			if params.FinancialYearID != nil && e.FinancialYearID != *params.FinancialYearID {
				continue
			}
			if cursor != nil && !cursor.Before(e.EntryDate, e.CreatedAt, e.JournalEntryID) {
				continue
			}
			h := e.Clone()
			h.Items = nil
			all = append(all, h)
		}
		return nil
	})

	// newest first
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.After(b.EntryDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.JournalEntryID > b.JournalEntryID
	})

	if len(all) <= limit {
		if all == nil {
			all = []domain.JournalEntry{}
		}
		return all, nil, nil
	}
	page := all[:limit]
	last := page[len(page)-1]
	next := pagination.EncodeToken(last.EntryDate, last.CreatedAt, last.JournalEntryID)
	return page, &next, nil
}

func (r *repo) ListPostedItemsByAccount(_ context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountLedgerLine, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}
	limit = pagination.NormalizeLimit(limit, 50, 200)

	var lines []domain.AccountLedgerLine
	_ = r.read(func(st *state) error {
		for _, e := range st.entries {
			if e.Status != domain.Posted || e.PostedAt == nil {
				continue
			}
			for _, it := range e.Items {
				if it.AccountID != accountID {
					continue
				}
				lines = append(lines, domain.AccountLedgerLine{
					JournalItemID:  it.JournalItemID,
					JournalEntryID: e.JournalEntryID,
					Reference:      e.Reference,
					EntryDate:      e.EntryDate,
					Narration:      e.Narration,
					Type:           it.Type,
					Amount:         it.Amount,
					Memo:           it.Memo,
					PostedAt:       *e.PostedAt,
				})
			}
		}
		return nil
	})

	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		if !a.PostedAt.Equal(b.PostedAt) {
			return a.PostedAt.Before(b.PostedAt)
		}
		return a.JournalItemID < b.JournalItemID
	})

	running := decimal.Zero
	page := make([]domain.AccountLedgerLine, 0, limit)
	var next *string
	for _, l := range lines {
		if l.Type == domain.Debit {
			running = running.Add(l.Amount)
		} else {
			running = running.Sub(l.Amount)
		}
		if cursor != nil && !cursor.After(l.EntryDate, l.PostedAt, l.JournalItemID) {
			continue
		}
		if len(page) == limit {
			last := page[len(page)-1]
			tok := pagination.EncodeToken(last.EntryDate, last.PostedAt, last.JournalItemID)
			next = &tok
			break
		}
		l.RunningNet = running
		page = append(page, l)
	}
	return page, next, nil
}

func (r *repo) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	return r.write(ctx, func(st *state) error {
		for _, e := range st.entries {
			if e.Reference == entry.Reference {
				return fmt.Errorf("%w: journal entry reference %s", apperrors.ErrDuplicate, entry.Reference)
			}
		}
		if _, ok := st.entries[entry.JournalEntryID]; ok {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.JournalEntryID)
		}
		st.entries[entry.JournalEntryID] = entry.Clone()
		return nil
	})
}

func (r *repo) ReplaceDraft(ctx context.Context, entry domain.JournalEntry) error {
	return r.write(ctx, func(st *state) error {
		cur, ok := st.entries[entry.JournalEntryID]
		if !ok {
			return entryNotFound(entry.JournalEntryID)
		}
		if cur.Status != domain.Draft {
			return fmt.Errorf("%w: %s is %s", apperrors.ErrImmutableEntry, cur.Reference, cur.Status)
		}
		st.entries[entry.JournalEntryID] = entry.Clone()
		return nil
	})
}

func (r *repo) UpdateEntryStatus(ctx context.Context, entry domain.JournalEntry) error {
	return r.write(ctx, func(st *state) error {
		cur, ok := st.entries[entry.JournalEntryID]
		if !ok {
			return entryNotFound(entry.JournalEntryID)
		}
		upd := entry.Clone()
		cur.Status = upd.Status
		cur.PostedAt, cur.PostedBy = upd.PostedAt, upd.PostedBy
		cur.CancelledAt, cur.CancelledBy = upd.CancelledAt, upd.CancelledBy
		cur.CancelReason = upd.CancelReason
		cur.LastUpdatedAt, cur.LastUpdatedBy = upd.LastUpdatedAt, upd.LastUpdatedBy
		st.entries[entry.JournalEntryID] = cur
		return nil
	})
}

func (r *repo) DeleteEntry(ctx context.Context, entryID string) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.entries[entryID]; !ok {
			return entryNotFound(entryID)
		}
		delete(st.entries, entryID)
		return nil
	})
}
