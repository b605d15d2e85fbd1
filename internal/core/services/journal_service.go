package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/utils/accounting"
	"github.com/google/uuid"
)

// journalService records journal entries and drives their posting lifecycle.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	txManager   portsrepo.TransactionManager
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader, txManager portsrepo.TransactionManager, opts ...Option) portssvc.JournalSvcFacade {
	return &journalService{
		BaseService: newBaseService(opts...),
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		txManager:   txManager,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// yearCovering finds the year an entry dated date belongs to.
func yearCovering(ctx context.Context, years portsrepo.FinancialYearReader, date time.Time) (*domain.FinancialYear, error) {
	year, err := years.FindYearForDate(ctx, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no financial year covers %s", apperrors.ErrValidation, date.Format(dto.DateLayout))
		}
		return nil, err
	}
	return year, nil
}

// checkAccountsUsable verifies every item references an existing, active account.
func checkAccountsUsable(ctx context.Context, accounts portsrepo.AccountReader, items []domain.JournalItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.AccountID)
	}
	found, err := accounts.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, it := range items {
		acc, ok := found[it.AccountID]
		if !ok {
			return fmt.Errorf("%w: account %s does not exist", apperrors.ErrValidation, it.AccountID)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, acc.Code)
		}
	}
	return nil
}

// prepareItems validates request lines and stamps them with ids.
func prepareItems(reqItems []dto.JournalItemRequest, entryID string) ([]domain.JournalItem, error) {
	items := dto.ToDomainItems(reqItems)
	if err := accounting.ValidateItems(items); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].JournalItemID = uuid.NewString()
		items[i].JournalEntryID = entryID
	}
	return items, nil
}

func (s *journalService) CreateEntry(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error) {
	if err := s.Authorize(ctx, actor, domain.OpEntryWrite); err != nil {
		return nil, err
	}

	narration := strings.TrimSpace(req.Narration)
	if narration == "" {
		return nil, fmt.Errorf("%w: narration is required", apperrors.ErrValidation)
	}
	entryDate, err := dto.ParseDate("entryDate", req.EntryDate)
	if err != nil {
		return nil, err
	}

	entryID := uuid.NewString()
	items, err := prepareItems(req.Items, entryID)
	if err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		JournalEntryID: entryID,
		EntryDate:      entryDate,
		Narration:      narration,
		Status:         domain.Draft,
		Items:          items,
		AuditFields:    domain.NewAuditFields(actor.UserID, s.now()),
	}

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		year, err := yearCovering(ctx, tx.Years, entryDate)
		if err != nil {
			return err
		}
		if err := checkAccountsUsable(ctx, tx.Accounts, items); err != nil {
			return err
		}
		seq, err := tx.Years.NextEntrySequence(ctx, year.FinancialYearID)
		if err != nil {
			return err
		}
		entry.FinancialYearID = year.FinancialYearID
		entry.Sequence = seq
		entry.Reference = year.EntryReference(seq)
		return tx.Journals.SaveEntry(ctx, entry)
	})
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to create journal entry")
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry drafted",
		slog.String("journal_entry_id", entry.JournalEntryID),
		slog.String("reference", entry.Reference),
		slog.Int("items", len(entry.Items)))
	return &entry, nil
}

func (s *journalService) UpdateDraft(ctx context.Context, actor domain.Actor, entryID string, req dto.UpdateJournalEntryRequest) (*domain.JournalEntry, error) {
	if err := s.Authorize(ctx, actor, domain.OpEntryWrite); err != nil {
		return nil, err
	}

	var updated domain.JournalEntry
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		entry, err := tx.Journals.FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if !entry.IsDraft() {
			return fmt.Errorf("%w: %s is %s", apperrors.ErrImmutableEntry, entry.Reference, entry.Status)
		}

		if req.Narration != nil {
			narration := strings.TrimSpace(*req.Narration)
			if narration == "" {
				return fmt.Errorf("%w: narration is required", apperrors.ErrValidation)
			}
			entry.Narration = narration
		}

		if req.EntryDate != nil {
			entryDate, err := dto.ParseDate("entryDate", *req.EntryDate)
			if err != nil {
				return err
			}
			year, err := yearCovering(ctx, tx.Years, entryDate)
			if err != nil {
				return err
			}
			if year.FinancialYearID != entry.FinancialYearID {
				seq, err := tx.Years.NextEntrySequence(ctx, year.FinancialYearID)
				if err != nil {
					return err
				}
				entry.FinancialYearID = year.FinancialYearID
				entry.Sequence = seq
				entry.Reference = year.EntryReference(seq)
			}
			entry.EntryDate = entryDate
		}

		if req.Items != nil {
			items, err := prepareItems(*req.Items, entry.JournalEntryID)
			if err != nil {
				return err
			}
			if err := checkAccountsUsable(ctx, tx.Accounts, items); err != nil {
				return err
			}
			entry.Items = items
		}

		entry.Touch(actor.UserID, s.now())
		if err := tx.Journals.ReplaceDraft(ctx, *entry); err != nil {
			return err
		}
		updated = *entry
		return nil
	})
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to update draft journal entry", slog.String("journal_entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Draft journal entry updated", slog.String("journal_entry_id", entryID), slog.String("reference", updated.Reference))
	return &updated, nil
}

// PostEntry moves a draft to POSTED. All checks and writes share one
// transaction; on any failure the entry stays a draft.
func (s *journalService) PostEntry(ctx context.Context, actor domain.Actor, entryID string) (*domain.JournalEntry, error) {
	if err := s.Authorize(ctx, actor, domain.OpEntryPost); err != nil {
		return nil, err
	}

	var posted domain.JournalEntry
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		entry, err := tx.Journals.FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if !entry.IsDraft() {
			return fmt.Errorf("%w: %s is %s", apperrors.ErrImmutableEntry, entry.Reference, entry.Status)
		}
		if err := accounting.ValidateEntryBalance(*entry); err != nil {
			return err
		}

		year, err := tx.Years.LockYearForPosting(ctx, entry.FinancialYearID)
		if err != nil {
			return err
		}
		if !year.Contains(entry.EntryDate) || !s.posting.IsOpen(*year) {
			return fmt.Errorf("%w: %s does not accept postings dated %s", apperrors.ErrClosedPeriod, year.Name, entry.EntryDate.Format(dto.DateLayout))
		}
		if err := checkAccountsUsable(ctx, tx.Accounts, entry.Items); err != nil {
			return err
		}

		now := s.now()
		userID := actor.UserID
		entry.Status = domain.Posted
		entry.PostedAt = &now
		entry.PostedBy = &userID
		entry.Touch(userID, now)
		if err := tx.Journals.UpdateEntryStatus(ctx, *entry); err != nil {
			return err
		}
		if _, err := tx.Years.BumpLedgerVersion(ctx); err != nil {
			return err
		}
		posted = *entry
		return nil
	})
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to post journal entry", slog.String("journal_entry_id", entryID))
		return nil, err
	}

	debit, _ := posted.Totals()
	s.LogInfo(ctx, "Journal entry posted",
		slog.String("journal_entry_id", entryID),
		slog.String("reference", posted.Reference),
		slog.String("amount", debit.String()))
	return &posted, nil
}

// CancelEntry flags a posted entry as excluded from balances. Items are kept
// for the audit trail and no reversing entry is created.
func (s *journalService) CancelEntry(ctx context.Context, actor domain.Actor, entryID string, reason string) (*domain.JournalEntry, error) {
	if err := s.Authorize(ctx, actor, domain.OpEntryCancel); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a cancellation reason is required", apperrors.ErrValidation)
	}

	var cancelled domain.JournalEntry
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		entry, err := tx.Journals.FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.Status != domain.Posted {
			return fmt.Errorf("%w: %s is %s", apperrors.ErrAlreadyCancelled, entry.Reference, entry.Status)
		}

		year, err := tx.Years.LockYearForPosting(ctx, entry.FinancialYearID)
		if err != nil {
			return err
		}
		if !s.posting.IsOpen(*year) {
			return fmt.Errorf("%w: %s no longer accepts changes", apperrors.ErrClosedPeriod, year.Name)
		}

		now := s.now()
		userID := actor.UserID
		entry.Status = domain.Cancelled
		entry.CancelledAt = &now
		entry.CancelledBy = &userID
		entry.CancelReason = reason
		entry.Touch(userID, now)
		if err := tx.Journals.UpdateEntryStatus(ctx, *entry); err != nil {
			return err
		}
		if _, err := tx.Years.BumpLedgerVersion(ctx); err != nil {
			return err
		}
		cancelled = *entry
		return nil
	})
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to cancel journal entry", slog.String("journal_entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry cancelled", slog.String("journal_entry_id", entryID), slog.String("reference", cancelled.Reference))
	return &cancelled, nil
}

func (s *journalService) DeleteEntry(ctx context.Context, actor domain.Actor, entryID string) error {
	if err := s.Authorize(ctx, actor, domain.OpEntryWrite); err != nil {
		return err
	}
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		entry, err := tx.Journals.FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if !entry.IsDraft() {
			return fmt.Errorf("%w: %s is %s and cannot be deleted", apperrors.ErrImmutableEntry, entry.Reference, entry.Status)
		}
		return tx.Journals.DeleteEntry(ctx, entryID)
	})
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to delete journal entry", slog.String("journal_entry_id", entryID))
		return err
	}
	s.LogInfo(ctx, "Draft journal entry deleted", slog.String("journal_entry_id", entryID))
	return nil
}

func (s *journalService) GetEntry(ctx context.Context, actor domain.Actor, entryID string) (*domain.JournalEntry, error) {
	if err := s.Authorize(ctx, actor, domain.OpLedgerRead); err != nil {
		return nil, err
	}
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to get journal entry", slog.String("journal_entry_id", entryID))
		return nil, err
	}
	return entry, nil
}

func (s *journalService) ListEntries(ctx context.Context, actor domain.Actor, params domain.EntryListParams) ([]domain.JournalEntry, *string, error) {
	if err := s.Authorize(ctx, actor, domain.OpLedgerRead); err != nil {
		return nil, nil, err
	}
	if params.Status != nil {
		switch *params.Status {
		case domain.Draft, domain.Posted, domain.Cancelled:
		default:
			return nil, nil, fmt.Errorf("%w: unknown entry status %s", apperrors.ErrValidation, *params.Status)
		}
	}
	entries, next, err := s.journalRepo.ListEntries(ctx, params)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to list journal entries")
		return nil, nil, err
	}
	return entries, next, nil
}

func (s *journalService) ListAccountItems(ctx context.Context, actor domain.Actor, accountID string, limit int, nextToken *string) ([]domain.AccountLedgerLine, *string, error) {
	if err := s.Authorize(ctx, actor, domain.OpLedgerRead); err != nil {
		return nil, nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	lines, next, err := s.journalRepo.ListPostedItemsByAccount(ctx, accountID, limit, nextToken)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to list account items", slog.String("account_id", accountID))
		return nil, nil, err
	}
	for i := range lines {
		lines[i].RunningBalance = accounting.NormalizeBalance(lines[i].RunningNet, account.Category)
	}
	return lines, next, nil
}
