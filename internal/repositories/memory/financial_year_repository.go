package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

func yearNotFound(id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("financial year %s not found", id))
}

func (r *repo) FindYearByID(_ context.Context, yearID string) (*domain.FinancialYear, error) {
	var out *domain.FinancialYear
	err := r.read(func(st *state) error {
		y, ok := st.years[yearID]
		if !ok {
			return yearNotFound(yearID)
		}
		out = &y
		return nil
	})
	return out, err
}

func (r *repo) FindYearForDate(_ context.Context, date time.Time) (*domain.FinancialYear, error) {
	var out *domain.FinancialYear
	err := r.read(func(st *state) error {
		for _, y := range st.years {
			if y.Contains(date) {
				y := y
				out = &y
				return nil
			}
		}
		return apperrors.NewNotFoundError(fmt.Sprintf("no financial year covers %s", date.Format("2006-01-02")))
	})
	return out, err
}

func (r *repo) FindOverlappingYears(_ context.Context, start, end time.Time) ([]domain.FinancialYear, error) {
	var out []domain.FinancialYear
	err := r.read(func(st *state) error {
		for _, y := range st.years {
			if y.Overlaps(start, end) {
				out = append(out, y)
			}
		}
		return nil
	})
	sortYears(out)
	return out, err
}

func (r *repo) FindActiveYear(ctx context.Context) (*domain.FinancialYear, error) {
	var id string
	err := r.read(func(st *state) error {
		if st.ledger.ActiveYearID == nil {
			return apperrors.NewNotFoundError("no financial year is active")
		}
		id = *st.ledger.ActiveYearID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindYearByID(ctx, id)
}

func (r *repo) ListYears(_ context.Context) ([]domain.FinancialYear, error) {
	out := []domain.FinancialYear{}
	err := r.read(func(st *state) error {
		for _, y := range st.years {
			out = append(out, y)
		}
		return nil
	})
	sortYears(out)
	return out, err
}

func sortYears(years []domain.FinancialYear) {
	sort.Slice(years, func(i, j int) bool { return years[i].StartDate.Before(years[j].StartDate) })
}

func (r *repo) GetLedgerState(_ context.Context) (domain.LedgerState, error) {
	var out domain.LedgerState
	err := r.read(func(st *state) error {
		out.LedgerID = st.ledger.LedgerID
		out.Version = st.ledger.Version
		if st.ledger.ActiveYearID != nil {
			id := *st.ledger.ActiveYearID
			out.ActiveYearID = &id
		}
		return nil
	})
	return out, err
}

func (r *repo) SaveYear(ctx context.Context, year domain.FinancialYear) error {
	return r.write(ctx, func(st *state) error {
		for _, y := range st.years {
			if y.Name == year.Name {
				return fmt.Errorf("%w: financial year named %s", apperrors.ErrDuplicate, year.Name)
			}
		}
		st.years[year.FinancialYearID] = year
		return nil
	})
}

// LockLedgerState never conflicts here: transactions are already serialised.
func (r *repo) LockLedgerState(ctx context.Context) (domain.LedgerState, error) {
	return r.GetLedgerState(ctx)
}

func (r *repo) ActivateYear(ctx context.Context, yearID string, userID string, now time.Time) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.years[yearID]; !ok {
			return yearNotFound(yearID)
		}
		for id, y := range st.years {
			active := id == yearID
			if y.IsActive != active {
				y.IsActive = active
				y.Touch(userID, now)
				st.years[id] = y
			}
		}
		id := yearID
		st.ledger.ActiveYearID = &id
		return nil
	})
}

func (r *repo) LockYearForPosting(ctx context.Context, yearID string) (*domain.FinancialYear, error) {
	return r.FindYearByID(ctx, yearID)
}

func (r *repo) NextEntrySequence(ctx context.Context, yearID string) (int64, error) {
	var seq int64
	err := r.write(ctx, func(st *state) error {
		y, ok := st.years[yearID]
		if !ok {
			return yearNotFound(yearID)
		}
		seq = y.NextEntrySeq
		y.NextEntrySeq++
		st.years[yearID] = y
		return nil
	})
	return seq, err
}

func (r *repo) SetPostingUnlocked(ctx context.Context, yearID string, unlocked bool, userID string, now time.Time) error {
	return r.write(ctx, func(st *state) error {
		y, ok := st.years[yearID]
		if !ok {
			return yearNotFound(yearID)
		}
		y.PostingUnlocked = unlocked
		y.Touch(userID, now)
		st.years[yearID] = y
		return nil
	})
}

func (r *repo) BumpLedgerVersion(ctx context.Context) (int64, error) {
	var v int64
	err := r.write(ctx, func(st *state) error {
		st.ledger.Version++
		v = st.ledger.Version
		return nil
	})
	return v, err
}
