package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"serialization failure", &pgconn.PgError{Code: pgSerializationFailure}, true},
		{"deadlock", &pgconn.PgError{Code: pgDeadlockDetected}, true},
		{"nowait lock held", fmt.Errorf("lock: %w", &pgconn.PgError{Code: pgLockNotAvailable}), true},
		{"unique violation", &pgconn.PgError{Code: pgUniqueViolation}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, apperrors.IsRetryable(translateError(tt.err)))
		})
	}
}

func TestAccountSaveError(t *testing.T) {
	err := accountSaveError("1000", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "accounts_code_key"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateCode)

	err = accountSaveError("1000", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "accounts_pkey"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	err = accountSaveError("1000", errors.New("connection reset"))
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}

func TestDbError_KeepsConflictsRetryable(t *testing.T) {
	err := dbError("failed to lock", &pgconn.PgError{Code: pgLockNotAvailable, Message: "could not obtain lock"})
	assert.ErrorIs(t, err, apperrors.ErrConcurrencyConflict)

	var appErr *apperrors.AppError
	err = dbError("failed to insert", errors.New("io"))
	assert.ErrorAs(t, err, &appErr)
}

func TestIsUUID(t *testing.T) {
	assert.True(t, isUUID("0f8fad5b-d9cb-469f-a165-70867728950e"))
	assert.False(t, isUUID("missing"))
	assert.False(t, isUUID(""))
}

func TestExclusionViolation(t *testing.T) {
	assert.True(t, exclusionViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgExclusionViolation, ConstraintName: "financial_years_no_overlap"})))
	assert.False(t, exclusionViolation(&pgconn.PgError{Code: pgUniqueViolation}))
	assert.False(t, exclusionViolation(errors.New("boom")))
}
