package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperrors.Kind
	}{
		{"nil", nil, apperrors.KindInternal},
		{"plain", errors.New("boom"), apperrors.KindInternal},
		{"validation wrapped", fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation), apperrors.KindValidation},
		{"unbalanced", fmt.Errorf("%w: debit 100 credit 90", apperrors.ErrUnbalancedEntry), apperrors.KindInvariant},
		{"closed period", apperrors.ErrClosedPeriod, apperrors.KindInvariant},
		{"duplicate code", apperrors.ErrDuplicateCode, apperrors.KindInvariant},
		{"conflict", fmt.Errorf("activate: %w", apperrors.ErrConcurrencyConflict), apperrors.KindConflict},
		{"not found app error", apperrors.NewNotFoundError("entry x not found"), apperrors.KindNotFound},
		{"forbidden", apperrors.ErrForbidden, apperrors.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.KindOf(tt.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, apperrors.IsRetryable(fmt.Errorf("x: %w", apperrors.ErrConcurrencyConflict)))
	assert.False(t, apperrors.IsRetryable(apperrors.ErrUnbalancedEntry))
}

func TestAppError(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperrors.NewAppError(http.StatusInternalServerError, "failed to insert entry", cause)

	assert.Equal(t, "failed to insert entry: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	nf := apperrors.NewNotFoundError("account missing")
	assert.Equal(t, http.StatusNotFound, nf.Code)
	assert.ErrorIs(t, nf, apperrors.ErrNotFound)
}
