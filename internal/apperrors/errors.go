package apperrors

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
	ErrConflict     = errors.New("conflict")
)

// Ledger invariant violations. These reject the requested transition and are never coerced.
var (
	ErrUnbalancedEntry   = errors.New("journal entry debits and credits do not balance")
	ErrEmptyEntry        = errors.New("journal entry needs at least one debit and one credit line")
	ErrClosedPeriod      = errors.New("financial year is not open for postings")
	ErrImmutableEntry    = errors.New("journal entry is no longer a draft")
	ErrAlreadyCancelled  = errors.New("journal entry is not posted")
	ErrDuplicateCode     = errors.New("account code already exists")
	ErrOverlappingPeriod = errors.New("financial year overlaps an existing year")
	ErrReferencedAccount = errors.New("account is referenced by journal items")
	ErrCategoryLocked    = errors.New("account category cannot change once items reference it")
)

// ErrConcurrencyConflict is returned when a transaction lost a race on a shared row.
// Callers may retry; the core never does.
var ErrConcurrencyConflict = errors.New("concurrent update conflict, retry the request")

// Kind groups errors by how a caller should react to them.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindInvariant
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindInvariant:
		return "invariant_violation"
	case KindConflict:
		return "concurrency_conflict"
	default:
		return "internal"
	}
}

var kindTable = []struct {
	target error
	kind   Kind
}{
	{ErrConcurrencyConflict, KindConflict},
	{ErrUnbalancedEntry, KindInvariant},
	{ErrEmptyEntry, KindInvariant},
	{ErrClosedPeriod, KindInvariant},
	{ErrImmutableEntry, KindInvariant},
	{ErrAlreadyCancelled, KindInvariant},
	{ErrDuplicateCode, KindInvariant},
	{ErrOverlappingPeriod, KindInvariant},
	{ErrReferencedAccount, KindInvariant},
	{ErrCategoryLocked, KindInvariant},
	{ErrDuplicate, KindInvariant},
	{ErrConflict, KindInvariant},
	{ErrValidation, KindValidation},
	{ErrNotFound, KindNotFound},
	{ErrUnauthorized, KindUnauthorized},
	{ErrForbidden, KindForbidden},
}

// KindOf classifies err. Unknown errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	for _, entry := range kindTable {
		if errors.Is(err, entry.target) {
			return entry.kind
		}
	}
	return KindInternal
}

// IsRetryable reports whether the caller may safely repeat the request.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError builds a 404 AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}
