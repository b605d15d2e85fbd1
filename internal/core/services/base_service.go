package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	policy  domain.Policy
	posting domain.PostingPolicy
	now     func() time.Time
}

// Option configures the shared parts of a service.
type Option func(*BaseService)

// WithPolicy replaces the default authorization policy.
func WithPolicy(p domain.Policy) Option {
	return func(s *BaseService) {
		s.policy = p
	}
}

// WithPostingPolicy sets which financial years accept postings.
func WithPostingPolicy(p domain.PostingPolicy) Option {
	return func(s *BaseService) {
		s.posting = p
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *BaseService) {
		s.now = now
	}
}

func newBaseService(opts ...Option) BaseService {
	b := BaseService{
		policy: domain.DefaultPolicy(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Authorize checks the actor's role against the policy for op.
func (s *BaseService) Authorize(ctx context.Context, actor domain.Actor, op domain.Operation) error {
	if actor.UserID == "" {
		return fmt.Errorf("%w: no authenticated user", apperrors.ErrUnauthorized)
	}
	if !s.policy.Allows(actor.Role, op) {
		s.GetLogger(ctx).Warn("Operation denied by policy",
			slog.String("user_id", actor.UserID),
			slog.String("role", string(actor.Role)),
			slog.String("operation", string(op)))
		return fmt.Errorf("%w: role %s may not perform %s", apperrors.ErrForbidden, actor.Role, op)
	}
	return nil
}

// logUnexpected logs err unless it is an expected, caller-facing outcome.
func (s *BaseService) logUnexpected(ctx context.Context, err error, msg string, keyvals ...any) {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		s.LogError(ctx, err, msg, keyvals...)
	}
}

// today is the current civil date in UTC.
func (s *BaseService) today() time.Time {
	return domain.DateOnly(s.now())
}
