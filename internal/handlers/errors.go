package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindInvariant:
		if errors.Is(err, apperrors.ErrDuplicateCode) ||
			errors.Is(err, apperrors.ErrOverlappingPeriod) ||
			errors.Is(err, apperrors.ErrDuplicate) {
			return http.StatusConflict
		}
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err at a level matching its kind and writes the error body.
// Internal errors never leak their cause to the client.
func respondError(c *gin.Context, logger *slog.Logger, msg string, err error) {
	status := statusFor(err)
	kind := apperrors.KindOf(err)
	body := dto.ErrorResponse{
		Error:     err.Error(),
		Kind:      kind.String(),
		Retryable: apperrors.IsRetryable(err),
	}
	if status == http.StatusInternalServerError {
		logger.Error(msg, slog.String("error", err.Error()))
		body.Error = msg
	} else {
		logger.Warn(msg, slog.String("error", err.Error()), slog.String("kind", kind.String()))
	}
	c.JSON(status, body)
}

// badRequest answers a request that failed binding.
func badRequest(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: "Invalid request format: " + err.Error(),
		Kind:  apperrors.KindValidation.String(),
	})
}

// requireActor fetches the caller placed in the context by AuthMiddleware.
func requireActor(c *gin.Context, logger *slog.Logger) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized", Kind: apperrors.KindUnauthorized.String()})
		return domain.Actor{}, false
	}
	return actor, true
}
