// Package respond writes the JSON envelopes shared by every controller.
package respond

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
)

func NewTraceID() string {
	return uuid.New().String()
}

func JSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func ValidationError(w http.ResponseWriter, logger *zap.Logger, traceID, message string, details ...apperrors.ValidationDetail) {
	write(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", message, details)
}

// Error maps an application error onto its HTTP status and code. Anything
// unrecognised is logged and reported as a generic 500.
func Error(w http.ResponseWriter, logger *zap.Logger, traceID string, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		ValidationError(w, logger, traceID, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		write(w, logger, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		return
	}

	if _, ok := apperrors.IsBadRequestError(err); ok {
		write(w, logger, traceID, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	if _, ok := apperrors.IsInsufficientStockError(err); ok {
		write(w, logger, traceID, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK", err.Error(), nil)
		return
	}

	if ce, ok := apperrors.IsConflictError(err); ok {
		logger.Warn("conflict", zap.Error(err))
		write(w, logger, traceID, http.StatusConflict, "CONFLICT", ce.Message, nil)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	write(w, logger, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil)
}

func write(w http.ResponseWriter, logger *zap.Logger, traceID string, status int, code, message string, details []apperrors.ValidationDetail) {
	JSON(w, logger, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}
