// Package response provides utilities for sending consistent HTTP responses.
// It includes helpers for JSON responses and standardized error responses.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/validation"
)

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional and can contain additional context about the error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// encodeLog receives JSON encoding failures. It is a no-op until SetLogger is called.
var encodeLog = zap.NewNop().Sugar()

// SetLogger routes response encoding failures to log.
func SetLogger(log *zap.SugaredLogger) {
	encodeLog = log
}

// RespondJSON sends a JSON response with the given status code.
// If data is nil, only the status code is sent (useful for 204 No Content).
// Logs encoding errors but does not fail the response.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			encodeLog.Warnw("failed to encode JSON response", "error", err)
		}
	}
}

// RespondError sends a structured error response with the given status code.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	RespondJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// StatusFor maps an application error to its HTTP status code.
//
//	validation failure           400
//	capacity exceeded            402
//	access denied / declined     403
//	entity not found             404
//	payment pending / finished   409
//	market fetch failure         502
//	no market snapshot yet       503
//	anything else                500
func StatusFor(err error) int {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr), errors.Is(err, apperrors.ErrInvalidUUID):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrCapacityExceeded):
		return http.StatusPaymentRequired
	case errors.Is(err, apperrors.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrTaskNotFound),
		errors.Is(err, apperrors.ErrAlertNotFound),
		errors.Is(err, apperrors.ErrAnalysisNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrPaymentPending), errors.Is(err, apperrors.ErrAnalysisFinished):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrFetchFailed):
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrNoSnapshot):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// RespondAppError sends err with the status chosen by StatusFor. Validation
// failures carry their per-field messages as details.
func RespondAppError(w http.ResponseWriter, message string, err error) {
	status := StatusFor(err)

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		RespondError(w, status, "validation failed", verr.Fields)
	case status == http.StatusPaymentRequired:
		RespondError(w, status, apperrors.ErrCapacityExceeded.Error(), err.Error()+"; unlock premium access to lift the limit")
	default:
		RespondError(w, status, message, err.Error())
	}
}
