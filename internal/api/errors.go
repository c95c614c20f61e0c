// Package api provides the HTTP handlers for the Jaldikaro API.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jaldikaro/jaldikaro/internal/middleware"
)

// Common error codes used throughout the API.
const (
	// ErrCodeValidation indicates input validation failure.
	ErrCodeValidation = "validation_error"

	// ErrCodeAuthFailed indicates authentication failure.
	ErrCodeAuthFailed = "auth_failed"

	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound = "not_found"

	// ErrCodeRateLimited indicates rate limit exceeded.
	ErrCodeRateLimited = "rate_limited"

	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"

	// ErrCodeForbidden indicates the request is forbidden.
	ErrCodeForbidden = "forbidden"

	// ErrCodeConflict indicates a conflict with the current state.
	ErrCodeConflict = "conflict"

	// ErrCodeBadRequest indicates a malformed request.
	ErrCodeBadRequest = "bad_request"

	// ErrCodeInvalidTransition indicates a disallowed booking status change.
	ErrCodeInvalidTransition = "invalid_transition"

	// ErrCodeInvalidReview indicates a disallowed application review move.
	ErrCodeInvalidReview = "invalid_review"

	// ErrCodeServiceNotFound indicates the service was not found in the catalog.
	ErrCodeServiceNotFound = "service_not_found"

	// ErrCodeProviderNotFound indicates the provider was not found.
	ErrCodeProviderNotFound = "provider_not_found"

	// ErrCodeBookingNotFound indicates the booking was not found.
	ErrCodeBookingNotFound = "booking_not_found"

	// ErrCodeApplicationNotFound indicates the provider application was not found.
	ErrCodeApplicationNotFound = "application_not_found"

	// ErrCodeUnsupportedType indicates an unsupported content type for document upload.
	ErrCodeUnsupportedType = "unsupported_type"

	// ErrCodeDocumentTooLarge indicates a document exceeds the size cap for its kind.
	ErrCodeDocumentTooLarge = "document_too_large"

	// ErrCodePaymentsNotConfigured indicates card payments are not configured.
	ErrCodePaymentsNotConfigured = "payments_not_configured"
)

// ErrorResponse represents the standard error response format.
// All API errors return JSON in this structure: {"error": {"code": "...", "message": "..."}}
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error code and human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError writes a standardized JSON error response.
// It writes the appropriate HTTP status code and returns a JSON error body.
//
// Format: {"error": {"code": "error_code", "message": "Error description"}}
//
// The error_code is surfaced to the logging middleware via the updated
// context, so pass a context produced by middleware.SetErrorCode:
//
//	ctx := middleware.SetErrorCode(r.Context(), api.ErrCodeBookingNotFound)
//	api.WriteError(w, ctx, http.StatusNotFound, api.ErrCodeBookingNotFound, "Booking not found")
func WriteError(w http.ResponseWriter, ctx context.Context, status int, code, message string) {
	// Update the context in the response writer if supported (for logging middleware)
	middleware.UpdateResponseContext(w, ctx)

	errResp := ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}

	data, err := json.Marshal(errResp)
	if err != nil {
		// Fallback to plain text if JSON marshaling fails
		slog.ErrorContext(ctx, "failed to marshal error response", "error", err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.ErrorContext(ctx, "failed to write error response", "error", err)
	}
}

// writeErr is the handler-side shorthand: it records the code on the request
// context and writes the envelope in one step.
func writeErr(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteError(w, middleware.SetErrorCode(r.Context(), code), status, code, message)
}

// StatusCodeMapping returns the recommended HTTP status code for common error codes.
// This is a convenience function to map error codes to HTTP status codes.
func StatusCodeMapping(code string) int {
	switch code {
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeAuthFailed:
		return http.StatusUnauthorized
	case ErrCodeNotFound, ErrCodeServiceNotFound, ErrCodeProviderNotFound,
		ErrCodeBookingNotFound, ErrCodeApplicationNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeConflict, ErrCodeInvalidTransition, ErrCodeInvalidReview:
		return http.StatusConflict
	case ErrCodeBadRequest, ErrCodeUnsupportedType, ErrCodeDocumentTooLarge:
		return http.StatusBadRequest
	case ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
