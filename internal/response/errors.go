package response

import (
	"net/http"

	"github.com/stemsi/lexis/internal/apperror"
)

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = ErrCode(apperror.KindValidation)
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidQuery   ErrCode = "INVALID_QUERY"

	// ─── Records ───────────────────────────────────────────────────────
	ErrIntegrity ErrCode = ErrCode(apperror.KindIntegrity)
	ErrNotFound  ErrCode = ErrCode(apperror.KindNotFound)

	// ─── Server ────────────────────────────────────────────────────────
	ErrPersistence ErrCode = ErrCode(apperror.KindPersistence)
	ErrRateLimited ErrCode = "RATE_LIMITED"
	ErrInternal    ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidQuery:
		return "Invalid query parameters."
	case ErrIntegrity:
		return "The change conflicts with existing records."
	case ErrNotFound:
		return "Record not found."
	case ErrPersistence:
		return "The record store is unavailable. Please try again later."
	case ErrRateLimited:
		return "Too many changes. Please slow down."
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindIntegrity:
		return http.StatusConflict
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindPersistence:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
