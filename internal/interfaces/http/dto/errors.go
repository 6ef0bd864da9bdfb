package dto

import "net/http"

// API error codes. Domain errors carry the same codes, so the mapping
// below decides the HTTP status for both layers.
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeInvariantViolation  = "INVARIANT_VIOLATION"
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeRequestTooLarge     = "REQUEST_TOO_LARGE"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Client input -> 400 Bad Request
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest: http.StatusBadRequest,

	// Missing resources -> 404 Not Found
	ErrCodeNotFound: http.StatusNotFound,

	// State conflicts -> 409 Conflict
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	ErrCodeInsufficientStock:  http.StatusUnprocessableEntity,
	ErrCodeInvariantViolation: http.StatusUnprocessableEntity,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
