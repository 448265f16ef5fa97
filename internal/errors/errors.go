package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Engine sentinel errors. Per-source failures are logged and skipped; these
// surface only when a whole pass cannot proceed.
var (
	// ErrRowStoreUnavailable wraps a corpus-wide row-store failure. No retry
	// is attempted internally; retry policy belongs to the caller.
	ErrRowStoreUnavailable = errors.New("row store unavailable")
	// ErrMappingsUnavailable wraps a failure to read curated mapping state.
	ErrMappingsUnavailable = errors.New("mapping tables unavailable")
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError represents validation errors
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios
var (
	// 400 Bad Request
	ErrInvalidRequest   = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrValidationFailed = New(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed")
	ErrInvalidParameter = New(http.StatusBadRequest, "INVALID_PARAMETER", "Invalid parameter value")

	// 404 Not Found
	ErrNotFound       = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrSourceNotFound = New(http.StatusNotFound, "SOURCE_NOT_FOUND", "Survey source not found")

	// 422 Unprocessable Entity
	ErrUnprocessableEntity = New(http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY", "Request could not be processed")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")

	// 500 Internal Server Error
	ErrInternalServer = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")

	// 503 Service Unavailable
	ErrRowStoreDown = New(http.StatusServiceUnavailable, "ROW_STORE_UNAVAILABLE", "Row store temporarily unavailable")
)

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// AggregationError creates an aggregation failure error with details
func AggregationError(err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, "AGGREGATION_FAILED", "Aggregation pass failed", err.Error())
}

// DiscoveryError creates a discovery failure error with details
func DiscoveryError(err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, "DISCOVERY_FAILED", "Variable discovery failed", err.Error())
}

// RowStoreError creates a row-store unavailable error with details
func RowStoreError(err error) *APIError {
	return NewWithDetails(http.StatusServiceUnavailable, "ROW_STORE_UNAVAILABLE", "Row store temporarily unavailable", err.Error())
}

// FromError maps an engine error to its API representation.
func FromError(err error) *APIError {
	switch {
	case errors.Is(err, ErrRowStoreUnavailable):
		return RowStoreError(err)
	case errors.Is(err, ErrMappingsUnavailable):
		return NewWithDetails(http.StatusServiceUnavailable, "MAPPINGS_UNAVAILABLE", "Mapping tables temporarily unavailable", err.Error())
	default:
		return NewWithDetails(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error", err.Error())
	}
}

// NotFoundError creates a not found error with details
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource), resource)
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Error:   err,
	}
}

// Render implements the render.Renderer interface
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}

// WriteError writes an error response to the HTTP response writer
func WriteError(w http.ResponseWriter, err *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	json.NewEncoder(w).Encode(NewErrorResponse(err))
}
