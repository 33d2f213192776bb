// Package errors provides standardized error handling for the portal's HTTP surface.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeDuplicateApplication ErrorCode = "DUPLICATE_APPLICATION"

	ErrCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	ErrCodeSubmissionFailed   ErrorCode = "SUBMISSION_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeApplicationNotFound ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeInvalidQuery        ErrorCode = "INVALID_QUERY"
	ErrCodeQueryFailed         ErrorCode = "QUERY_FAILED"
	ErrCodeSearchUnavailable   ErrorCode = "SEARCH_UNAVAILABLE"

	ErrCodeInvalidRequestBody ErrorCode = "INVALID_REQUEST_BODY"
	ErrCodePayloadTooLarge    ErrorCode = "PAYLOAD_TOO_LARGE"

	ErrCodeRateLimited   ErrorCode = "RATE_LIMITED"
	ErrCodeRouteNotFound ErrorCode = "ROUTE_NOT_FOUND"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
)

// FieldViolation is one failed field-level constraint.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StandardError represents a structured application error.
type StandardError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Retryable  bool                   `json:"retryable"`
	Violations []FieldViolation       `json:"errors,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause so errors.Is keeps working across the boundary.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// HTTPStatus returns the status code the error is reported with.
func (e *StandardError) HTTPStatus() int {
	return HTTPStatus(e.Code)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError creates a non-retryable error carrying every violated field.
func NewValidationError(violations []FieldViolation) *StandardError {
	return &StandardError{
		Code:       ErrCodeValidationFailed,
		Message:    "Application data validation failed",
		Details:    fmt.Sprintf("%d invalid field(s)", len(violations)),
		Retryable:  false,
		Violations: violations,
		Timestamp:  time.Now().UTC(),
	}
}

// NewDuplicateApplicationError creates a non-retryable duplicate email error.
func NewDuplicateApplicationError(email string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateApplication,
		Message:   "An application with this email already exists",
		Details:   fmt.Sprintf("email: %s", email),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewStorageUnavailableError creates a retryable error for an unreachable store.
func NewStorageUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageUnavailable,
		Message:   "Failed to submit application. Please try again.",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSubmissionFailedError creates a retryable error for a failed persist step.
func NewSubmissionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionFailed,
		Message:   "Failed to submit application. Please try again.",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewNotificationSendFailedError is only ever logged, never returned to a caller.
func NewNotificationSendFailedError(kind, recipient string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, recipient: %s, error: %s", kind, recipient, errDetails(err)),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewApplicationNotFoundError creates a non-retryable lookup error.
func NewApplicationNotFoundError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationNotFound,
		Message:   "Application not found",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidQueryError creates a non-retryable error for bad list/search parameters.
func NewInvalidQueryError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidQuery,
		Message:   "Invalid query parameters",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryFailedError creates a retryable read error.
func NewQueryFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryFailed,
		Message:   fmt.Sprintf("Failed to fetch %s", operation),
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSearchUnavailableError creates a retryable error when the search index cannot be reached.
func NewSearchUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchUnavailable,
		Message:   "Search is temporarily unavailable",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInvalidRequestBodyError is returned when a request body is not a JSON object.
func NewInvalidRequestBodyError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequestBody,
		Message:   "Request body must be a valid JSON object",
		Details:   errDetails(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewPayloadTooLargeError(limit int64) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadTooLarge,
		Message:   "Request body too large",
		Details:   fmt.Sprintf("limit: %d bytes", limit),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewRateLimitedError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   message,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewRouteNotFoundError(path string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRouteNotFound,
		Message:   "Route not found",
		Details:   fmt.Sprintf("path: %s", path),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal server error",
		Details:   errDetails(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 3. Utility Functions
// ==========================

// HTTPStatus maps an error code to the HTTP status it is reported with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidQuery, ErrCodeInvalidRequestBody:
		return http.StatusBadRequest
	case ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeDuplicateApplication:
		return http.StatusConflict
	case ErrCodeApplicationNotFound, ErrCodeRouteNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeSearchUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AsStandardError normalizes any error into a StandardError.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// IsRetryableErrorCode reports whether a client may retry the same request.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeStorageUnavailable, ErrCodeSubmissionFailed, ErrCodeQueryFailed,
		ErrCodeSearchUnavailable, ErrCodeRateLimited:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "DUPLICATE"):
		return "BUSINESS_RULE"
	case strings.Contains(codeStr, "STORAGE") || strings.Contains(codeStr, "SUBMISSION") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
