// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorHandler writes errors as the portal's JSON failure envelope.
type ErrorHandler struct {
	logger        Logger
	exposeDetails bool
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// NewErrorHandler creates a handler. exposeDetails adds the internal error
// text to 5xx responses and is meant for development only.
func NewErrorHandler(logger Logger, exposeDetails bool) *ErrorHandler {
	return &ErrorHandler{logger: logger, exposeDetails: exposeDetails}
}

// Response is the failure envelope returned to HTTP clients.
type Response struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Errors  []FieldViolation `json:"errors,omitempty"`
	Code    ErrorCode        `json:"code,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// HandleHTTPError normalizes err and writes it to w.
func (h *ErrorHandler) HandleHTTPError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := AsStandardError(err)
	status := stdErr.HTTPStatus()

	h.logError(r, stdErr, status)

	resp := Response{
		Success: false,
		Message: stdErr.Message,
		Code:    stdErr.Code,
	}
	if stdErr.Code == ErrCodeValidationFailed {
		resp.Message = ""
		resp.Errors = stdErr.Violations
	}
	if status >= http.StatusInternalServerError && h.exposeDetails {
		resp.Error = stdErr.Details
	}

	WriteJSON(w, status, resp)
}

func (h *ErrorHandler) logError(r *http.Request, stdErr *StandardError, status int) {
	fields := map[string]interface{}{
		"method":        r.Method,
		"path":          r.URL.Path,
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if len(stdErr.Violations) > 0 {
		fields["violations"] = stdErr.Violations
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields)
		return
	}
	h.logger.Warn("request rejected", fields)
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
