// Package response centralizes HTTP response shapes and helpers.
// Handlers rely on it to keep controllers thin and uniform.
package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/catalog-service/internal/query"
	"github.com/maxviazov/catalog-service/internal/repository"
	"github.com/maxviazov/catalog-service/internal/service"
)

// StatusClientClosedRequest is reported when the caller went away before the
// request finished. It is not a server fault.
const StatusClientClosedRequest = 499

// Envelope wraps every response body. Exactly one of Data and Error is set.
type Envelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Data    any           `json:"data,omitempty"`
	Error   *ErrorPayload `json:"error,omitempty"`
}

// ErrorPayload is the error part of the envelope.
type ErrorPayload struct {
	Code        string               `json:"code"`
	Message     string               `json:"message,omitempty"`
	FieldErrors []service.FieldError `json:"field_errors,omitempty"`
}

// MapError converts a domain / infrastructure error into an HTTP status and payload.
// Extend here as new domain error categories emerge.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return http.StatusOK, ErrorPayload{Code: "ok"}
	}

	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest, ErrorPayload{
			Code:        "invalid_input",
			Message:     "one or more fields are invalid",
			FieldErrors: service.FieldErrors(err),
		}
	}

	// Query errors carry the offending field or value, safe to echo back.
	switch {
	case errors.Is(err, query.ErrFieldNotFound):
		return http.StatusBadRequest, ErrorPayload{Code: "field_not_found", Message: err.Error()}
	case errors.Is(err, query.ErrTypeMismatch):
		return http.StatusBadRequest, ErrorPayload{Code: "type_mismatch", Message: err.Error()}
	case errors.Is(err, query.ErrInvalidArgument):
		return http.StatusBadRequest, ErrorPayload{Code: "invalid_argument", Message: err.Error()}
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorPayload{Code: "not_found", Message: "resource not found"}
	case errors.Is(err, repository.ErrAlreadyExists):
		p := ErrorPayload{Code: "already_exists", Message: "resource already exists"}
		if fe := service.FieldErrors(err); len(fe) > 0 {
			p.Message = err.Error()
			p.FieldErrors = fe
		}
		return http.StatusConflict, p
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, ErrorPayload{Code: "conflict"}
	case errors.Is(err, repository.ErrConstraint):
		return http.StatusBadRequest, ErrorPayload{Code: "constraint_violation", Message: "record rejected by storage constraints"}
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, ErrorPayload{Code: "client_closed_request", Message: "request canceled"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorPayload{Code: "timeout", Message: "request timed out"}
	default:
		return http.StatusInternalServerError, ErrorPayload{Code: "internal_error"}
	}
}

// WriteError writes an error response and aborts the context.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: payload.Message, Error: &payload})
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// WriteMessage writes a successful response with a human-readable message.
func WriteMessage(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}
