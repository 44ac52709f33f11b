package errors

import (
	"fmt"
	"net/http"
)

// APIError represents a standardized API error response.
// Every failure a mutation path can produce is one of these; nothing in the
// feed core panics or throws past a handler boundary.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Details string    `json:"details,omitempty"`
	Status  int       `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ValidationError creates a VALIDATION_ERROR tied to a specific field.
// Validation failures never reach the backend; they are resolved locally.
func ValidationError(field, message string) *APIError {
	return &APIError{
		Code:    ErrValidation,
		Message: message,
		Field:   field,
		Status:  http.StatusUnprocessableEntity,
	}
}

// Unauthenticated creates an UNAUTHENTICATED error. Callers redirect to a
// login surface; the operation is never retried.
func Unauthenticated(message string) *APIError {
	if message == "" {
		message = "not authenticated"
	}
	return &APIError{
		Code:    ErrUnauthenticated,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// NotFound creates a NOT_FOUND error. Ownership violations surface through
// this same code: an update or delete scoped to the caller that affects zero
// rows is indistinguishable from a missing row.
func NotFound(resource string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
	}
}

// Persistence creates a PERSISTENCE_ERROR carrying the backend's message.
func Persistence(message string) *APIError {
	return &APIError{
		Code:    ErrPersistence,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

// BadRequest creates a BAD_REQUEST error
func BadRequest(message string) *APIError {
	return &APIError{
		Code:    ErrBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// InternalError creates an INTERNAL_ERROR
func InternalError(message string) *APIError {
	return &APIError{
		Code:    ErrInternalError,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

// WithDetails adds additional details to an error
func (e *APIError) WithDetails(details string) *APIError {
	e.Details = details
	return e
}

// AsAPIError unwraps err into an *APIError, wrapping unknown errors as a
// persistence failure so handlers always have a status and code to emit.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return Persistence(err.Error())
}
