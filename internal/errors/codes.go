package errors

import "net/http"

// ErrorCode represents the type of error
type ErrorCode string

const (
	ErrValidation      ErrorCode = "VALIDATION_ERROR"
	ErrUnauthenticated ErrorCode = "UNAUTHENTICATED"
	ErrNotFound        ErrorCode = "NOT_FOUND"
	ErrPersistence     ErrorCode = "PERSISTENCE_ERROR"
	ErrBadRequest      ErrorCode = "BAD_REQUEST"
	ErrInternalError   ErrorCode = "INTERNAL_ERROR"
)

// StatusCodeMap maps ErrorCode to HTTP status code
var StatusCodeMap = map[ErrorCode]int{
	ErrValidation:      http.StatusUnprocessableEntity,
	ErrUnauthenticated: http.StatusUnauthorized,
	ErrNotFound:        http.StatusNotFound,
	ErrPersistence:     http.StatusInternalServerError,
	ErrBadRequest:      http.StatusBadRequest,
	ErrInternalError:   http.StatusInternalServerError,
}

// StatusCode returns the HTTP status code for this error code
func (e ErrorCode) StatusCode() int {
	if code, ok := StatusCodeMap[e]; ok {
		return code
	}
	return http.StatusInternalServerError
}
