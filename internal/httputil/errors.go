package httputil

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated matches every 401 APIError via errors.Is.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden matches every 403 APIError via errors.Is.
	ErrForbidden = errors.New("forbidden")
	// ErrBadRequest matches every 400 APIError via errors.Is.
	ErrBadRequest = errors.New("bad request")
)

// APIError is the rejection object handed to WriteError. It carries
// everything needed to render the response.
type APIError struct {
	Status  int
	Code    string
	Message string

	kind error
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the error kind so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	return e.kind
}

func Unauthenticated(code, message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: code, Message: message, kind: ErrUnauthenticated}
}

func Forbidden(code, message string) *APIError {
	return &APIError{Status: http.StatusForbidden, Code: code, Message: message, kind: ErrForbidden}
}

func BadRequest(code, message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: code, Message: message, kind: ErrBadRequest}
}

func Conflict(code, message string) *APIError {
	return &APIError{Status: http.StatusConflict, Code: code, Message: message}
}

func Internal(message string) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: CodeInternalError, Message: message}
}
