package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrBadRequest    = errors.New("bad request")
	ErrNotAcceptable = errors.New("not acceptable")
	ErrInternal      = errors.New("internal server error")
)

// AppError attaches a human-readable (possibly localized) message to one of
// the sentinel errors above.
type AppError struct {
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New wraps a sentinel error with a message.
func New(err error, message string) *AppError {
	return &AppError{
		Message: message,
		Err:     err,
	}
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNotAcceptable) {
		return http.StatusNotAcceptable
	}
	// Default to internal server error
	return http.StatusInternalServerError
}
