package gateway

import (
	"errors"
	"fmt"
)

// Failure kinds. Every non-2xx response and every transport failure maps to
// exactly one of these so the UI layer can apply a single presentation rule
// per kind instead of deciding ad hoc at each call site.
var (
	ErrUnauthorized = errors.New("not authenticated")
	ErrForbidden    = errors.New("permission denied")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrServer       = errors.New("server error")
	ErrNetwork      = errors.New("network error")
)

// Error is the typed failure returned by every gateway call.
type Error struct {
	Status  int    // HTTP status, 0 for transport failures
	Message string // backend-provided message when the body carried one
	kind    error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("gateway: %s", e.Message)
	}
	return fmt.Sprintf("gateway: %s (status %d)", e.Message, e.Status)
}

func (e *Error) Unwrap() error {
	return e.kind
}

// IsAuthFailure reports whether the identity gate should bounce the user to
// the landing page (401/403 on any call).
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}

func kindForStatus(status int) error {
	switch {
	case status == 401:
		return ErrUnauthorized
	case status == 403:
		return ErrForbidden
	case status == 404:
		return ErrNotFound
	case status >= 400 && status < 500:
		return ErrValidation
	default:
		return ErrServer
	}
}
