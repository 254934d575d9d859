package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error. Status mirrors the closest HTTP status so
// collaborators can map failures onto their own surfaces.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors by code so Clone'd variants compare equal to their sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for the classroom core.
var (
	ErrValidation = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrConflict   = New("CONFLICT", http.StatusConflict, "conflict")
	ErrAuth       = New("AUTH_ERROR", http.StatusUnauthorized, "authentication failed")
	ErrForbidden  = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrNotFound   = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrStorage    = New("STORAGE_FAILURE", http.StatusServiceUnavailable, "storage failure")
	ErrInternal   = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Storage wraps an I/O failure from a blob or document backend.
func Storage(err error, message string) *Error {
	return Wrap(err, ErrStorage.Code, ErrStorage.Status, message)
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}
