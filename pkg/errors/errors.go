package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a typed error carrying the envelope code used across the API contract.
// Code doubles as the HTTP status of the response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
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

// Is matches errors by code so callers can use errors.Is against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code int, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrValidation     = New(http.StatusBadRequest, "validation failed")
	ErrNotFound       = New(http.StatusNotFound, "Not Found")
	ErrConflict       = New(http.StatusConflict, "conflict")
	ErrInternal       = New(http.StatusInternalServerError, "Internal Server Error")
	ErrNotImplemented = New(http.StatusNotImplemented, "Not Implemented")
	ErrNetwork        = New(0, "network request failed")
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
	return Wrap(err, ErrInternal.Code, ErrInternal.Message)
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

// Status returns the HTTP status for err, defaulting to 500 for untyped errors.
func Status(err error) int {
	e := FromError(err)
	if e == nil {
		return http.StatusOK
	}
	if e.Code < 100 {
		return http.StatusInternalServerError
	}
	return e.Code
}
