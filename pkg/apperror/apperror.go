// Package apperror defines the expected, recoverable failure kinds shared by
// every layer. Callers test the kind with errors.Is.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotPermitted  = errors.New("not permitted")
	ErrValidation    = errors.New("validation failed")
)

// Error carries a user-facing message together with its kind.
type Error struct {
	Kind error
	Msg  string

	// Denied marks a NotPermitted raised by role or ownership rules rather
	// than by the state of the data.
	Denied bool
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return newf(ErrNotFound, format, args...)
}

func AlreadyExists(format string, args ...any) error {
	return newf(ErrAlreadyExists, format, args...)
}

func NotPermitted(format string, args ...any) error {
	return newf(ErrNotPermitted, format, args...)
}

func Validation(format string, args ...any) error {
	return newf(ErrValidation, format, args...)
}

// Denied is a NotPermitted caused by who the caller is.
func Denied(format string, args ...any) error {
	return &Error{Kind: ErrNotPermitted, Msg: fmt.Sprintf(format, args...), Denied: true}
}

func IsDenied(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Denied
}

// IsExpected reports whether err is one of the recoverable kinds.
func IsExpected(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrNotPermitted) ||
		errors.Is(err, ErrValidation)
}

// Message returns the user-facing message of an expected error.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Msg
	}
	return err.Error()
}
