package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrUserDisabled       = errors.New("user account is disabled")
	ErrPermissionDenied   = errors.New("not enough permissions")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrAuthExpired        = errors.New("session expired")
)

// ValidationError is a local, pre-flight field check failure. It carries a
// user-facing message and never originates from the remote store.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError with a formatted message.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransitionError carries the store's human-readable rejection message,
// e.g. "order not pending confirmation". Matches ErrInvalidTransition
// under errors.Is.
type TransitionError struct {
	Msg string
}

func (e *TransitionError) Error() string { return e.Msg }

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// Transition builds a TransitionError with a formatted message.
func Transition(format string, args ...any) error {
	return &TransitionError{Msg: fmt.Sprintf(format, args...)}
}
