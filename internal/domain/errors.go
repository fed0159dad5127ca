// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail indicates a user with the same email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrInvalidCredentials indicates an unknown email or a password mismatch.
// Both cases share one error so callers cannot probe for registered emails.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrValidation indicates the input failed a precondition. Wrapped messages
// carry the user-facing reason after the "validation: " prefix.
var ErrValidation = errors.New("validation")

// Validation returns an ErrValidation wrapping the given reason.
func Validation(reason string) error {
	return &validationError{reason: reason}
}

type validationError struct {
	reason string
}

func (e *validationError) Error() string { return ErrValidation.Error() + ": " + e.reason }

func (e *validationError) Unwrap() error { return ErrValidation }

// Reason returns the user-facing part of a validation error, or the full
// message for any other error.
func Reason(err error) string {
	var v *validationError
	if errors.As(err, &v) {
		return v.reason
	}
	return err.Error()
}
