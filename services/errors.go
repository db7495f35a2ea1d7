// Package services holds the identity, catalog, interest and transfer
// operations behind the HTTP handlers.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested book or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the requester does not own the book.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCandidate indicates the selected transfer recipient is not acceptable.
	ErrInvalidCandidate = errors.New("invalid transfer candidate")

	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.New("username already in use")

	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRateLimited indicates a temporary login lock after repeated failures.
	ErrRateLimited = errors.New("too many failed login attempts")

	// ErrValidation indicates missing or malformed input.
	ErrValidation = errors.New("validation failed")
)

// ValidationError describes which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
