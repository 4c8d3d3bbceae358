// Package common provides shared utilities and types used across the
// application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors. These form the failure taxonomy surfaced to
// request handlers: every validation failure wraps exactly one of them.
var (
	// ErrNotFound indicates the entity is absent or invisible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the entity exists but belongs to another user.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidRequest indicates an invariant violation in the request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrConflict indicates the request collides with existing state.
	ErrConflict = errors.New("conflict")
)

// NotFoundError wraps ErrNotFound with a subject.
func NotFoundError(subject string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, subject)
}

// ForbiddenError wraps ErrForbidden with a subject.
func ForbiddenError(subject string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, subject)
}

// InvalidRequestError wraps ErrInvalidRequest with a reason.
func InvalidRequestError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, reason)
}

// ConflictError wraps ErrConflict with a reason.
func ConflictError(reason string) error {
	return fmt.Errorf("%w: %s", ErrConflict, reason)
}
