package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error categories. Every error returned by the services matches one of these with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrOperationFailed = errors.New("operation failed")
)

// Account errors
var (
	ErrUsernameTaken       = fmt.Errorf("%w: username is already taken", ErrConflict)
	ErrUserNotFound        = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrInvalidCredentials  = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrAdminCreationDenied = fmt.Errorf("%w: only an admin can create an admin user", ErrUnauthorized)
	ErrAdminRequired       = fmt.Errorf("%w: only admins can perform this action", ErrUnauthorized)
)

// Session errors
var (
	ErrSessionNotFound = fmt.Errorf("%w: session not found", ErrNotFound)
	ErrInvalidSession  = fmt.Errorf("%w: invalid or expired session token", ErrUnauthorized)
)

// Configuration errors
var (
	ErrAdminCredentialsMissing = errors.New("admin credentials are not set in the environment variables")
)

// FieldViolation is a single failed validation rule
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rule a command violated
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Add records a violation for field
func (e *ValidationError) Add(field, message string) {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Message: message})
}

// HasViolations reports whether any rule failed
func (e *ValidationError) HasViolations() bool {
	return e != nil && len(e.Violations) > 0
}

// ActiveSessionError rejects a login while another session of the same user is live
type ActiveSessionError struct {
	ExpiresAt time.Time
}

func (e *ActiveSessionError) Error() string {
	return fmt.Sprintf("user already has an active session until %s", e.ExpiresAt.UTC().Format(time.RFC3339))
}

func (e *ActiveSessionError) Unwrap() error { return ErrConflict }

// OperationFailedError wraps any fault raised inside a unit of work.
// The original cause stays reachable through errors.Is and errors.As.
type OperationFailedError struct {
	Op  string
	Err error
}

func (e *OperationFailedError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *OperationFailedError) Unwrap() []error { return []error{ErrOperationFailed, e.Err} }
