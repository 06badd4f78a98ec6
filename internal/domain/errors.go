package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is(). Adapters map these to transport
// codes; the domain never references HTTP or storage concerns.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a state conflict such as a duplicate record.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates the quotation failed business validation.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden indicates the record belongs to another owner.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError carries the entity and id that could not be found.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationFailuresError aggregates every field failure found in one
// validation pass. Layout and rendering must not run while one of these
// is outstanding.
type ValidationFailuresError struct {
	Failures []FieldFailure
}

func (e *ValidationFailuresError) Error() string {
	paths := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		paths[i] = f.Path
	}

	return fmt.Sprintf("quotation validation failed: %s", strings.Join(paths, ", "))
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationFailuresError) Unwrap() error {
	return ErrValidation
}

// NewValidationFailuresError wraps a non-empty failure set as an error.
func NewValidationFailuresError(failures []FieldFailure) error {
	return &ValidationFailuresError{Failures: failures}
}

// ForbiddenError carries the operation refused by ownership rules.
type ForbiddenError struct {
	Operation string
	Reason    string
}

func (e *ForbiddenError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("operation %q forbidden: %s", e.Operation, e.Reason)
	}

	return fmt.Sprintf("operation %q forbidden", e.Operation)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// NewForbiddenError creates a forbidden error with context.
func NewForbiddenError(operation, reason string) error {
	return &ForbiddenError{Operation: operation, Reason: reason}
}

// UnavailableError carries the dependency that could not be reached.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsForbidden checks if an error is a forbidden error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// FailuresFrom extracts the field failures from a validation error,
// or nil when the error carries none.
func FailuresFrom(err error) []FieldFailure {
	var vf *ValidationFailuresError
	if errors.As(err, &vf) {
		return vf.Failures
	}

	return nil
}
