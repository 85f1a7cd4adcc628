// Package apperrors holds the error taxonomy shared by the store, the growth
// calculator and the progression coordinator.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrAlreadyCompleted   = errors.New("task already completed")
	ErrAlreadyDeleted     = errors.New("task already deleted")
	ErrPartialFailure     = errors.New("partial failure")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// ValidationError reports bad caller input. It is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Reason)
	}
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

func (e ValidationError) Is(target error) bool { return target == ErrValidation }

// UnavailableError wraps a backend failure for a single operation.
type UnavailableError struct {
	Op    string
	Cause error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: store unavailable: %v", e.Op, e.Cause)
}

func (e *UnavailableError) Is(target error) bool { return target == ErrStoreUnavailable }
func (e *UnavailableError) Unwrap() error        { return e.Cause }

// Unavailable wraps err as a StoreUnavailable failure of op. Errors that already
// belong to the taxonomy pass through untouched.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if InTaxonomy(err) {
		return err
	}
	return &UnavailableError{Op: op, Cause: err}
}

// PartialFailure means the primary effect was committed but a best-effort
// secondary write failed.
type PartialFailure struct {
	Op    string
	Cause error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("%s: committed locally, secondary write failed: %v", e.Op, e.Cause)
}

func (e *PartialFailure) Is(target error) bool { return target == ErrPartialFailure }
func (e *PartialFailure) Unwrap() error        { return e.Cause }

// NotFound returns ErrNotFound annotated with the entity kind and id.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

// InTaxonomy reports whether err already carries one of the sentinel errors.
func InTaxonomy(err error) bool {
	for _, s := range []error{
		ErrValidation, ErrStoreUnavailable, ErrAlreadyCompleted, ErrAlreadyDeleted,
		ErrPartialFailure, ErrInvalidArgument, ErrNotFound, ErrServiceUnavailable,
	} {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}
