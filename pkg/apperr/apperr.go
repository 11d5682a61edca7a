// Package apperr defines the error kinds the business managers raise.
// Handlers map them to HTTP status codes with errors.Is; services never
// retry or recover, every failure surfaces to the caller untouched.
package apperr

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound marks a referenced entity id or slug that does not exist.
	ErrNotFound = stderrors.New("not found")
	// ErrConflict marks a uniqueness violation (slug or document number).
	ErrConflict = stderrors.New("conflict")
	// ErrInvalidOperation marks a structurally valid request that violates a
	// business invariant (cyclic parent, deleting a converted quote, ...).
	ErrInvalidOperation = stderrors.New("invalid operation")
	// ErrValidation marks missing or malformed required input.
	ErrValidation = stderrors.New("validation error")
)

func NotFoundf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNotFound, format, args...)
}

func Conflictf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConflict, format, args...)
}

func InvalidOperationf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidOperation, format, args...)
}

func Validationf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrValidation, format, args...)
}
