// Package errors provides error handling for apigen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for CLI users
//
// On top of that it defines the error kinds raised by the generation core
// (see kinds.go). Every kind survives wrapping, so callers inspect them with
// errors.As regardless of how many layers added context:
//
//	var missing *errors.MissingFieldError
//	if errors.As(err, &missing) {
//	    fmt.Println(missing.Node, missing.Fields)
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions and panics
var (
	AssertionFailedf                 = crdb.AssertionFailedf
	NewAssertionErrorWithWrappedErrf = crdb.NewAssertionErrorWithWrappedErrf
)

// Common sentinel errors for use across apigen.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrUnsupportedValue indicates a value handed to a builder is not writable
	ErrUnsupportedValue = New("unsupported append value")

	// ErrInvalidSource indicates an API description could not be loaded
	ErrInvalidSource = New("invalid api source")

	// ErrUnsupportedVersion indicates an API description version is outside the accepted range
	ErrUnsupportedVersion = New("unsupported api description version")

	// ErrUnknownTarget indicates a requested generation target is not registered
	ErrUnknownTarget = New("unknown generation target")
)

// IsUnsupportedValueError checks if an error is or wraps ErrUnsupportedValue
func IsUnsupportedValueError(err error) bool {
	return err != nil && Is(err, ErrUnsupportedValue)
}

// IsInvalidSourceError checks if an error is or wraps ErrInvalidSource
func IsInvalidSourceError(err error) bool {
	return err != nil && Is(err, ErrInvalidSource)
}

// NewInvalidSourceError creates an invalid-source error with a formatted message
func NewInvalidSourceError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidSource, Newf(format, args...).Error())
}

// NewUnknownTargetError creates an unknown-target error naming the target
func NewUnknownTargetError(name string) error {
	return WithHint(Wrapf(ErrUnknownTarget, "%q", name), "run 'apigen targets' to list registered targets")
}
