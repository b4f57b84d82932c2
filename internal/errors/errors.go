// Package errors wraps errors with stack traces for fatal diagnostics.
package errors

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// New returns a plain error, kept here so callers need a single errors import.
func New(message string) error {
	return errors.New(message)
}

// Errorf creates a new error and wraps it in an Error type that contains the stack trace.
func Errorf(format string, args ...any) error {
	return goerrors.Wrap(fmt.Errorf(format, args...), 1)
}

// WithStackTrace wraps the given error in an Error type that contains the stack trace. If the given error already
// has a stack trace, it is used directly. If the given error is nil, return nil.
func WithStackTrace(err error) error {
	if err == nil {
		return nil
	}

	return goerrors.Wrap(err, 1)
}

// WithStackTraceAndPrefix is WithStackTrace with the given message prepended to the error message.
func WithStackTraceAndPrefix(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	return goerrors.WrapPrefix(err, fmt.Sprintf(format, args...), 1)
}

// IsError returns true if actual is, or wraps, expected.
func IsError(actual, expected error) bool {
	return goerrors.Is(actual, expected)
}

// As is errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// ErrorStack returns the error message followed by the callstack, if the error carries one.
func ErrorStack(err error) string {
	if err == nil {
		return ""
	}

	var goErr *goerrors.Error
	if errors.As(err, &goErr) {
		return goErr.ErrorStack()
	}

	return err.Error()
}
