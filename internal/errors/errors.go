// Package apperrors defines the application's structured error types and
// exit codes. Each error class (configuration, evaluation, server,
// validation) gets its own type so callers can branch on the class while
// the underlying cause stays reachable through Unwrap, errors.Is and
// errors.As.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Process exit codes. The cross-check path uses ExitErrorMismatch when
// evaluations at different guard precisions round to different values.
const (
	ExitSuccess       = 0   // normal termination
	ExitErrorGeneric  = 1   // unclassified failure
	ExitErrorTimeout  = 2   // the evaluation deadline expired
	ExitErrorMismatch = 3   // guard-precision results disagree after rounding
	ExitErrorConfig   = 4   // invalid flags or configuration
	ExitErrorCanceled = 130 // interrupted, typically SIGINT
)

// ConfigError reports invalid user input, flags or configuration values.
// The program cannot start the requested operation when one is raised.
type ConfigError struct {
	// Message explains what was wrong with the configuration.
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError builds a ConfigError from a fmt.Sprintf style format.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// EvalError marks a failure while parsing or evaluating an expression.
// The parser or math error that triggered it remains available as Cause.
type EvalError struct {
	// Cause is the parse or evaluation failure being classified.
	Cause error
}

func (e EvalError) Error() string { return e.Cause.Error() }

// Unwrap exposes the cause so errors.Is and errors.As see through the
// classification.
func (e EvalError) Unwrap() error { return e.Cause }

// NewEvalError classifies cause as an evaluation failure.
func NewEvalError(cause error) error {
	return EvalError{Cause: cause}
}

// ServerError reports a failure in the HTTP server component, pairing a
// description of the operation with the error it hit.
type ServerError struct {
	// Message describes the server operation that failed.
	Message string
	// Cause is the underlying error, nil when the message stands alone.
	Cause error
}

// Error joins the message with the cause when one is present.
func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError pairs a description with an optional cause.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// WrapError prefixes err with a formatted message using %w, so the result
// still unwraps to err. Returns nil when err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError reports whether err stems from context cancellation or an
// expired deadline, anywhere in its chain.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ValidationError reports a single field that failed validation, used both
// for API request bodies and configuration checks.
type ValidationError struct {
	// Field names the offending field, empty when not field-specific.
	Field string
	// Message describes the violated constraint.
	Message string
	// Value carries the rejected value when useful, otherwise nil.
	Value any
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError builds a ValidationError for field with the given
// message and rejected value.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}
