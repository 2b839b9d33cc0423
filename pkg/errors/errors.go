// Package errors provides the unified error type and factory functions for
// the dockprep service. Every layer (domain, application, infrastructure,
// interfaces) uses AppError as the single carrier for structured error
// information, enabling consistent HTTP responses and logging.
package errors

import (
	"errors"
	"fmt"
)

// ─────────────────────────────────────────────────────────────────────────────
// AppError — the canonical error type
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the single structured error type used throughout dockprep. It
// satisfies the standard error interface and supports Go 1.13+ wrapping so
// that errors.Is / errors.As / errors.Unwrap work across all layers.
//
// Usage:
//
//	return errors.New(errors.ErrCodeMissingInput, "no receptor uploaded")
//	return errors.Wrap(zipErr, errors.ErrCodePackageFailed, "writing archive")
type AppError struct {
	// Code is the typed error code identifying the failure category.
	Code ErrorCode

	// Message is the primary human-readable description, suitable for
	// inclusion in API responses.
	Message string

	// Detail carries supplementary context (field names, session IDs) that
	// aids debugging without leaking internals to end users.
	Detail string

	// Cause is the underlying error, enabling errors.Is / errors.As traversal.
	Cause error
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>"; the detail segment is omitted when
// Detail is empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set. Safe to
// call on a nil pointer.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Detail = detail
	return &cp
}

// ─────────────────────────────────────────────────────────────────────────────
// Factories
// ─────────────────────────────────────────────────────────────────────────────

// New constructs an AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf constructs an AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an AppError that records cause for errors.Is/As traversal.
// A nil cause yields a plain New.
func Wrap(cause error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(cause error, code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Validationf constructs a validation error with a formatted message.
func Validationf(format string, args ...interface{}) *AppError {
	return Newf(ErrCodeValidation, format, args...)
}

// NotFound constructs a not-found error.
func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

// Internal constructs an internal error wrapping cause.
func Internal(cause error, message string) *AppError {
	return Wrap(cause, ErrCodeInternal, message)
}

// ─────────────────────────────────────────────────────────────────────────────
// Predicates
// ─────────────────────────────────────────────────────────────────────────────

// CodeOf extracts the ErrorCode from err's chain, or ErrCodeInternal when the
// chain carries no AppError.
func CodeOf(err error) ErrorCode {
	var app *AppError
	if errors.As(err, &app) {
		return app.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err's chain carries an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var app *AppError
	return errors.As(err, &app) && app.Code == code
}

// IsNotFound reports whether err represents a missing entity.
func IsNotFound(err error) bool {
	return HasCode(err, ErrCodeNotFound) || HasCode(err, ErrCodeSessionNotFound)
}

// IsValidation reports whether err represents rejected input.
func IsValidation(err error) bool {
	return HasCode(err, ErrCodeValidation) ||
		HasCode(err, ErrCodeBadRequest) ||
		HasCode(err, ErrCodeInvalidEnginePath)
}

// IsConflict reports whether err represents a state conflict.
func IsConflict(err error) bool {
	return HasCode(err, ErrCodeConflict) ||
		HasCode(err, ErrCodeInvalidTransition) ||
		HasCode(err, ErrCodeGenerationBusy)
}

// HTTPStatus resolves the HTTP status for any error: AppError codes map via
// their code table, everything else reports 500.
func HTTPStatus(err error) int {
	return CodeOf(err).HTTPStatus()
}
