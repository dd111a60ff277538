// Package errors provides structured errors for pagelift.
//
// Every failure in the enhancement layer degrades to a visible message and
// restored interactive state; these errors exist for diagnostics and for
// boundary code that needs to tell failure kinds apart.
package errors

import (
	"errors"
	"fmt"
)

// Category represents the kind of failure.
type Category string

const (
	// CategoryValidation covers user-input shape violations. These are
	// recovered locally via field annotations and never escape the
	// validation pass.
	CategoryValidation Category = "validation"

	// CategorySubmission covers a submission rejected because one or more
	// fields failed validation. No network I/O was performed.
	CategorySubmission Category = "submission"

	// CategoryTransport covers network or response failures during
	// submission, caught at the submission boundary.
	CategoryTransport Category = "transport"

	// CategoryConfig covers setup misuse, such as enhancing the same
	// document twice.
	CategoryConfig Category = "config"
)

// Error is a structured pagelift error.
type Error struct {
	Category Category
	Message  string
	Wrapped  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// New creates an error with the given category and message.
func New(cat Category, msg string) *Error {
	return &Error{Category: cat, Message: msg}
}

// Newf creates an error with a formatted message.
func Newf(cat Category, format string, args ...any) *Error {
	return &Error{Category: cat, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an underlying error with a category and message.
func Wrap(cat Category, msg string, err error) *Error {
	return &Error{Category: cat, Message: msg, Wrapped: err}
}

// CategoryOf returns the category of err, or "" if err is not a pagelift
// error.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}

// Is reports whether err belongs to the given category.
func Is(err error, cat Category) bool {
	return CategoryOf(err) == cat
}
