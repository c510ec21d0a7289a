// Package errors provides the structured errors used for configuration
// and CLI failures. Request-time outcomes are message.Status values,
// not errors; everything here fails fast at configuration time.
package errors

import "fmt"

// Category classifies an error.
type Category string

const (
	// CategoryConfig covers invalid configuration: bad patterns,
	// malformed root URIs, unreadable config files.
	CategoryConfig Category = "config"

	// CategoryResolution covers internal resolution faults that are
	// not plain misses.
	CategoryResolution Category = "resolution"

	// CategoryStorage covers entry-store I/O faults.
	CategoryStorage Category = "storage"

	// CategoryPolicy covers rejected operations: writes to read-only
	// directories, unacceptable media types.
	CategoryPolicy Category = "policy"

	// CategoryCLI covers command-line usage errors.
	CategoryCLI Category = "cli"
)

// Error is a structured error with a stable code and category.
type Error struct {
	// Code is a unique identifier such as "B001".
	Code string

	// Category classifies the error.
	Category Category

	// Message is a short description.
	Message string

	// Detail is a longer explanation, when the registry has one.
	Detail string

	// Suggestion hints at a fix.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap records the underlying error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{Code: code, Message: "Unknown error"}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates an Error with a formatted message and no code.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error under a registered code. Errors that
// already carry structure pass through unchanged.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	if be, ok := err.(*Error); ok {
		return be
	}
	return New(code).Wrap(err)
}
