// Package errs holds the failure taxonomy of a match run.
package errs

import (
	"errors"
	"fmt"
)

// ErrNoMatch marks an input line with no usable candidate. It never fails a run.
var ErrNoMatch = errors.New("no match available")

// ValidationError: the request cannot be served as sent (no file, no strategy).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ParseError: the catalog or the upload could not be read.
type ParseError struct {
	Source string // "price list" | "input"
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ProviderError: an embedding call failed or returned an unexpected shape.
// Code is the HTTP status, 0 when the request never got a response.
type ProviderError struct {
	Provider string
	Code     int
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s API error: %d %s", e.Provider, e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }
