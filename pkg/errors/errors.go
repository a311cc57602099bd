// Package errors provides structured error types for the skyline report pipeline.
// Errors carry a code, a category, key-value context, a cause, and suggestions.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Category classifies errors for consistent handling and display.
type Category string

const (
	CategoryParse    Category = "parse"    // Malformed or missing input table
	CategoryIO       Category = "io"       // Unwritable outputs, missing dependent files
	CategoryData     Category = "data"     // Boundary layer missing or unusable
	CategoryConfig   Category = "config"   // Configuration loading/validation
	CategoryInternal Category = "internal" // Unexpected states
)

// SkylineError is a structured error with context and suggestions.
// It implements the error interface and supports error wrapping.
type SkylineError struct {
	// Code is a unique identifier for this error type (e.g., "PARSE_BAD_NUMBER")
	Code string

	// Category classifies this error for consistent handling
	Category Category

	// Message describes what went wrong
	Message string

	// Context provides additional key-value details (row, column, path...)
	Context map[string]string

	// Cause is the underlying error, if any
	Cause error

	// Suggestions are remediation steps for the user
	Suggestions []string
}

// Error implements the error interface.
func (e *SkylineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As.
func (e *SkylineError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a SkylineError with the same Code.
func (e *SkylineError) Is(target error) bool {
	if t, ok := target.(*SkylineError); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new SkylineError with the given code, category, and message.
func New(code string, category Category, message string) *SkylineError {
	return &SkylineError{
		Code:     code,
		Category: category,
		Message:  message,
		Context:  make(map[string]string),
	}
}

// WithContext adds a context key-value pair and returns the error for chaining.
func (e *SkylineError) WithContext(key, value string) *SkylineError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithCause wraps an underlying error.
func (e *SkylineError) WithCause(cause error) *SkylineError {
	e.Cause = cause
	return e
}

// WithSuggestion adds a remediation suggestion.
func (e *SkylineError) WithSuggestion(suggestion string) *SkylineError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// HasContext returns true if the error has context information.
func (e *SkylineError) HasContext() bool {
	return len(e.Context) > 0
}

// HasSuggestions returns true if the error has suggestions.
func (e *SkylineError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// ContextString returns the context entries as sorted key="value" pairs.
func (e *SkylineError) ContextString() string {
	if len(e.Context) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, e.Context[k]))
	}
	return strings.Join(parts, ", ")
}

// Wrap wraps an existing error with a SkylineError.
func Wrap(err error, code string, category Category, message string) *SkylineError {
	return New(code, category, message).WithCause(err)
}

// AsSkylineError finds the first SkylineError in err's chain.
func AsSkylineError(err error) (*SkylineError, bool) {
	if err == nil {
		return nil, false
	}
	var se *SkylineError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsCategory checks if an error is a SkylineError with the given category.
func IsCategory(err error, category Category) bool {
	if se, ok := AsSkylineError(err); ok {
		return se.Category == category
	}
	return false
}

// IsCode checks if an error is a SkylineError with the given code.
func IsCode(err error, code string) bool {
	if se, ok := AsSkylineError(err); ok {
		return se.Code == code
	}
	return false
}
