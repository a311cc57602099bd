package errors

import "fmt"

// These constructors create SkylineErrors and attach suggestions from the
// default registry based on the error code.

// Parse creates a parse error with suggestions.
func Parse(code, message string) *SkylineError {
	return AttachSuggestions(New(code, CategoryParse, message))
}

// Parsef creates a parse error with a formatted message.
func Parsef(code, format string, args ...interface{}) *SkylineError {
	return Parse(code, fmt.Sprintf(format, args...))
}

// ParseWrap wraps cause as a parse error.
func ParseWrap(cause error, code, message string) *SkylineError {
	return AttachSuggestions(Wrap(cause, code, CategoryParse, message))
}

// IO creates an IO error with suggestions.
func IO(code, message string) *SkylineError {
	return AttachSuggestions(New(code, CategoryIO, message))
}

// IOWrap wraps cause as an IO error.
func IOWrap(cause error, code, message string) *SkylineError {
	return AttachSuggestions(Wrap(cause, code, CategoryIO, message))
}

// IOWrapf wraps cause as an IO error with a formatted message.
func IOWrapf(cause error, code, format string, args ...interface{}) *SkylineError {
	return IOWrap(cause, code, fmt.Sprintf(format, args...))
}

// Data creates a data error with suggestions.
func Data(code, message string) *SkylineError {
	return AttachSuggestions(New(code, CategoryData, message))
}

// Dataf creates a data error with a formatted message.
func Dataf(code, format string, args ...interface{}) *SkylineError {
	return Data(code, fmt.Sprintf(format, args...))
}

// DataWrap wraps cause as a data error.
func DataWrap(cause error, code, message string) *SkylineError {
	return AttachSuggestions(Wrap(cause, code, CategoryData, message))
}

// Config creates a configuration error with suggestions.
func Config(code, message string) *SkylineError {
	return AttachSuggestions(New(code, CategoryConfig, message))
}

// ConfigWrap wraps cause as a configuration error.
func ConfigWrap(cause error, code, message string) *SkylineError {
	return AttachSuggestions(Wrap(cause, code, CategoryConfig, message))
}

// InternalWrap wraps cause as an internal error.
func InternalWrap(cause error, code, message string) *SkylineError {
	return AttachSuggestions(Wrap(cause, code, CategoryInternal, message))
}

// AttachSuggestions appends the registry suggestions for e.Code, matched
// against the error context merged over the platform context.
func AttachSuggestions(e *SkylineError) *SkylineError {
	if e == nil {
		return nil
	}
	ctx := MergeContext(DefaultContext(), e.Context)
	e.Suggestions = append(e.Suggestions, defaultRegistry.Get(e.Code, ctx)...)
	return e
}
