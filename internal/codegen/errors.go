package codegen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the three failure kinds of a run.
var (
	// ErrConfiguration indicates a malformed option, reported before any write.
	ErrConfiguration = errors.New("zenorm: invalid configuration")
	// ErrIO indicates a failed directory or file operation.
	ErrIO = errors.New("zenorm: i/o failure")
	// ErrMetadataStream indicates the table source failed.
	ErrMetadataStream = errors.New("zenorm: metadata stream failed")
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("zenorm: config error")
	if e.Option != "" {
		fmt.Fprintf(&b, " for %q", e.Option)
	}
	if e.Value != nil {
		fmt.Fprintf(&b, " (value: %v)", e.Value)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string, cause error) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
		Cause:   cause,
	}
}

// IOError represents a failed filesystem operation.
type IOError struct {
	Op    string
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("zenorm: %s %s: %v", e.Op, e.Path, e.Cause)
	}
	return fmt.Sprintf("zenorm: %s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for IOError.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// StreamError represents a failure reported by the metadata source.
type StreamError struct {
	// After is the last table read before the failure, if any.
	After string
	Cause error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.After != "" {
		return fmt.Sprintf("zenorm: reading tables after %q: %v", e.After, e.Cause)
	}
	return fmt.Sprintf("zenorm: reading tables: %v", e.Cause)
}

// Unwrap returns the underlying error.
func (e *StreamError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for StreamError.
func (e *StreamError) Is(target error) bool {
	return target == ErrMetadataStream
}

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsIOError reports whether err is a filesystem error.
func IsIOError(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsStreamError reports whether err came from the metadata source.
func IsStreamError(err error) bool {
	return errors.Is(err, ErrMetadataStream)
}
