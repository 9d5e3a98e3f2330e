// Package errors provides structured error handling for netsweep operations.
// It defines error codes, error types, and utilities for creating and
// inspecting errors with target and context information.
package errors

import (
	"fmt"
)

// ErrorCode represents different types of errors that can occur.
type ErrorCode string

const (
	// General errors.
	CodeUnknown       ErrorCode = "UNKNOWN"
	CodeValidation    ErrorCode = "VALIDATION"
	CodeConfiguration ErrorCode = "CONFIGURATION"
	CodeCanceled      ErrorCode = "CANCELED"

	// Input validation errors. These abort a scan before it starts.
	CodeInvalidRange    ErrorCode = "INVALID_RANGE"
	CodeInvalidPortSpec ErrorCode = "INVALID_PORT_SPEC"

	// Per-target errors, recovered locally during a scan.
	CodeProbeTimeout    ErrorCode = "PROBE_TIMEOUT"
	CodeHostUnreachable ErrorCode = "HOST_UNREACHABLE"
	CodeResolution      ErrorCode = "RESOLUTION"

	// Resource errors. The scan aborts but keeps partial results.
	CodePoolExhaustion ErrorCode = "POOL_EXHAUSTION"
)

// ScanError represents an error that occurred during scanning operations.
type ScanError struct {
	Code      ErrorCode
	Message   string
	Target    string
	Operation string
	Cause     error
	Context   map[string]interface{}
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("[%s] %s (target: %s)", e.Code, e.Message, e.Target)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ScanError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *ScanError) WithContext(key string, value interface{}) *ScanError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewScanError creates a new scan error with the specified code and message.
func NewScanError(code ErrorCode, message string) *ScanError {
	return &ScanError{
		Code:    code,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// NewScanErrorWithTarget creates a scan error for a specific target.
func NewScanErrorWithTarget(code ErrorCode, message, target string) *ScanError {
	return &ScanError{
		Code:    code,
		Message: message,
		Target:  target,
		Context: make(map[string]interface{}),
	}
}

// WrapScanError wraps an existing error as a scan error.
func WrapScanError(code ErrorCode, message string, err error) *ScanError {
	return &ScanError{
		Code:    code,
		Message: message,
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// WrapScanErrorWithTarget wraps an error with target information.
func WrapScanErrorWithTarget(code ErrorCode, message, target string, err error) *ScanError {
	return &ScanError{
		Code:    code,
		Message: message,
		Target:  target,
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Code    ErrorCode
	Message string
	Field   string
	Value   interface{}
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new configuration error.
func NewConfigError(code ErrorCode, message string) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
	}
}

// NewConfigFieldError creates a configuration error for a specific field.
func NewConfigFieldError(code ErrorCode, message, field string, value interface{}) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Field:   field,
		Value:   value,
	}
}

// WrapConfigError wraps an existing error as a configuration error.
func WrapConfigError(code ErrorCode, message string, err error) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Utility functions for common error operations

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	switch e := err.(type) {
	case *ScanError:
		return e.Code == code
	case *ConfigError:
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error if it has one.
func GetCode(err error) ErrorCode {
	switch e := err.(type) {
	case *ScanError:
		return e.Code
	case *ConfigError:
		return e.Code
	}
	return CodeUnknown
}

// IsRecoverable reports whether an error is recovered per-target during a
// scan rather than aborting the whole run.
func IsRecoverable(err error) bool {
	switch GetCode(err) {
	case CodeProbeTimeout, CodeHostUnreachable, CodeResolution:
		return true
	default:
		return false
	}
}

// IsFatal reports whether an error aborts the scan. Even fatal errors keep
// the partial summary accumulated so far.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case CodePoolExhaustion, CodeConfiguration, CodeValidation:
		return true
	default:
		return false
	}
}

// Common error creation functions

// ErrInvalidRange creates an error for a malformed CIDR specification.
// The offending spec string is preserved on the error.
func ErrInvalidRange(spec string) *ScanError {
	return NewScanErrorWithTarget(CodeInvalidRange, "Invalid network range specification", spec)
}

// ErrInvalidPortSpec creates an error for a malformed port specification.
func ErrInvalidPortSpec(spec string) *ScanError {
	return NewScanErrorWithTarget(CodeInvalidPortSpec, "Invalid port specification", spec)
}

// ErrProbeTimeout creates an error for a probe exceeding its timeout.
func ErrProbeTimeout(target string) *ScanError {
	return NewScanErrorWithTarget(CodeProbeTimeout, "Probe timed out", target)
}

// ErrHostUnreachable creates an error for unreachable hosts.
func ErrHostUnreachable(target string) *ScanError {
	return NewScanErrorWithTarget(CodeHostUnreachable, "Host is unreachable", target)
}

// ErrResolution creates an error for failed enrichment lookups.
func ErrResolution(target string, err error) *ScanError {
	return WrapScanErrorWithTarget(CodeResolution, "Resolution failed", target, err)
}

// ErrPoolExhaustion creates an error for worker pool resource exhaustion.
func ErrPoolExhaustion(err error) *ScanError {
	return WrapScanError(CodePoolExhaustion, "Worker pool exhausted", err)
}
