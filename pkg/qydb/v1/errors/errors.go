package errors

import (
	"errors"
	"fmt"
)

// --- Store Error Types ---

// NotFoundError indicates that the backing document file does not exist,
// either at construction time or on a subsequent load/write (the file may be
// deleted out from under a live store). The store never creates the file
// itself, so callers are expected to handle this by creating the file and
// retrying, or aborting.
type NotFoundError struct {
	Path  string
	Cause error
}

func NewNotFoundError(path string, cause error) *NotFoundError {
	return &NotFoundError{Path: path, Cause: cause}
}
func (e *NotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document file not found: %s: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("document file not found: %s", e.Path)
}
func (e *NotFoundError) Unwrap() error { return e.Cause }

// InvalidExtensionError indicates that a store was constructed against a path
// whose extension is not '.yaml' or '.yml'.
type InvalidExtensionError struct {
	Path string
}

func NewInvalidExtensionError(path string) *InvalidExtensionError {
	return &InvalidExtensionError{Path: path}
}
func (e *InvalidExtensionError) Error() string {
	return fmt.Sprintf("invalid document file extension (want .yaml or .yml): %s", e.Path)
}

// ParseError indicates that the on-disk content could not be decoded into a
// document mapping. Empty content is never a parse error; it decodes to an
// empty document.
type ParseError struct {
	Path  string
	Cause error
}

func NewParseError(path string, cause error) *ParseError {
	return &ParseError{Path: path, Cause: cause}
}
func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to parse document '%s': %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("failed to parse document '%s'", e.Path)
}
func (e *ParseError) Unwrap() error { return e.Cause }

// WriteError indicates that encoding or persisting the document failed. A
// failed write leaves the previous on-disk content intact: the write path
// renders to a temporary file and renames it over the target.
type WriteError struct {
	Path  string
	Cause error
}

func NewWriteError(path string, cause error) *WriteError {
	return &WriteError{Path: path, Cause: cause}
}
func (e *WriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to write document '%s': %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("failed to write document '%s'", e.Path)
}
func (e *WriteError) Unwrap() error { return e.Cause }

// TypeMismatchError indicates that a sequence-only operation (Push/Pull) was
// invoked on a variable whose current value is not sequence-shaped.
type TypeMismatchError struct {
	Variable string
	Expected string
	Actual   string
}

func NewTypeMismatchError(variable, expected, actual string) *TypeMismatchError {
	return &TypeMismatchError{Variable: variable, Expected: expected, Actual: actual}
}
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch for variable '%s': expected %s, got %s", e.Variable, e.Expected, e.Actual)
}

// ValidationError indicates that a model, a declared default, or a value
// written under strict type enforcement failed validation.
type ValidationError struct {
	Message string
	Cause   error
}

func NewValidationError(message string, cause error) *ValidationError {
	return &ValidationError{Message: message, Cause: cause}
}
func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}
func (e *ValidationError) Unwrap() error { return e.Cause }

// ConfigError represents an error encountered while applying store options.
type ConfigError struct {
	Message string
	Cause   error
}

func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{Message: message, Cause: cause}
}
func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}
func (e *ConfigError) Unwrap() error { return e.Cause }

// IsNotFound checks if an error is a NotFoundError using errors.As.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsParse checks if an error is a ParseError using errors.As.
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsTypeMismatch checks if an error is a TypeMismatchError using errors.As.
func IsTypeMismatch(err error) bool {
	var tme *TypeMismatchError
	return errors.As(err, &tme)
}
