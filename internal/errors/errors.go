package errors

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeInvalidInput    ErrorType = "INVALID_INPUT"
	ErrTypeEmptyResult     ErrorType = "EMPTY_RESULT"
	ErrTypeNoSnapshot      ErrorType = "NO_SNAPSHOT"
	ErrTypeNothingToExport ErrorType = "NOTHING_TO_EXPORT"
	ErrTypeWritePermission ErrorType = "WRITE_PERMISSION"
	ErrTypeExportFailed    ErrorType = "EXPORT_FAILED"
	ErrTypeSourceLoad      ErrorType = "SOURCE_LOAD"
	ErrTypeConfig          ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for common error types

// NewInvalidInputError creates an error for bad or missing arguments
func NewInvalidInputError(message string) *AppError {
	return NewAppError(ErrTypeInvalidInput, message, nil)
}

// NewEmptyResultError creates an error for a filter that matched zero rows
func NewEmptyResultError(condition string) *AppError {
	return NewAppError(ErrTypeEmptyResult, fmt.Sprintf("no rows match %q", condition), nil).
		WithContext("condition", condition)
}

// NewNoSnapshotError creates an error for a reset with nothing imported
func NewNoSnapshotError() *AppError {
	return NewAppError(ErrTypeNoSnapshot, "no dataset has been loaded", nil)
}

// NewNothingToExportError creates an error for an export with zero partitions
func NewNothingToExportError() *AppError {
	return NewAppError(ErrTypeNothingToExport, "no partitions to export", nil)
}

// NewWritePermissionError creates an error for a locked or unwritable destination
func NewWritePermissionError(path string, cause error) *AppError {
	return NewAppError(ErrTypeWritePermission, fmt.Sprintf("cannot write to %s", path), cause).
		WithContext("path", path)
}

// NewExportFailedError wraps any other export write failure
func NewExportFailedError(path string, cause error) *AppError {
	return NewAppError(ErrTypeExportFailed, fmt.Sprintf("export to %s failed", path), cause).
		WithContext("path", path)
}

// NewSourceLoadError creates an error for a dataset that could not be loaded
func NewSourceLoadError(message string, path string, cause error) *AppError {
	return NewAppError(ErrTypeSourceLoad, message, cause).WithContext("path", path)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
