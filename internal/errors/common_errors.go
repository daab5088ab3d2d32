package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeNotFound      ErrorType = "NOT_FOUND"
	ErrTypeAmbiguous     ErrorType = "AMBIGUOUS_INPUT"
	ErrTypeSchema        ErrorType = "SCHEMA_MISMATCH"
	ErrTypeEmptyResult   ErrorType = "EMPTY_RESULT"
	ErrTypeUnmappedLabel ErrorType = "UNMAPPED_LABEL"
	ErrTypeParsing       ErrorType = "PARSING"
	ErrTypeStorage       ErrorType = "STORAGE"
	ErrTypeValidation    ErrorType = "VALIDATION"
	ErrTypeConfig        ErrorType = "CONFIG"
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

// IsWarning reports whether the error is informational and must not stop a run.
func (e *AppError) IsWarning() bool {
	return e.Type == ErrTypeUnmappedLabel
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

// IsType reports whether any error in err's chain is an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// TypeOf returns the type of the first AppError in err's chain, or "" if none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// NewInputNotFoundError is returned when a directory holds no file carrying the input marker.
func NewInputNotFoundError(path, marker string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("no %s file under %s", marker, path), nil).
		WithContext("path", path).
		WithContext("marker", marker).
		WithContext("candidate_count", 0)
}

// NewAmbiguousInputError is returned when more than one candidate input file was found.
func NewAmbiguousInputError(path string, candidates []string) *AppError {
	return NewAppError(ErrTypeAmbiguous,
		fmt.Sprintf("multiple input files under %s: %s", path, strings.Join(candidates, ", ")), nil).
		WithContext("path", path).
		WithContext("candidate_count", len(candidates)).
		WithContext("candidates", candidates)
}

// NewSchemaMismatchError reports a table whose column layout does not match the canonical schema.
func NewSchemaMismatchError(message string, expected, actual int) *AppError {
	return NewAppError(ErrTypeSchema, message, nil).
		WithContext("expected_columns", expected).
		WithContext("actual_columns", actual)
}

// NewEmptyResultError reports filter criteria that selected nothing usable.
func NewEmptyResultError(message string) *AppError {
	return NewAppError(ErrTypeEmptyResult, message, nil)
}

// NewUnmappedLabelWarning records a categorical value with no translation entry.
func NewUnmappedLabelWarning(column, value string) *AppError {
	return NewAppError(ErrTypeUnmappedLabel,
		fmt.Sprintf("no translation for %s value %q", column, value), nil).
		WithContext("column", column).
		WithContext("value", value)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
