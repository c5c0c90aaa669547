package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeFileNotFound ErrorType = "FILE_NOT_FOUND"
	ErrTypeFileFormat   ErrorType = "FILE_FORMAT"
	ErrTypeDataFormat   ErrorType = "DATA_FORMAT"
	ErrTypeRender       ErrorType = "RENDER"
	ErrTypeStorage      ErrorType = "STORAGE"
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeConfig       ErrorType = "CONFIG"
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

// NewFileNotFoundError reports an input path that does not resolve.
func NewFileNotFoundError(path string, cause error) *AppError {
	return NewAppError(ErrTypeFileNotFound, fmt.Sprintf("input file %s not found", path), cause).
		WithContext("path", path)
}

// NewFileFormatError reports a file that is present but not a usable workbook.
func NewFileFormatError(message string, cause error) *AppError {
	return NewAppError(ErrTypeFileFormat, message, cause)
}

// NewDataFormatError reports a cell that cannot be coerced to its column type.
func NewDataFormatError(row int, column, value string, cause error) *AppError {
	return NewAppError(ErrTypeDataFormat,
		fmt.Sprintf("row %d: invalid %s value %q", row, column, value), cause).
		WithContext("row", row).
		WithContext("column", column)
}

// NewRenderError creates a chart rendering error
func NewRenderError(chart string, cause error) *AppError {
	return NewAppError(ErrTypeRender, fmt.Sprintf("failed to render chart %s", chart), cause).
		WithContext("chart", chart)
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

// TypeOf returns the type of the first AppError in err's chain, or "".
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err carries an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	return err != nil && TypeOf(err) == errType
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch TypeOf(err) {
	case ErrTypeConfig, ErrTypeValidation:
		return 2
	case ErrTypeFileNotFound:
		return 3
	case ErrTypeFileFormat:
		return 4
	case ErrTypeDataFormat:
		return 5
	case ErrTypeRender, ErrTypeStorage:
		return 6
	default:
		return 1
	}
}
