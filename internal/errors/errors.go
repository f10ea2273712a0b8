package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Shelf error code.
type ErrorCode string

const (
	ErrInvalidRequest       ErrorCode = "INVALID_REQUEST"       // 400
	ErrNotFound             ErrorCode = "NOT_FOUND"             // 404
	ErrFileNotFound         ErrorCode = "FILE_NOT_FOUND"        // 404
	ErrInvalidCatalog       ErrorCode = "INVALID_CATALOG"       // 422
	ErrCancelled            ErrorCode = "CANCELLED"             // 499
	ErrInternal             ErrorCode = "INTERNAL"              // 500
	ErrClipboardUnavailable ErrorCode = "CLIPBOARD_UNAVAILABLE" // 503
)

// ShelfError represents a structured error with code, status, and details.
type ShelfError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ShelfError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ShelfError {
	return &ShelfError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidValue creates a 400 error for a parameter outside its closed set.
func NewInvalidValue(field, value string, allowed []string) *ShelfError {
	return &ShelfError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: fmt.Sprintf("invalid %s %q; allowed: %v", field, value, allowed),
		Details: map[string]any{"field": field, "value": value, "allowed": allowed},
	}
}

// NewNotFound creates a 404 error for a prompt id missing from the catalog.
func NewNotFound(id int) *ShelfError {
	return &ShelfError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("prompt not found: %d", id),
		Details: map[string]any{"id": id},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *ShelfError {
	return &ShelfError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewInvalidCatalog creates a 422 error for a catalog that fails validation.
func NewInvalidCatalog(msg string) *ShelfError {
	return &ShelfError{
		Code:    ErrInvalidCatalog,
		Status:  422,
		Message: msg,
	}
}

// NewCancelled creates a 499 error when an operation is cancelled by its context.
func NewCancelled(op string) *ShelfError {
	return &ShelfError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
		Details: map[string]any{"operation": op},
	}
}

// NewClipboardUnavailable creates a 503 error when no system clipboard can be used.
func NewClipboardUnavailable(err error) *ShelfError {
	msg := "clipboard unavailable"
	if err != nil {
		msg = fmt.Sprintf("clipboard unavailable: %v", err)
	}
	return &ShelfError{
		Code:    ErrClipboardUnavailable,
		Status:  503,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ShelfError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ShelfError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is (or wraps) a ShelfError with the given code.
func Is(err error, code ErrorCode) bool {
	var sErr *ShelfError
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}

// As returns err as a *ShelfError, wrapping unknown errors as INTERNAL.
func As(err error) *ShelfError {
	var sErr *ShelfError
	if stderrors.As(err, &sErr) {
		return sErr
	}
	return NewInternal(err)
}
