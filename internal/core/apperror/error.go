// Package apperror provides the single structured error type used across layers.
// Services return *AppError for every expected failure; callers branch on Code.
package apperror

import (
	"errors"
	"fmt"
)

// Error codes
const (
	// Infrastructure errors
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Validation errors
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidInput = "INVALID_INPUT"

	// Referential errors (unknown id, wrong party type)
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidReference = "INVALID_REFERENCE"

	// Business rule violations
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
	CodeStockLimitExceeded = "STOCK_LIMIT_EXCEEDED"
	CodeInvalidTransition  = "INVALID_TRANSITION"

	// Uniqueness / store conflicts
	CodeConflict  = "CONFLICT"
	CodeDuplicate = "DUPLICATE_ENTRY"
)

// AppError is the standard error type for the application.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field, ids, quantities)
	Details map[string]any `json:"details,omitempty"`

	// Err is the underlying error
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error.
func NewValidation(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewInvalidInput is returned for malformed operator input (bad numbers, dates).
func NewInvalidInput(field string, err error) *AppError {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: fmt.Sprintf("invalid value for %s", field),
		Details: map[string]any{"field": field},
		Err:     err,
	}
}

// NewNotFound creates a not found error.
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", entity),
		Details: map[string]any{"entity": entity, "id": id},
	}
}

// NewInvalidReference is returned when an id resolves to nothing usable,
// e.g. a supplier id pointing at an employee.
func NewInvalidReference(field, message string, id any) *AppError {
	return &AppError{
		Code:    CodeInvalidReference,
		Message: message,
		Details: map[string]any{"field": field, "id": id},
	}
}

// NewInsufficientStock creates a stock shortage error.
func NewInsufficientStock(productID int64, requested, available int) *AppError {
	return &AppError{
		Code:    CodeInsufficientStock,
		Message: "insufficient stock",
		Details: map[string]any{
			"product_id": productID,
			"requested":  requested,
			"available":  available,
		},
	}
}

// NewStockLimitExceeded is returned when an increment would pass the product maximum.
func NewStockLimitExceeded(productID int64, resulting, maximum int) *AppError {
	return &AppError{
		Code:    CodeStockLimitExceeded,
		Message: "stock would exceed configured maximum",
		Details: map[string]any{
			"product_id": productID,
			"resulting":  resulting,
			"maximum":    maximum,
		},
	}
}

// NewInvalidTransition is returned for a status change the state machine forbids.
func NewInvalidTransition(entity string, id any, from, to string) *AppError {
	return &AppError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("%s cannot move from %s to %s", entity, from, to),
		Details: map[string]any{"entity": entity, "id": id, "from": from, "to": to},
	}
}

// NewInternal creates an internal error (store failures, programming errors).
func NewInternal(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "internal error",
		Err:     err,
	}
}

// NewDatabase wraps a store failure.
func NewDatabase(op string, err error) *AppError {
	return &AppError{
		Code:    CodeDatabase,
		Message: fmt.Sprintf("database error during %s", op),
		Details: map[string]any{"operation": op},
		Err:     err,
	}
}

// NewConflict creates a conflict error.
func NewConflict(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

// NewDuplicate creates a duplicate entry error.
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:    CodeDuplicate,
		Message: fmt.Sprintf("%s with this %s already exists", entity, field),
		Details: map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first AppError in the chain, or CodeInternal.
func CodeOf(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return CodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

// IsDuplicate checks if error is CodeDuplicate
func IsDuplicate(err error) bool {
	return HasCode(err, CodeDuplicate)
}
