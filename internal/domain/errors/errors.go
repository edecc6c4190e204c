package errors

import (
	"net/http"

	"keystore/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// Is matches on the business code.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == t.errorCode
}

// Predefined error types
var (
	// Account errors
	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"DUPLICATE_EMAIL",
		"An account with this email already exists",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Invalid email or password",
		"",
	)

	ErrPasswordMismatch = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_MISMATCH",
		"Passwords do not match",
		"",
	)

	ErrPasswordTooShort = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_TOO_SHORT",
		"Password is too short",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"Failed to process password",
		"",
	)

	ErrNotAuthenticated = NewBaseError(
		http.StatusUnauthorized,
		"NOT_AUTHENTICATED",
		"Please sign in to continue",
		"",
	)

	ErrInvalidClientToken = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CLIENT_TOKEN",
		"Invalid or expired client session",
		"",
	)

	// Storefront errors
	ErrProductNotFound = NewBaseError(
		http.StatusNotFound,
		"PRODUCT_NOT_FOUND",
		"Product not found",
		"",
	)

	ErrOrderNotFound = NewBaseError(
		http.StatusNotFound,
		"ORDER_NOT_FOUND",
		"Order not found",
		"",
	)

	ErrProductNotPurchased = NewBaseError(
		http.StatusNotFound,
		"PRODUCT_NOT_PURCHASED",
		"No redemption code exists for this product",
		"",
	)

	ErrCartEmpty = NewBaseError(
		http.StatusBadRequest,
		"CART_EMPTY",
		"Your cart is empty",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// StorageExecuteError represents a state backend failure, implementing the AppError interface
type StorageExecuteError struct {
	err     error
	details string
}

// NewStorageExecuteError creates a storage-related error
func NewStorageExecuteError(err error, details string) AppError {
	return &StorageExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *StorageExecuteError) Error() string {
	return errors.Wrap(e.err, "storage execution failed").Error()
}

// Unwrap exposes the backend error
func (e *StorageExecuteError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *StorageExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *StorageExecuteError) ErrorCode() string {
	return "STORAGE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *StorageExecuteError) Message() string {
	return "Failed to save your data"
}

// Details returns detailed error information
func (e *StorageExecuteError) Details() string {
	return e.details
}
