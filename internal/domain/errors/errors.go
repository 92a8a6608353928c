package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrConflict      = errors.New("conflict")
	// ErrWriteConflict means the store aborted a write because a concurrent
	// transaction touched the same rows (deadlock or serialization failure).
	ErrWriteConflict = errors.New("concurrent write conflict")
	ErrPersistence   = errors.New("persistence error")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
)

// Machine-readable error codes returned to API clients.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodePersistence   = "PERSISTENCE_ERROR"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeInternalError = "INTERNAL_ERROR"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrConflict)
}

// Persistence wraps an unexpected store failure. The cause stays reachable
// through errors.Is/As but is never shown to clients.
func Persistence(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodePersistence, "persistence error", &persistenceError{cause: err})
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// AsAppError returns err as an *AppError. Anything else is treated as a
// persistence failure so raw store errors never reach callers.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Persistence(err)
}

type persistenceError struct {
	cause error
}

func (e *persistenceError) Error() string {
	if e.cause == nil {
		return ErrPersistence.Error()
	}
	return ErrPersistence.Error() + ": " + e.cause.Error()
}

func (e *persistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func (e *persistenceError) Unwrap() error {
	return e.cause
}
