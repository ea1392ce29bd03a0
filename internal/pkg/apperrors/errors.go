package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrValidation = errors.New("validation failed")

	ErrBusinessRule = errors.New("business rule violation")

	// ErrCustomerUnresolved is raised when issuance cannot resolve the owning
	// customer. It wraps ErrBusinessRule so the boundary reports it as a
	// business-rule breach rather than a generic not-found.
	ErrCustomerUnresolved = fmt.Errorf("%w: customer unresolved", ErrBusinessRule)

	ErrAlreadyExists = errors.New("resource already exists")

	ErrDatabase = errors.New("database error")

	ErrInternalServer = errors.New("internal server error")
)

type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(field, message string) error {
	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Field: field, Message: message})
}

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func WrapDatabaseError(cause error, message string) error {
	return &AppError{
		Code:    "DB_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrDatabase, cause),
	}
}

// Kind names the external failure class of an error, matching the names the
// HTTP boundary reports in its ExceptionDetails payload. NotFound folds into
// BusinessRuleViolation: the transport exposes no dedicated not-found status.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "ValidationFailure"
	case errors.Is(err, ErrBusinessRule):
		return "BusinessRuleViolation"
	case errors.Is(err, ErrNotFound):
		return "BusinessRuleViolation"
	case errors.Is(err, ErrInvalidArgument):
		return "InvalidArgument"
	case errors.Is(err, ErrAlreadyExists):
		return "Conflict"
	default:
		return "InternalServerError"
	}
}
