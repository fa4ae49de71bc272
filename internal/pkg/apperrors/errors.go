package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service wraps exactly one of these.
var (
	ErrUnauthenticated  = errors.New("authentication required")
	ErrPermissionDenied = errors.New("permission denied")
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrValidationFailed = errors.New("validation failed")
)

// Authentication errors
var (
	ErrInvalidCredentials = wrap(ErrUnauthenticated, "invalid credentials")
	ErrTokenExpired       = wrap(ErrUnauthenticated, "token expired")
	ErrTokenInvalid       = wrap(ErrUnauthenticated, "invalid token")
	ErrAccountDisabled    = wrap(ErrPermissionDenied, "account is disabled")
)

// Resource errors
var (
	ErrResourceAlreadyExists = wrap(ErrConflict, "resource already exists")

	ErrUserNotFound         = wrap(ErrResourceNotFound, "user not found")
	ErrAnnouncementNotFound = wrap(ErrResourceNotFound, "announcement not found")
	ErrCourseNotFound       = wrap(ErrResourceNotFound, "course not found")
	ErrMaterialNotFound     = wrap(ErrResourceNotFound, "course material not found")
	ErrAssignmentNotFound   = wrap(ErrResourceNotFound, "assignment not found")
	ErrSubmissionNotFound   = wrap(ErrResourceNotFound, "submission not found")
	ErrPlacementNotFound    = wrap(ErrResourceNotFound, "placement record not found")
	ErrStudentNotFound      = wrap(ErrResourceNotFound, "student not found")
)

// Conflict errors
var (
	ErrEmailAlreadyExists  = wrap(ErrConflict, "email already exists")
	ErrCourseAlreadyExists = wrap(ErrConflict, "course with this code, department and year already exists")
	ErrSubmissionExists    = wrap(ErrConflict, "assignment already submitted")
	ErrStudentIDExists     = wrap(ErrConflict, "student ID already exists")
)

// Validation errors
var (
	ErrInvalidEmail      = wrap(ErrValidationFailed, "invalid email")
	ErrInvalidPassword   = wrap(ErrValidationFailed, "invalid password")
	ErrInvalidRole       = wrap(ErrValidationFailed, "invalid role")
	ErrInvalidPrincipal  = wrap(ErrValidationFailed, "invalid principal")
	ErrPlacementMismatch = wrap(ErrValidationFailed, "placement details do not match the student profile")
)

// kindError is a sentinel that also matches its kind under errors.Is.
type kindError struct {
	kind error
	msg  string
}

func wrap(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Kind returns the kind sentinel err belongs to, or nil for unclassified errors.
func Kind(err error) error {
	for _, k := range []error{ErrUnauthenticated, ErrPermissionDenied, ErrResourceNotFound, ErrConflict, ErrValidationFailed} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, format string, args ...interface{}) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: fmt.Sprintf(format, args...),
		Details: map[string]interface{}{"field": field},
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
