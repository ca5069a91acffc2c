package models

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
)

// Common error types
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("resource not found")
	ErrConflict   = errors.New("operation conflicts with current state")
)

// AppError represents an application-level error with context
type AppError struct {
	Code    string
	Message string
	Details any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// FieldErrors maps an input field name to its validation messages
type FieldErrors map[string][]string

// Add appends a message for field
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// ValidationReport is the field-level detail attached to a validation error
type ValidationReport struct {
	FormErrors  []string    `json:"formErrors"`
	FieldErrors FieldErrors `json:"fieldErrors"`
}

// Empty reports whether no problems were recorded
func (r *ValidationReport) Empty() bool {
	return len(r.FormErrors) == 0 && len(r.FieldErrors) == 0
}

// ErrInvalidInput creates a validation error
func ErrInvalidInput(message string) error {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: message,
		Err:     ErrValidation,
	}
}

// ErrValidationWithReport creates a validation error carrying a field-error report
func ErrValidationWithReport(message string, report *ValidationReport) error {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: message,
		Details: report,
		Err:     ErrValidation,
	}
}

// ErrNotFoundWithMsg creates a not found error with custom message
func ErrNotFoundWithMsg(message string) error {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
		Err:     ErrNotFound,
	}
}

// ErrConflictWithMsg creates a conflict error with custom message
func ErrConflictWithMsg(message string) error {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Err:     ErrConflict,
	}
}

// ValidationDetails extracts the field-error report from err, if any
func ValidationDetails(err error) (*ValidationReport, bool) {
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != CodeInvalidInput {
		return nil, false
	}
	report, ok := appErr.Details.(*ValidationReport)
	return report, ok
}
