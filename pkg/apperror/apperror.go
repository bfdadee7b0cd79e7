package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// AppError is the uniform application error carried from the usecase layer to
// the HTTP boundary. Status is the HTTP status code to emit, Field names the
// offending input field (empty when not applicable), Code is the
// machine-readable error code, and Errs is an optional list of sub-messages.
type AppError struct {
	Message string
	Status  int
	Field   string
	Code    string
	Errs    []string
}

// New creates a new AppError.
func New(message string, status int, field, code string) *AppError {
	return &AppError{
		Message: message,
		Status:  status,
		Field:   field,
		Code:    code,
	}
}

// Wrap creates a new AppError that records the underlying cause as a
// sub-message, for 500-class errors where the original text is kept for
// diagnostics.
func Wrap(message string, status int, field, code string, cause error) *AppError {
	e := New(message, status, field, code)
	if cause != nil {
		e.Errs = []string{cause.Error()}
	}
	return e
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// SchemaError aggregates per-field messages produced by the persisted
// entity's own validation rules. It maps to the 400 "VALIDATION ERROR"
// branch of the terminal classifier.
type SchemaError struct {
	Messages []string
}

// NewSchemaError creates a SchemaError from the collected field messages.
func NewSchemaError(messages []string) *SchemaError {
	return &SchemaError{Messages: messages}
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, ", ")
}

// DuplicateKeyError signals a persistence-layer uniqueness violation.
// Field and Value identify the offending index entry.
type DuplicateKeyError struct {
	Field string
	Value string
}

// NewDuplicateKeyError creates a DuplicateKeyError for the given field/value.
func NewDuplicateKeyError(field, value string) *DuplicateKeyError {
	return &DuplicateKeyError{Field: field, Value: value}
}

// Error implements the error interface.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key: %s=%q", e.Field, e.Value)
}

// Message returns the wire message for the duplicate-key envelope,
// e.g. "EMAIL IS ALREADY IN USE!".
func (e *DuplicateKeyError) Message() string {
	return strings.ToUpper(e.Field) + " IS ALREADY IN USE!"
}

// Code returns the wire code for the duplicate-key envelope,
// e.g. "ERR_EMAIL_IN_USE".
func (e *DuplicateKeyError) Code() string {
	return "ERR_" + strings.ToUpper(e.Field) + "_IN_USE"
}

// Classified reports whether err already belongs to the error taxonomy.
// Usecases collapse unclassified errors into a function-specific 500
// AppError; classified ones pass through untouched.
func Classified(err error) bool {
	var app *AppError
	var schema *SchemaError
	var dup *DuplicateKeyError
	return errors.As(err, &app) || errors.As(err, &schema) || errors.As(err, &dup)
}
