package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so wrapped or
// re-worded errors still match the sentinels below.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a domain error with the code of base and a formatted message
func Errorf(base *DomainError, format string, args ...any) *DomainError {
	return NewDomainError(base.Code, fmt.Sprintf(format, args...))
}

// Error codes
const (
	CodeNotFound          = "NOT_FOUND"
	CodeDuplicateName     = "DUPLICATE_NAME"
	CodeDanglingReference = "DANGLING_REFERENCE"
	CodeHasDependents     = "HAS_DEPENDENTS"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeSchemaMismatch    = "SCHEMA_MISMATCH"
	CodeDuplicateImport   = "DUPLICATE_IMPORT"
)

// Common domain errors
var (
	ErrNotFound          = NewDomainError(CodeNotFound, "Resource not found")
	ErrDuplicateName     = NewDomainError(CodeDuplicateName, "Name is already in use")
	ErrDanglingReference = NewDomainError(CodeDanglingReference, "Referenced resource does not exist")
	ErrHasDependents     = NewDomainError(CodeHasDependents, "Resource has dependent records")
	ErrInvalidArgument   = NewDomainError(CodeInvalidArgument, "Invalid argument provided")
	ErrSchemaMismatch    = NewDomainError(CodeSchemaMismatch, "Input does not match the expected schema")
	ErrDuplicateImport   = NewDomainError(CodeDuplicateImport, "Import was already processed")
)

// ErrorCode extracts the domain error code from err, or "" if err is not a domain error
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
