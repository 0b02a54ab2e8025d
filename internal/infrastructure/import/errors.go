package csvimport

import (
	"errors"
	"fmt"
	"strings"
)

// Row error codes shared by import pipelines
const (
	ErrCodeRowShape     = "ROW_SHAPE_ERROR"
	ErrCodeInvalidField = "INVALID_FIELD"
)

// Common import errors
var (
	// ErrEmptyFile is returned when the CSV stream is empty
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned when the stream is not UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding, expected UTF-8")

	// ErrMissingHeader is returned when the CSV stream has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")
)

// HeaderMismatch describes how a header row differs from the expected column set
type HeaderMismatch struct {
	Missing    []string
	Unexpected []string
	Duplicate  []string
}

// IsEmpty returns true if the header matched
func (m *HeaderMismatch) IsEmpty() bool {
	return len(m.Missing) == 0 && len(m.Unexpected) == 0 && len(m.Duplicate) == 0
}

// Error implements the error interface
func (m *HeaderMismatch) Error() string {
	var parts []string
	if len(m.Missing) > 0 {
		parts = append(parts, "missing columns: "+strings.Join(m.Missing, ", "))
	}
	if len(m.Unexpected) > 0 {
		parts = append(parts, "unexpected columns: "+strings.Join(m.Unexpected, ", "))
	}
	if len(m.Duplicate) > 0 {
		parts = append(parts, "duplicate columns: "+strings.Join(m.Duplicate, ", "))
	}
	return "header mismatch: " + strings.Join(parts, "; ")
}

// SyntaxError reports a record that could not be parsed as CSV
type SyntaxError struct {
	Index int
	Line  int
	Err   error
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("row %d (line %d): %v", e.Index, e.Line, e.Err)
}

// Unwrap returns the underlying csv error
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// RowError represents an error in a specific row
type RowError struct {
	Row     int    `json:"row"`
	Line    int    `json:"line"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"reason"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a new RowError for row
func NewRowError(row *Row, column, code, message string) RowError {
	return RowError{
		Row:     row.Index,
		Line:    row.LineNumber,
		Column:  column,
		Code:    code,
		Message: message,
	}
}

// NewRowErrorWithValue creates a new RowError carrying the offending value
func NewRowErrorWithValue(row *Row, column, code, message, value string) RowError {
	e := NewRowError(row, column, code, message)
	e.Value = value
	return e
}

// ErrorCollection collects row errors up to a limit while counting all of them
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a new ErrorCollection with a maximum error limit
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{
		errors:    make([]RowError, 0),
		maxErrors: maxErrors,
	}
}

// Add adds an error to the collection
func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// Errors returns the collected errors in insertion order
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// Count returns the number of collected errors (up to maxErrors)
func (ec *ErrorCollection) Count() int {
	return len(ec.errors)
}

// TotalCount returns the total number of errors including those not collected
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// IsTruncated returns true if some errors were not collected due to the limit
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > ec.maxErrors
}

// ErrorSummary returns the number of collected errors by code
func (ec *ErrorCollection) ErrorSummary() map[string]int {
	summary := make(map[string]int)
	for _, err := range ec.errors {
		summary[err.Code]++
	}
	return summary
}
