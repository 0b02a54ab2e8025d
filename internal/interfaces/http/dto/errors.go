package dto

import (
	"net/http"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes. ErrCodeUnavailable is used when an optional
// backend such as object storage is not configured.
const (
	ErrCodeUnknown     = "ERR_UNKNOWN"
	ErrCodeInternal    = "ERR_INTERNAL"
	ErrCodeUnavailable = "ERR_UNAVAILABLE"
)

// Request error codes
const (
	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
	ErrCodeForbidden       = "ERR_FORBIDDEN"
)

// Catalog error codes, one per domain error code
const (
	ErrCodeNotFound          = "ERR_NOT_FOUND"
	ErrCodeDuplicateName     = "ERR_DUPLICATE_NAME"
	ErrCodeDanglingReference = "ERR_DANGLING_REFERENCE"
	ErrCodeHasDependents     = "ERR_HAS_DEPENDENTS"
	ErrCodeInvalidArgument   = "ERR_INVALID_ARGUMENT"
	ErrCodeInvalidPrice      = "ERR_INVALID_PRICE"
	ErrCodeSchemaMismatch    = "ERR_SCHEMA_MISMATCH"
	ErrCodeDuplicateImport   = "ERR_DUPLICATE_IMPORT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:     http.StatusInternalServerError,
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeUnavailable: http.StatusServiceUnavailable,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeForbidden:       http.StatusForbidden,

	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeDuplicateName:     http.StatusConflict,
	ErrCodeDanglingReference: http.StatusUnprocessableEntity,
	ErrCodeHasDependents:     http.StatusConflict,
	ErrCodeInvalidArgument:   http.StatusBadRequest,
	ErrCodeInvalidPrice:      http.StatusBadRequest,
	ErrCodeSchemaMismatch:    http.StatusUnprocessableEntity,
	ErrCodeDuplicateImport:   http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	shared.CodeNotFound:          ErrCodeNotFound,
	shared.CodeDuplicateName:     ErrCodeDuplicateName,
	shared.CodeDanglingReference: ErrCodeDanglingReference,
	shared.CodeHasDependents:     ErrCodeHasDependents,
	shared.CodeInvalidArgument:   ErrCodeInvalidArgument,
	shared.CodeSchemaMismatch:    ErrCodeSchemaMismatch,
	shared.CodeDuplicateImport:   ErrCodeDuplicateImport,
	catalog.ErrInvalidPrice.Code: ErrCodeInvalidPrice,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes that are already in the API format or unknown are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
