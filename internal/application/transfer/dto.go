package transferapp

import (
	"time"

	"github.com/erp/catalog/internal/domain/catalog"
	csvimport "github.com/erp/catalog/internal/infrastructure/import"
)

// Product CSV columns, shared by import and export
const (
	ColumnID       = "id"
	ColumnName     = "name"
	ColumnCategory = "category"
	ColumnPrice    = "price"
	ColumnCompany  = "company"
)

// ImportColumns is the column set an import header must contain
var ImportColumns = []string{ColumnName, ColumnCategory, ColumnPrice, ColumnCompany}

// ImportIgnoredColumns may appear in an import header and are skipped,
// so an export file can be imported as-is. Imported rows always get new ids.
var ImportIgnoredColumns = []string{ColumnID}

// ExportHeader is the header row written by an export
var ExportHeader = []string{ColumnID, ColumnName, ColumnCategory, ColumnPrice, ColumnCompany}

// Row rejection reasons
const (
	ReasonRowShape       = csvimport.ErrCodeRowShape
	ReasonInvalidField   = csvimport.ErrCodeInvalidField
	ReasonInvalidPrice   = "INVALID_PRICE"
	ReasonUnknownCompany = "UNKNOWN_COMPANY"
)

// ImportRequest carries options for one import
type ImportRequest struct {
	// IdempotencyKey, when set, makes a repeated import with the same key fail with DUPLICATE_IMPORT
	IdempotencyKey string
}

// InsertedRow links a data row to the product created from it
type InsertedRow struct {
	Row int   `json:"row"`
	ID  int64 `json:"id"`
}

// ImportSummary reports the outcome of an import
type ImportSummary struct {
	InsertedCount       int                  `json:"inserted_count"`
	RejectedCount       int                  `json:"rejected_count"`
	Rejections          []csvimport.RowError `json:"rejections"`
	RejectionsTruncated bool                 `json:"rejections_truncated,omitempty"`
	Inserted            []InsertedRow        `json:"inserted"`
}

// ExportRequest selects the products to export.
// A nil Limit exports every matching product.
type ExportRequest struct {
	Limit  *int
	Filter catalog.ProductFilter
}

// ArchiveResult describes an export stored in object storage
type ArchiveResult struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expires_at"`
	Rows        int       `json:"rows"`
	SizeBytes   int64     `json:"size_bytes"`
	ContentType string    `json:"content_type"`
}
