package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	catalogapp "github.com/erp/catalog/internal/application/catalog"
	transferapp "github.com/erp/catalog/internal/application/transfer"
	"github.com/erp/catalog/internal/infrastructure/logger"
	"github.com/erp/catalog/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader carries the optional import idempotency key
	IdempotencyKeyHeader = "Idempotency-Key"
	// MaxIdempotencyKeyLength bounds the idempotency key
	MaxIdempotencyKeyLength = 255

	importFormField = "file"
	exportFilename  = "products.csv"
	csvContentType  = "text/csv; charset=utf-8"
)

// TransferHandler handles product CSV import and export endpoints
type TransferHandler struct {
	BaseHandler
	importer *transferapp.ImportService
	exporter *transferapp.ExportService
	archiver *transferapp.ArchiveService
}

// NewTransferHandler creates a new TransferHandler. archiver may be nil
// when object storage is not configured.
func NewTransferHandler(
	importer *transferapp.ImportService,
	exporter *transferapp.ExportService,
	archiver *transferapp.ArchiveService,
) *TransferHandler {
	return &TransferHandler{
		importer: importer,
		exporter: exporter,
		archiver: archiver,
	}
}

// ExportQuery holds the export query parameters: the search filters and
// an optional row limit
type ExportQuery struct {
	Q          string   `form:"q"`
	CompanyID  *int64   `form:"company_id"`
	CategoryID *int64   `form:"category_id"`
	MinPrice   *float64 `form:"min_price"`
	MaxPrice   *float64 `form:"max_price"`
	Limit      *int     `form:"limit"`
}

// ToRequest converts the query into an export request
func (q ExportQuery) ToRequest() (transferapp.ExportRequest, error) {
	filter, err := catalogapp.BuildFilter(catalogapp.SearchRequest{
		Q:          q.Q,
		CompanyID:  q.CompanyID,
		CategoryID: q.CategoryID,
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
	})
	if err != nil {
		return transferapp.ExportRequest{}, err
	}
	req := transferapp.ExportRequest{Limit: q.Limit, Filter: filter}
	return req, transferapp.ValidateRequest(req)
}

// Import godoc
// @ID           importTransferProducts
// @Summary      Import products from CSV
// @Description  Upload a CSV with the columns name, category, price and company (an id column, as exported, is ignored), either as the multipart field "file" or as the raw request body. Each valid row is committed on its own; invalid rows are reported in the summary.
// @Tags         transfer
// @Accept       multipart/form-data
// @Accept       text/csv
// @Produce      json
// @Param        Idempotency-Key header string false "Refuses a repeated import with the same key"
// @Param        file formData file false "CSV file"
// @Success      200 {object} APIResponse[transferapp.ImportSummary]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /transfer/products/import [post]
func (h *TransferHandler) Import(c *gin.Context) {
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > MaxIdempotencyKeyLength {
		h.ErrorWithCode(c, dto.ErrCodeInvalidArgument,
			fmt.Sprintf("%s must be at most %d characters", IdempotencyKeyHeader, MaxIdempotencyKeyLength))
		return
	}

	body, err := h.openUpload(c)
	if err != nil {
		h.BindError(c, err)
		return
	}
	defer body.Close()

	summary, err := h.importer.Import(c.Request.Context(), body, transferapp.ImportRequest{IdempotencyKey: key})
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			inserted := 0
			if summary != nil {
				inserted = summary.InsertedCount
			}
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge,
				fmt.Sprintf("Upload exceeds %d bytes; %d rows were imported before the limit", tooLarge.Limit, inserted))
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// openUpload returns the CSV stream of the request: the multipart "file"
// field for multipart requests and the raw body otherwise
func (h *TransferHandler) openUpload(c *gin.Context) (io.ReadCloser, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return io.NopCloser(c.Request.Body), nil
	}

	header, err := c.FormFile(importFormField)
	if err != nil {
		return nil, err
	}
	return header.Open()
}

// Export godoc
// @ID           exportTransferProducts
// @Summary      Export products as CSV
// @Description  Stream product rows ordered by id with the header id, name, category, price, company. Accepts the search filters and an optional limit.
// @Tags         transfer
// @Produce      text/csv
// @Param        q query string false "Matches name, category (label or referenced category name) or description, case-insensitive"
// @Param        company_id query int false "Owning company ID"
// @Param        category_id query int false "Category ID"
// @Param        min_price query number false "Minimum price, inclusive"
// @Param        max_price query number false "Maximum price, inclusive"
// @Param        limit query int false "Maximum rows to export" minimum(1)
// @Success      200 {string} string "CSV document"
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /transfer/products/export [get]
func (h *TransferHandler) Export(c *gin.Context) {
	req, ok := h.bindExport(c)
	if !ok {
		return
	}

	header := c.Writer.Header()
	header.Set("Content-Type", csvContentType)
	header.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename))

	rows, err := h.exporter.Export(c.Request.Context(), c.Writer, req)
	if err == nil {
		return
	}

	if !c.Writer.Written() {
		header.Del("Content-Type")
		header.Del("Content-Disposition")
		h.HandleError(c, err)
		return
	}

	// The status line is gone; the client sees a truncated document.
	logger.GetGinLogger(c).Warn("export aborted mid-stream", zap.Int("rows", rows), zap.Error(err))
	c.Abort()
}

// Archive godoc
// @ID           archiveTransferProducts
// @Summary      Export products to object storage
// @Description  Run the same export as the CSV endpoint, upload it to object storage and return the object key with a presigned download URL.
// @Tags         transfer
// @Produce      json
// @Param        q query string false "Matches name, category (label or referenced category name) or description, case-insensitive"
// @Param        company_id query int false "Owning company ID"
// @Param        category_id query int false "Category ID"
// @Param        min_price query number false "Minimum price, inclusive"
// @Param        max_price query number false "Maximum price, inclusive"
// @Param        limit query int false "Maximum rows to export" minimum(1)
// @Success      201 {object} APIResponse[transferapp.ArchiveResult]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /transfer/products/export/archive [post]
func (h *TransferHandler) Archive(c *gin.Context) {
	if h.archiver == nil {
		h.Unavailable(c, "Object storage is not configured")
		return
	}

	req, ok := h.bindExport(c)
	if !ok {
		return
	}

	result, err := h.archiver.Archive(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

func (h *TransferHandler) bindExport(c *gin.Context) (transferapp.ExportRequest, bool) {
	var query ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return transferapp.ExportRequest{}, false
	}

	req, err := query.ToRequest()
	if err != nil {
		h.HandleError(c, err)
		return transferapp.ExportRequest{}, false
	}
	return req, true
}
