package transferapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
	csvimport "github.com/erp/catalog/internal/infrastructure/import"
	"github.com/erp/catalog/internal/infrastructure/logger"
	"github.com/erp/catalog/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const idempotencyKeyPrefix = "import:products:"

// ImportService imports products from CSV, committing each row on its own
type ImportService struct {
	productRepo    catalog.ProductRepository
	companyRepo    catalog.CompanyRepository
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	maxRejections  int
	metrics        Metrics
	logger         *zap.Logger
}

// ImportOption configures an ImportService
type ImportOption func(*ImportService)

// WithIdempotencyStore enables idempotency keys, remembered for ttl
func WithIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) ImportOption {
	return func(s *ImportService) {
		s.idempotency = store
		if ttl > 0 {
			s.idempotencyTTL = ttl
		}
	}
}

// WithMaxRejections caps the number of rejections listed in a summary.
// The rejected count still covers every rejected row.
func WithMaxRejections(n int) ImportOption {
	return func(s *ImportService) {
		if n > 0 {
			s.maxRejections = n
		}
	}
}

// WithImportMetrics sets the metrics recorder
func WithImportMetrics(m Metrics) ImportOption {
	return func(s *ImportService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewImportService creates a new ImportService
func NewImportService(
	productRepo catalog.ProductRepository,
	companyRepo catalog.CompanyRepository,
	log *zap.Logger,
	opts ...ImportOption,
) *ImportService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &ImportService{
		productRepo:    productRepo,
		companyRepo:    companyRepo,
		idempotencyTTL: shared.DefaultIdempotencyTTL,
		maxRejections:  1000,
		metrics:        noopMetrics{},
		logger:         log.Named("product_import"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// rowValidator checks one data row before any lookup
var rowValidator = csvimport.NewFieldValidator(
	csvimport.Field(ColumnName).Required().MaxLength(catalog.MaxProductNameLength).Build(),
	csvimport.Field(ColumnCategory).MaxLength(catalog.MaxCategoryNameLength).Build(),
	csvimport.Field(ColumnPrice).Required().Decimal().Positive().Code(ReasonInvalidPrice).Build(),
	csvimport.Field(ColumnCompany).Required().MaxLength(catalog.MaxCompanyNameLength).Code(ReasonUnknownCompany).Build(),
)

// Import reads a CSV stream and inserts one product per valid row.
//
// The header must hold the product columns in any order. An id column, as
// written by Export, is accepted and its values ignored. Any other header
// fails the whole stream with SCHEMA_MISMATCH, returning a nil summary. Row problems are
// reported in the summary and do not stop the import. An infrastructure
// error or a cancelled context stops it and returns the summary so far
// together with the error.
func (s *ImportService) Import(ctx context.Context, r io.Reader, req ImportRequest) (*ImportSummary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product_import", "run")
	defer span.End()
	if req.IdempotencyKey != "" {
		telemetry.SetAttribute(span, telemetry.SpanAttrIdempotentKey, req.IdempotencyKey)
	}

	start := time.Now()
	log := logger.L(ctx, s.logger)

	if err := s.claimKey(ctx, req.IdempotencyKey); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	summary, err := s.run(ctx, r)
	if summary == nil {
		s.releaseKey(ctx, req.IdempotencyKey)
		telemetry.RecordError(span, err)
		log.Info("product import rejected", zap.Error(err))
		return nil, err
	}
	if err != nil && summary.InsertedCount == 0 {
		s.releaseKey(ctx, req.IdempotencyKey)
	}

	s.metrics.RecordImport(ctx, summary.InsertedCount, summary.RejectedCount, time.Since(start))
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRowsInserted, summary.InsertedCount,
		telemetry.SpanAttrRowsRejected, summary.RejectedCount,
	)
	fields := []zap.Field{
		zap.Int("inserted", summary.InsertedCount),
		zap.Int("rejected", summary.RejectedCount),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		telemetry.RecordError(span, err)
		log.Warn("product import stopped", append(fields, zap.Error(err))...)
	} else {
		log.Info("product import finished", fields...)
	}
	return summary, err
}

func (s *ImportService) run(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	parser, err := s.openParser(r)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{Inserted: []InsertedRow{}}

	rejections := csvimport.NewErrorCollection(s.maxRejections)
	defer func() {
		summary.Rejections = rejections.Errors()
		summary.RejectedCount = rejections.TotalCount()
		summary.RejectionsTruncated = rejections.IsTruncated()
	}()

	companies := csvimport.NewReferenceResolver(s.lookupCompany)

	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		row, err := parser.ReadRow()
		if err == io.EOF {
			return summary, nil
		}
		var syntaxErr *csvimport.SyntaxError
		if errors.As(err, &syntaxErr) {
			rejections.Add(csvimport.RowError{
				Row:     syntaxErr.Index,
				Line:    syntaxErr.Line,
				Code:    ReasonRowShape,
				Message: syntaxErr.Err.Error(),
			})
			continue
		}
		if err != nil {
			return summary, fmt.Errorf("read csv: %w", err)
		}

		if row.IsEmpty() {
			continue
		}

		id, rowErr, err := s.importRow(ctx, row, len(parser.Headers()), companies)
		if err != nil {
			return summary, err
		}
		if rowErr != nil {
			rejections.Add(*rowErr)
			continue
		}
		summary.InsertedCount++
		summary.Inserted = append(summary.Inserted, InsertedRow{Row: row.Index, ID: id})
	}
}

func (s *ImportService) openParser(r io.Reader) (*csvimport.CSVParser, error) {
	parser, err := csvimport.NewCSVParser(r, csvimport.WithLazyQuotes(false))
	switch {
	case errors.Is(err, csvimport.ErrEmptyFile):
		return nil, shared.Errorf(shared.ErrSchemaMismatch, "empty input, expected header %v", ImportColumns)
	case errors.Is(err, csvimport.ErrInvalidEncoding):
		return nil, shared.Errorf(shared.ErrInvalidArgument, "%s", err.Error())
	case err != nil:
		return nil, err
	}

	if err := parser.ParseHeader(); err != nil {
		if errors.Is(err, csvimport.ErrMissingHeader) {
			return nil, shared.Errorf(shared.ErrSchemaMismatch, "missing header, expected %v", ImportColumns)
		}
		return nil, shared.Errorf(shared.ErrSchemaMismatch, "unreadable header: %v", err)
	}
	if err := parser.MatchHeaderSet(ImportColumns, ImportIgnoredColumns...); err != nil {
		return nil, shared.Errorf(shared.ErrSchemaMismatch, "%s", err.Error())
	}
	return parser, nil
}

// importRow returns a rejection for row-level problems and an error only
// for failures that must stop the import
func (s *ImportService) importRow(ctx context.Context, row *csvimport.Row, width int, companies *csvimport.ReferenceResolver) (int64, *csvimport.RowError, error) {
	if !row.HasShape(width) {
		rowErr := csvimport.NewRowError(row, "", ReasonRowShape,
			fmt.Sprintf("expected %d fields, got %d", width, row.FieldCount))
		return 0, &rowErr, nil
	}

	if rowErr, ok := rowValidator.ValidateRow(row); !ok {
		return 0, &rowErr, nil
	}

	companyName := row.Get(ColumnCompany)
	companyID, found, err := companies.Resolve(ctx, companyName)
	if err != nil {
		return 0, nil, fmt.Errorf("resolve company for row %d: %w", row.Index, err)
	}
	if !found {
		rowErr := csvimport.NewRowErrorWithValue(row, ColumnCompany, ReasonUnknownCompany,
			fmt.Sprintf("company %q does not exist", companyName), companyName)
		return 0, &rowErr, nil
	}

	price, err := decimal.NewFromString(row.Get(ColumnPrice))
	if err != nil {
		rowErr := csvimport.NewRowErrorWithValue(row, ColumnPrice, ReasonInvalidPrice, err.Error(), row.Get(ColumnPrice))
		return 0, &rowErr, nil
	}
	product, err := catalog.NewProduct(
		row.Get(ColumnName),
		"",
		catalog.CategoryByLabel(row.Get(ColumnCategory)),
		price,
		companyID,
	)
	if err != nil {
		return 0, rejectDomainError(row, err), nil
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, shared.ErrDanglingReference) {
			rowErr := csvimport.NewRowErrorWithValue(row, ColumnCompany, ReasonUnknownCompany, err.Error(), companyName)
			return 0, &rowErr, nil
		}
		if shared.ErrorCode(err) != "" {
			return 0, rejectDomainError(row, err), nil
		}
		return 0, nil, fmt.Errorf("insert row %d: %w", row.Index, err)
	}
	return product.ID, nil, nil
}

func rejectDomainError(row *csvimport.Row, err error) *csvimport.RowError {
	code := shared.ErrorCode(err)
	column := ""
	switch code {
	case shared.CodeInvalidArgument:
		code = ReasonInvalidField
	case ReasonInvalidPrice:
		column = ColumnPrice
	}
	rowErr := csvimport.NewRowError(row, column, code, err.Error())
	return &rowErr
}

func (s *ImportService) lookupCompany(ctx context.Context, name string) (int64, bool, error) {
	company, err := s.companyRepo.FindByName(ctx, name)
	if errors.Is(err, shared.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return company.ID, true, nil
}

func (s *ImportService) claimKey(ctx context.Context, key string) error {
	if key == "" || s.idempotency == nil {
		return nil
	}
	fresh, err := s.idempotency.MarkProcessed(ctx, idempotencyKeyPrefix+key, s.idempotencyTTL)
	if err != nil {
		return fmt.Errorf("idempotency check: %w", err)
	}
	if !fresh {
		return shared.Errorf(shared.ErrDuplicateImport, "import with idempotency key %q was already processed", key)
	}
	return nil
}

func (s *ImportService) releaseKey(ctx context.Context, key string) {
	if key == "" || s.idempotency == nil {
		return
	}
	if err := s.idempotency.Release(context.WithoutCancel(ctx), idempotencyKeyPrefix+key); err != nil {
		logger.L(ctx, s.logger).Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
	}
}
