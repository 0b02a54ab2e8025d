package transferapp

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
	"github.com/erp/catalog/internal/infrastructure/logger"
	"github.com/erp/catalog/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultExportPageSize is the number of products read per page
const DefaultExportPageSize = 100

// ExportService streams products as CSV using keyset pagination
type ExportService struct {
	productRepo  catalog.ProductRepository
	companyRepo  catalog.CompanyRepository
	categoryRepo catalog.CategoryRepository
	pageSize     int
	metrics      Metrics
	logger       *zap.Logger
}

// ExportOption configures an ExportService
type ExportOption func(*ExportService)

// WithExportPageSize sets how many products are held in memory at once
func WithExportPageSize(n int) ExportOption {
	return func(s *ExportService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithExportMetrics sets the metrics recorder
func WithExportMetrics(m Metrics) ExportOption {
	return func(s *ExportService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewExportService creates a new ExportService
func NewExportService(
	productRepo catalog.ProductRepository,
	companyRepo catalog.CompanyRepository,
	categoryRepo catalog.CategoryRepository,
	log *zap.Logger,
	opts ...ExportOption,
) *ExportService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &ExportService{
		productRepo:  productRepo,
		companyRepo:  companyRepo,
		categoryRepo: categoryRepo,
		pageSize:     DefaultExportPageSize,
		metrics:      noopMetrics{},
		logger:       log.Named("product_export"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateRequest checks the export options without touching storage
func ValidateRequest(req ExportRequest) error {
	if req.Limit != nil && *req.Limit <= 0 {
		return shared.Errorf(shared.ErrInvalidArgument, "limit must be positive, got %d", *req.Limit)
	}
	return nil
}

// Export writes the header and one CSV row per matching product to w,
// ordered by id, and returns the number of product rows written.
//
// One page is read at a time and the writer is flushed after each page;
// when w is an http.Flusher the response is flushed too. A cancelled
// context stops the export before the next page or row.
func (s *ExportService) Export(ctx context.Context, w io.Writer, req ExportRequest) (int, error) {
	if err := ValidateRequest(req); err != nil {
		return 0, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "product_export", "run")
	defer span.End()

	start := time.Now()
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	written, err := s.writeRows(ctx, cw, w, req)
	if err == nil {
		cw.Flush()
		err = cw.Error()
		flushHTTP(w)
	}

	s.metrics.RecordExport(ctx, written, time.Since(start))
	telemetry.SetAttribute(span, telemetry.SpanAttrRowsExported, written)
	log := logger.L(ctx, s.logger)
	if err != nil {
		telemetry.RecordError(span, err)
		log.Warn("product export stopped", zap.Int("rows", written), zap.Error(err))
		return written, err
	}
	log.Info("product export finished", zap.Int("rows", written), zap.Duration("duration", time.Since(start)))
	return written, nil
}

func (s *ExportService) writeRows(ctx context.Context, cw *csv.Writer, w io.Writer, req ExportRequest) (int, error) {
	remaining := -1
	if req.Limit != nil {
		remaining = *req.Limit
	}

	written := 0
	var lastID int64
	for remaining != 0 {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		size := s.pageSize
		if remaining > 0 && remaining < size {
			size = remaining
		}
		page, err := s.productRepo.FindAfter(ctx, req.Filter, lastID, size)
		if err != nil {
			return written, fmt.Errorf("read products after %d: %w", lastID, err)
		}
		if len(page) == 0 {
			return written, nil
		}

		names, err := s.resolveNames(ctx, page)
		if err != nil {
			return written, err
		}

		for i := range page {
			if err := ctx.Err(); err != nil {
				return written, err
			}
			if err := cw.Write(names.record(&page[i])); err != nil {
				return written, fmt.Errorf("write row: %w", err)
			}
			written++
		}

		cw.Flush()
		if err := cw.Error(); err != nil {
			return written, fmt.Errorf("flush rows: %w", err)
		}
		flushHTTP(w)

		lastID = page[len(page)-1].ID
		if remaining > 0 {
			remaining -= len(page)
		}
		if len(page) < size {
			return written, nil
		}
	}
	return written, nil
}

// pageNames holds company and category names for one page of products
type pageNames struct {
	companies  map[int64]string
	categories map[int64]string
}

func (n pageNames) record(p *catalog.Product) []string {
	category := ""
	if label, ok := p.Category.Label(); ok {
		category = label
	} else if id, ok := p.Category.ID(); ok {
		category = n.categories[id]
	}
	return []string{
		strconv.FormatInt(p.ID, 10),
		p.Name,
		category,
		p.Price.StringFixed(catalog.PriceScale),
		n.companies[p.CompanyID],
	}
}

func (s *ExportService) resolveNames(ctx context.Context, page []catalog.Product) (pageNames, error) {
	names := pageNames{
		companies:  make(map[int64]string),
		categories: make(map[int64]string),
	}

	var companyIDs, categoryIDs []int64
	seenCompany := make(map[int64]bool)
	seenCategory := make(map[int64]bool)
	for i := range page {
		if id := page[i].CompanyID; !seenCompany[id] {
			seenCompany[id] = true
			companyIDs = append(companyIDs, id)
		}
		if id, ok := page[i].Category.ID(); ok && !seenCategory[id] {
			seenCategory[id] = true
			categoryIDs = append(categoryIDs, id)
		}
	}

	companies, err := s.companyRepo.FindByIDs(ctx, companyIDs)
	if err != nil {
		return names, fmt.Errorf("resolve companies: %w", err)
	}
	for _, c := range companies {
		names.companies[c.ID] = c.Name
	}

	if len(categoryIDs) > 0 {
		categories, err := s.categoryRepo.FindByIDs(ctx, categoryIDs)
		if err != nil {
			return names, fmt.Errorf("resolve categories: %w", err)
		}
		for _, c := range categories {
			names.categories[c.ID] = c.Name
		}
	}
	return names, nil
}

func flushHTTP(w io.Writer) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
