package transferapp

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/erp/catalog/internal/infrastructure/logger"
	"github.com/erp/catalog/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const csvContentType = "text/csv"

// ArchiveService writes an export to a temporary file and uploads it to object storage
type ArchiveService struct {
	exporter  *ExportService
	storage   ObjectStorage
	keyPrefix string
	urlTTL    time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// NewArchiveService creates a new ArchiveService. Objects are stored under
// keyPrefix/YYYY/MM/DD/<uuid>.csv and download URLs are valid for urlTTL.
func NewArchiveService(exporter *ExportService, storage ObjectStorage, keyPrefix string, urlTTL time.Duration, log *zap.Logger) *ArchiveService {
	if log == nil {
		log = zap.NewNop()
	}
	if urlTTL <= 0 {
		urlTTL = 15 * time.Minute
	}
	return &ArchiveService{
		exporter:  exporter,
		storage:   storage,
		keyPrefix: keyPrefix,
		urlTTL:    urlTTL,
		now:       time.Now,
		logger:    log.Named("export_archive"),
	}
}

// Archive exports the matching products and stores the CSV as one object
func (s *ArchiveService) Archive(ctx context.Context, req ExportRequest) (*ArchiveResult, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "catalog-export-*.csv")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	rows, err := s.exporter.Export(ctx, tmp, req)
	if err != nil {
		return nil, err
	}

	size, err := tmp.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("measure export: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind export: %w", err)
	}

	key := s.objectKey()
	ctx, span := telemetry.StartServiceSpan(ctx, "export_archive", "upload",
		telemetry.WithAttribute(telemetry.SpanAttrObjectKey, key))
	defer span.End()

	if err := s.storage.Upload(ctx, key, tmp, size, csvContentType); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("upload export: %w", err)
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, s.urlTTL)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("presign export: %w", err)
	}

	logger.L(ctx, s.logger).Info("export archived",
		zap.String("key", key),
		zap.Int("rows", rows),
		zap.Int64("size_bytes", size),
	)

	return &ArchiveResult{
		Key:         key,
		URL:         url,
		ExpiresAt:   expiresAt,
		Rows:        rows,
		SizeBytes:   size,
		ContentType: csvContentType,
	}, nil
}

func (s *ArchiveService) objectKey() string {
	return path.Join(s.keyPrefix, s.now().UTC().Format("2006/01/02"), uuid.NewString()+".csv")
}
