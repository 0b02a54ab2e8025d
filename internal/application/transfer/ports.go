package transferapp

import (
	"context"
	"io"
	"time"
)

// ObjectStorage stores export archives
type ObjectStorage interface {
	// Upload stores size bytes read from body under key
	Upload(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error

	// GenerateDownloadURL returns a presigned URL for key and its expiry
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// Metrics records transfer outcomes
type Metrics interface {
	RecordImport(ctx context.Context, inserted, rejected int, duration time.Duration)
	RecordExport(ctx context.Context, rows int, duration time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) RecordImport(context.Context, int, int, time.Duration) {}

func (noopMetrics) RecordExport(context.Context, int, time.Duration) {}
