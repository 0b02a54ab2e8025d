package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics constructor receives a nil meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// TransferMetrics records bulk import and export activity
type TransferMetrics struct {
	importRows     *Counter
	exportRows     *Counter
	importDuration *Histogram
	exportDuration *Histogram
}

// NewTransferMetrics creates the transfer instruments on meter
func NewTransferMetrics(meter metric.Meter) (*TransferMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	importRows, err := NewCounter(meter, "catalog_import_rows_total", "Rows processed by product imports", "{rows}")
	if err != nil {
		return nil, err
	}
	exportRows, err := NewCounter(meter, "catalog_export_rows_total", "Rows written by product exports", "{rows}")
	if err != nil {
		return nil, err
	}
	importDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        "catalog_import_duration_seconds",
		Description: "Duration of product imports",
		Unit:        "s",
		Boundaries:  TransferDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	exportDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        "catalog_export_duration_seconds",
		Description: "Duration of product exports",
		Unit:        "s",
		Boundaries:  TransferDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return &TransferMetrics{
		importRows:     importRows,
		exportRows:     exportRows,
		importDuration: importDuration,
		exportDuration: exportDuration,
	}, nil
}

// RecordImport records the outcome of one import
func (m *TransferMetrics) RecordImport(ctx context.Context, inserted, rejected int, duration time.Duration) {
	m.importRows.Add(ctx, int64(inserted), AttrTransferOutcome.String("inserted"))
	m.importRows.Add(ctx, int64(rejected), AttrTransferOutcome.String("rejected"))
	m.importDuration.RecordDuration(ctx, duration, AttrTransferKind.String("import"))
}

// RecordExport records the outcome of one export
func (m *TransferMetrics) RecordExport(ctx context.Context, rows int, duration time.Duration) {
	m.exportRows.Add(ctx, int64(rows))
	m.exportDuration.RecordDuration(ctx, duration, AttrTransferKind.String("export"))
}
