package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// setupTestTracer installs a global tracer provider backed by a span recorder
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	out := make(map[string]attribute.Value, len(attrs))
	for _, kv := range attrs {
		out[string(kv.Key)] = kv.Value
	}
	return out
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := StartServiceSpan(context.Background(), "product_import", "run",
		WithAttribute(SpanAttrIdempotentKey, "batch-1"),
		WithSpanKind(trace.SpanKindServer))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "product_import.run", spans[0].Name())
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())
	assert.Equal(t, "batch-1", attrMap(spans[0].Attributes())[SpanAttrIdempotentKey].AsString())
}

func TestSetAttributes(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := StartSpan(context.Background(), "test")
	SetAttributes(span,
		SpanAttrRowsInserted, 4,
		SpanAttrCompanyID, int64(7),
		42, "ignored",
		"dangling")
	SetAttribute(span, "ratio", 0.5)
	span.End()

	attrs := attrMap(sr.Ended()[0].Attributes())
	assert.Equal(t, int64(4), attrs[SpanAttrRowsInserted].AsInt64())
	assert.Equal(t, int64(7), attrs[SpanAttrCompanyID].AsInt64())
	assert.Equal(t, 0.5, attrs["ratio"].AsFloat64())
	assert.NotContains(t, attrs, "dangling")
}

func TestRecordError(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := StartSpan(context.Background(), "test")
	RecordError(span, errors.New("boom"))
	RecordError(span, nil)
	span.End()

	ended := sr.Ended()[0]
	assert.Equal(t, codes.Error, ended.Status().Code)
	assert.Equal(t, "boom", ended.Status().Description)
	require.NotEmpty(t, ended.Events())
	assert.Equal(t, "exception", ended.Events()[0].Name)
}

func TestSetOKAndAddEvent(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := StartSpan(context.Background(), "test")
	AddEvent(span, "page_written", SpanAttrRowsExported, 100)
	SetOK(span)
	span.End()

	ended := sr.Ended()[0]
	assert.Equal(t, codes.Ok, ended.Status().Code)
	require.Len(t, ended.Events(), 1)
	assert.Equal(t, "page_written", ended.Events()[0].Name)
}

func TestNilSpanHelpers(t *testing.T) {
	assert.NotPanics(t, func() {
		SetAttributes(nil, "k", "v")
		SetAttribute(nil, "k", "v")
		RecordError(nil, errors.New("x"))
		SetOK(nil)
		AddEvent(nil, "e")
	})
}

func TestToAttribute(t *testing.T) {
	assert.Equal(t, attribute.STRING, toAttribute("k", "v").Value.Type())
	assert.Equal(t, attribute.INT64, toAttribute("k", 1).Value.Type())
	assert.Equal(t, attribute.BOOL, toAttribute("k", true).Value.Type())
	assert.Equal(t, attribute.STRINGSLICE, toAttribute("k", []string{"a"}).Value.Type())
	assert.Equal(t, "{1}", toAttribute("k", struct{ A int }{1}).Value.AsString())
}
