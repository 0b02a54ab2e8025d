package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer sets up a test tracer provider and returns the span recorder.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(previous)
	})

	return sr
}

func findSpan(t *testing.T, sr *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, span := range sr.Ended() {
		if span.Name() == name {
			return span
		}
	}
	require.FailNow(t, "span not found", name)
	return nil
}

func tracedRouter(status int, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "test-service"}))
	router.Use(extra...)
	router.GET("/products/:id", func(c *gin.Context) {
		c.Status(status)
	})
	return router
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	sr := setupTestTracer(t)
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: false, ServiceName: "test-service"}))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracingWithConfig_NamesSpanByRoute(t *testing.T) {
	sr := setupTestTracer(t)
	router := tracedRouter(http.StatusOK)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/42", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	findSpan(t, sr, "GET /products/:id")
}

func TestSpanEnricher_AddsRequestID(t *testing.T) {
	sr := setupTestTracer(t)
	router := tracedRouter(http.StatusOK, SpanEnricher())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/1", nil)
	req.Header.Set(RequestIDHeader, "test-request-id-123")
	router.ServeHTTP(w, req)

	span := findSpan(t, sr, "GET /products/:id")
	found := false
	for _, attr := range span.Attributes() {
		if attr.Key == "request_id" {
			assert.Equal(t, "test-request-id-123", attr.Value.AsString())
			found = true
		}
	}
	assert.True(t, found, "request_id attribute not found in span")
}

func TestSpanEnricher_WithoutSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SpanEnricher())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSpanErrorMarker_ClientErrors(t *testing.T) {
	tests := []struct {
		status  int
		message string
	}{
		{http.StatusBadRequest, "Client Error"},
		{http.StatusNotFound, "Not Found"},
		{http.StatusConflict, "Conflict"},
		{http.StatusUnprocessableEntity, "Unprocessable Entity"},
		{http.StatusTooManyRequests, "Too Many Requests"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			sr := setupTestTracer(t)
			router := tracedRouter(tt.status, SpanErrorMarker())

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/1", nil))

			span := findSpan(t, sr, "GET /products/:id")
			assert.Equal(t, codes.Error, span.Status().Code)
			assert.Equal(t, tt.message, span.Status().Description)
		})
	}
}

func TestSpanErrorMarker_ServerError(t *testing.T) {
	sr := setupTestTracer(t)
	router := tracedRouter(http.StatusInternalServerError, SpanErrorMarker())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/1", nil))

	span := findSpan(t, sr, "GET /products/:id")
	assert.Equal(t, codes.Error, span.Status().Code)
}

func TestSpanErrorMarker_SuccessResponse(t *testing.T) {
	sr := setupTestTracer(t)
	router := tracedRouter(http.StatusOK, SpanErrorMarker())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/1", nil))

	span := findSpan(t, sr, "GET /products/:id")
	assert.NotEqual(t, codes.Error, span.Status().Code)
}

func TestSpanErrorMarker_WithoutSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SpanErrorMarker())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()
	assert.Equal(t, "catalog", cfg.ServiceName)
	assert.True(t, cfg.Enabled)
}
