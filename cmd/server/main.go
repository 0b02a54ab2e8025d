package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/erp/catalog/internal/application/catalog"
	transferapp "github.com/erp/catalog/internal/application/transfer"
	"github.com/erp/catalog/internal/infrastructure/cache"
	"github.com/erp/catalog/internal/infrastructure/config"
	"github.com/erp/catalog/internal/infrastructure/logger"
	"github.com/erp/catalog/internal/infrastructure/persistence"
	"github.com/erp/catalog/internal/infrastructure/storage"
	"github.com/erp/catalog/internal/infrastructure/telemetry"
	"github.com/erp/catalog/internal/interfaces/http/handler"
	"github.com/erp/catalog/internal/interfaces/http/middleware"
	"github.com/erp/catalog/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/erp/catalog/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Catalog API
//	@version		1.0
//	@description	Product catalog service: companies, categories, products, search and CSV transfer

//	@contact.name	API Support

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.FromAppConfig(cfg.Log))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting catalog service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", cfg.App.Version),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Logs.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if loggerProvider.IsEnabled() {
		// Tee every record to OTLP; the local output stays as configured
		log = telemetry.NewBridgedLogger(log.Core(), telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: loggerProvider,
			Level:          logger.ParseLevel(cfg.Telemetry.Logs.Level),
		}), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	}

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.Profiler.Enabled,
		ServerAddress:     cfg.Telemetry.Profiler.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Telemetry.Profiler.BasicAuthUser,
		BasicAuthPassword: cfg.Telemetry.Profiler.BasicAuthPassword,
		Tags: map[string]string{
			"service": cfg.Telemetry.ServiceName,
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
		},
		MutexProfileRate: cfg.Telemetry.Profiler.MutexProfileRate,
		BlockProfileRate: cfg.Telemetry.Profiler.BlockProfileRate,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Telemetry.Profiler.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))

	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:          cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:         "postgresql",
		WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Initialize repositories
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)

	// Initialize catalog services
	companyService := catalogapp.NewCompanyService(companyRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, companyRepo, log)
	productService := catalogapp.NewProductService(productRepo, companyRepo, categoryRepo, log)
	searchService := catalogapp.NewSearchService(productRepo, companyRepo,
		catalogapp.WithPageLimits(cfg.Catalog.DefaultPageSize, cfg.Catalog.MaxPageSize))

	// Initialize transfer services
	transferMetrics, err := telemetry.NewTransferMetrics(meterProvider.Meter("catalog.transfer"))
	if err != nil {
		log.Fatal("Failed to create transfer metrics", zap.Error(err))
	}

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	importService := transferapp.NewImportService(productRepo, companyRepo, log,
		transferapp.WithIdempotencyStore(idempotencyStore, cfg.Transfer.IdempotencyTTL),
		transferapp.WithMaxRejections(cfg.Transfer.MaxRejections),
		transferapp.WithImportMetrics(transferMetrics),
	)
	exportService := transferapp.NewExportService(productRepo, companyRepo, categoryRepo, log,
		transferapp.WithExportPageSize(cfg.Transfer.ExportPageSize),
		transferapp.WithExportMetrics(transferMetrics),
	)

	archiveService, err := newArchiveService(ctx, cfg, exportService, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Initialize handlers
	companyHandler := handler.NewCompanyHandler(companyService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	productHandler := handler.NewProductHandler(productService, searchService)
	transferHandler := handler.NewTransferHandler(importService, exportService, archiveService)
	systemHandler := handler.NewSystemHandler(handler.BuildInfo{
		Name:    cfg.App.Name,
		Version: cfg.App.Version,
		Env:     cfg.App.Env,
	}, db)

	// Register custom validators before any request is bound
	middleware.SetupValidator()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	// Middleware chain (order matters):
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Server span per request, enriched and marked on error
	// 5. Metrics - HTTP request instruments
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		Enabled:       cfg.Telemetry.MetricsEnabled,
	}))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	corsConfig.ExposeHeaders = append(corsConfig.ExposeHeaders, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After")
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Swagger documentation endpoint
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	var transferLimiter *middleware.RateLimiter
	if cfg.Transfer.RateLimit > 0 {
		transferLimiter = middleware.NewRateLimiter(cfg.Transfer.RateLimit, time.Minute)
		defer transferLimiter.Close()
		log.Info("Transfer rate limiting enabled", zap.Int("requests_per_minute", cfg.Transfer.RateLimit))
	}

	router.NewRouter(engine, router.WithAPIVersion("v1")).Register(
		router.CatalogRoutes(router.CatalogHandlers{
			Company:  companyHandler,
			Category: categoryHandler,
			Product:  productHandler,
		}, cfg.HTTP.MaxBodySize),
		router.TransferRoutes(transferHandler, router.TransferOptions{
			MaxUploadSize: cfg.Transfer.MaxUploadSize,
			MaxBodySize:   cfg.HTTP.MaxBodySize,
			Limiter:       transferLimiter,
		}),
		router.SystemRoutes(systemHandler),
	).Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	// Flush the bridge last so the shutdown records above are exported
	if err := loggerProvider.Shutdown(context.Background()); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
}

// newArchiveService connects the export archive to S3-compatible storage.
// It returns nil when storage is disabled; archive requests then answer 503.
func newArchiveService(ctx context.Context, cfg *config.Config, exporter *transferapp.ExportService, log *zap.Logger) (*transferapp.ArchiveService, error) {
	if !cfg.Storage.Enabled {
		log.Info("Object storage disabled, export archive unavailable")
		return nil, nil
	}

	s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
	)
	if err != nil {
		return nil, err
	}

	ensureCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s3Storage.EnsureBucket(ensureCtx); err != nil {
		return nil, err
	}

	log.Info("Object storage ready", zap.String("bucket", s3Storage.GetBucket()))
	return transferapp.NewArchiveService(exporter, s3Storage, cfg.Storage.KeyPrefix, cfg.Storage.PresignExpiration, log), nil
}
