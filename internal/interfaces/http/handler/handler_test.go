package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	catalogapp "github.com/erp/catalog/internal/application/catalog"
	transferapp "github.com/erp/catalog/internal/application/transfer"
	"github.com/erp/catalog/internal/infrastructure/cache"
	"github.com/erp/catalog/internal/infrastructure/storage"
	"github.com/erp/catalog/internal/interfaces/http/middleware"
	"github.com/erp/catalog/tests/testutil"
	"github.com/gin-gonic/gin"
)

// testEnv wires the real services over an in-memory SQLite database
type testEnv struct {
	engine   *gin.Engine
	repos    testutil.Repositories
	importer *transferapp.ImportService
	storage  *storage.MemoryObjectStorage
}

type envOptions struct {
	withStorage bool
	exportPage  int
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, envOptions{withStorage: true})
}

func newTestEnvWith(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	middleware.SetupValidator()

	db := testutil.NewSQLiteDB(t)
	repos := testutil.NewRepositories(db.DB)

	companies := catalogapp.NewCompanyService(repos.Companies, nil)
	categories := catalogapp.NewCategoryService(repos.Categories, repos.Companies, nil)
	products := catalogapp.NewProductService(repos.Products, repos.Companies, repos.Categories, nil)
	search := catalogapp.NewSearchService(repos.Products, repos.Companies)

	idempotency := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idempotency.Close() })

	importer := transferapp.NewImportService(repos.Products, repos.Companies, nil,
		transferapp.WithIdempotencyStore(idempotency, time.Hour))
	exporter := transferapp.NewExportService(repos.Products, repos.Companies, repos.Categories, nil,
		transferapp.WithExportPageSize(opts.exportPage))

	env := &testEnv{repos: repos, importer: importer}
	var archiver *transferapp.ArchiveService
	if opts.withStorage {
		env.storage = storage.NewMemoryObjectStorage()
		archiver = transferapp.NewArchiveService(exporter, env.storage, "exports", 15*time.Minute, nil)
	}

	companyHandler := NewCompanyHandler(companies)
	categoryHandler := NewCategoryHandler(categories)
	productHandler := NewProductHandler(products, search)
	transferHandler := NewTransferHandler(importer, exporter, archiver)
	systemHandler := NewSystemHandler(BuildInfo{Name: "catalog", Version: "test", Env: "test"}, db)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/health", systemHandler.Health)

	api := engine.Group("/api/v1")
	c := api.Group("/catalog/companies")
	c.POST("", companyHandler.Create)
	c.GET("", companyHandler.List)
	c.GET("/:id", companyHandler.GetByID)
	c.PATCH("/:id", companyHandler.Update)
	c.DELETE("/:id", companyHandler.Delete)

	cat := api.Group("/catalog/categories")
	cat.POST("", categoryHandler.Create)
	cat.GET("", categoryHandler.List)
	cat.GET("/:id", categoryHandler.GetByID)
	cat.PATCH("/:id", categoryHandler.Update)
	cat.DELETE("/:id", categoryHandler.Delete)

	p := api.Group("/catalog/products")
	p.POST("", productHandler.Create)
	p.GET("", productHandler.List)
	p.GET("/search", productHandler.Search)
	p.GET("/:id", productHandler.GetByID)
	p.PATCH("/:id", productHandler.Update)
	p.DELETE("/:id", productHandler.Delete)

	tr := api.Group("/transfer/products")
	tr.POST("/import", transferHandler.Import)
	tr.GET("/export", transferHandler.Export)
	tr.POST("/export/archive", transferHandler.Archive)

	sys := api.Group("/system")
	sys.GET("/ping", systemHandler.Ping)
	sys.GET("/info", systemHandler.GetSystemInfo)

	env.engine = engine
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.DoJSON(t, e.engine, method, path, body, headers...)
}

func (e *testEnv) doRaw(method, path, contentType, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}
