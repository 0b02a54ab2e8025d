package router

import (
	"github.com/erp/catalog/internal/interfaces/http/handler"
	"github.com/erp/catalog/internal/interfaces/http/middleware"
)

// CatalogHandlers bundles the handlers mounted under /catalog
type CatalogHandlers struct {
	Company  *handler.CompanyHandler
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
}

// CatalogRoutes builds the /catalog group. JSON bodies are capped at
// maxBodySize bytes.
func CatalogRoutes(h CatalogHandlers, maxBodySize int64) *DomainGroup {
	catalog := NewDomainGroup("catalog", "/catalog").Use(middleware.BodyLimit(maxBodySize))

	catalog.Group("companies", "/companies").
		POST("", h.Company.Create).
		GET("", h.Company.List).
		GET("/:id", h.Company.GetByID).
		PATCH("/:id", h.Company.Update).
		DELETE("/:id", h.Company.Delete)

	catalog.Group("categories", "/categories").
		POST("", h.Category.Create).
		GET("", h.Category.List).
		GET("/:id", h.Category.GetByID).
		PATCH("/:id", h.Category.Update).
		DELETE("/:id", h.Category.Delete)

	catalog.Group("products", "/products").
		POST("", h.Product.Create).
		GET("", h.Product.List).
		GET("/search", h.Product.Search).
		GET("/:id", h.Product.GetByID).
		PATCH("/:id", h.Product.Update).
		DELETE("/:id", h.Product.Delete)

	return catalog
}

// TransferOptions configures the /transfer group
type TransferOptions struct {
	MaxUploadSize int64                  // import body cap in bytes
	MaxBodySize   int64                  // cap for the other transfer requests
	Limiter       *middleware.RateLimiter // nil disables rate limiting
}

// TransferRoutes builds the /transfer group for product CSV import and export
func TransferRoutes(h *handler.TransferHandler, opts TransferOptions) *DomainGroup {
	transfer := NewDomainGroup("transfer", "/transfer").Use(middleware.RateLimit(opts.Limiter))

	transfer.Group("products", "/products").
		POST("/import", middleware.BodyLimit(opts.MaxUploadSize), h.Import).
		GET("/export", h.Export).
		POST("/export/archive", middleware.BodyLimit(opts.MaxBodySize), h.Archive)

	return transfer
}

// SystemRoutes builds the /system group
func SystemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "/system").
		GET("/ping", h.Ping).
		GET("/info", h.GetSystemInfo)
}
