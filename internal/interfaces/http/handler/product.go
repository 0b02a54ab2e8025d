package handler

import (
	catalogapp "github.com/erp/catalog/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	searchService  *catalogapp.SearchService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService, searchService *catalogapp.SearchService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		searchService:  searchService,
	}
}

// Create godoc
// @ID           createCatalogProduct
// @Summary      Create a new product
// @Description  Create a product owned by an existing company. The category is either a free-form label or a category id.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product creation request"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /catalog/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// GetByID godoc
// @ID           getCatalogProduct
// @Summary      Get product by ID
// @Description  Retrieve a product with its company embedded
// @Tags         products
// @Produce      json
// @Param        id path int true "Product ID"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /catalog/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Search godoc
// @ID           searchCatalogProducts
// @Summary      Search products
// @Description  Page through products ordered by id. Every supplied filter must match; a min_price above max_price yields an empty page.
// @Tags         products
// @Produce      json
// @Param        q query string false "Matches name, category (label or referenced category name) or description, case-insensitive"
// @Param        company_id query int false "Owning company ID"
// @Param        category_id query int false "Category ID"
// @Param        min_price query number false "Minimum price, inclusive"
// @Param        max_price query number false "Maximum price, inclusive"
// @Param        offset query int false "Rows to skip" default(0)
// @Param        limit query int false "Page size" default(10) minimum(1) maximum(100)
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /catalog/products/search [get]
func (h *ProductHandler) Search(c *gin.Context) {
	var req catalogapp.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Offset, result.Limit)
}

// List godoc
// @ID           listCatalogProducts
// @Summary      List products
// @Description  Same as search; accepts the same filters
// @Tags         products
// @Produce      json
// @Param        q query string false "Matches name, category (label or referenced category name) or description, case-insensitive"
// @Param        company_id query int false "Owning company ID"
// @Param        category_id query int false "Category ID"
// @Param        min_price query number false "Minimum price, inclusive"
// @Param        max_price query number false "Maximum price, inclusive"
// @Param        offset query int false "Rows to skip" default(0)
// @Param        limit query int false "Page size" default(10) minimum(1) maximum(100)
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /catalog/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	h.Search(c)
}

// Update godoc
// @ID           updateCatalogProduct
// @Summary      Update a product
// @Description  Apply a partial update. A changed company or category id must exist.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path int true "Product ID"
// @Param        request body catalogapp.UpdateProductRequest true "Product update request"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /catalog/products/{id} [patch]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete godoc
// @ID           deleteCatalogProduct
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Param        id path int true "Product ID"
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /catalog/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
