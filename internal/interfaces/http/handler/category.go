package handler

import (
	catalogapp "github.com/erp/catalog/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// CategoryHandler handles category-related API endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// Create godoc
// @ID           createCatalogCategory
// @Summary      Create a new category
// @Description  Create a category, optionally owned by a company. Names are trimmed and must be unique.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateCategoryRequest true "Category creation request"
// @Success      201 {object} APIResponse[catalogapp.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /catalog/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, category)
}

// GetByID godoc
// @ID           getCatalogCategory
// @Summary      Get category by ID
// @Description  Retrieve a category by its ID
// @Tags         categories
// @Produce      json
// @Param        id path int true "Category ID"
// @Success      200 {object} APIResponse[catalogapp.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /catalog/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// List godoc
// @ID           listCatalogCategories
// @Summary      List categories
// @Description  Page through categories ordered by id, optionally filtered by a name substring
// @Tags         categories
// @Produce      json
// @Param        q query string false "Name substring (case-insensitive)"
// @Param        offset query int false "Rows to skip" default(0)
// @Param        limit query int false "Page size" default(10) maximum(100)
// @Success      200 {object} APIResponse[[]catalogapp.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /catalog/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	var req catalogapp.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.categoryService.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Offset, page.Limit)
}

// Update godoc
// @ID           updateCatalogCategory
// @Summary      Update a category
// @Description  Apply a partial update; omitted fields keep their values
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path int true "Category ID"
// @Param        request body catalogapp.UpdateCategoryRequest true "Category update request"
// @Success      200 {object} APIResponse[catalogapp.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /catalog/categories/{id} [patch]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req catalogapp.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// Delete godoc
// @ID           deleteCatalogCategory
// @Summary      Delete a category
// @Description  Delete a category. A category referenced by products is rejected unless cascade=true.
// @Tags         categories
// @Produce      json
// @Param        id path int true "Category ID"
// @Param        cascade query bool false "Also delete referencing products"
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /catalog/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var opts DeleteOptions
	if err := c.ShouldBindQuery(&opts); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), id, opts.Cascade); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
