package handler

import (
	catalogapp "github.com/erp/catalog/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// CompanyHandler handles company-related API endpoints
type CompanyHandler struct {
	BaseHandler
	companyService *catalogapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *catalogapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
	}
}

// DeleteOptions holds the query options of a delete request
type DeleteOptions struct {
	Cascade bool `form:"cascade"`
}

// Create godoc
// @ID           createCatalogCompany
// @Summary      Create a new company
// @Description  Create a company. Names are trimmed and must be unique.
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateCompanyRequest true "Company creation request"
// @Success      201 {object} APIResponse[catalogapp.CompanyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /catalog/companies [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	company, err := h.companyService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, company)
}

// GetByID godoc
// @ID           getCatalogCompany
// @Summary      Get company by ID
// @Description  Retrieve a company by its ID
// @Tags         companies
// @Produce      json
// @Param        id path int true "Company ID"
// @Success      200 {object} APIResponse[catalogapp.CompanyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /catalog/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	company, err := h.companyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// List godoc
// @ID           listCatalogCompanies
// @Summary      List companies
// @Description  Page through companies ordered by id, optionally filtered by a name substring
// @Tags         companies
// @Produce      json
// @Param        q query string false "Name substring (case-insensitive)"
// @Param        offset query int false "Rows to skip" default(0)
// @Param        limit query int false "Page size" default(10) maximum(100)
// @Success      200 {object} APIResponse[[]catalogapp.CompanyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /catalog/companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	var req catalogapp.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.companyService.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Offset, page.Limit)
}

// Update godoc
// @ID           updateCatalogCompany
// @Summary      Update a company
// @Description  Apply a partial update; omitted fields keep their values
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path int true "Company ID"
// @Param        request body catalogapp.UpdateCompanyRequest true "Company update request"
// @Success      200 {object} APIResponse[catalogapp.CompanyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /catalog/companies/{id} [patch]
func (h *CompanyHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req catalogapp.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	company, err := h.companyService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// Delete godoc
// @ID           deleteCatalogCompany
// @Summary      Delete a company
// @Description  Delete a company. A company that still owns products or categories is rejected unless cascade=true.
// @Tags         companies
// @Produce      json
// @Param        id path int true "Company ID"
// @Param        cascade query bool false "Also delete owned products and categories"
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /catalog/companies/{id} [delete]
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var opts DeleteOptions
	if err := c.ShouldBindQuery(&opts); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.companyService.Delete(c.Request.Context(), id, opts.Cascade); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
