package catalog

import (
	"time"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateCompanyRequest represents a request to create a new company
type CreateCompanyRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
	Website     string `json:"website" binding:"omitempty,max=255,httpurl"`
}

// UpdateCompanyRequest represents a request to update a company
type UpdateCompanyRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Website     *string `json:"website" binding:"omitempty,max=255"`
}

// ToDomain converts the request to a domain partial update
func (r UpdateCompanyRequest) ToDomain() catalog.CompanyUpdate {
	return catalog.CompanyUpdate{
		Name:        shared.FromPtr(r.Name),
		Description: shared.FromPtr(r.Description),
		Website:     shared.FromPtr(r.Website),
	}
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Website     string    `json:"website,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCompanyResponse converts a domain Company to CompanyResponse
func ToCompanyResponse(c *catalog.Company) CompanyResponse {
	return CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Website:     c.Website,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ListRequest represents name search and paging options for company and category lists
type ListRequest struct {
	Q      string `form:"q"`
	Offset int    `form:"offset"`
	Limit  int    `form:"limit"`
}

// CreateCategoryRequest represents a request to create a new category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
	CompanyID   *int64 `json:"company_id" binding:"omitempty,min=1"`
}

// UpdateCategoryRequest represents a request to update a category.
// DetachCompany removes the owning company and wins over CompanyID.
type UpdateCategoryRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description   *string `json:"description" binding:"omitempty,max=2000"`
	CompanyID     *int64  `json:"company_id" binding:"omitempty,min=1"`
	DetachCompany bool    `json:"detach_company"`
}

// ToDomain converts the request to a domain partial update
func (r UpdateCategoryRequest) ToDomain() catalog.CategoryUpdate {
	u := catalog.CategoryUpdate{
		Name:        shared.FromPtr(r.Name),
		Description: shared.FromPtr(r.Description),
	}
	switch {
	case r.DetachCompany:
		u.CompanyID = shared.Some[*int64](nil)
	case r.CompanyID != nil:
		u.CompanyID = shared.Some(r.CompanyID)
	}
	return u
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CompanyID   *int64    `json:"company_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CompanyID:   c.CompanyID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateProductRequest represents a request to create a new product.
// Category is a free-form label; CategoryID references a category record.
// At most one of them may be set.
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Description string           `json:"description" binding:"max=2000"`
	Category    string           `json:"category" binding:"max=100"`
	CategoryID  *int64           `json:"category_id" binding:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	CompanyID   int64            `json:"company_id" binding:"required,min=1"`
}

// CategoryRef builds the category reference of the request
func (r CreateProductRequest) CategoryRef() (catalog.CategoryRef, error) {
	return categoryRef(&r.Category, r.CategoryID)
}

// UpdateProductRequest represents a request to update a product.
// ClearCategory removes the category reference.
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" binding:"omitempty,max=2000"`
	Category      *string          `json:"category" binding:"omitempty,max=100"`
	CategoryID    *int64           `json:"category_id" binding:"omitempty,min=1"`
	ClearCategory bool             `json:"clear_category"`
	Price         *decimal.Decimal `json:"price"`
	CompanyID     *int64           `json:"company_id" binding:"omitempty,min=1"`
}

// ToDomain converts the request to a domain partial update
func (r UpdateProductRequest) ToDomain() (catalog.ProductUpdate, error) {
	u := catalog.ProductUpdate{
		Name:        shared.FromPtr(r.Name),
		Description: shared.FromPtr(r.Description),
		Price:       shared.FromPtr(r.Price),
		CompanyID:   shared.FromPtr(r.CompanyID),
	}
	switch {
	case r.ClearCategory:
		if r.Category != nil || r.CategoryID != nil {
			return u, shared.NewDomainError(shared.CodeInvalidArgument, "clear_category cannot be combined with category or category_id")
		}
		u.Category = shared.Some(catalog.NoCategory())
	case r.Category != nil || r.CategoryID != nil:
		ref, err := categoryRef(r.Category, r.CategoryID)
		if err != nil {
			return u, err
		}
		u.Category = shared.Some(ref)
	}
	return u, nil
}

func categoryRef(label *string, id *int64) (catalog.CategoryRef, error) {
	hasLabel := label != nil && *label != ""
	switch {
	case hasLabel && id != nil:
		return catalog.NoCategory(), shared.NewDomainError(shared.CodeInvalidArgument, "category and category_id are mutually exclusive")
	case id != nil:
		return catalog.CategoryByID(*id), nil
	case hasLabel:
		return catalog.CategoryByLabel(*label), nil
	default:
		return catalog.NoCategory(), nil
	}
}

// ProductResponse represents a product in API responses, with its company embedded
type ProductResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category,omitempty"`
	CategoryID  *int64           `json:"category_id,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	CompanyID   int64            `json:"company_id"`
	Company     *CompanyResponse `json:"company"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse.
// company may be nil when it could not be resolved.
func ToProductResponse(p *catalog.Product, company *catalog.Company) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CompanyID:   p.CompanyID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if label, ok := p.Category.Label(); ok {
		resp.Category = label
	}
	if id, ok := p.Category.ID(); ok {
		resp.CategoryID = &id
	}
	if company != nil {
		c := ToCompanyResponse(company)
		resp.Company = &c
	}
	return resp
}

// SearchRequest represents product search filters and paging.
// Nil fields are not applied. Limit defaults to 10 and must be 1-100.
type SearchRequest struct {
	Q          string   `form:"q"`
	CompanyID  *int64   `form:"company_id"`
	CategoryID *int64   `form:"category_id"`
	MinPrice   *float64 `form:"min_price"`
	MaxPrice   *float64 `form:"max_price"`
	Offset     *int     `form:"offset"`
	Limit      *int     `form:"limit"`
}

// SearchResult represents one page of search results
type SearchResult struct {
	Items  []ProductResponse `json:"items"`
	Total  int64             `json:"total"`
	Offset int               `json:"offset"`
	Limit  int               `json:"limit"`
}
