package models

import (
	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CompanyModel is the persistence model for the Company domain entity.
type CompanyModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex:idx_companies_name"`
	Description string `gorm:"type:text;not null;default:''"`
	Website     string `gorm:"type:varchar(255);not null;default:''"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company entity.
func (m *CompanyModel) ToDomain() *catalog.Company {
	return &catalog.Company{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
		Website:     m.Website,
	}
}

// FromDomain populates the persistence model from a domain Company entity.
func (m *CompanyModel) FromDomain(c *catalog.Company) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Description = c.Description
	m.Website = c.Website
}

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_name"`
	Description string `gorm:"type:text;not null;default:''"`
	CompanyID   *int64 `gorm:"index"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
		CompanyID:   m.CompanyID,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Description = c.Description
	m.CompanyID = c.CompanyID
}

// ProductModel is the persistence model for the Product domain entity.
// The category reference is stored in two nullable columns; at most one is set.
type ProductModel struct {
	BaseModel
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text;not null;default:''"`
	CategoryLabel *string         `gorm:"type:varchar(100)"`
	CategoryID    *int64          `gorm:"index"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CompanyID     int64           `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	category := catalog.NoCategory()
	switch {
	case m.CategoryID != nil:
		category = catalog.CategoryByID(*m.CategoryID)
	case m.CategoryLabel != nil:
		category = catalog.CategoryByLabel(*m.CategoryLabel)
	}
	return &catalog.Product{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
		Category:    category,
		Price:       catalog.NormalizePrice(m.Price),
		CompanyID:   m.CompanyID,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Description = p.Description
	m.CategoryLabel = nil
	m.CategoryID = nil
	if label, ok := p.Category.Label(); ok {
		m.CategoryLabel = &label
	}
	if id, ok := p.Category.ID(); ok {
		m.CategoryID = &id
	}
	m.Price = p.Price
	m.CompanyID = p.CompanyID
}

// ProductModelFromDomain creates a new ProductModel from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// CompanyModelFromDomain creates a new CompanyModel from a domain Company entity.
func CompanyModelFromDomain(c *catalog.Company) *CompanyModel {
	m := &CompanyModel{}
	m.FromDomain(c)
	return m
}

// CategoryModelFromDomain creates a new CategoryModel from a domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// AllModels returns the catalog models in dependency order
func AllModels() []any {
	return []any{&CompanyModel{}, &CategoryModel{}, &ProductModel{}}
}
