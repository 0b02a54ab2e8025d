package catalog

import (
	"strings"

	"github.com/erp/catalog/internal/domain/shared"
)

// Category is a named grouping of products, optionally owned by a company
type Category struct {
	shared.BaseEntity
	Name        string
	Description string
	CompanyID   *int64
}

// CategoryUpdate carries the fields supplied in a partial update.
// Setting CompanyID to Some(nil) detaches the category from its company.
type CategoryUpdate struct {
	Name        shared.Optional[string]
	Description shared.Optional[string]
	CompanyID   shared.Optional[*int64]
}

// IsEmpty returns true if no field is supplied
func (u CategoryUpdate) IsEmpty() bool {
	return !u.Name.IsSet() && !u.Description.IsSet() && !u.CompanyID.IsSet()
}

// NewCategory creates a new category
func NewCategory(name, description string, companyID *int64) (*Category, error) {
	c := &Category{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CompanyID:   companyID,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply applies a partial update. On error the category is left unchanged.
func (c *Category) Apply(u CategoryUpdate) error {
	next := *c
	if v, ok := u.Name.Get(); ok {
		next.Name = strings.TrimSpace(v)
	}
	if v, ok := u.Description.Get(); ok {
		next.Description = strings.TrimSpace(v)
	}
	if v, ok := u.CompanyID.Get(); ok {
		next.CompanyID = v
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.Touch()
	*c = next
	return nil
}

// Validate checks the category fields
func (c *Category) Validate() error {
	if err := validateName("category", c.Name, MaxCategoryNameLength); err != nil {
		return err
	}
	if c.CompanyID != nil && *c.CompanyID <= 0 {
		return shared.NewDomainError(shared.CodeInvalidArgument, "company id must be positive")
	}
	return validateDescription(c.Description)
}

// HasCompany returns true if the category is owned by a company
func (c *Category) HasCompany() bool {
	return c.CompanyID != nil
}
