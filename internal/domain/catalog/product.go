package catalog

import (
	"strings"

	"github.com/erp/catalog/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a priced catalog item sold by a company
type Product struct {
	shared.BaseEntity
	Name        string
	Description string
	Category    CategoryRef
	Price       decimal.Decimal
	CompanyID   int64
}

// ProductUpdate carries the fields supplied in a partial update
type ProductUpdate struct {
	Name        shared.Optional[string]
	Description shared.Optional[string]
	Category    shared.Optional[CategoryRef]
	Price       shared.Optional[decimal.Decimal]
	CompanyID   shared.Optional[int64]
}

// IsEmpty returns true if no field is supplied
func (u ProductUpdate) IsEmpty() bool {
	return !u.Name.IsSet() && !u.Description.IsSet() && !u.Category.IsSet() &&
		!u.Price.IsSet() && !u.CompanyID.IsSet()
}

// NewProduct creates a new product. The price is rounded to two decimal places.
func NewProduct(name, description string, category CategoryRef, price decimal.Decimal, companyID int64) (*Product, error) {
	p := &Product{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Category:    category,
		Price:       NormalizePrice(price),
		CompanyID:   companyID,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Apply applies a partial update. On error the product is left unchanged.
func (p *Product) Apply(u ProductUpdate) error {
	next := *p
	if v, ok := u.Name.Get(); ok {
		next.Name = strings.TrimSpace(v)
	}
	if v, ok := u.Description.Get(); ok {
		next.Description = strings.TrimSpace(v)
	}
	if v, ok := u.Category.Get(); ok {
		next.Category = v
	}
	if v, ok := u.Price.Get(); ok {
		next.Price = NormalizePrice(v)
	}
	if v, ok := u.CompanyID.Get(); ok {
		next.CompanyID = v
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.Touch()
	*p = next
	return nil
}

// Validate checks the product fields
func (p *Product) Validate() error {
	if err := validateName("product", p.Name, MaxProductNameLength); err != nil {
		return err
	}
	if err := validateDescription(p.Description); err != nil {
		return err
	}
	if err := p.Category.Validate(); err != nil {
		return err
	}
	if err := ValidatePrice(p.Price); err != nil {
		return err
	}
	if p.CompanyID <= 0 {
		return shared.NewDomainError(shared.CodeInvalidArgument, "company id must be positive")
	}
	return nil
}

// NormalizePrice rounds a price to the stored scale
func NormalizePrice(price decimal.Decimal) decimal.Decimal {
	return price.Round(PriceScale)
}

// ValidatePrice returns ErrInvalidPrice unless price rounds to a positive amount
func ValidatePrice(price decimal.Decimal) error {
	if !NormalizePrice(price).IsPositive() {
		return shared.Errorf(ErrInvalidPrice, "price must be greater than zero, got %s", price.String())
	}
	return nil
}

// ParsePrice parses a decimal price string and validates it
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, shared.NewDomainError(ErrInvalidPrice.Code, "price is required")
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, shared.Errorf(ErrInvalidPrice, "price %q is not a number", s)
	}
	if err := ValidatePrice(price); err != nil {
		return decimal.Zero, err
	}
	return NormalizePrice(price), nil
}
