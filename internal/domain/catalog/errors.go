package catalog

import "github.com/erp/catalog/internal/domain/shared"

// Field limits
const (
	MaxCompanyNameLength  = 100
	MaxCategoryNameLength = 100
	MaxProductNameLength  = 200
	MaxDescriptionLength  = 2000
	MaxWebsiteLength      = 255
	PriceScale            = 2
)

// ErrInvalidPrice is returned when a product price is not a positive amount
var ErrInvalidPrice = shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
