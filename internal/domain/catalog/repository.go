package catalog

import (
	"context"

	"github.com/erp/catalog/internal/domain/shared"
)

// CompanyDependents counts the records that reference a company
type CompanyDependents struct {
	Products   int64
	Categories int64
}

// IsZero returns true if nothing references the company
func (d CompanyDependents) IsZero() bool {
	return d.Products == 0 && d.Categories == 0
}

// CompanyRepository defines the interface for company persistence
type CompanyRepository interface {
	// FindByID finds a company by its ID
	FindByID(ctx context.Context, id int64) (*Company, error)

	// FindByIDs finds the companies with the given IDs, in id order
	FindByIDs(ctx context.Context, ids []int64) ([]Company, error)

	// FindByName finds a company by exact name
	FindByName(ctx context.Context, name string) (*Company, error)

	// FindPage returns companies whose name contains search (case-insensitive), ordered by id
	FindPage(ctx context.Context, search string, page shared.PageRequest) (shared.Page[Company], error)

	// ExistsByID checks if a company exists
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// ExistsByName checks if another company (id != excludeID) uses the name
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)

	// CountDependents counts products and categories referencing the company
	CountDependents(ctx context.Context, id int64) (CompanyDependents, error)

	// Create inserts a company and assigns its ID
	Create(ctx context.Context, company *Company) error

	// Update saves a company
	Update(ctx context.Context, company *Company) error

	// Delete removes a company
	Delete(ctx context.Context, id int64) error

	// DeleteCascade removes a company with its products, its categories and
	// the products referencing those categories, in one transaction
	DeleteCascade(ctx context.Context, id int64) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id int64) (*Category, error)

	// FindByIDs finds the categories with the given IDs, in id order
	FindByIDs(ctx context.Context, ids []int64) ([]Category, error)

	// FindPage returns categories whose name contains search (case-insensitive), ordered by id
	FindPage(ctx context.Context, search string, page shared.PageRequest) (shared.Page[Category], error)

	// ExistsByID checks if a category exists
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// ExistsByName checks if another category (id != excludeID) uses the name
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)

	// CountProducts counts products referencing the category by id
	CountProducts(ctx context.Context, id int64) (int64, error)

	// Create inserts a category and assigns its ID
	Create(ctx context.Context, category *Category) error

	// Update saves a category
	Update(ctx context.Context, category *Category) error

	// Delete removes a category
	Delete(ctx context.Context, id int64) error

	// DeleteCascade removes a category and the products referencing it, in one transaction
	DeleteCascade(ctx context.Context, id int64) error
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindPage returns the products matching filter, ordered by id
	FindPage(ctx context.Context, filter ProductFilter, page shared.PageRequest) (shared.Page[Product], error)

	// FindAfter returns up to limit products matching filter with id > afterID, ordered by id
	FindAfter(ctx context.Context, filter ProductFilter, afterID int64, limit int) ([]Product, error)

	// Count counts the products matching filter
	Count(ctx context.Context, filter ProductFilter) (int64, error)

	// Create inserts a product and assigns its ID
	Create(ctx context.Context, product *Product) error

	// Update saves a product
	Update(ctx context.Context, product *Product) error

	// Delete removes a product
	Delete(ctx context.Context, id int64) error
}
