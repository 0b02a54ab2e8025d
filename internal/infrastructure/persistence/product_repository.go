package persistence

import (
	"context"
	"time"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
	"github.com/erp/catalog/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateReadError(err)
	}
	return model.ToDomain(), nil
}

// FindPage returns the products matching filter, ordered by id
func (r *GormProductRepository) FindPage(ctx context.Context, filter catalog.ProductFilter, page shared.PageRequest) (shared.Page[catalog.Product], error) {
	page, err := page.Normalize(shared.DefaultPageLimit, shared.MaxPageLimit)
	if err != nil {
		return shared.Page[catalog.Product]{}, err
	}
	if filter.IsUnsatisfiable() {
		return shared.NewPage[catalog.Product](nil, 0, page), nil
	}

	total, err := r.Count(ctx, filter)
	if err != nil {
		return shared.Page[catalog.Product]{}, err
	}

	var rows []models.ProductModel
	if err := r.filtered(ctx, filter).
		Order("products.id ASC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&rows).Error; err != nil {
		return shared.Page[catalog.Product]{}, err
	}
	return shared.NewPage(productsToDomain(rows), total, page), nil
}

// FindAfter returns up to limit matching products with id > afterID, ordered by id
func (r *GormProductRepository) FindAfter(ctx context.Context, filter catalog.ProductFilter, afterID int64, limit int) ([]catalog.Product, error) {
	if limit <= 0 {
		return nil, shared.Errorf(shared.ErrInvalidArgument, "limit must be positive, got %d", limit)
	}
	if filter.IsUnsatisfiable() {
		return []catalog.Product{}, nil
	}

	var rows []models.ProductModel
	if err := r.filtered(ctx, filter).
		Where("products.id > ?", afterID).
		Order("products.id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// Count counts the products matching filter
func (r *GormProductRepository) Count(ctx context.Context, filter catalog.ProductFilter) (int64, error) {
	if filter.IsUnsatisfiable() {
		return 0, nil
	}
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a product and assigns its ID
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateWriteError(err, "product")
	}
	product.BaseEntity = model.BaseModel.ToDomain()
	return nil
}

// Update saves a product
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":           model.Name,
			"description":    model.Description,
			"category_label": model.CategoryLabel,
			"category_id":    model.CategoryID,
			"price":          model.Price,
			"company_id":     model.CompanyID,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return translateWriteError(result.Error, "product")
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a product
func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormProductRepository) filtered(ctx context.Context, filter catalog.ProductFilter) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ProductModel{}).Scopes(productFilterScope(filter))
}

func productsToDomain(rows []models.ProductModel) []catalog.Product {
	out := make([]catalog.Product, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}
