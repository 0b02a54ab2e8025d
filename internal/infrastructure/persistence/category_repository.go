package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
	"github.com/erp/catalog/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id int64) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateReadError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the categories with the given IDs
func (r *GormCategoryRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.Category, error) {
	if len(ids) == 0 {
		return []catalog.Category{}, nil
	}
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.Category, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// FindPage returns a page of categories ordered by id
func (r *GormCategoryRepository) FindPage(ctx context.Context, search string, page shared.PageRequest) (shared.Page[catalog.Category], error) {
	page, err := page.Normalize(shared.DefaultPageLimit, shared.MaxPageLimit)
	if err != nil {
		return shared.Page[catalog.Category]{}, err
	}

	scope := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.CategoryModel{})
		if s := strings.TrimSpace(search); s != "" {
			query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, containsPattern(s))
		}
		return query
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return shared.Page[catalog.Category]{}, err
	}

	var rows []models.CategoryModel
	if err := scope().Order("id ASC").Offset(page.Offset).Limit(page.Limit).Find(&rows).Error; err != nil {
		return shared.Page[catalog.Category]{}, err
	}
	items := make([]catalog.Category, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return shared.NewPage(items, total, page), nil
}

// ExistsByID checks if a category exists
func (r *GormCategoryRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByName checks if a category other than excludeID uses the name
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountProducts counts products referencing the category by id
func (r *GormCategoryRepository) CountProducts(ctx context.Context, id int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("category_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a category and assigns its ID
func (r *GormCategoryRepository) Create(ctx context.Context, category *catalog.Category) error {
	model := models.CategoryModelFromDomain(category)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateWriteError(err, "category")
	}
	category.BaseEntity = model.BaseModel.ToDomain()
	return nil
}

// Update saves a category
func (r *GormCategoryRepository) Update(ctx context.Context, category *catalog.Category) error {
	result := r.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Where("id = ?", category.ID).
		Updates(map[string]any{
			"name":        category.Name,
			"description": category.Description,
			"company_id":  category.CompanyID,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return translateWriteError(result.Error, "category")
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a category
func (r *GormCategoryRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.CategoryModel{}, id)
	if result.Error != nil {
		return translateDeleteError(result.Error, "category")
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteCascade removes a category and the products referencing it
func (r *GormCategoryRepository) DeleteCascade(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.ProductModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.CategoryModel{}, id)
		if result.Error != nil {
			return translateDeleteError(result.Error, "category")
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
