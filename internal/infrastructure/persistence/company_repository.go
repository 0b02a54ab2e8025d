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

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by its ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id int64) (*catalog.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateReadError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the companies with the given IDs
func (r *GormCompanyRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.Company, error) {
	if len(ids) == 0 {
		return []catalog.Company{}, nil
	}
	var rows []models.CompanyModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return companiesToDomain(rows), nil
}

// FindByName finds a company by exact name
func (r *GormCompanyRepository) FindByName(ctx context.Context, name string) (*catalog.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		return nil, translateReadError(err)
	}
	return model.ToDomain(), nil
}

// FindPage returns a page of companies ordered by id
func (r *GormCompanyRepository) FindPage(ctx context.Context, search string, page shared.PageRequest) (shared.Page[catalog.Company], error) {
	page, err := page.Normalize(shared.DefaultPageLimit, shared.MaxPageLimit)
	if err != nil {
		return shared.Page[catalog.Company]{}, err
	}

	var total int64
	if err := r.searchScope(ctx, search).Count(&total).Error; err != nil {
		return shared.Page[catalog.Company]{}, err
	}

	var rows []models.CompanyModel
	if err := r.searchScope(ctx, search).
		Order("id ASC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&rows).Error; err != nil {
		return shared.Page[catalog.Company]{}, err
	}
	return shared.NewPage(companiesToDomain(rows), total, page), nil
}

func (r *GormCompanyRepository) searchScope(ctx context.Context, search string) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.CompanyModel{})
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, containsPattern(search))
	}
	return query
}

// ExistsByID checks if a company exists
func (r *GormCompanyRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CompanyModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByName checks if a company other than excludeID uses the name
func (r *GormCompanyRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CompanyModel{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountDependents counts products and categories referencing the company
func (r *GormCompanyRepository) CountDependents(ctx context.Context, id int64) (catalog.CompanyDependents, error) {
	var deps catalog.CompanyDependents
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.ProductModel{}).Where("company_id = ?", id).Count(&deps.Products).Error; err != nil {
		return deps, err
	}
	if err := db.Model(&models.CategoryModel{}).Where("company_id = ?", id).Count(&deps.Categories).Error; err != nil {
		return deps, err
	}
	return deps, nil
}

// Create inserts a company and assigns its ID
func (r *GormCompanyRepository) Create(ctx context.Context, company *catalog.Company) error {
	model := models.CompanyModelFromDomain(company)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateWriteError(err, "company")
	}
	company.BaseEntity = model.BaseModel.ToDomain()
	return nil
}

// Update saves a company
func (r *GormCompanyRepository) Update(ctx context.Context, company *catalog.Company) error {
	result := r.db.WithContext(ctx).Model(&models.CompanyModel{}).
		Where("id = ?", company.ID).
		Updates(map[string]any{
			"name":        company.Name,
			"description": company.Description,
			"website":     company.Website,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return translateWriteError(result.Error, "company")
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a company
func (r *GormCompanyRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.CompanyModel{}, id)
	if result.Error != nil {
		return translateDeleteError(result.Error, "company")
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteCascade removes the company and everything that references it
func (r *GormCompanyRepository) DeleteCascade(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownedCategories := tx.Model(&models.CategoryModel{}).Select("id").Where("company_id = ?", id)
		if err := tx.Where("category_id IN (?)", ownedCategories).Delete(&models.ProductModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).Delete(&models.ProductModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).Delete(&models.CategoryModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.CompanyModel{}, id)
		if result.Error != nil {
			return translateDeleteError(result.Error, "company")
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func companiesToDomain(rows []models.CompanyModel) []catalog.Company {
	out := make([]catalog.Company, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}
