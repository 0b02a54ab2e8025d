package catalog

import (
	"context"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	companyRepo  catalog.CompanyRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	companyRepo catalog.CompanyRepository,
	logger *zap.Logger,
) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{
		categoryRepo: categoryRepo,
		companyRepo:  companyRepo,
		logger:       logger.Named("category_service"),
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	category, err := catalog.NewCategory(req.Name, req.Description, req.CompanyID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, category.Name, 0); err != nil {
		return nil, err
	}
	if category.HasCompany() {
		if err := ensureCompanyExists(ctx, s.companyRepo, *category.CompanyID); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id int64) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// List returns a page of categories ordered by id
func (s *CategoryService) List(ctx context.Context, req ListRequest) (shared.Page[CategoryResponse], error) {
	page, err := s.categoryRepo.FindPage(ctx, req.Q, shared.NewPageRequest(req.Offset, req.Limit))
	if err != nil {
		return shared.Page[CategoryResponse]{}, err
	}

	items := make([]CategoryResponse, len(page.Items))
	for i := range page.Items {
		items[i] = ToCategoryResponse(&page.Items[i])
	}
	return shared.Page[CategoryResponse]{Items: items, Total: page.Total, Offset: page.Offset, Limit: page.Limit}, nil
}

// Update applies a partial update to a category
func (s *CategoryService) Update(ctx context.Context, id int64, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := req.ToDomain()
	if err := category.Apply(update); err != nil {
		return nil, err
	}

	if update.Name.IsSet() {
		if err := s.ensureNameFree(ctx, category.Name, id); err != nil {
			return nil, err
		}
	}
	if update.CompanyID.IsSet() && category.HasCompany() {
		if err := ensureCompanyExists(ctx, s.companyRepo, *category.CompanyID); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Delete removes a category. Without cascade a category referenced by
// products is rejected with HAS_DEPENDENTS.
func (s *CategoryService) Delete(ctx context.Context, id int64, cascade bool) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	if cascade {
		if err := s.categoryRepo.DeleteCascade(ctx, id); err != nil {
			return err
		}
		s.logger.Info("category deleted with dependents", zap.Int64("category_id", id))
		return nil
	}

	count, err := s.categoryRepo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.Errorf(shared.ErrHasDependents, "category %d is referenced by %d products", id, count)
	}

	return s.categoryRepo.Delete(ctx, id)
}

func (s *CategoryService) ensureNameFree(ctx context.Context, name string, excludeID int64) error {
	exists, err := s.categoryRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.Errorf(shared.ErrDuplicateName, "category name %q is already in use", name)
	}
	return nil
}

func ensureCompanyExists(ctx context.Context, repo catalog.CompanyRepository, id int64) error {
	exists, err := repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return shared.Errorf(shared.ErrDanglingReference, "company %d does not exist", id)
	}
	return nil
}

func ensureCategoryExists(ctx context.Context, repo catalog.CategoryRepository, id int64) error {
	exists, err := repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return shared.Errorf(shared.ErrDanglingReference, "category %d does not exist", id)
	}
	return nil
}
