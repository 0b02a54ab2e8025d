package catalog

import (
	"context"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	companyRepo  catalog.CompanyRepository
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	companyRepo catalog.CompanyRepository,
	categoryRepo catalog.CategoryRepository,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo:  productRepo,
		companyRepo:  companyRepo,
		categoryRepo: categoryRepo,
		logger:       logger.Named("product_service"),
	}
}

// Create creates a new product. The company, and the category when
// referenced by id, must exist.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if req.Price == nil {
		return nil, shared.Errorf(catalog.ErrInvalidPrice, "price is required")
	}
	ref, err := req.CategoryRef()
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.Name, req.Description, ref, *req.Price, req.CompanyID)
	if err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.withCompany(ctx, product)
}

// GetByID retrieves a product by ID with its company
func (s *ProductService) GetByID(ctx context.Context, id int64) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withCompany(ctx, product)
}

// Update applies a partial update to a product. Changed references are
// validated again.
func (s *ProductService) Update(ctx context.Context, id int64, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update, err := req.ToDomain()
	if err != nil {
		return nil, err
	}
	if err := product.Apply(update); err != nil {
		return nil, err
	}

	if update.CompanyID.IsSet() {
		if err := ensureCompanyExists(ctx, s.companyRepo, product.CompanyID); err != nil {
			return nil, err
		}
	}
	if update.Category.IsSet() {
		if categoryID, ok := product.Category.ID(); ok {
			if err := ensureCategoryExists(ctx, s.categoryRepo, categoryID); err != nil {
				return nil, err
			}
		}
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return s.withCompany(ctx, product)
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Debug("product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *ProductService) checkReferences(ctx context.Context, product *catalog.Product) error {
	if err := ensureCompanyExists(ctx, s.companyRepo, product.CompanyID); err != nil {
		return err
	}
	if categoryID, ok := product.Category.ID(); ok {
		return ensureCategoryExists(ctx, s.categoryRepo, categoryID)
	}
	return nil
}

func (s *ProductService) withCompany(ctx context.Context, product *catalog.Product) (*ProductResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, product.CompanyID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product, company)
	return &response, nil
}
