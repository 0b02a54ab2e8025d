package catalog

import (
	"context"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockCompanyRepository is a mock implementation of CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id int64) (*catalog.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.Company, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindByName(ctx context.Context, name string) (*catalog.Company, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindPage(ctx context.Context, search string, page shared.PageRequest) (shared.Page[catalog.Company], error) {
	args := m.Called(ctx, search, page)
	return args.Get(0).(shared.Page[catalog.Company]), args.Error(1)
}

func (m *MockCompanyRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCompanyRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCompanyRepository) CountDependents(ctx context.Context, id int64) (catalog.CompanyDependents, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catalog.CompanyDependents), args.Error(1)
}

func (m *MockCompanyRepository) Create(ctx context.Context, company *catalog.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) Update(ctx context.Context, company *catalog.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCompanyRepository) DeleteCascade(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id int64) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.Category, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindPage(ctx context.Context, search string, page shared.PageRequest) (shared.Page[catalog.Category], error) {
	args := m.Called(ctx, search, page)
	return args.Get(0).(shared.Page[catalog.Category]), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) CountProducts(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteCascade(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindPage(ctx context.Context, filter catalog.ProductFilter, page shared.PageRequest) (shared.Page[catalog.Product], error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).(shared.Page[catalog.Product]), args.Error(1)
}

func (m *MockProductRepository) FindAfter(ctx context.Context, filter catalog.ProductFilter, afterID int64, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, filter, afterID, limit)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter catalog.ProductFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func intPtr(v int) *int { return &v }

func float64Ptr(v float64) *float64 { return &v }
