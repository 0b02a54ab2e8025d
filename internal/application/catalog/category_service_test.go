package catalog

import (
	"context"
	"testing"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects unknown company", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		companies := new(MockCompanyRepository)
		svc := NewCategoryService(categories, companies, nil)

		categories.On("ExistsByName", ctx, "Tools", int64(0)).Return(false, nil)
		companies.On("ExistsByID", ctx, int64(42)).Return(false, nil)

		_, err := svc.Create(ctx, CreateCategoryRequest{Name: "Tools", CompanyID: int64Ptr(42)})
		assert.ErrorIs(t, err, shared.ErrDanglingReference)
		categories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("creates global category", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		companies := new(MockCompanyRepository)
		svc := NewCategoryService(categories, companies, nil)

		categories.On("ExistsByName", ctx, "Tools", int64(0)).Return(false, nil)
		categories.On("Create", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)

		resp, err := svc.Create(ctx, CreateCategoryRequest{Name: "Tools"})
		require.NoError(t, err)
		assert.Nil(t, resp.CompanyID)
		companies.AssertNotCalled(t, "ExistsByID", mock.Anything, mock.Anything)
	})
}

func TestCategoryService_Update(t *testing.T) {
	ctx := context.Background()
	owner := int64(5)

	t.Run("detaches company", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		companies := new(MockCompanyRepository)
		svc := NewCategoryService(categories, companies, nil)

		existing, err := catalog.NewCategory("Tools", "", &owner)
		require.NoError(t, err)
		existing.ID = 2
		categories.On("FindByID", ctx, int64(2)).Return(existing, nil)
		categories.On("Update", ctx, existing).Return(nil)

		resp, err := svc.Update(ctx, 2, UpdateCategoryRequest{DetachCompany: true, CompanyID: int64Ptr(9)})
		require.NoError(t, err)
		assert.Nil(t, resp.CompanyID)
	})

	t.Run("revalidates new company", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		companies := new(MockCompanyRepository)
		svc := NewCategoryService(categories, companies, nil)

		existing, err := catalog.NewCategory("Tools", "", nil)
		require.NoError(t, err)
		existing.ID = 2
		categories.On("FindByID", ctx, int64(2)).Return(existing, nil)
		companies.On("ExistsByID", ctx, int64(9)).Return(false, nil)

		_, err = svc.Update(ctx, 2, UpdateCategoryRequest{CompanyID: int64Ptr(9)})
		assert.ErrorIs(t, err, shared.ErrDanglingReference)
		categories.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()
	existing, err := catalog.NewCategory("Tools", "", nil)
	require.NoError(t, err)
	existing.ID = 4

	t.Run("rejects referenced category", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		svc := NewCategoryService(categories, new(MockCompanyRepository), nil)
		categories.On("FindByID", ctx, int64(4)).Return(existing, nil)
		categories.On("CountProducts", ctx, int64(4)).Return(int64(3), nil)

		assert.ErrorIs(t, svc.Delete(ctx, 4, false), shared.ErrHasDependents)
	})

	t.Run("cascade", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		svc := NewCategoryService(categories, new(MockCompanyRepository), nil)
		categories.On("FindByID", ctx, int64(4)).Return(existing, nil)
		categories.On("DeleteCascade", ctx, int64(4)).Return(nil)

		require.NoError(t, svc.Delete(ctx, 4, true))
		categories.AssertExpectations(t)
	})

	t.Run("missing category", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		svc := NewCategoryService(categories, new(MockCompanyRepository), nil)
		categories.On("FindByID", ctx, int64(8)).Return(nil, shared.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, 8, true), shared.ErrNotFound)
	})
}
