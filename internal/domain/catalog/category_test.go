package catalog

import (
	"strings"
	"testing"

	"github.com/erp/catalog/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompany(t *testing.T) {
	t.Run("creates company with valid inputs", func(t *testing.T) {
		company, err := NewCompany("  Acme  ", "Tools", "https://acme.example")
		require.NoError(t, err)
		assert.Equal(t, "Acme", company.Name)
		assert.Equal(t, "Tools", company.Description)
		assert.Equal(t, "https://acme.example", company.Website)
		assert.True(t, company.IsNew())
	})

	t.Run("website is optional", func(t *testing.T) {
		company, err := NewCompany("Acme", "", "")
		require.NoError(t, err)
		assert.Empty(t, company.Website)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCompany("   ", "", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("fails with name too long", func(t *testing.T) {
		_, err := NewCompany(strings.Repeat("a", MaxCompanyNameLength+1), "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 100 characters")
	})

	t.Run("fails with website without scheme", func(t *testing.T) {
		_, err := NewCompany("Acme", "", "acme.example")
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})

	t.Run("fails with bare scheme", func(t *testing.T) {
		_, err := NewCompany("Acme", "", "http://")
		require.Error(t, err)
	})
}

func TestCompany_Apply(t *testing.T) {
	company, err := NewCompany("Acme", "Tools", "")
	require.NoError(t, err)

	t.Run("applies only supplied fields", func(t *testing.T) {
		err := company.Apply(CompanyUpdate{Website: shared.Some("http://acme.example")})
		require.NoError(t, err)
		assert.Equal(t, "Acme", company.Name)
		assert.Equal(t, "Tools", company.Description)
		assert.Equal(t, "http://acme.example", company.Website)
	})

	t.Run("invalid update leaves company untouched", func(t *testing.T) {
		err := company.Apply(CompanyUpdate{Name: shared.Some("New"), Website: shared.Some("ftp://x")})
		require.Error(t, err)
		assert.Equal(t, "Acme", company.Name)
		assert.Equal(t, "http://acme.example", company.Website)
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		assert.True(t, CompanyUpdate{}.IsEmpty())
		require.NoError(t, company.Apply(CompanyUpdate{}))
		assert.Equal(t, "Acme", company.Name)
	})
}

func TestNewCategory(t *testing.T) {
	companyID := int64(3)

	t.Run("creates category with company", func(t *testing.T) {
		category, err := NewCategory("Hardware", "", &companyID)
		require.NoError(t, err)
		assert.True(t, category.HasCompany())
		assert.Equal(t, int64(3), *category.CompanyID)
	})

	t.Run("creates category without company", func(t *testing.T) {
		category, err := NewCategory("Hardware", "", nil)
		require.NoError(t, err)
		assert.False(t, category.HasCompany())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCategory("", "", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})

	t.Run("fails with non positive company id", func(t *testing.T) {
		zero := int64(0)
		_, err := NewCategory("Hardware", "", &zero)
		require.Error(t, err)
	})
}

func TestCategory_Apply(t *testing.T) {
	companyID := int64(3)
	category, err := NewCategory("Hardware", "", &companyID)
	require.NoError(t, err)

	require.NoError(t, category.Apply(CategoryUpdate{CompanyID: shared.Some[*int64](nil)}))
	assert.Nil(t, category.CompanyID)
	assert.Equal(t, "Hardware", category.Name)

	err = category.Apply(CategoryUpdate{Name: shared.Some(strings.Repeat("x", 101))})
	require.Error(t, err)
	assert.Equal(t, "Hardware", category.Name)
}

func TestCategoryRef(t *testing.T) {
	t.Run("blank label is none", func(t *testing.T) {
		ref := CategoryByLabel("   ")
		assert.True(t, ref.IsNone())
		assert.Equal(t, "", ref.String())
	})

	t.Run("label", func(t *testing.T) {
		ref := CategoryByLabel(" Tools ")
		label, ok := ref.Label()
		assert.True(t, ok)
		assert.Equal(t, "Tools", label)
		_, ok = ref.ID()
		assert.False(t, ok)
		assert.Equal(t, CategoryRefLabel, ref.Kind())
	})

	t.Run("id", func(t *testing.T) {
		ref := CategoryByID(9)
		id, ok := ref.ID()
		assert.True(t, ok)
		assert.Equal(t, int64(9), id)
		assert.Equal(t, "#9", ref.String())
	})

	t.Run("zero value is none", func(t *testing.T) {
		var ref CategoryRef
		assert.True(t, ref.IsNone())
		assert.NoError(t, ref.Validate())
	})

	t.Run("validation", func(t *testing.T) {
		assert.Error(t, CategoryByID(0).Validate())
		assert.Error(t, CategoryByLabel(strings.Repeat("l", 101)).Validate())
		assert.NoError(t, CategoryByLabel(strings.Repeat("l", 100)).Validate())
	})
}
