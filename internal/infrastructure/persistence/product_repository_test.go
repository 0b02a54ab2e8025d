package persistence

import (
	"context"
	"fmt"
	"testing"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productFixture struct {
	products   *GormProductRepository
	categories *GormCategoryRepository
	acme       *catalog.Company
	globex     *catalog.Company
	power      *catalog.Category
}

func newProductFixture(t *testing.T) productFixture {
	t.Helper()
	db := newTestDB(t)
	companies := NewGormCompanyRepository(db)
	f := productFixture{
		products:   NewGormProductRepository(db),
		categories: NewGormCategoryRepository(db),
		acme:       seedCompany(t, companies, "Acme"),
		globex:     seedCompany(t, companies, "Globex"),
	}
	power, err := catalog.NewCategory("Power Tools", "", nil)
	require.NoError(t, err)
	require.NoError(t, f.categories.Create(context.Background(), power))
	f.power = power
	return f
}

func TestGormProductRepository_CreateAndFind(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	product, err := catalog.NewProduct("Hammer", "Steel head", catalog.CategoryByLabel("Hand Tools"), decimal.RequireFromString("12.499"), f.acme.ID)
	require.NoError(t, err)
	require.NoError(t, f.products.Create(ctx, product))
	assert.Positive(t, product.ID)

	found, err := f.products.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hammer", found.Name)
	assert.Equal(t, "Steel head", found.Description)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("12.50")), found.Price.String())
	label, ok := found.Category.Label()
	assert.True(t, ok)
	assert.Equal(t, "Hand Tools", label)
	assert.Equal(t, f.acme.ID, found.CompanyID)

	byID := seedProduct(t, f.products, "Drill", catalog.CategoryByID(f.power.ID), "99", f.globex.ID)
	found, err = f.products.FindByID(ctx, byID.ID)
	require.NoError(t, err)
	id, ok := found.Category.ID()
	assert.True(t, ok)
	assert.Equal(t, f.power.ID, id)

	none := seedProduct(t, f.products, "Nail", catalog.NoCategory(), "0.10", f.acme.ID)
	found, err = f.products.FindByID(ctx, none.ID)
	require.NoError(t, err)
	assert.True(t, found.Category.IsNone())

	_, err = f.products.FindByID(ctx, 4040)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_UpdateAndDelete(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	product := seedProduct(t, f.products, "Hammer", catalog.CategoryByLabel("Tools"), "10", f.acme.ID)
	require.NoError(t, product.Apply(catalog.ProductUpdate{
		Category: shared.Some(catalog.CategoryByID(f.power.ID)),
		Price:    shared.Some(decimal.RequireFromString("11.25")),
	}))
	require.NoError(t, f.products.Update(ctx, product))

	found, err := f.products.FindByID(ctx, product.ID)
	require.NoError(t, err)
	_, isLabel := found.Category.Label()
	assert.False(t, isLabel)
	id, _ := found.Category.ID()
	assert.Equal(t, f.power.ID, id)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("11.25")))

	count, err := f.categories.CountProducts(ctx, f.power.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, f.products.Delete(ctx, product.ID))
	assert.ErrorIs(t, f.products.Delete(ctx, product.ID), shared.ErrNotFound)
}

func TestGormProductRepository_FindPage(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	for i := 1; i <= 15; i++ {
		seedProduct(t, f.products, fmt.Sprintf("Item %02d", i), catalog.NoCategory(), fmt.Sprintf("%d", i), f.acme.ID)
	}

	t.Run("no filter returns first page ordered by id", func(t *testing.T) {
		page, err := f.products.FindPage(ctx, catalog.MatchAll(), shared.NewPageRequest(0, 10))
		require.NoError(t, err)
		assert.Equal(t, int64(15), page.Total)
		require.Len(t, page.Items, 10)
		for i, p := range page.Items {
			assert.Equal(t, fmt.Sprintf("Item %02d", i+1), p.Name)
		}
		assert.True(t, page.HasMore())
	})

	t.Run("offset", func(t *testing.T) {
		page, err := f.products.FindPage(ctx, catalog.MatchAll(), shared.NewPageRequest(10, 10))
		require.NoError(t, err)
		require.Len(t, page.Items, 5)
		assert.Equal(t, "Item 11", page.Items[0].Name)
	})

	t.Run("limit is clamped", func(t *testing.T) {
		page, err := f.products.FindPage(ctx, catalog.MatchAll(), shared.NewPageRequest(0, 500))
		require.NoError(t, err)
		assert.Equal(t, shared.MaxPageLimit, page.Limit)
		assert.Len(t, page.Items, 15)
	})

	t.Run("negative limit is rejected", func(t *testing.T) {
		_, err := f.products.FindPage(ctx, catalog.MatchAll(), shared.NewPageRequest(0, -1))
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})

	t.Run("inverted price bounds are empty", func(t *testing.T) {
		filter := catalog.NewFilterBuilder().
			MinPrice(decimal.NewFromInt(10)).
			MaxPrice(decimal.NewFromInt(5)).
			Build()
		page, err := f.products.FindPage(ctx, filter, shared.NewPageRequest(0, 10))
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, int64(0), page.Total)
	})

	t.Run("price bounds are inclusive", func(t *testing.T) {
		filter := catalog.NewFilterBuilder().
			MinPrice(decimal.NewFromInt(5)).
			MaxPrice(decimal.NewFromInt(7)).
			Build()
		page, err := f.products.FindPage(ctx, filter, shared.NewPageRequest(0, 10))
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.Equal(t, "Item 05", page.Items[0].Name)
		assert.Equal(t, "Item 07", page.Items[2].Name)
	})
}

func TestGormProductRepository_FilterClauses(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	hammer := seedProduct(t, f.products, "Claw Hammer", catalog.CategoryByLabel("Hand Tools"), "12.50", f.acme.ID)
	drill := seedProduct(t, f.products, "Cordless Drill", catalog.CategoryByID(f.power.ID), "99.00", f.globex.ID)
	saw := seedProduct(t, f.products, "Saw", catalog.NoCategory(), "25.00", f.acme.ID)
	require.NoError(t, saw.Apply(catalog.ProductUpdate{Description: shared.Some("Cuts 100% of wood")}))
	require.NoError(t, f.products.Update(ctx, saw))

	ids := func(filter catalog.ProductFilter) []int64 {
		page, err := f.products.FindPage(ctx, filter, shared.NewPageRequest(0, 100))
		require.NoError(t, err)
		out := make([]int64, 0, len(page.Items))
		for _, p := range page.Items {
			out = append(out, p.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter catalog.ProductFilter
		want   []int64
	}{
		{"text matches name case-insensitively", catalog.NewFilterBuilder().Text("HAMMER").Build(), []int64{hammer.ID}},
		{"text matches label", catalog.NewFilterBuilder().Text("hand").Build(), []int64{hammer.ID}},
		{"text matches referenced category name", catalog.NewFilterBuilder().Text("power").Build(), []int64{drill.ID}},
		{"text matches description", catalog.NewFilterBuilder().Text("wood").Build(), []int64{saw.ID}},
		{"text escapes wildcards", catalog.NewFilterBuilder().Text("100%").Build(), []int64{saw.ID}},
		{"underscore is literal", catalog.NewFilterBuilder().Text("_").Build(), []int64{}},
		{"company exact", catalog.NewFilterBuilder().Company(f.acme.ID).Build(), []int64{hammer.ID, saw.ID}},
		{"category id", catalog.NewFilterBuilder().Category(f.power.ID).Build(), []int64{drill.ID}},
		{"anded clauses", catalog.NewFilterBuilder().Text("tools").Company(f.globex.ID).Build(), []int64{drill.ID}},
		{"text and price", catalog.NewFilterBuilder().Text("tools").MaxPrice(decimal.NewFromInt(50)).Build(), []int64{hammer.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter))
		})
	}
}

func TestGormProductRepository_FindAfter(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	var created []*catalog.Product
	for i := 1; i <= 7; i++ {
		created = append(created, seedProduct(t, f.products, fmt.Sprintf("P%d", i), catalog.NoCategory(), "1", f.acme.ID))
	}

	var seen []int64
	var after int64
	for {
		batch, err := f.products.FindAfter(ctx, catalog.MatchAll(), after, 3)
		require.NoError(t, err)
		if len(batch) == 0 {
			break
		}
		for _, p := range batch {
			seen = append(seen, p.ID)
		}
		after = batch[len(batch)-1].ID
	}
	require.Len(t, seen, len(created))
	for i, p := range created {
		assert.Equal(t, p.ID, seen[i])
	}

	_, err := f.products.FindAfter(ctx, catalog.MatchAll(), 0, 0)
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	count, err := f.products.Count(ctx, catalog.NewFilterBuilder().Text("p").Build())
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}
