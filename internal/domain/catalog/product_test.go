package catalog

import (
	"testing"

	"github.com/erp/catalog/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates product and rounds price", func(t *testing.T) {
		product, err := NewProduct(" Hammer ", "Steel", CategoryByLabel("Tools"), decimal.RequireFromString("12.345"), 1)
		require.NoError(t, err)
		assert.Equal(t, "Hammer", product.Name)
		assert.True(t, product.Price.Equal(decimal.RequireFromString("12.35")))
		assert.Equal(t, int64(1), product.CompanyID)
	})

	t.Run("fails with zero price", func(t *testing.T) {
		_, err := NewProduct("Hammer", "", NoCategory(), decimal.Zero, 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("fails when price rounds to zero", func(t *testing.T) {
		_, err := NewProduct("Hammer", "", NoCategory(), decimal.RequireFromString("0.004"), 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewProduct("Hammer", "", NoCategory(), decimal.NewFromInt(-1), 1)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("fails without company", func(t *testing.T) {
		_, err := NewProduct("Hammer", "", NoCategory(), decimal.NewFromInt(1), 0)
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct("", "", NoCategory(), decimal.NewFromInt(1), 1)
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})
}

func TestProduct_Apply(t *testing.T) {
	product, err := NewProduct("Hammer", "", CategoryByLabel("Tools"), decimal.NewFromInt(10), 1)
	require.NoError(t, err)

	require.NoError(t, product.Apply(ProductUpdate{
		Price:    shared.Some(decimal.RequireFromString("9.999")),
		Category: shared.Some(CategoryByID(4)),
	}))
	assert.True(t, product.Price.Equal(decimal.NewFromInt(10)))
	id, ok := product.Category.ID()
	assert.True(t, ok)
	assert.Equal(t, int64(4), id)
	assert.Equal(t, "Hammer", product.Name)

	err = product.Apply(ProductUpdate{Name: shared.Some("Mallet"), Price: shared.Some(decimal.NewFromInt(-5))})
	require.ErrorIs(t, err, ErrInvalidPrice)
	assert.Equal(t, "Hammer", product.Name)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "10", want: "10"},
		{in: " 3.141 ", want: "3.14"},
		{in: "0", wantErr: true},
		{in: "-2.50", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidPrice)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), got.String())
		})
	}
}
