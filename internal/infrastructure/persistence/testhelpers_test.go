package persistence

import (
	"context"
	"testing"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/infrastructure/config"
	"github.com/erp/catalog/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens an in-memory SQLite database with the catalog schema.
// The pool is limited to one connection so every query sees the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := NewDatabaseWithDialector(sqlite.Open(":memory:"), &config.DatabaseConfig{MaxOpenConns: 1, MaxIdleConns: 1}, WithPrepareStmt(false))
	require.NoError(t, err)
	require.NoError(t, database.DB.AutoMigrate(models.AllModels()...))
	t.Cleanup(func() { _ = database.Close() })
	return database.DB
}

func seedCompany(t *testing.T, repo *GormCompanyRepository, name string) *catalog.Company {
	t.Helper()
	company, err := catalog.NewCompany(name, "", "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), company))
	return company
}

func seedProduct(t *testing.T, repo *GormProductRepository, name string, category catalog.CategoryRef, price string, companyID int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, "", category, decimal.RequireFromString(price), companyID)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), product))
	return product
}
