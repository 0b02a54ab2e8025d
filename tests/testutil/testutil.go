// Package testutil provides common test utilities for the catalog service.
// It contains helpers for opening test databases, seeding catalog records
// and performing common assertions.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/infrastructure/config"
	"github.com/erp/catalog/internal/infrastructure/persistence"
	"github.com/erp/catalog/internal/infrastructure/persistence/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a postgres-dialect database backed by sqlmock.
// The connection is closed when the test finishes.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err, "Failed to open GORM connection")
	t.Cleanup(func() { _ = mockDB.Close() })

	return &MockDB{
		DB:    gormDB,
		Mock:  mock,
		SqlDB: mockDB,
	}
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	err := m.Mock.ExpectationsWereMet()
	require.NoError(t, err, "Unmet database expectations")
}

// NewSQLiteDB opens an in-memory SQLite database with the catalog schema.
// The pool holds a single connection so every query sees the same database.
func NewSQLiteDB(t *testing.T) *persistence.Database {
	t.Helper()

	database, err := persistence.NewDatabaseWithDialector(
		sqlite.Open(":memory:"),
		&config.DatabaseConfig{MaxOpenConns: 1, MaxIdleConns: 1},
		persistence.WithPrepareStmt(false),
	)
	require.NoError(t, err, "Failed to open SQLite database")
	require.NoError(t, database.DB.AutoMigrate(models.AllModels()...), "Failed to migrate schema")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// Repositories bundles the GORM catalog repositories over one database.
type Repositories struct {
	Companies  *persistence.GormCompanyRepository
	Categories *persistence.GormCategoryRepository
	Products   *persistence.GormProductRepository
}

// NewRepositories creates the catalog repositories for db.
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Companies:  persistence.NewGormCompanyRepository(db),
		Categories: persistence.NewGormCategoryRepository(db),
		Products:   persistence.NewGormProductRepository(db),
	}
}

// SeedCompany inserts a company with the given name.
func (r Repositories) SeedCompany(t *testing.T, name string) *catalog.Company {
	t.Helper()
	company, err := catalog.NewCompany(name, "", "")
	require.NoError(t, err)
	require.NoError(t, r.Companies.Create(context.Background(), company))
	return company
}

// SeedCategory inserts a category, optionally owned by a company.
func (r Repositories) SeedCategory(t *testing.T, name string, companyID *int64) *catalog.Category {
	t.Helper()
	category, err := catalog.NewCategory(name, "", companyID)
	require.NoError(t, err)
	require.NoError(t, r.Categories.Create(context.Background(), category))
	return category
}

// SeedProduct inserts a product. price is a decimal literal such as "9.99".
func (r Repositories) SeedProduct(t *testing.T, name string, category catalog.CategoryRef, price string, companyID int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, "", category, decimal.RequireFromString(price), companyID)
	require.NoError(t, err)
	require.NoError(t, r.Products.Create(context.Background(), product))
	return product
}

// ContextWithTimeout creates a context with a timeout that is cancelled when the test finishes.
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// RequireEventually retries condition until it passes or the timeout elapses.
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}

	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}
