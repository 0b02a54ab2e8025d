//go:build integration

// Package integration runs the catalog against a real PostgreSQL database.
// It uses testcontainers to start PostgreSQL and applies the SQL migrations
// with golang-migrate.
package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/erp/catalog/internal/infrastructure/config"
	"github.com/erp/catalog/internal/infrastructure/migration"
	"github.com/erp/catalog/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm/logger"
)

var (
	// Shared container for all tests in the package
	sharedContainer    testcontainers.Container
	sharedContainerMu  sync.Mutex
	sharedContainerDSN string
)

// TestDB is a migrated database on the shared container
type TestDB struct {
	*persistence.Database
	DSN string
	t   *testing.T
}

func startContainer(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("catalog_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		// ICU collation so LOWER() folds non-ASCII letters the same on every host
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_INITDB_ARGS": "--encoding=UTF8 --locale-provider=icu --icu-locale=und",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, "", err
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, "", err
	}
	return container, dsn, nil
}

// NewTestDB returns a connection to the shared container with empty
// catalog tables. The container is started and migrated on first use.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer == nil {
		container, dsn, err := startContainer(context.Background())
		require.NoError(t, err, "Failed to start PostgreSQL container")
		sharedContainer = container
		sharedContainerDSN = dsn

		runMigrations(t, dsn)
	}

	database, err := persistence.NewDatabaseWithDialector(
		gormpostgres.Open(sharedContainerDSN),
		&config.DatabaseConfig{MaxOpenConns: 5, MaxIdleConns: 2, ConnMaxLifetime: 5},
		persistence.WithGormLogger(gormLogger()),
		persistence.WithPrepareStmt(false),
	)
	require.NoError(t, err, "Failed to connect to database")

	tdb := &TestDB{Database: database, DSN: sharedContainerDSN, t: t}
	tdb.CleanTables()
	t.Cleanup(func() { _ = database.Close() })
	return tdb
}

func gormLogger() logger.Interface {
	// Enable debug logging if TEST_DB_DEBUG is set
	if os.Getenv("TEST_DB_DEBUG") != "" {
		return logger.Default.LogMode(logger.Info)
	}
	return logger.Default.LogMode(logger.Silent)
}

// CleanTables empties the catalog tables and resets their id sequences
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()
	err := tdb.DB.Exec("TRUNCATE TABLE products, categories, companies RESTART IDENTITY CASCADE").Error
	require.NoError(tdb.t, err, "Failed to truncate catalog tables")
}

// runMigrations applies all database migrations
func runMigrations(t *testing.T, dsn string) {
	t.Helper()

	migrationsPath := findMigrationsPath()
	require.NotEmpty(t, migrationsPath, "Could not find migrations directory")

	m, err := migration.NewFromURL(dsn, migrationsPath, nil)
	require.NoError(t, err, "Failed to create migrator")
	defer func() { _ = m.Close() }()

	require.NoError(t, m.Up(), "Failed to run migrations")
}

// findMigrationsPath locates the migrations directory above this file
func findMigrationsPath() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}

	dir := filepath.Dir(filename)
	for i := 0; i < 5; i++ {
		migrationsPath := filepath.Join(dir, "migrations")
		if _, err := os.Stat(migrationsPath); err == nil {
			return migrationsPath
		}
		dir = filepath.Dir(dir)
	}
	return ""
}

// CleanupSharedContainer terminates the shared container.
// It is called from TestMain.
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := sharedContainer.Terminate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to terminate container: %v\n", err)
		}
		sharedContainer = nil
		sharedContainerDSN = ""
	}
}
