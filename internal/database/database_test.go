package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pageza/coffeeshop/backend/config"
	"github.com/pageza/coffeeshop/backend/internal/database"
	"github.com/pageza/coffeeshop/backend/internal/model"
	"github.com/pageza/coffeeshop/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSqliteFile(t *testing.T) {
	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "drinks.db")

	db, err := database.Open(cfg, testhelpers.QuietLogger())
	require.NoError(t, err)
	defer database.Close(db)

	require.NoError(t, database.RunMigrations(db, testhelpers.QuietLogger()))
	assert.True(t, db.Migrator().HasTable(&model.Drink{}))
	assert.NoError(t, database.HealthCheck(context.Background(), db))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	cfg := config.Default()
	cfg.DBDriver = "mysql"

	_, err := database.Open(cfg, testhelpers.QuietLogger())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestReset(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)

	require.NoError(t, db.Create(&model.Drink{
		Title:  "Tea",
		Recipe: model.Recipe{{Name: "tea", Color: "green", Parts: 1}},
	}).Error)

	require.NoError(t, database.Reset(db, testhelpers.QuietLogger()))

	var drinks []model.Drink
	require.NoError(t, db.Find(&drinks).Error)
	require.Len(t, drinks, 1)
	assert.Equal(t, "water", drinks[0].Title)
	assert.Equal(t, model.Recipe{{Name: "water", Color: "blue", Parts: 1}}, drinks[0].Recipe)

	// Reset is repeatable.
	require.NoError(t, database.Reset(db, testhelpers.QuietLogger()))
	var n int64
	require.NoError(t, db.Model(&model.Drink{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestHealthCheckAfterClose(t *testing.T) {
	cfg := config.Default()
	cfg.DBPath = ":memory:"

	db, err := database.Open(cfg, testhelpers.QuietLogger())
	require.NoError(t, err)
	require.NoError(t, database.Close(db))

	assert.Error(t, database.HealthCheck(context.Background(), db))
}

func TestPostgresDSN(t *testing.T) {
	cfg := config.Default()
	cfg.DBHost = "db"
	cfg.DBPassword = "secret"

	assert.Equal(t,
		"host=db port=5432 user=postgres password=secret dbname=coffeeshop sslmode=disable",
		database.PostgresDSN(cfg))
}

func TestPostgresMigrations(t *testing.T) {
	db := testhelpers.SetupTestPostgres(t)

	require.NoError(t, database.Reset(db, testhelpers.QuietLogger()))
	var n int64
	require.NoError(t, db.Model(&model.Drink{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}
