package seed

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alwahda/fabricshop/internal/config"
	"github.com/alwahda/fabricshop/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func TestRunSeedsCatalog(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, Run(db))

	var categories int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categories).Error)
	require.EqualValues(t, 4, categories)

	var products int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	require.EqualValues(t, 4, products)

	var silk models.Product
	require.NoError(t, db.First(&silk, "id = ?", "BL001").Error)
	require.Equal(t, "Premium Blue Silk", silk.Name)
	require.Equal(t, 156, silk.Stock)
	require.Equal(t, "silk", silk.CategoryID)
}

func TestRunIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, Run(db))
	require.NoError(t, Run(db))

	var products int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	require.EqualValues(t, 4, products)
}
