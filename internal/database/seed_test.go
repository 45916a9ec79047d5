package database_test

import (
	"context"
	"testing"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/database/dbtest"
	"inventory/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	require.NoError(t, database.Seed(ctx, db))

	// stock changes made after the first run must survive a re-seed
	require.NoError(t, db.Model(&model.Product{}).Where("sku = ?", "WM-001").Update("quantity", 3).Error)

	require.NoError(t, database.Seed(ctx, db))

	var products, suppliers int64
	require.NoError(t, db.Model(&model.Product{}).Count(&products).Error)
	require.NoError(t, db.Model(&model.Supplier{}).Count(&suppliers).Error)
	assert.EqualValues(t, 5, products)
	assert.EqualValues(t, 3, suppliers)

	var mouse model.Product
	require.NoError(t, db.Where("sku = ?", "WM-001").First(&mouse).Error)
	assert.Equal(t, 3, mouse.Quantity)
	assert.Equal(t, "29.99", mouse.UnitPrice.StringFixed(2))
}

func TestDialect(t *testing.T) {
	d, err := database.Dialect(config.Config{DBType: config.DBTypeSQLite, DBPath: "x.db"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = database.Dialect(config.Config{DBType: config.DBTypePostgres})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = database.Dialect(config.Config{DBType: "oracle"})
	assert.Error(t, err)
}

func TestSQLiteDSNEnablesForeignKeys(t *testing.T) {
	assert.Equal(t, "inventory.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", database.SQLiteDSN("inventory.db"))
}
