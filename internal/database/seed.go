package database

import (
	"context"
	"errors"

	"inventory/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedProducts = []model.Product{
	{Name: "Wireless Mouse", SKU: "WM-001", Category: "Electronics", Quantity: 150, UnitPrice: decimal.RequireFromString("29.99"), ReorderLevel: 20, ImageURL: "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=400"},
	{Name: "Mechanical Keyboard", SKU: "KB-002", Category: "Electronics", Quantity: 75, UnitPrice: decimal.RequireFromString("89.99"), ReorderLevel: 15, ImageURL: "https://images.unsplash.com/photo-1511467687858-23d96c32e4ae?w=400"},
	{Name: "USB-C Hub", SKU: "UH-003", Category: "Accessories", Quantity: 200, UnitPrice: decimal.RequireFromString("45.99"), ReorderLevel: 30, ImageURL: "https://images.unsplash.com/photo-1625723044792-44de16ccb4e9?w=400"},
	{Name: "Monitor Stand", SKU: "MS-004", Category: "Furniture", Quantity: 50, UnitPrice: decimal.RequireFromString("34.99"), ReorderLevel: 10, ImageURL: "https://images.unsplash.com/photo-1527443224154-c4a3942d3acf?w=400"},
	{Name: "Webcam HD", SKU: "WC-005", Category: "Electronics", Quantity: 120, UnitPrice: decimal.RequireFromString("79.99"), ReorderLevel: 25, ImageURL: "https://images.unsplash.com/photo-1587826080692-f439cd0b70da?w=400"},
}

var seedSuppliers = []model.Supplier{
	{Name: "Tech Distributors Ltd", ContactPerson: "John Smith", Email: "john@techdist.com", Phone: "+1-555-0101", OutstandingBalance: decimal.RequireFromString("15000.00")},
	{Name: "Global Electronics", ContactPerson: "Sarah Johnson", Email: "sarah@globalelec.com", Phone: "+1-555-0102", OutstandingBalance: decimal.RequireFromString("8500.00")},
	{Name: "Office Supplies Co", ContactPerson: "Mike Brown", Email: "mike@officesupplies.com", Phone: "+1-555-0103", OutstandingBalance: decimal.RequireFromString("3200.00")},
}

// Seed inserts the sample catalog. Rows whose SKU or email already exist are left
// untouched, so running it on every start is safe.
func Seed(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := make([]model.Product, len(seedProducts))
		copy(products, seedProducts)
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sku"}},
			DoNothing: true,
		}).Create(&products).Error; err != nil {
			return err
		}

		suppliers := make([]model.Supplier, len(seedSuppliers))
		copy(suppliers, seedSuppliers)
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).Create(&suppliers).Error
	})
}
