package repository

import (
	"context"

	"inventory/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *model.Purchase) error
	CreateItem(ctx context.Context, item *model.PurchaseItem) error
	FindByIDWithItems(ctx context.Context, id uint) (*model.Purchase, error)
	List(ctx context.Context, limit, offset int) ([]model.Purchase, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

// Create inserts the header only; items are written one by one with CreateItem.
func (r *purchaseRepository) Create(ctx context.Context, purchase *model.Purchase) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(purchase).Error
}

func (r *purchaseRepository) CreateItem(ctx context.Context, item *model.PurchaseItem) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(item).Error
}

func (r *purchaseRepository) FindByIDWithItems(ctx context.Context, id uint) (*model.Purchase, error) {
	var purchase model.Purchase
	if err := GetDB(ctx, r.db).
		Preload("Supplier").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Items.Product").
		First(&purchase, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

// List returns purchase headers with their supplier, most recent purchase date first.
func (r *purchaseRepository) List(ctx context.Context, limit, offset int) ([]model.Purchase, error) {
	var purchases []model.Purchase
	db := GetDB(ctx, r.db).
		Preload("Supplier").
		Order("purchase_date desc").
		Order("id desc")
	if limit > 0 {
		db = db.Offset(offset).Limit(limit)
	}
	if err := db.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}
