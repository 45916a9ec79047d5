package repository

import (
	"context"

	"inventory/internal/model"

	"gorm.io/gorm"
)

// StockMovementRepository is append-only: there is no update or delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *model.StockMovement) error
	ListByProduct(ctx context.Context, productID uint, limit, offset int) ([]model.StockMovement, error)
}

type stockMovementRepository struct {
	db *gorm.DB
}

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) Create(ctx context.Context, movement *model.StockMovement) error {
	return GetDB(ctx, r.db).Omit("Product").Create(movement).Error
}

func (r *stockMovementRepository) ListByProduct(ctx context.Context, productID uint, limit, offset int) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	db := GetDB(ctx, r.db).Where("product_id = ?", productID).Order("created_at desc").Order("id desc")
	if limit > 0 {
		db = db.Offset(offset).Limit(limit)
	}
	if err := db.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
