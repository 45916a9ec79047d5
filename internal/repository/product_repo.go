package repository

import (
	"context"
	"time"

	"inventory/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, id uint, product *model.Product) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, limit, offset int) ([]model.Product, error)
	AdjustStock(ctx context.Context, id uint, delta int, allowNegative bool) (bool, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

// Update replaces every mutable column of product id. A missing id is not an error here.
func (r *productRepository) Update(ctx context.Context, id uint, product *model.Product) error {
	return GetDB(ctx, r.db).Model(&model.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":          product.Name,
		"sku":           product.SKU,
		"category":      product.Category,
		"quantity":      product.Quantity,
		"unit_price":    product.UnitPrice,
		"reorder_level": product.ReorderLevel,
		"image_url":     product.ImageURL,
		"description":   product.Description,
		"updated_at":    time.Now().UTC(),
	}).Error
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Product{}).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns products newest first. limit <= 0 returns every row.
func (r *productRepository) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	var products []model.Product
	db := GetDB(ctx, r.db).Order("created_at desc").Order("id desc")
	if limit > 0 {
		db = db.Offset(offset).Limit(limit)
	}
	if err := db.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// AdjustStock adds delta to the product quantity in a single UPDATE so concurrent
// orders on the same product never lose an update. When allowNegative is false the
// update only applies if the result stays >= 0. The bool reports whether a row changed.
func (r *productRepository) AdjustStock(ctx context.Context, id uint, delta int, allowNegative bool) (bool, error) {
	db := GetDB(ctx, r.db).Model(&model.Product{}).Where("id = ?", id)
	if !allowNegative && delta < 0 {
		db = db.Where("quantity >= ?", -delta)
	}
	result := db.Updates(map[string]interface{}{
		"quantity":   gorm.Expr("quantity + ?", delta),
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
