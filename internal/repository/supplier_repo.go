package repository

import (
	"context"
	"time"

	"inventory/internal/model"

	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(ctx context.Context, supplier *model.Supplier) error
	Update(ctx context.Context, id uint, supplier *model.Supplier) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Supplier, error)
	List(ctx context.Context, limit, offset int) ([]model.Supplier, error)
}

type supplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(ctx context.Context, supplier *model.Supplier) error {
	return GetDB(ctx, r.db).Create(supplier).Error
}

func (r *supplierRepository) Update(ctx context.Context, id uint, supplier *model.Supplier) error {
	return GetDB(ctx, r.db).Model(&model.Supplier{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":                supplier.Name,
		"contact_person":      supplier.ContactPerson,
		"email":               supplier.Email,
		"phone":               supplier.Phone,
		"address":             supplier.Address,
		"outstanding_balance": supplier.OutstandingBalance,
		"updated_at":          time.Now().UTC(),
	}).Error
}

func (r *supplierRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Supplier{}).Error
}

func (r *supplierRepository) FindByID(ctx context.Context, id uint) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := GetDB(ctx, r.db).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// List returns suppliers alphabetically. limit <= 0 returns every row.
func (r *supplierRepository) List(ctx context.Context, limit, offset int) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	db := GetDB(ctx, r.db).Order("name asc").Order("id asc")
	if limit > 0 {
		db = db.Offset(offset).Limit(limit)
	}
	if err := db.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}
