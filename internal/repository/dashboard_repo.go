package repository

import (
	"context"
	"fmt"
	"time"

	"inventory/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardRepository holds the read-only reporting queries.
type DashboardRepository interface {
	Stats(ctx context.Context, dayStart, dayEnd time.Time) (model.DashboardStats, error)
	SaleAmountsSince(ctx context.Context, start time.Time) ([]model.DatedAmount, error)
	CategoryValuation(ctx context.Context) ([]model.CategoryValuation, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// Stats counts products and sums the order totals dated within [dayStart, dayEnd).
func (r *dashboardRepository) Stats(ctx context.Context, dayStart, dayEnd time.Time) (model.DashboardStats, error) {
	var stats model.DashboardStats
	db := GetDB(ctx, r.db)

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return stats, fmt.Errorf("failed to count products: %w", err)
	}
	if err := db.Model(&model.Product{}).Where("quantity <= reorder_level").Count(&stats.LowStockCount).Error; err != nil {
		return stats, fmt.Errorf("failed to count low stock products: %w", err)
	}

	var sales struct {
		Total decimal.Decimal
	}
	if err := db.Model(&model.Sale{}).
		Select("COALESCE(SUM(total_amount), 0) as total").
		Where("sale_date >= ? AND sale_date < ?", dayStart, dayEnd).
		Scan(&sales).Error; err != nil {
		return stats, fmt.Errorf("failed to sum sales: %w", err)
	}
	stats.TodaySales = sales.Total

	var purchases struct {
		Total decimal.Decimal
	}
	if err := db.Model(&model.Purchase{}).
		Select("COALESCE(SUM(total_amount), 0) as total").
		Where("purchase_date >= ? AND purchase_date < ?", dayStart, dayEnd).
		Scan(&purchases).Error; err != nil {
		return stats, fmt.Errorf("failed to sum purchases: %w", err)
	}
	stats.TodayPurchases = purchases.Total

	return stats, nil
}

// SaleAmountsSince returns (sale_date, total_amount) pairs; bucketing by month is left
// to the caller so the query stays portable across sqlite and postgres.
func (r *dashboardRepository) SaleAmountsSince(ctx context.Context, start time.Time) ([]model.DatedAmount, error) {
	var rows []model.DatedAmount
	if err := GetDB(ctx, r.db).Model(&model.Sale{}).
		Select("sale_date as date, total_amount as amount").
		Where("sale_date >= ?", start).
		Order("sale_date asc").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	return rows, nil
}

func (r *dashboardRepository) CategoryValuation(ctx context.Context) ([]model.CategoryValuation, error) {
	var rows []model.CategoryValuation
	if err := GetDB(ctx, r.db).Model(&model.Product{}).
		Select("category, SUM(quantity * unit_price) as value").
		Where("category IS NOT NULL AND category <> ''").
		Group("category").
		Order("category asc").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query category valuation: %w", err)
	}
	return rows, nil
}
