package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats aggregates counts and today's order totals
type DashboardStats struct {
	TotalProducts  int64
	LowStockCount  int64
	TodaySales     decimal.Decimal
	TodayPurchases decimal.Decimal
}

// CategoryValuation is the stock value (quantity * unit price) of one category
type CategoryValuation struct {
	Category string
	Value    decimal.Decimal
}

// DatedAmount is one order total on its order date, the input of monthly revenue
type DatedAmount struct {
	Date   time.Time
	Amount decimal.Decimal
}
