package service

import (
	"context"
	"fmt"
	"time"

	"inventory/internal/repository"

	"github.com/shopspring/decimal"
)

const chartMonths = 6

type DashboardStatsResponse struct {
	TotalProducts  int64   `json:"total_products"`
	LowStockCount  int64   `json:"low_stock_count"`
	TodaySales     float64 `json:"today_sales"`
	TodayPurchases float64 `json:"today_purchases"`
}

type MonthlyRevenue struct {
	Year     int     `json:"year"`
	MonthNum string  `json:"month_num"` // "01".."12"
	Month    string  `json:"month"`     // "Jan".."Dec"
	Revenue  float64 `json:"revenue"`
}

type CategoryValue struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

type ChartDataResponse struct {
	MonthlySales  []MonthlyRevenue `json:"monthly_sales"`
	CategoryStock []CategoryValue  `json:"category_stock"`
}

type ReportService interface {
	DashboardStats(ctx context.Context) (DashboardStatsResponse, error)
	ChartData(ctx context.Context) (ChartDataResponse, error)
}

type reportService struct {
	dashboardRepo repository.DashboardRepository
	now           func() time.Time
}

func NewReportService(dashboardRepo repository.DashboardRepository) ReportService {
	return &reportService{dashboardRepo: dashboardRepo, now: time.Now}
}

// DashboardStats sums the orders dated today (UTC).
func (s *reportService) DashboardStats(ctx context.Context) (DashboardStatsResponse, error) {
	today := startOfDay(s.now())

	stats, err := s.dashboardRepo.Stats(ctx, today, today.AddDate(0, 0, 1))
	if err != nil {
		return DashboardStatsResponse{}, err
	}

	return DashboardStatsResponse{
		TotalProducts:  stats.TotalProducts,
		LowStockCount:  stats.LowStockCount,
		TodaySales:     money(stats.TodaySales),
		TodayPurchases: money(stats.TodayPurchases),
	}, nil
}

// ChartData returns revenue for the current month and the five before it,
// oldest first, with empty months reported as 0.
func (s *reportService) ChartData(ctx context.Context) (ChartDataResponse, error) {
	now := s.now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(chartMonths - 1), 0)

	amounts, err := s.dashboardRepo.SaleAmountsSince(ctx, first)
	if err != nil {
		return ChartDataResponse{}, err
	}

	buckets := make([]decimal.Decimal, chartMonths)
	for _, a := range amounts {
		d := a.Date.UTC()
		idx := (d.Year()-first.Year())*12 + int(d.Month()) - int(first.Month())
		// sales dated in the future land past the window and are skipped
		if idx < 0 || idx >= chartMonths {
			continue
		}
		buckets[idx] = buckets[idx].Add(a.Amount)
	}

	monthly := make([]MonthlyRevenue, 0, chartMonths)
	for i := 0; i < chartMonths; i++ {
		m := first.AddDate(0, i, 0)
		monthly = append(monthly, MonthlyRevenue{
			Year:     m.Year(),
			MonthNum: fmt.Sprintf("%02d", int(m.Month())),
			Month:    m.Format("Jan"),
			Revenue:  money(buckets[i]),
		})
	}

	valuation, err := s.dashboardRepo.CategoryValuation(ctx)
	if err != nil {
		return ChartDataResponse{}, err
	}
	categories := make([]CategoryValue, 0, len(valuation))
	for _, v := range valuation {
		categories = append(categories, CategoryValue{Category: v.Category, Value: money(v.Value)})
	}

	return ChartDataResponse{MonthlySales: monthly, CategoryStock: categories}, nil
}
