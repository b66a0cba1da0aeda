package dto

import (
	"github.com/shopspring/decimal"

	"github.com/spec-kit/grocery-service/internal/domain"
)

// DashboardTotals groups the headline numbers.
type DashboardTotals struct {
	Revenue      decimal.Decimal      `json:"revenue"`
	TodayRevenue decimal.Decimal      `json:"today_revenue"`
	Orders       int                  `json:"orders"`
	Status       domain.StatusBuckets `json:"status"`
}

// DashboardResponse is the analytics payload.
type DashboardResponse struct {
	Totals      DashboardTotals       `json:"totals"`
	Series      []domain.DailyRevenue `json:"series"`
	BestSellers []domain.BestSeller   `json:"best_sellers"`
	Recent      []OrderResponse       `json:"recent"`
}

// NewDashboardResponse maps a dashboard.
func NewDashboardResponse(d *domain.Dashboard) DashboardResponse {
	return DashboardResponse{
		Totals: DashboardTotals{
			Revenue:      d.TotalRevenue,
			TodayRevenue: d.TodayRevenue,
			Orders:       d.TotalOrders,
			Status:       d.Buckets,
		},
		Series:      d.Series,
		BestSellers: d.BestSellers,
		Recent:      NewOrderResponses(d.Recent),
	}
}
