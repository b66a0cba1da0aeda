package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/grocery-service/internal/auth"
	"github.com/spec-kit/grocery-service/internal/domain"
	"github.com/spec-kit/grocery-service/internal/repository"
	apperrors "github.com/spec-kit/grocery-service/pkg/util/errorutil"
)

const (
	seriesDays      = 7
	bestSellerLimit = 5
	recentLimit     = 5
)

// AnalyticsService recomputes the dashboard from the full ledger on every call.
type AnalyticsService struct {
	orders repository.OrderRepository
	now    func() time.Time
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(orders repository.OrderRepository) *AnalyticsService {
	return &AnalyticsService{orders: orders, now: time.Now}
}

// Dashboard loads every order and aggregates it.
func (s *AnalyticsService) Dashboard(ctx context.Context, actor domain.Actor) (*domain.Dashboard, error) {
	if err := auth.Authorize(actor.Role, auth.ActionViewAnalytics); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	dashboard := BuildDashboard(orders, s.now())
	return &dashboard, nil
}

// BuildDashboard aggregates orders relative to now. Day boundaries are
// midnights in now's location.
func BuildDashboard(orders []domain.Order, now time.Time) domain.Dashboard {
	loc := now.Location()
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	firstDay := today.AddDate(0, 0, -(seriesDays - 1))

	dashboard := domain.Dashboard{
		TotalRevenue: decimal.Zero,
		TodayRevenue: decimal.Zero,
		TotalOrders:  len(orders),
		Series:       make([]domain.DailyRevenue, seriesDays),
	}
	for i := range dashboard.Series {
		day := firstDay.AddDate(0, 0, i)
		dashboard.Series[i] = domain.DailyRevenue{
			Label:   day.Weekday().String()[:3],
			Date:    day.Format(time.DateOnly),
			Revenue: decimal.Zero,
		}
	}

	type sellerTotals struct {
		count   int
		revenue decimal.Decimal
	}
	sellers := make(map[string]*sellerTotals)

	for _, order := range orders {
		dashboard.TotalRevenue = dashboard.TotalRevenue.Add(order.Amount)

		created := order.CreatedAt.In(loc)
		if !created.Before(today) && created.Before(tomorrow) {
			dashboard.TodayRevenue = dashboard.TodayRevenue.Add(order.Amount)
		}
		if !created.Before(firstDay) && created.Before(tomorrow) {
			idx := dayIndex(firstDay, created)
			if idx >= 0 && idx < seriesDays {
				dashboard.Series[idx].Revenue = dashboard.Series[idx].Revenue.Add(order.Amount)
			}
		}

		switch order.Status {
		case domain.OrderStatusPlaced, "":
			dashboard.Buckets.Pending++
		case domain.OrderStatusProcessing, domain.OrderStatusShipped:
			dashboard.Buckets.Processing++
		case domain.OrderStatusDelivered:
			dashboard.Buckets.Delivered++
		}

		// Keyed by display name: distinct products sharing a name are merged.
		for _, line := range order.Items {
			totals, ok := sellers[line.Name]
			if !ok {
				totals = &sellerTotals{revenue: decimal.Zero}
				sellers[line.Name] = totals
			}
			totals.count += line.Quantity
			totals.revenue = totals.revenue.Add(line.Total())
		}
	}

	best := make([]domain.BestSeller, 0, len(sellers))
	for name, totals := range sellers {
		best = append(best, domain.BestSeller{Name: name, Count: totals.count, Revenue: totals.revenue})
	}
	sort.Slice(best, func(i, j int) bool {
		if best[i].Count != best[j].Count {
			return best[i].Count > best[j].Count
		}
		return best[i].Name < best[j].Name
	})
	if len(best) > bestSellerLimit {
		best = best[:bestSellerLimit]
	}
	dashboard.BestSellers = best

	recent := append([]domain.Order(nil), orders...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	dashboard.Recent = recent

	return dashboard
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dayIndex counts calendar days between from and t, robust to DST shifts.
func dayIndex(from, t time.Time) int {
	day := startOfDay(t)
	idx := 0
	for cursor := from; cursor.Before(day); cursor = cursor.AddDate(0, 0, 1) {
		idx++
	}
	return idx
}
