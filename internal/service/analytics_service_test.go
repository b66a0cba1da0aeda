package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/grocery-service/internal/domain"
	apperrors "github.com/spec-kit/grocery-service/pkg/util/errorutil"
)

// Wednesday.
var analyticsNow = time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)

func line(name string, price string, qty int) domain.OrderLine {
	return domain.OrderLine{Name: name, Price: dec(price), Quantity: qty}
}

func TestBuildDashboard_BestSellersKeyedByName(t *testing.T) {
	orders := []domain.Order{
		{ID: "1", Amount: dec("6"), CreatedAt: analyticsNow, Items: []domain.OrderLine{line("Milk", "1", 3)}},
		{ID: "2", Amount: dec("4"), CreatedAt: analyticsNow, Items: []domain.OrderLine{line("Milk", "2", 2)}},
	}
	dashboard := BuildDashboard(orders, analyticsNow)

	require.Len(t, dashboard.BestSellers, 1)
	assert.Equal(t, "Milk", dashboard.BestSellers[0].Name)
	assert.Equal(t, 5, dashboard.BestSellers[0].Count)
	assert.True(t, dashboard.BestSellers[0].Revenue.Equal(dec("7")))
}

func TestBuildDashboard_BestSellersTopFive(t *testing.T) {
	items := []domain.OrderLine{
		line("Eggs", "1", 1), line("Bread", "1", 7), line("Tea", "1", 3),
		line("Apples", "1", 3), line("Rice", "1", 9), line("Salt", "1", 2),
	}
	dashboard := BuildDashboard([]domain.Order{{ID: "1", CreatedAt: analyticsNow, Items: items}}, analyticsNow)

	names := make([]string, 0, len(dashboard.BestSellers))
	for _, seller := range dashboard.BestSellers {
		names = append(names, seller.Name)
	}
	assert.Equal(t, []string{"Rice", "Bread", "Apples", "Tea", "Salt"}, names)
}

func TestBuildDashboard_TotalsBucketsAndSeries(t *testing.T) {
	today := analyticsNow.Add(-2 * time.Hour)
	yesterday := analyticsNow.AddDate(0, 0, -1)
	sixDaysAgo := time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC)
	tooOld := time.Date(2026, 10, 7, 23, 59, 59, 0, time.UTC)

	orders := []domain.Order{
		{ID: "a", Amount: dec("10"), Status: domain.OrderStatusPlaced, CreatedAt: today},
		{ID: "b", Amount: dec("20"), Status: domain.OrderStatusProcessing, CreatedAt: today},
		{ID: "c", Amount: dec("30"), Status: domain.OrderStatusShipped, CreatedAt: yesterday},
		{ID: "d", Amount: dec("40"), Status: domain.OrderStatusDelivered, CreatedAt: sixDaysAgo},
		{ID: "e", Amount: dec("50"), Status: domain.OrderStatusCancelled, CreatedAt: tooOld},
		{ID: "f", Amount: dec("1"), Status: "", CreatedAt: tooOld},
	}
	dashboard := BuildDashboard(orders, analyticsNow)

	assert.True(t, dashboard.TotalRevenue.Equal(dec("151")))
	assert.True(t, dashboard.TodayRevenue.Equal(dec("30")))
	assert.Equal(t, 6, dashboard.TotalOrders)
	assert.Equal(t, domain.StatusBuckets{Pending: 2, Processing: 2, Delivered: 1}, dashboard.Buckets)

	require.Len(t, dashboard.Series, 7)
	assert.Equal(t, "Thu", dashboard.Series[0].Label)
	assert.Equal(t, "2026-10-08", dashboard.Series[0].Date)
	assert.True(t, dashboard.Series[0].Revenue.Equal(dec("40")))
	assert.Equal(t, "Wed", dashboard.Series[6].Label)
	assert.True(t, dashboard.Series[5].Revenue.Equal(dec("30")))
	assert.True(t, dashboard.Series[6].Revenue.Equal(dec("30")))
	assert.True(t, dashboard.Series[3].Revenue.IsZero())
}

func TestBuildDashboard_RecentOrders(t *testing.T) {
	var orders []domain.Order
	for i := 0; i < 7; i++ {
		orders = append(orders, domain.Order{
			ID:        string(rune('a' + i)),
			CreatedAt: analyticsNow.Add(-time.Duration(i) * time.Hour),
		})
	}
	dashboard := BuildDashboard(orders, analyticsNow)

	require.Len(t, dashboard.Recent, 5)
	assert.Equal(t, "a", dashboard.Recent[0].ID)
	assert.Equal(t, "e", dashboard.Recent[4].ID)
}

func TestBuildDashboard_Empty(t *testing.T) {
	dashboard := BuildDashboard(nil, analyticsNow)
	assert.True(t, dashboard.TotalRevenue.IsZero())
	assert.Len(t, dashboard.Series, 7)
	assert.Empty(t, dashboard.BestSellers)
	assert.Empty(t, dashboard.Recent)
}

func TestAnalyticsService_Dashboard(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.put(domain.Order{ID: "1", Amount: dec("12"), CreatedAt: analyticsNow})
	svc := NewAnalyticsService(repo)
	svc.now = func() time.Time { return analyticsNow }

	dashboard, err := svc.Dashboard(context.Background(), domain.Actor{ID: "acct", Role: domain.RoleAccountant})
	require.NoError(t, err)
	assert.True(t, dashboard.TodayRevenue.Equal(dec("12")))

	_, err = svc.Dashboard(context.Background(), rider)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}
