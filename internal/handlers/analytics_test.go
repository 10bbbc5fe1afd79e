package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/alwahda/fabricshop/internal/models"
)

func TestGetStats(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := &AnalyticsHandler{DB: db}

	createTestProduct(t, db, "Premium Blue Silk", "45.00", 100)
	createTestProduct(t, db, "Organic Red Cotton", "32.00", 8)

	createTestOrder(t, db, "amira@example.com", "51.25")
	shipped := createTestOrder(t, db, "amira@example.com", "30.00")
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", shipped.ID).Update("status", models.OrderStatusShipped).Error)

	c, rec := jsonContext(t, e, http.MethodGet, "/api/analytics/stats", nil)
	require.NoError(t, h.GetStats(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		TotalProducts  int             `json:"totalProducts"`
		TotalOrders    int             `json:"totalOrders"`
		TotalRevenue   decimal.Decimal `json:"totalRevenue"`
		MonthlyRevenue decimal.Decimal `json:"monthlyRevenue"`
		TodayOrders    int             `json:"todayOrders"`
		StatusCounts   map[string]int  `json:"statusCounts"`
		LowStockCount  int             `json:"lowStockCount"`
		RecentOrders   []models.Order  `json:"recentOrders"`
	}
	decodeBody(t, rec, &stats)

	require.Equal(t, 2, stats.TotalProducts)
	require.Equal(t, 2, stats.TotalOrders)
	require.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("81.25")), "totalRevenue = %s", stats.TotalRevenue)
	// Both orders were just created, so they count for this month and today.
	require.True(t, stats.MonthlyRevenue.Equal(decimal.RequireFromString("81.25")))
	require.Equal(t, 2, stats.TodayOrders)
	require.Equal(t, 1, stats.StatusCounts[models.OrderStatusPending])
	require.Equal(t, 1, stats.StatusCounts[models.OrderStatusShipped])
	require.Equal(t, 1, stats.LowStockCount)
	require.Len(t, stats.RecentOrders, 2)
}

func TestGetStatsRecentOrdersCapped(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := &AnalyticsHandler{DB: db}

	for i := 0; i < 7; i++ {
		createTestOrder(t, db, "amira@example.com", "10.00")
	}

	c, rec := jsonContext(t, e, http.MethodGet, "/api/analytics/stats", nil)
	require.NoError(t, h.GetStats(c))

	var stats struct {
		TotalOrders  int            `json:"totalOrders"`
		RecentOrders []models.Order `json:"recentOrders"`
	}
	decodeBody(t, rec, &stats)
	require.Equal(t, 7, stats.TotalOrders)
	require.Len(t, stats.RecentOrders, 5)
}

func TestGetStatsEmptyDatabase(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := &AnalyticsHandler{DB: db}

	c, rec := jsonContext(t, e, http.MethodGet, "/api/analytics/stats", nil)
	require.NoError(t, h.GetStats(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		TotalProducts int             `json:"totalProducts"`
		TotalOrders   int             `json:"totalOrders"`
		TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	}
	decodeBody(t, rec, &stats)
	require.Equal(t, 0, stats.TotalProducts)
	require.Equal(t, 0, stats.TotalOrders)
	require.True(t, stats.TotalRevenue.IsZero())
}
