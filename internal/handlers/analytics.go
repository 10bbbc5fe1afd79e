package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/alwahda/fabricshop/internal/inventory"
	"github.com/alwahda/fabricshop/internal/models"
)

type AnalyticsHandler struct {
	DB *gorm.DB
}

// GetStats recomputes every figure from full scans on each request. Fine at
// this catalog's scale; revisit before the row counts grow past a few
// thousand.
func (h *AnalyticsHandler) GetStats(c echo.Context) error {
	var products []models.Product
	if err := h.DB.Find(&products).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var orders []models.Order
	if err := h.DB.Order("created_at DESC").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	now := time.Now()
	today := now.Format("2006-01-02")
	month := now.Format("2006-01")

	totalRevenue := decimal.Zero
	monthlyRevenue := decimal.Zero
	todayOrders := 0
	statusCounts := map[string]int{}
	for _, o := range orders {
		totalRevenue = totalRevenue.Add(o.Total)
		if o.CreatedAt.Format("2006-01") == month {
			monthlyRevenue = monthlyRevenue.Add(o.Total)
		}
		if o.CreatedAt.Format("2006-01-02") == today {
			todayOrders++
		}
		statusCounts[o.Status]++
	}

	lowStockCount := 0
	for _, p := range products {
		if p.IsActive && p.Stock <= inventory.DefaultLowStockThreshold {
			lowStockCount++
		}
	}

	recent := orders
	if len(recent) > 5 {
		recent = recent[:5]
	}

	return c.JSON(http.StatusOK, echo.Map{
		"totalProducts":  len(products),
		"totalOrders":    len(orders),
		"totalRevenue":   totalRevenue,
		"monthlyRevenue": monthlyRevenue,
		"todayOrders":    todayOrders,
		"statusCounts":   statusCounts,
		"lowStockCount":  lowStockCount,
		"recentOrders":   recent,
	})
}
