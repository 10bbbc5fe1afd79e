package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/alwahda/fabricshop/internal/events"
	"github.com/alwahda/fabricshop/internal/inventory"
	"github.com/alwahda/fabricshop/internal/models"
)

type InventoryHandler struct {
	DB       *gorm.DB
	Producer events.Publisher
}

func (h *InventoryHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicInventoryEvents, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *InventoryHandler) GetLogs(c echo.Context) error {
	q := h.DB.Model(&models.InventoryLog{}).Order("created_at DESC")
	if productID := c.QueryParam("productId"); productID != "" {
		q = q.Where("product_id = ?", productID)
	} else {
		q = q.Limit(100)
	}

	var logs []models.InventoryLog
	if err := q.Find(&logs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, logs)
}

func (h *InventoryHandler) GetLowStock(c echo.Context) error {
	threshold := parseIntDefault(c.QueryParam("threshold"), inventory.DefaultLowStockThreshold)
	if threshold < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid threshold")
	}

	products, err := inventory.LowStock(h.DB, threshold)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, products)
}

func (h *InventoryHandler) UpdateStock(c echo.Context) error {
	var req struct {
		ProductID string `json:"productId"`
		NewStock  *int   `json:"newStock"`
		Reason    string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == "" || req.NewStock == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "productId and newStock are required")
	}
	if *req.NewStock < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "newStock must not be negative")
	}

	var entry *models.InventoryLog
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = inventory.ApplyStockChange(tx, req.ProductID, *req.NewStock, req.Reason)
		return err
	})
	if txErr != nil {
		if errors.Is(txErr, inventory.ErrProductNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	h.publish(c, req.ProductID, map[string]any{
		"type":      "stock_updated",
		"productID": req.ProductID,
		"action":    entry.Action,
		"newStock":  entry.NewStock,
	})
	return c.JSON(http.StatusOK, entry)
}
