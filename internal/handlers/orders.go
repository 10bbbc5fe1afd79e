package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/alwahda/fabricshop/internal/events"
	"github.com/alwahda/fabricshop/internal/models"
)

var orderStatuses = map[string]bool{
	models.OrderStatusPending:    true,
	models.OrderStatusProcessing: true,
	models.OrderStatusShipped:    true,
	models.OrderStatusDelivered:  true,
	models.OrderStatusCancelled:  true,
}

var paymentStatuses = map[string]bool{
	models.PaymentStatusPending:  true,
	models.PaymentStatusPaid:     true,
	models.PaymentStatusFailed:   true,
	models.PaymentStatusRefunded: true,
}

type OrdersHandler struct {
	DB       *gorm.DB
	Producer events.Publisher
}

func (h *OrdersHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicOrderEvents, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *OrdersHandler) ListOrders(c echo.Context) error {
	var orders []models.Order
	if err := h.DB.Order("created_at DESC").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrdersHandler) GetOrder(c echo.Context) error {
	order, err := h.loadOrder(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrdersHandler) UpdateStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if !orderStatuses[req.Status] {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown order status")
	}

	order, err := h.loadOrder(c.Param("id"))
	if err != nil {
		return err
	}

	order.Status = req.Status
	if err := h.DB.Save(order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, order.ID, map[string]any{
		"type":    "order_status_changed",
		"orderID": order.ID,
		"status":  order.Status,
	})
	return c.JSON(http.StatusOK, order)
}

func (h *OrdersHandler) UpdatePaymentStatus(c echo.Context) error {
	var req struct {
		PaymentStatus string `json:"paymentStatus"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if !paymentStatuses[req.PaymentStatus] {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown payment status")
	}

	order, err := h.loadOrder(c.Param("id"))
	if err != nil {
		return err
	}

	order.PaymentStatus = req.PaymentStatus
	if err := h.DB.Save(order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, order.ID, map[string]any{
		"type":          "order_payment_status_changed",
		"orderID":       order.ID,
		"paymentStatus": order.PaymentStatus,
	})
	return c.JSON(http.StatusOK, order)
}

func (h *OrdersHandler) UpdateTracking(c echo.Context) error {
	var req struct {
		TrackingNumber string `json:"trackingNumber"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.TrackingNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "trackingNumber is required")
	}

	order, err := h.loadOrder(c.Param("id"))
	if err != nil {
		return err
	}

	order.TrackingNumber = req.TrackingNumber
	if err := h.DB.Save(order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, order.ID, map[string]any{
		"type":           "order_tracking_set",
		"orderID":        order.ID,
		"trackingNumber": order.TrackingNumber,
	})
	return c.JSON(http.StatusOK, order)
}

func (h *OrdersHandler) loadOrder(id string) (*models.Order, error) {
	var order models.Order
	if err := h.DB.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return &order, nil
}
