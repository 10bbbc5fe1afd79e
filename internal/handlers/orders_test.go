package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alwahda/fabricshop/internal/events"
	"github.com/alwahda/fabricshop/internal/models"
)

func createTestOrder(t *testing.T, db *gorm.DB, email, total string) models.Order {
	order := models.Order{
		UserID:          "user-1",
		CustomerName:    "Amira",
		CustomerEmail:   email,
		ShippingAddress: models.Address{Street: "1 Souk Lane", City: "Dubai"},
		Subtotal:        decimal.RequireFromString(total),
		Tax:             decimal.Zero,
		Shipping:        decimal.Zero,
		Total:           decimal.RequireFromString(total),
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   "card",
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestListAndGetOrders(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := &OrdersHandler{DB: db, Producer: events.Noop{}}

	order := createTestOrder(t, db, "amira@example.com", "51.25")
	createTestOrder(t, db, "amira@example.com", "30.00")

	c, rec := jsonContext(t, e, http.MethodGet, "/api/orders", nil)
	require.NoError(t, h.ListOrders(c))
	var orders []models.Order
	decodeBody(t, rec, &orders)
	require.Len(t, orders, 2)

	c, rec = jsonContext(t, e, http.MethodGet, "/api/orders/"+order.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(order.ID)
	require.NoError(t, h.GetOrder(c))
	var got models.Order
	decodeBody(t, rec, &got)
	require.Equal(t, order.ID, got.ID)

	c, _ = jsonContext(t, e, http.MethodGet, "/api/orders/missing", nil)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	requireHTTPError(t, h.GetOrder(c), http.StatusNotFound)
}

func TestUpdateOrderStatus(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := &OrdersHandler{DB: db, Producer: events.Noop{}}

	order := createTestOrder(t, db, "amira@example.com", "51.25")

	c, rec := jsonContext(t, e, http.MethodPut, "/api/orders/"+order.ID+"/status", map[string]any{"status": models.OrderStatusShipped})
	c.SetParamNames("id")
	c.SetParamValues(order.ID)
	require.NoError(t, h.UpdateStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, "id = ?", order.ID).Error)
	require.Equal(t, models.OrderStatusShipped, reloaded.Status)
	// Money fields are frozen at creation.
	require.True(t, reloaded.Total.Equal(order.Total))
}

func TestUpdateOrderStatusRejectsUnknown(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := &OrdersHandler{DB: db, Producer: events.Noop{}}

	order := createTestOrder(t, db, "amira@example.com", "51.25")

	c, _ := jsonContext(t, e, http.MethodPut, "/api/orders/"+order.ID+"/status", map[string]any{"status": "teleported"})
	c.SetParamNames("id")
	c.SetParamValues(order.ID)
	requireHTTPError(t, h.UpdateStatus(c), http.StatusBadRequest)
}

func TestUpdatePaymentStatus(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := &OrdersHandler{DB: db, Producer: events.Noop{}}

	order := createTestOrder(t, db, "amira@example.com", "51.25")

	c, rec := jsonContext(t, e, http.MethodPatch, "/api/orders/"+order.ID+"/payment-status", map[string]any{"paymentStatus": models.PaymentStatusPaid})
	c.SetParamNames("id")
	c.SetParamValues(order.ID)
	require.NoError(t, h.UpdatePaymentStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, "id = ?", order.ID).Error)
	require.Equal(t, models.PaymentStatusPaid, reloaded.PaymentStatus)

	c, _ = jsonContext(t, e, http.MethodPatch, "/api/orders/"+order.ID+"/payment-status", map[string]any{"paymentStatus": "iou"})
	c.SetParamNames("id")
	c.SetParamValues(order.ID)
	requireHTTPError(t, h.UpdatePaymentStatus(c), http.StatusBadRequest)
}

func TestUpdateTracking(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := &OrdersHandler{DB: db, Producer: events.Noop{}}

	order := createTestOrder(t, db, "amira@example.com", "51.25")

	c, rec := jsonContext(t, e, http.MethodPatch, "/api/orders/"+order.ID+"/tracking", map[string]any{"trackingNumber": "TRK-1234"})
	c.SetParamNames("id")
	c.SetParamValues(order.ID)
	require.NoError(t, h.UpdateTracking(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, "id = ?", order.ID).Error)
	require.Equal(t, "TRK-1234", reloaded.TrackingNumber)

	c, _ = jsonContext(t, e, http.MethodPatch, "/api/orders/"+order.ID+"/tracking", map[string]any{"trackingNumber": ""})
	c.SetParamNames("id")
	c.SetParamValues(order.ID)
	requireHTTPError(t, h.UpdateTracking(c), http.StatusBadRequest)
}
