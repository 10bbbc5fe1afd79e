package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/alwahda/fabricshop/internal/events"
	"github.com/alwahda/fabricshop/internal/inventory"
	"github.com/alwahda/fabricshop/internal/logging"
	middleware "github.com/alwahda/fabricshop/internal/middleware/auth"
	"github.com/alwahda/fabricshop/internal/models"
	"github.com/alwahda/fabricshop/internal/pricing"
)

// Checkout converts the user's cart into an order. Everything runs in one
// transaction: order insert, per-item stock decrement with a ledger row
// each, cart clear and the customer aggregate bump. Stock is not
// re-validated here, so concurrent checkouts can still drive it negative.
func (h *CartHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req struct {
		ShippingAddress models.Address  `json:"shippingAddress"`
		BillingAddress  *models.Address `json:"billingAddress"`
		PaymentMethod   string          `json:"paymentMethod"`
		Notes           string          `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.PaymentMethod == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "paymentMethod is required")
	}
	if req.ShippingAddress.Street == "" || req.ShippingAddress.City == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "shipping address is incomplete")
	}

	var order models.Order
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreateCart(tx, user.ID)
		if err != nil {
			return err
		}

		var items []models.CartItem
		if err := tx.Where("cart_id = ?", cart.ID).Order("created_at ASC").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		subtotal := decimal.Zero
		snapshot := make([]models.OrderItem, 0, len(items))
		stocks := make(map[string]int, len(items))
		for _, it := range items {
			var product models.Product
			if err := tx.First(&product, "id = ?", it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusBadRequest, "product no longer available")
				}
				return err
			}
			line := pricing.Line(it.PriceAtTime, it.Quantity)
			snapshot = append(snapshot, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    it.Quantity,
				UnitPrice:   it.PriceAtTime,
				LineTotal:   line,
			})
			stocks[product.ID] = product.Stock
			subtotal = subtotal.Add(line)
		}

		quote := pricing.Compute(subtotal)

		order = models.Order{
			UserID:          user.ID,
			CustomerName:    user.Name,
			CustomerEmail:   user.Email,
			CustomerPhone:   user.Phone,
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  req.BillingAddress,
			Subtotal:        quote.Subtotal,
			Tax:             quote.Tax,
			Shipping:        quote.Shipping,
			Total:           quote.Total,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusPending,
			PaymentMethod:   req.PaymentMethod,
			Items:           snapshot,
			Notes:           req.Notes,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, it := range items {
			reason := fmt.Sprintf("Order %s", order.ID)
			if _, err := inventory.ApplyStockChange(tx, it.ProductID, stocks[it.ProductID]-it.Quantity, reason); err != nil {
				return err
			}
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		return bumpCustomerAggregate(tx, user.Email, order.Total)
	})
	if txErr != nil {
		var he *echo.HTTPError
		if errors.As(txErr, &he) {
			return he
		}
		l.Error("checkout_error", "userID", user.ID, "error", txErr)
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	h.publishOrder(c, user.ID, map[string]any{
		"type":    "order_created",
		"userID":  user.ID,
		"orderID": order.ID,
		"total":   order.Total,
	})

	l.Info("checkout_success", "userID", user.ID, "orderID", order.ID)
	return c.JSON(http.StatusCreated, echo.Map{"order": order})
}

func (h *CartHandler) publishOrder(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicOrderEvents, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// bumpCustomerAggregate increments the denormalized rollup; a missing
// customer record is a no-op, not an error.
func bumpCustomerAggregate(tx *gorm.DB, email string, total decimal.Decimal) error {
	var customer models.Customer
	err := tx.Where("email = ?", email).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	now := time.Now()
	customer.TotalOrders++
	customer.TotalSpent = customer.TotalSpent.Add(total)
	customer.LastOrderAt = &now
	return tx.Save(&customer).Error
}
