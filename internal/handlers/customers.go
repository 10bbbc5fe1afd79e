package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/alwahda/fabricshop/internal/models"
)

type CustomersHandler struct {
	DB *gorm.DB
}

func (h *CustomersHandler) ListCustomers(c echo.Context) error {
	var customers []models.Customer
	if err := h.DB.Order("last_order_at DESC").Find(&customers).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, customers)
}

func (h *CustomersHandler) GetCustomer(c echo.Context) error {
	var customer models.Customer
	if err := h.DB.First(&customer, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "customer not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, customer)
}

// RecomputeCustomerAggregate rebuilds the denormalized totals from order
// history. The normal path increments on checkout; this is the repair path
// for drift.
func RecomputeCustomerAggregate(db *gorm.DB, customerID string) (*models.Customer, error) {
	var customer models.Customer
	if err := db.First(&customer, "id = ?", customerID).Error; err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := db.Where("customer_email = ?", customer.Email).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Total)
	}

	customer.TotalOrders = len(orders)
	customer.TotalSpent = total
	if len(orders) > 0 {
		last := orders[len(orders)-1].CreatedAt
		customer.LastOrderAt = &last
	} else {
		customer.LastOrderAt = nil
	}

	if err := db.Save(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}
