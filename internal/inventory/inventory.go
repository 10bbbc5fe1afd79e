// Package inventory is the single mutation point for product stock. Every
// change goes through ApplyStockChange so that each mutation produces
// exactly one ledger row.
package inventory

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/alwahda/fabricshop/internal/models"
)

const DefaultLowStockThreshold = 10

var ErrProductNotFound = errors.New("product not found")

// ApplyStockChange sets the product's stock to newStock and appends one
// InventoryLog row recording the before/after snapshot. The action tag is
// derived from the sign of the delta. Callers that must not drive stock
// negative validate newStock before calling; checkout deliberately does not.
func ApplyStockChange(tx *gorm.DB, productID string, newStock int, reason string) (*models.InventoryLog, error) {
	var product models.Product
	if err := tx.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	previous := product.Stock
	delta := newStock - previous

	action := models.StockActionAdjustment
	switch {
	case delta > 0:
		action = models.StockActionAdd
	case delta < 0:
		action = models.StockActionRemove
	}
	if reason == "" {
		reason = fmt.Sprintf("Stock %s", action)
	}

	if err := tx.Model(&models.Product{}).Where("id = ?", productID).
		Update("stock", newStock).Error; err != nil {
		return nil, err
	}

	entry := models.InventoryLog{
		ProductID:     productID,
		Action:        action,
		Quantity:      abs(delta),
		PreviousStock: previous,
		NewStock:      newStock,
		Reason:        reason,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// LowStock returns active products at or below the threshold, ascending by
// stock, to drive restock alerts.
func LowStock(db *gorm.DB, threshold int) ([]models.Product, error) {
	var products []models.Product
	err := db.Where("is_active = ? AND stock <= ?", true, threshold).
		Order("stock ASC").
		Find(&products).Error
	return products, err
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
