package cart

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/alwahda/fabricshop/internal/events"
	middleware "github.com/alwahda/fabricshop/internal/middleware/auth"
	"github.com/alwahda/fabricshop/internal/models"
	"github.com/alwahda/fabricshop/internal/pricing"
)

type CartHandler struct {
	DB       *gorm.DB
	Producer events.Publisher
}

// ItemView is a cart row joined with live product data for display. The
// charged price stays PriceAtTime; CurrentPrice is informational.
type ItemView struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId"`
	Quantity     int             `json:"quantity"`
	PriceAtTime  decimal.Decimal `json:"priceAtTime"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	Stock        int             `json:"stock"`
}

func (h *CartHandler) GetCart(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	cart, err := getOrCreateCart(h.DB, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views, total, err := loadCartView(h.DB, cart.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"items": views, "total": total})
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Quantity < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be at least 1")
	}

	var product models.Product
	if err := h.DB.First(&product, "id = ?", req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if req.Quantity > product.Stock {
		return echo.NewHTTPError(http.StatusBadRequest, "insufficient stock")
	}

	cart, err := getOrCreateCart(h.DB, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var item models.CartItem
	tx := h.DB.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).First(&item)
	if tx.Error == nil {
		// Merge into the existing row; the captured price stays pegged to
		// the first add.
		item.Quantity += req.Quantity
		if err := h.DB.Save(&item).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		h.publish(c, user.ID, map[string]any{
			"type":      "cart_item_added",
			"userID":    user.ID,
			"productID": product.ID,
			"quantity":  item.Quantity,
		})
		return c.JSON(http.StatusCreated, item)
	}
	if !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, tx.Error.Error())
	}

	newItem := models.CartItem{
		CartID:      cart.ID,
		ProductID:   product.ID,
		Quantity:    req.Quantity,
		PriceAtTime: product.Price,
	}
	if err := h.DB.Create(&newItem).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, user.ID, map[string]any{
		"type":      "cart_item_added",
		"userID":    user.ID,
		"productID": product.ID,
		"quantity":  newItem.Quantity,
	})
	return c.JSON(http.StatusCreated, newItem)
}

func (h *CartHandler) UpdateCartItem(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Quantity < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be at least 1")
	}

	item, err := ownedCartItem(h.DB, c.Param("itemId"), user.ID)
	if err != nil {
		return err
	}

	item.Quantity = req.Quantity
	if err := h.DB.Save(item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, user.ID, map[string]any{
		"type":     "cart_item_updated",
		"userID":   user.ID,
		"itemID":   item.ID,
		"quantity": item.Quantity,
	})
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) RemoveCartItem(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	item, err := ownedCartItem(h.DB, c.Param("itemId"), user.ID)
	if err != nil {
		return err
	}

	if err := h.DB.Delete(item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, user.ID, map[string]any{
		"type":   "cart_item_removed",
		"userID": user.ID,
		"itemID": item.ID,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "item removed"})
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var cart models.Cart
	err = h.DB.Where("user_id = ?", user.ID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusOK, echo.Map{"message": "cart cleared"})
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, user.ID, map[string]any{
		"type":   "cart_cleared",
		"userID": user.ID,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "cart cleared"})
}

func loadCartView(db *gorm.DB, cartID string) ([]ItemView, decimal.Decimal, error) {
	var items []models.CartItem
	if err := db.Where("cart_id = ?", cartID).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, decimal.Zero, err
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	productsByID := map[string]models.Product{}
	if len(ids) > 0 {
		var products []models.Product
		if err := db.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return nil, decimal.Zero, err
		}
		for _, p := range products {
			productsByID[p.ID] = p
		}
	}

	views := make([]ItemView, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		p := productsByID[it.ProductID]
		view := ItemView{
			ID:           it.ID,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			PriceAtTime:  it.PriceAtTime,
			ProductName:  p.Name,
			CurrentPrice: p.Price,
			Stock:        p.Stock,
		}
		if len(p.Images) > 0 {
			view.ProductImage = p.Images[0]
		}
		views = append(views, view)
		total = total.Add(pricing.Line(it.PriceAtTime, it.Quantity))
	}
	return views, total, nil
}
