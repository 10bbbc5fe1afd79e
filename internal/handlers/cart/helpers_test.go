package cart

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alwahda/fabricshop/internal/config"
	"github.com/alwahda/fabricshop/internal/events"
	"github.com/alwahda/fabricshop/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func newHandler(db *gorm.DB) *CartHandler {
	return &CartHandler{DB: db, Producer: events.Noop{}}
}

// userContext builds an echo context the way the session middleware would
// hand it to the handler.
func userContext(t *testing.T, e *echo.Echo, user *models.User, method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", user)
	c.Set("userID", user.ID)
	c.Set("role", user.Role)
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func requireHTTPError(t *testing.T, err error, code int) {
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	require.Equal(t, code, he.Code)
}

func createUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	user := models.User{
		Email:        email,
		PasswordHash: "x",
		Name:         name,
		Role:         models.RoleCustomer,
	}
	require.NoError(t, db.Create(&user).Error)

	customer := models.Customer{
		UserID:     user.ID,
		Name:       name,
		Email:      email,
		TotalSpent: decimal.Zero,
	}
	require.NoError(t, db.Create(&customer).Error)
	return &user
}

func createProduct(t *testing.T, db *gorm.DB, name, price string, stock int) models.Product {
	p := models.Product{
		Name:        name,
		Description: "test fabric",
		Price:       decimal.RequireFromString(price),
		CategoryID:  "silk",
		Stock:       stock,
		Barcode:     "||||| |||| ||||",
		IsActive:    true,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func addToCart(t *testing.T, e *echo.Echo, h *CartHandler, user *models.User, productID string, quantity int) models.CartItem {
	c, rec := userContext(t, e, user, "POST", "/api/cart/add", map[string]any{
		"productId": productID,
		"quantity":  quantity,
	})
	require.NoError(t, h.AddToCart(c))
	require.Equal(t, 201, rec.Code)

	var item models.CartItem
	decodeBody(t, rec, &item)
	return item
}
