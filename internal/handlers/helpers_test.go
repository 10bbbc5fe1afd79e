package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
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

	// A second pooled connection would see a different in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func jsonContext(t *testing.T, e *echo.Echo, method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func requireHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	require.Equal(t, code, he.Code)
	return he
}

func createTestProduct(t *testing.T, db *gorm.DB, name, price string, stock int) models.Product {
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

func newAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{DB: db, Producer: events.Noop{}}
}

func signupUser(t *testing.T, e *echo.Echo, h *AuthHandler, name, email, password string) (models.User, string) {
	c, rec := jsonContext(t, e, http.MethodPost, "/api/auth/signup", map[string]any{
		"name":            name,
		"email":           email,
		"password":        password,
		"confirmPassword": password,
	})
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		User      models.User `json:"user"`
		SessionID string      `json:"sessionId"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.User.ID)
	require.NotEmpty(t, resp.SessionID)
	return resp.User, resp.SessionID
}
