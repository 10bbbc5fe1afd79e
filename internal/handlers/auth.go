package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/alwahda/fabricshop/internal/events"
	"github.com/alwahda/fabricshop/internal/hash"
	"github.com/alwahda/fabricshop/internal/logging"
	middleware "github.com/alwahda/fabricshop/internal/middleware/auth"
	"github.com/alwahda/fabricshop/internal/models"
)

const sessionTTL = 7 * 24 * time.Hour

type AuthHandler struct {
	DB       *gorm.DB
	Producer events.Publisher
}

type authResponse struct {
	User      *models.User `json:"user"`
	SessionID string       `json:"sessionId"`
}

func (h *AuthHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicUserEvents, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req struct {
		Name            string          `json:"name"`
		Email           string          `json:"email"`
		Password        string          `json:"password"`
		ConfirmPassword string          `json:"confirmPassword"`
		Phone           string          `json:"phone"`
		Address         *models.Address `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	switch {
	case req.Name == "" || req.Email == "":
		return echo.NewHTTPError(http.StatusBadRequest, "name and email are required")
	case len(req.Password) < 6:
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 6 characters")
	case req.Password != req.ConfirmPassword:
		return echo.NewHTTPError(http.StatusBadRequest, "passwords do not match")
	}

	var existing models.User
	err := h.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not hash password")
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: pwHash,
		Name:         req.Name,
		Role:         models.RoleCustomer,
		Phone:        req.Phone,
		Address:      req.Address,
	}

	var session models.Session
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		customer := models.Customer{
			UserID:  user.ID,
			Name:    user.Name,
			Email:   user.Email,
			Phone:   user.Phone,
			Address: user.Address,
		}
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}
		session = newSession(user.ID)
		return tx.Create(&session).Error
	})
	if txErr != nil {
		l.Error("signup_error", "error", txErr)
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	h.publish(c, user.ID, map[string]any{
		"type":   "user_signed_up",
		"userID": user.ID,
		"email":  user.Email,
	})

	l.Info("signup_success", "userID", user.ID)
	return c.JSON(http.StatusCreated, authResponse{User: &user, SessionID: session.Token})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "email", req.Email)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	session := newSession(user.ID)
	if err := h.DB.Create(&session).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, user.ID, map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
	})

	l.Info("login_success", "userID", user.ID)
	return c.JSON(http.StatusOK, authResponse{User: &user, SessionID: session.Token})
}

// Logout deletes the session row unconditionally, so repeating it with the
// same token still answers 200.
func (h *AuthHandler) Logout(c echo.Context) error {
	token := middleware.BearerToken(c)
	if token != "" {
		if err := h.DB.Delete(&models.Session{}, "token = ?", token).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func newSession(userID string) models.Session {
	return models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
}
