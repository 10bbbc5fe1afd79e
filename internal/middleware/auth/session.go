package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/alwahda/fabricshop/internal/models"
)

// SessionGuard resolves bearer tokens to session rows. A token that is
// missing, unknown or past its expiry is rejected the same way; expiry is
// checked lazily here, there is no background sweep.
type SessionGuard struct {
	DB *gorm.DB
}

func (g *SessionGuard) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := g.resolve(c)
		if err != nil {
			return err
		}
		setUserContext(c, user)
		return next(c)
	}
}

func (g *SessionGuard) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := g.resolve(c)
		if err != nil {
			return err
		}
		if user.Role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		setUserContext(c, user)
		return next(c)
	}
}

func (g *SessionGuard) resolve(c echo.Context) (*models.User, error) {
	token := BearerToken(c)
	if token == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	var session models.Session
	if err := g.DB.First(&session, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
	}

	var user models.User
	if err := g.DB.First(&user, "id = ?", session.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return &user, nil
}

func BearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func setUserContext(c echo.Context, user *models.User) {
	c.Set("user", user)
	c.Set("userID", user.ID)
	c.Set("role", user.Role)
}

// CurrentUser returns the user attached by RequireSession/RequireAdmin.
func CurrentUser(c echo.Context) (*models.User, error) {
	user, ok := c.Get("user").(*models.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session context")
	}
	return user, nil
}
