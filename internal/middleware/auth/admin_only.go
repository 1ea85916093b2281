package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dkotelnikov/sweet-shop/internal/models"
)

// AdminOnly must run after RequireLogin. The role is trusted from the token
// payload, not re-checked against the user store.
func (g *Guard) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, ok := RoleFromContext(c)
		if !ok || role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Access Denied: Admins Only")
		}
		return next(c)
	}
}
