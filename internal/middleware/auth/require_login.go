package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireLogin extracts the bearer token from the Authorization header.
// A missing token is 401, a present but invalid or expired one is 403.
func (g *Guard) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		parts := strings.SplitN(header, " ", 2)
		if header == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Access Denied: No Token Provided")
		}

		claims, err := g.Tokens.Verify(parts[1])
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "Invalid Token")
		}

		setUserContext(c, claims)
		return next(c)
	}
}
