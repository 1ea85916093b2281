package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/dkotelnikov/sweet-shop/internal/service"
)

// TokenVerifier decodes a bearer token. It is an interface so a
// revocation-aware verifier can replace the stateless one without touching
// the guard or the handlers.
type TokenVerifier interface {
	Verify(raw string) (*service.TokenClaims, error)
}

type Guard struct {
	Tokens TokenVerifier
}

func setUserContext(c echo.Context, claims *service.TokenClaims) {
	c.Set("userID", claims.UserID)
	c.Set("role", claims.Role)
	c.Set("email", claims.Email)
}

func UserIDFromContext(c echo.Context) (uint, bool) {
	id, ok := c.Get("userID").(uint)
	return id, ok
}

func RoleFromContext(c echo.Context) (string, bool) {
	role, ok := c.Get("role").(string)
	return role, ok
}
