package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dkotelnikov/sweet-shop/internal/handlers"
	"github.com/dkotelnikov/sweet-shop/internal/middleware/auth"
)

type Deps struct {
	AuthHandler  *handlers.AuthHandler
	SweetHandler *handlers.SweetHandler
	Guard        *auth.Guard
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", d.AuthHandler.Register)
	authGroup.POST("/login", d.AuthHandler.Login)

	sweets := api.Group("/sweets")
	sweets.GET("", d.SweetHandler.List)
	sweets.GET("/search", d.SweetHandler.Search)

	sweets.POST("", d.SweetHandler.Create, d.Guard.RequireLogin, d.Guard.AdminOnly)
	sweets.PUT("/:id", d.SweetHandler.Update, d.Guard.RequireLogin, d.Guard.AdminOnly)
	sweets.DELETE("/:id", d.SweetHandler.Delete, d.Guard.RequireLogin, d.Guard.AdminOnly)

	sweets.POST("/:id/purchase", d.SweetHandler.Purchase, d.Guard.RequireLogin)
	sweets.POST("/:id/restock", d.SweetHandler.Restock, d.Guard.RequireLogin, d.Guard.AdminOnly)
}
