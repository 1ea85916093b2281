package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dkotelnikov/sweet-shop/internal/apperr"
	"github.com/dkotelnikov/sweet-shop/internal/models"
	"github.com/dkotelnikov/sweet-shop/internal/mykafka"
	"github.com/dkotelnikov/sweet-shop/internal/service"
	"github.com/dkotelnikov/sweet-shop/internal/store"
)

const defaultDisplayName = "Sweet Lover"

type AuthHandler struct {
	Users    *store.UserStore
	Tokens   *service.TokenService
	Producer *mykafka.Producer
}

// roleOrDefault is the single place where a caller-supplied role is accepted.
// Registration currently honors a requested admin role; restricting that is a
// one-line change here.
func roleOrDefault(requested string) string {
	if requested == models.RoleAdmin {
		return models.RoleAdmin
	}
	return models.RoleUser
}

func (h *AuthHandler) publish(c echo.Context, key string, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}
	if req.Name == "" {
		req.Name = defaultDisplayName
	}

	user, err := h.Users.Create(c.Request().Context(), req.Email, req.Password, req.Name, roleOrDefault(req.Role))
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return echo.NewHTTPError(http.StatusBadRequest, "User already exists")
		}
		return internalError(c, err)
	}

	h.publish(c, user.Email, map[string]interface{}{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully"})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	// Unknown email and wrong password produce the same response so the
	// endpoint cannot be used to enumerate accounts.
	user, err := h.Users.FindByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
		}
		return internalError(c, err)
	}
	if !h.Users.VerifyPassword(user, req.Password) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	}

	token, err := h.Tokens.Issue(user.ID, user.Role, user.Email)
	if err != nil {
		return internalError(c, err)
	}

	h.publish(c, user.Email, map[string]interface{}{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}
