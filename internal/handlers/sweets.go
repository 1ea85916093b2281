package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/dkotelnikov/sweet-shop/internal/apperr"
	"github.com/dkotelnikov/sweet-shop/internal/logging"
	"github.com/dkotelnikov/sweet-shop/internal/middleware/auth"
	"github.com/dkotelnikov/sweet-shop/internal/models"
	"github.com/dkotelnikov/sweet-shop/internal/mykafka"
	"github.com/dkotelnikov/sweet-shop/internal/search"
	"github.com/dkotelnikov/sweet-shop/internal/store"
)

type SweetHandler struct {
	Sweets   *store.SweetStore
	Producer *mykafka.Producer

	// Optional read path for deployments that index sweets into
	// elasticsearch; nil means search runs against the primary store.
	ES      *elasticsearch.Client
	ESIndex string
}

func internalError(c echo.Context, err error) error {
	logging.FromContext(c.Request().Context()).Error("storage failure", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "Server Error")
}

func sweetError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Sweet not found")
	case errors.Is(err, apperr.ErrOutOfStock):
		return echo.NewHTTPError(http.StatusBadRequest, "Item is out of stock")
	case apperr.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return internalError(c, err)
	}
}

func sweetID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Sweet not found")
	}
	return uint(id), nil
}

func (h *SweetHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "sweet_events", fmt.Sprint(event["sweetID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *SweetHandler) List(c echo.Context) error {
	sweets, err := h.Sweets.List(c.Request().Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, sweets)
}

func (h *SweetHandler) Search(c echo.Context) error {
	f := search.FromParams(
		c.QueryParam("q"),
		c.QueryParam("category"),
		c.QueryParam("minPrice"),
		c.QueryParam("maxPrice"),
	)

	var (
		sweets []models.Sweet
		err    error
	)
	if h.ES != nil {
		sweets, err = search.SearchES(c.Request().Context(), h.ES, h.ESIndex, f)
	} else {
		sweets, err = h.Sweets.Search(c.Request().Context(), f)
	}
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, sweets)
}

func (h *SweetHandler) Create(c echo.Context) error {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Quantity    uint    `json:"quantity"`
		Category    string  `json:"category"`
		Image       string  `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sweet := models.Sweet{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Category:    req.Category,
		Image:       req.Image,
	}
	if err := h.Sweets.Create(c.Request().Context(), &sweet); err != nil {
		return sweetError(c, err)
	}

	h.publish(c, map[string]interface{}{
		"type":    "sweet_created",
		"sweetID": sweet.ID,
		"name":    sweet.Name,
	})

	return c.JSON(http.StatusCreated, sweet)
}

func (h *SweetHandler) Update(c echo.Context) error {
	id, err := sweetID(c)
	if err != nil {
		return err
	}

	var req store.UpdateSweet
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sweet, err := h.Sweets.Update(c.Request().Context(), id, req)
	if err != nil {
		return sweetError(c, err)
	}

	h.publish(c, map[string]interface{}{
		"type":    "sweet_updated",
		"sweetID": sweet.ID,
		"name":    sweet.Name,
	})

	return c.JSON(http.StatusOK, sweet)
}

func (h *SweetHandler) Delete(c echo.Context) error {
	id, err := sweetID(c)
	if err != nil {
		return err
	}

	if err := h.Sweets.Delete(c.Request().Context(), id); err != nil {
		return sweetError(c, err)
	}

	h.publish(c, map[string]interface{}{
		"type":    "sweet_deleted",
		"sweetID": id,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Sweet deleted successfully"})
}

func (h *SweetHandler) Purchase(c echo.Context) error {
	id, err := sweetID(c)
	if err != nil {
		return err
	}

	sweet, err := h.Sweets.Purchase(c.Request().Context(), id)
	if err != nil {
		return sweetError(c, err)
	}

	userID, _ := auth.UserIDFromContext(c)
	h.publish(c, map[string]interface{}{
		"type":    "sweet_purchased",
		"sweetID": sweet.ID,
		"userID":  userID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Purchase successful",
		"sweet":   sweet,
	})
}

func (h *SweetHandler) Restock(c echo.Context) error {
	id, err := sweetID(c)
	if err != nil {
		return err
	}

	// Amounts that are absent, unparseable or non-positive fall back to the
	// store default, so the body is bound loosely.
	var req struct {
		Amount interface{} `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	amount, _ := strconv.Atoi(fmt.Sprint(req.Amount))

	sweet, applied, err := h.Sweets.Restock(c.Request().Context(), id, amount)
	if err != nil {
		return sweetError(c, err)
	}

	h.publish(c, map[string]interface{}{
		"type":    "sweet_restocked",
		"sweetID": sweet.ID,
		"amount":  applied,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Restocked %d items", applied),
		"sweet":   sweet,
	})
}
