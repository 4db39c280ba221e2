package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hifood/hifood-server/internal/catalog"
	"github.com/hifood/hifood-server/internal/events"
)

type ProductHandler struct {
	Catalog  *catalog.Service
	Producer *events.Producer
}

// coerceInt accepts the number-or-numeric-string prices the admin UI
// has historically sent.
func coerceInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	case int:
		return n
	}
	return 0
}

type productRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       any     `json:"price"`
	Status      string  `json:"status"`
	Description *string `json:"description"`
}

func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.Catalog.List(c.Request().Context())
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not load products")
	}
	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}

	desc := ""
	if req.Description != nil {
		desc = *req.Description
	}
	product, err := h.Catalog.Create(c.Request().Context(), catalog.CreateInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       coerceInt(req.Price),
		Status:      req.Status,
		Description: desc,
	})
	if errors.Is(err, catalog.ErrInvalidInput) {
		return errJSON(c, http.StatusBadRequest, "missing product fields")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not create product")
	}

	publish(c, h.Producer, events.TopicProductEvents, product.ID, map[string]any{
		"type":      "product_created",
		"productId": product.ID,
		"name":      product.Name,
	})

	return c.JSON(http.StatusOK, echo.Map{"product": product})
}

func (h *ProductHandler) Update(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}

	product, err := h.Catalog.Update(c.Request().Context(), c.Param("id"), catalog.UpdateInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       coerceInt(req.Price),
		Status:      req.Status,
		Description: req.Description,
	})
	if errors.Is(err, catalog.ErrNotFound) {
		return errJSON(c, http.StatusNotFound, "product not found")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not update product")
	}

	publish(c, h.Producer, events.TopicProductEvents, product.ID, map[string]any{
		"type":      "product_updated",
		"productId": product.ID,
		"name":      product.Name,
	})

	return c.JSON(http.StatusOK, echo.Map{"product": product})
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	err := h.Catalog.Delete(c.Request().Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		return errJSON(c, http.StatusNotFound, "product not found")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not delete product")
	}

	publish(c, h.Producer, events.TopicProductEvents, id, map[string]any{
		"type":      "product_deleted",
		"productId": id,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted"})
}
