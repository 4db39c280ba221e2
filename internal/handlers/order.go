package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hifood/hifood-server/internal/events"
	"github.com/hifood/hifood-server/internal/metrics"
	mwauth "github.com/hifood/hifood-server/internal/middleware/auth"
	"github.com/hifood/hifood-server/internal/models"
	"github.com/hifood/hifood-server/internal/orders"
)

type OrderHandler struct {
	Orders   *orders.Service
	Producer *events.Producer
	Metrics  *metrics.Metrics
}

func (h *OrderHandler) List(c echo.Context) error {
	list, err := h.Orders.List(c.Request().Context())
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not load orders")
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": list})
}

func (h *OrderHandler) Create(c echo.Context) error {
	var req struct {
		Items        []models.OrderItem `json:"items"`
		Total        any                `json:"total"`
		CustomerName string             `json:"customerName"`
		Note         string             `json:"note"`
		Address      string             `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}

	order, err := h.Orders.Create(c.Request().Context(), orders.CreateInput{
		Items:        req.Items,
		Total:        coerceInt(req.Total),
		CustomerName: req.CustomerName,
		Note:         req.Note,
		Address:      req.Address,
	})
	if errors.Is(err, orders.ErrInvalidInput) {
		return errJSON(c, http.StatusBadRequest, "missing order fields")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not create order")
	}

	if h.Metrics != nil {
		h.Metrics.OrderCreated()
	}
	publish(c, h.Producer, events.TopicOrderEvents, order.ID, map[string]any{
		"type":    "order_created",
		"orderId": order.ID,
		"userId":  mwauth.UserID(c),
		"total":   order.Total,
	})

	return c.JSON(http.StatusOK, echo.Map{"order": order})
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}

	order, err := h.Orders.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if errors.Is(err, orders.ErrNotFound) {
		return errJSON(c, http.StatusNotFound, "order not found")
	}
	if errors.Is(err, orders.ErrInvalidTransition) {
		return errJSON(c, http.StatusConflict, err.Error())
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not update order")
	}

	publish(c, h.Producer, events.TopicOrderEvents, order.ID, map[string]any{
		"type":    "order_status_changed",
		"orderId": order.ID,
		"status":  order.Status,
	})

	return c.JSON(http.StatusOK, echo.Map{"order": order})
}

// CalcTotal prices a cart without persisting anything. Public: the
// storefront calls it while the cart is still anonymous.
func (h *OrderHandler) CalcTotal(c echo.Context) error {
	var req struct {
		Items []models.OrderItem `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}

	quote, err := h.Orders.ComputeTotal(c.Request().Context(), req.Items)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not compute total")
	}
	return c.JSON(http.StatusOK, quote)
}
