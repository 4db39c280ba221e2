package handlers

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hifood/hifood-server/internal/models"
	"github.com/hifood/hifood-server/internal/store"
)

type AdminHandler struct {
	Store store.Store
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := store.ListAs[models.User](c.Request().Context(), h.Store, store.CollectionUsers)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not load users")
	}
	public := make([]models.PublicUser, len(users))
	for i, u := range users {
		public[i] = u.Public()
	}
	return c.JSON(http.StatusOK, echo.Map{"users": public})
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	err := h.Store.Delete(c.Request().Context(), store.CollectionUsers, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return errJSON(c, http.StatusNotFound, "user not found")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not delete user")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

// Dashboard returns the admin landing numbers. Revenue counts only
// completed orders.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	users, err := store.ListAs[models.User](ctx, h.Store, store.CollectionUsers)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not load dashboard data")
	}
	products, err := store.ListAs[models.Product](ctx, h.Store, store.CollectionProducts)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not load dashboard data")
	}
	orderList, err := store.ListAs[models.Order](ctx, h.Store, store.CollectionOrders)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not load dashboard data")
	}

	totalRevenue := 0
	for _, o := range orderList {
		if o.Status == models.OrderCompleted {
			totalRevenue += o.Total
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"totalRevenue": totalRevenue,
		"orderCount":   len(orderList),
		"productCount": len(products),
		"userCount":    len(users),
	})
}

// RevenueStats feeds the dashboard charts. The series are synthetic
// placeholders; only the response shape is contractual.
func (h *AdminHandler) RevenueStats(c echo.Context) error {
	daily := make(map[string]int, 7)
	monthly := make(map[string]int, 12)
	yearly := make(map[string]int, 5)

	now := time.Now()
	for i := 0; i < 7; i++ {
		day := now.AddDate(0, 0, -i)
		daily[day.Format("2006-01-02")] = rand.Intn(1000000) + 500000
	}
	for i := 0; i < 12; i++ {
		month := now.AddDate(0, -i, 0)
		monthly[month.Format("2006-01")] = rand.Intn(5000000) + 2000000
	}
	for i := 0; i < 5; i++ {
		yearly[fmt.Sprint(now.Year()-i)] = rand.Intn(50000000) + 20000000
	}

	return c.JSON(http.StatusOK, echo.Map{
		"daily":   daily,
		"monthly": monthly,
		"yearly":  yearly,
	})
}
