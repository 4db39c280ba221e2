package httpserver

import (
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/hifood/hifood-server/internal/authz"
	"github.com/hifood/hifood-server/internal/handlers"
	"github.com/hifood/hifood-server/internal/metrics"
	mwauth "github.com/hifood/hifood-server/internal/middleware/auth"
)

type Deps struct {
	Guard          *mwauth.Guard
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	OrderHandler   *handlers.OrderHandler
	AdminHandler   *handlers.AdminHandler
	MiscHandler    *handlers.MiscHandler
	Metrics        *metrics.Metrics

	PublicDir     string
	QRDir         string
	ProductImgDir string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if d.Metrics != nil {
		e.GET("/metrics", d.Metrics.Handler())
	}

	api := e.Group("/api")

	api.POST("/register", d.AuthHandler.Register)
	api.POST("/login", d.AuthHandler.Login)
	api.POST("/login-google", d.AuthHandler.LoginGoogle)
	api.POST("/login-facebook", d.AuthHandler.LoginFacebook)
	api.POST("/logout", d.AuthHandler.Logout)
	api.GET("/me", d.AuthHandler.Me)

	api.GET("/products", d.ProductHandler.List)
	api.POST("/products", d.ProductHandler.Create, d.Guard.RequirePolicy(authz.OpProductsWrite))
	api.PUT("/products/:id", d.ProductHandler.Update, d.Guard.RequirePolicy(authz.OpProductsWrite))
	api.DELETE("/products/:id", d.ProductHandler.Delete, d.Guard.RequirePolicy(authz.OpProductsWrite))

	api.GET("/orders", d.OrderHandler.List, d.Guard.RequirePolicy(authz.OpOrdersRead))
	api.POST("/orders", d.OrderHandler.Create, d.Guard.RequireAuth)
	api.PUT("/orders/:id", d.OrderHandler.UpdateStatus, d.Guard.RequirePolicy(authz.OpOrdersStatus))

	api.GET("/users", d.AdminHandler.ListUsers, d.Guard.RequirePolicy(authz.OpUsersRead))
	api.DELETE("/users/:id", d.AdminHandler.DeleteUser, d.Guard.RequirePolicy(authz.OpUsersDelete))
	api.GET("/admin/data", d.AdminHandler.Dashboard, d.Guard.RequirePolicy(authz.OpAdminDashboard))
	api.GET("/revenue-stats", d.AdminHandler.RevenueStats, d.Guard.RequirePolicy(authz.OpAdminDashboard))

	api.POST("/calc-total", d.OrderHandler.CalcTotal)
	api.GET("/qr-list", d.MiscHandler.QRList)

	// Static surface: storefront SPA plus the image folders the data
	// files reference.
	if d.PublicDir != "" {
		e.GET("/admin", func(c echo.Context) error {
			return c.File(filepath.Join(d.PublicDir, "admin.html"))
		})
		e.GET("/staff", func(c echo.Context) error {
			return c.File(filepath.Join(d.PublicDir, "staff.html"))
		})
		e.Static("/", d.PublicDir)
	}
	if d.QRDir != "" {
		e.Static("/qr", d.QRDir)
	}
	if d.ProductImgDir != "" {
		e.Static("/products", d.ProductImgDir)
	}
}
