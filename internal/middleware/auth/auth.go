// Package auth holds the echo middleware that resolves the session
// cookie and enforces the role policy before a handler runs.
package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hifood/hifood-server/internal/authz"
	"github.com/hifood/hifood-server/internal/models"
	"github.com/hifood/hifood-server/internal/session"
	"github.com/hifood/hifood-server/internal/store"
)

// CookieName is the session cookie the frontend sends on every request.
const CookieName = "hi_food_session"

const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

type Guard struct {
	Sessions *session.Manager
	Store    store.Store
	Policy   authz.Policy
}

// Resolve returns the session for the request cookie, or nil.
func (g *Guard) Resolve(c echo.Context) (*models.Session, error) {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}
	return g.Sessions.Resolve(c.Request().Context(), cookie.Value)
}

// RequireAuth admits any valid session and stores the user id in the
// echo context.
func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := g.Resolve(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "session lookup failed")
		}
		if sess == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
		}
		c.Set(ctxUserID, sess.UserID)
		return next(c)
	}
}

// RequirePolicy admits sessions whose user's current role is allowed to
// perform op. The user record is re-read on every request so a role
// change applies without re-login.
func (g *Guard) RequirePolicy(op authz.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := g.Resolve(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session lookup failed")
			}
			if sess == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
			}
			user, err := store.GetAs[models.User](c.Request().Context(), g.Store, store.CollectionUsers, sess.UserID)
			if err != nil || !g.Policy.Allows(user.Role, op) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			c.Set(ctxUserID, sess.UserID)
			c.Set(ctxRole, user.Role)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id set by the middleware.
func UserID(c echo.Context) string {
	if v, ok := c.Get(ctxUserID).(string); ok {
		return v
	}
	return ""
}
