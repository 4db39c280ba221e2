package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hifood/hifood-server/internal/events"
	"github.com/hifood/hifood-server/internal/identity"
	mwauth "github.com/hifood/hifood-server/internal/middleware/auth"
	"github.com/hifood/hifood-server/internal/models"
	"github.com/hifood/hifood-server/internal/session"
	"github.com/hifood/hifood-server/internal/store"
)

type AuthHandler struct {
	Identity *identity.Service
	Sessions *session.Manager
	Store    store.Store
	Google   identity.Verifier
	Facebook identity.Verifier
	Producer *events.Producer
}

// loginUser is the user shape returned by the login endpoints.
type loginUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toLoginUser(u models.User) loginUser {
	return loginUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}

	user, err := h.Identity.Register(c.Request().Context(), req.Name, req.Email, req.Phone, req.Password)
	switch {
	case errors.Is(err, identity.ErrInvalidInput):
		return errJSON(c, http.StatusBadRequest, "missing registration fields")
	case errors.Is(err, identity.ErrDuplicateEmail):
		return errJSON(c, http.StatusConflict, "email already registered")
	case err != nil:
		return errJSON(c, http.StatusInternalServerError, "registration failed")
	}

	publish(c, h.Producer, events.TopicUserEvents, user.ID, map[string]any{
		"type":   "user_registered",
		"userId": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "registered"})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}

	user, token, err := h.Identity.LoginPassword(c.Request().Context(), req.Email, req.Phone, req.Password)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		return errJSON(c, http.StatusUnauthorized, "wrong email or password")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "login failed")
	}

	c.SetCookie(sessionCookie(token))

	publish(c, h.Producer, events.TopicUserEvents, user.ID, map[string]any{
		"type":   "user_logged_in",
		"userId": user.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "logged in",
		"user":    toLoginUser(user),
	})
}

func (h *AuthHandler) LoginGoogle(c echo.Context) error {
	var req struct {
		IDToken string `json:"idToken"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}
	if req.IDToken == "" {
		return errJSON(c, http.StatusBadRequest, "missing idToken")
	}

	user, token, err := h.Identity.LoginFederated(c.Request().Context(), h.Google, req.IDToken)
	if err != nil {
		// Every Google failure surfaces as a 500; the client just
		// reopens the popup.
		return errJSON(c, http.StatusInternalServerError, "google login failed")
	}

	c.SetCookie(sessionCookie(token))

	publish(c, h.Producer, events.TopicUserEvents, user.ID, map[string]any{
		"type":     "user_logged_in",
		"userId":   user.ID,
		"provider": "google",
	})

	return c.JSON(http.StatusOK, echo.Map{"user": toLoginUser(user)})
}

func (h *AuthHandler) LoginFacebook(c echo.Context) error {
	var req struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}
	if req.AccessToken == "" {
		return errJSON(c, http.StatusBadRequest, "missing accessToken")
	}

	user, token, err := h.Identity.LoginFederated(c.Request().Context(), h.Facebook, req.AccessToken)
	if errors.Is(err, identity.ErrProviderToken) {
		return errJSON(c, http.StatusUnauthorized, "invalid token")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "facebook login failed")
	}

	c.SetCookie(sessionCookie(token))

	publish(c, h.Producer, events.TopicUserEvents, user.ID, map[string]any{
		"type":     "user_logged_in",
		"userId":   user.ID,
		"provider": "facebook",
	})

	return c.JSON(http.StatusOK, echo.Map{"user": toLoginUser(user)})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(mwauth.CookieName); err == nil {
		if err := h.Sessions.Destroy(c.Request().Context(), cookie.Value); err != nil {
			return errJSON(c, http.StatusInternalServerError, "logout failed")
		}
	}
	c.SetCookie(clearedSessionCookie())
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me reports the current user, or null when the cookie resolves to
// nothing. Always 200; the storefront calls this on every page load.
func (h *AuthHandler) Me(c echo.Context) error {
	cookie, err := c.Cookie(mwauth.CookieName)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"user": nil})
	}
	sess, err := h.Sessions.Resolve(c.Request().Context(), cookie.Value)
	if err != nil || sess == nil {
		return c.JSON(http.StatusOK, echo.Map{"user": nil})
	}
	user, err := store.GetAs[models.User](c.Request().Context(), h.Store, store.CollectionUsers, sess.UserID)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"user": nil})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user.Public()})
}
