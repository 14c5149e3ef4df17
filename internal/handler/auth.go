package handler

import (
	"errors"
	"net/http"

	"github.com/adtracksaver/adtrack/internal/auth"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type AuthHandler struct {
	authenticator *auth.Authenticator
}

func NewAuthHandler(authenticator *auth.Authenticator) *AuthHandler {
	return &AuthHandler{authenticator: authenticator}
}

// Login handles POST /login - validates credentials and sets the session cookie
func (h *AuthHandler) Login(c echo.Context) error {
	var creds auth.Credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}

	cookie, err := h.authenticator.Login(creds)
	if errors.Is(err, auth.ErrUnauthorized) {
		log.Warn().Str("username", creds.Username).Msg("login rejected")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create session")
	}
	cookie.Secure = c.IsTLS()
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Logout handles GET /logout - clears the session cookie and redirects to /
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(auth.ExpiredCookie())
	return c.Redirect(http.StatusFound, "/")
}
