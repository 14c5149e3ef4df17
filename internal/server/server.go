// Package server wires handlers, middleware and routes onto an echo
// instance.
package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/adtracksaver/adtrack/internal/auth"
	"github.com/adtracksaver/adtrack/internal/cache"
	"github.com/adtracksaver/adtrack/internal/dashboard"
	"github.com/adtracksaver/adtrack/internal/form"
	"github.com/adtracksaver/adtrack/internal/handler"
	"github.com/adtracksaver/adtrack/internal/metrics"
	"github.com/adtracksaver/adtrack/web"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

type Deps struct {
	Dashboard     *dashboard.Controller
	Authenticator *auth.Authenticator
	Cache         cache.SearchCache
	// Metrics is optional; /metrics is only mounted when set.
	Metrics *metrics.Prometheus
	// StaticDir serves assets from disk instead of the embedded copy.
	StaticDir string
}

func New(deps Deps) *echo.Echo {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = handler.JSONSerializer{}
	e.HTTPErrorHandler = ErrorHandler

	if deps.Cache == nil {
		deps.Cache = cache.New(0)
	}

	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	if deps.Metrics != nil {
		e.Use(metrics.Middleware(deps.Metrics))
	}

	authMiddleware := auth.Middleware(deps.Authenticator)
	authHandler := handler.NewAuthHandler(deps.Authenticator)
	pageHandler := handler.NewPageHandler()

	e.GET("/", pageHandler.Login)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)
	e.GET("/dashboard", pageHandler.Dashboard, authMiddleware)

	if deps.StaticDir != "" {
		log.Info().Str("dir", deps.StaticDir).Msg("serving static files from disk")
		e.Static("/static", deps.StaticDir)
	} else {
		e.StaticFS("/static", web.FS)
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	}

	api := e.Group("/api")
	api.Use(authMiddleware)

	catalogHandler := handler.NewCatalogHandler(deps.Dashboard.Catalog())
	api.GET("/catalog", catalogHandler.Get)

	linkHandler := handler.NewLinkHandler(deps.Dashboard, deps.Cache)
	api.GET("/links", linkHandler.ListLinks)
	api.POST("/links", linkHandler.CreateLink)
	api.DELETE("/links/:id", linkHandler.DeleteLink)

	editHandler := handler.NewEditHandler(deps.Dashboard)
	api.POST("/links/:id/edit", editHandler.Start)
	api.GET("/edit", editHandler.Current)
	api.PATCH("/edit", editHandler.Change)
	api.POST("/edit/save", editHandler.Save)
	api.DELETE("/edit", editHandler.Cancel)

	return e
}

// ErrorHandler renders errors as JSON for the API and redirects page loads
// to the login screen when the session is missing.
func ErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "internal server error"
	body := map[string]any{}
	isAPICall := strings.HasPrefix(c.Path(), "/api/")

	var httpErr *echo.HTTPError
	var validationErr *form.ValidationError
	switch {
	case errors.As(err, &validationErr):
		code = http.StatusUnprocessableEntity
		message = validationErr.Error()
		body["fields"] = validationErr.Fields
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	}

	if !isAPICall && code == http.StatusUnauthorized && c.Request().Method == http.MethodGet {
		c.Redirect(http.StatusTemporaryRedirect, "/")
		return
	}

	event := log.Warn()
	if code >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.
		Int("code", code).
		Str("method", c.Request().Method).
		Str("path", c.Request().URL.Path).
		Err(err).
		Msg("http error")

	if c.Response().Committed {
		return
	}

	body["error"] = message
	if c.Request().Method == http.MethodHead {
		c.NoContent(code)
		return
	}
	c.JSON(code, body)
}
