package handler

import (
	"net/http"

	"github.com/adtracksaver/adtrack/web"
	"github.com/labstack/echo/v4"
)

type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) Dashboard(c echo.Context) error {
	return serveFile(c, "index.html")
}

func (h *PageHandler) Login(c echo.Context) error {
	return serveFile(c, "login.html")
}

func serveFile(c echo.Context, name string) error {
	data, err := web.FS.ReadFile(name)
	if err != nil {
		return c.String(http.StatusInternalServerError, "failed to read "+name)
	}
	return c.Blob(http.StatusOK, "text/html; charset=utf-8", data)
}
