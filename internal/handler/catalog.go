package handler

import (
	"net/http"

	"github.com/adtracksaver/adtrack/internal/catalog"
	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

func (h *CatalogHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog)
}
