package handler

import (
	"net/http"

	"github.com/adtracksaver/adtrack/internal"
	"github.com/adtracksaver/adtrack/internal/dashboard"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// EditHandler exposes the single edit session: start, change fields, save
// and cancel.
type EditHandler struct {
	dash *dashboard.Controller
}

func NewEditHandler(dash *dashboard.Controller) *EditHandler {
	return &EditHandler{dash: dash}
}

func (h *EditHandler) Start(c echo.Context) error {
	session, err := h.dash.StartEdit(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, session)
}

func (h *EditHandler) Current(c echo.Context) error {
	session, ok := h.dash.Editing()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, internal.ErrNotEditing.Error())
	}
	return c.JSON(http.StatusOK, session)
}

func (h *EditHandler) Change(c echo.Context) error {
	var change dashboard.DraftChange
	if err := c.Bind(&change); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}

	session, err := h.dash.ChangeDraft(change)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, session)
}

func (h *EditHandler) Save(c echo.Context) error {
	link, err := h.dash.SaveEdit(c.Request().Context())
	if err != nil {
		log.Warn().Err(err).Msg("failed to save edit")
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, CreateLinkResponse{Link: toLinkResponse(link, h.dash.Catalog())})
}

func (h *EditHandler) Cancel(c echo.Context) error {
	h.dash.CancelEdit()
	return c.NoContent(http.StatusNoContent)
}
