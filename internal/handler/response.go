package handler

import (
	"errors"
	"net/http"

	"github.com/adtracksaver/adtrack/internal"
	"github.com/adtracksaver/adtrack/internal/catalog"
	"github.com/adtracksaver/adtrack/internal/dashboard"
	"github.com/adtracksaver/adtrack/internal/form"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

type NicheResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

type HistoryResponse struct {
	Count            int                `json:"count"`
	ChangedAt        internal.Timestamp `json:"changed_at"`
	ChangedAtDisplay string             `json:"changed_at_display"`
	Trend            dashboard.Trend    `json:"trend"`
}

type LinkResponse struct {
	ID             string             `json:"id"`
	URL            string             `json:"url"`
	Site           string             `json:"site"`
	AdsCount       int                `json:"ads_count"`
	Tags           string             `json:"tags"`
	Niches         []NicheResponse    `json:"niches"`
	AddedAt        internal.Timestamp `json:"added_at"`
	AddedAtDisplay string             `json:"added_at_display"`
	History        []HistoryResponse  `json:"history"`
	ShowHistory    bool               `json:"show_history"`
}

type ListLinksResponse struct {
	Query   string            `json:"query"`
	Links   []LinkResponse    `json:"links"`
	Summary dashboard.Summary `json:"summary"`
}

func toLinkResponse(link *internal.MonitoredLink, cat *catalog.Catalog) LinkResponse {
	niches := lo.Map(link.Niches, func(key string, _ int) NicheResponse {
		return NicheResponse{Key: key, Label: cat.Label(key), Color: cat.Color(key)}
	})

	history := lo.Map(dashboard.Trends(link.AdsHistory), func(p dashboard.TrendPoint, _ int) HistoryResponse {
		return HistoryResponse{
			Count:            p.Count,
			ChangedAt:        p.ChangedAt,
			ChangedAtDisplay: p.ChangedAt.Display(),
			Trend:            p.Trend,
		}
	})

	return LinkResponse{
		ID:             link.ID,
		URL:            link.URL,
		Site:           link.Site,
		AdsCount:       link.AdsCount,
		Tags:           link.Tags,
		Niches:         niches,
		AddedAt:        link.AddedAt,
		AddedAtDisplay: link.AddedAt.Display(),
		History:        history,
		ShowHistory:    dashboard.ShowHistory(link.AdsHistory),
	}
}

// toHTTPError maps dashboard errors onto status codes. Validation errors are
// passed through so the error handler can render their fields.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, internal.ErrLinkNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "link not found").SetInternal(err)
	case errors.Is(err, internal.ErrNotEditing):
		return echo.NewHTTPError(http.StatusConflict, "no edit in progress").SetInternal(err)
	case errors.Is(err, internal.ErrUnknownTag), errors.Is(err, internal.ErrUnknownNiche):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error()).SetInternal(err)
	}

	var verr *form.ValidationError
	if errors.As(err, &verr) {
		return err
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
}
