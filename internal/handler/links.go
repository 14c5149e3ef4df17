package handler

import (
	"net/http"

	"github.com/adtracksaver/adtrack/internal"
	"github.com/adtracksaver/adtrack/internal/cache"
	"github.com/adtracksaver/adtrack/internal/dashboard"
	"github.com/adtracksaver/adtrack/internal/form"
	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type LinkHandler struct {
	dash  *dashboard.Controller
	cache cache.SearchCache
}

func NewLinkHandler(dash *dashboard.Controller, searchCache cache.SearchCache) *LinkHandler {
	return &LinkHandler{
		dash:  dash,
		cache: searchCache,
	}
}

// CreateLinkRequest mirrors the entry form. AdsCount is the raw text typed
// by the user and goes through the same digits-only filter.
type CreateLinkRequest struct {
	URL      string   `json:"url"`
	AdsCount string   `json:"ads_count"`
	Tags     string   `json:"tags"`
	Site     string   `json:"site"`
	Niches   []string `json:"niches"`
}

type CreateLinkResponse struct {
	Link LinkResponse `json:"link"`
}

func (h *LinkHandler) CreateLink(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateLinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}

	f, err := h.fillForm(req)
	if err != nil {
		return err
	}

	var link *internal.MonitoredLink
	err = f.Submit(func(candidate internal.Candidate) error {
		var err error
		link, err = h.dash.Add(ctx, candidate)
		return err
	})
	if err != nil {
		log.Warn().Err(err).Str("url", req.URL).Msg("failed to create link")
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, CreateLinkResponse{Link: toLinkResponse(link, h.dash.Catalog())})
}

func (h *LinkHandler) fillForm(req CreateLinkRequest) (*form.Form, error) {
	f := form.New(h.dash.Catalog())
	problems := map[string]string{}

	f.SetURL(req.URL)
	f.SetSite(req.Site)
	if !f.SetAdsCount(req.AdsCount) {
		problems["ads_count"] = "digits only"
	}
	if err := f.SetTag(req.Tags); err != nil {
		problems["tags"] = "unknown tag"
	}
	for _, key := range lo.Uniq(req.Niches) {
		if err := f.ToggleNiche(key); err != nil {
			problems["niches"] = "unknown niche " + key
		}
	}

	if len(problems) > 0 {
		return nil, &form.ValidationError{Fields: problems}
	}
	return f, nil
}

// ListLinks returns the links matching ?q= along with derived trends.
// Responses are cached per list revision and normalized query.
func (h *LinkHandler) ListLinks(c echo.Context) error {
	ctx := c.Request().Context()
	query := c.QueryParam("q")

	key := cache.Key(h.dash.Revision(), query)
	if body, ok := h.cache.Get(key); ok {
		return c.JSONBlob(http.StatusOK, body)
	}

	links, err := h.dash.Search(ctx, query)
	if err != nil {
		log.Error().Err(err).Msg("failed to list links")
		return toHTTPError(err)
	}

	summary, err := h.dash.Summary(ctx)
	if err != nil {
		return toHTTPError(err)
	}

	cat := h.dash.Catalog()
	resp := ListLinksResponse{
		Query:   query,
		Links:   lo.Map(links, func(l *internal.MonitoredLink, _ int) LinkResponse { return toLinkResponse(l, cat) }),
		Summary: summary,
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return toHTTPError(err)
	}
	h.cache.Set(key, body)

	return c.JSONBlob(http.StatusOK, body)
}

func (h *LinkHandler) DeleteLink(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if err := h.dash.Delete(ctx, id); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("failed to delete link")
		return toHTTPError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
