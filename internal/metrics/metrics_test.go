package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_Operations(t *testing.T) {
	m := NewPrometheus()

	m.LinkAdded()
	m.LinkAdded()
	m.LinkEdited(false)
	m.LinkEdited(true)
	m.LinkDeleted()
	m.Searched(3)
	m.SetTotals(2, 25)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("add")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("edit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("ads_count_change")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("delete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("search")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.linksTotal))
	assert.Equal(t, 25.0, testutil.ToFloat64(m.adsTotal))
}

func TestPrometheus_SeparateRegistries(t *testing.T) {
	a := NewPrometheus()
	b := NewPrometheus()

	a.LinkAdded()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.operations.WithLabelValues("add")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.operations.WithLabelValues("add")))
}

func TestMiddleware(t *testing.T) {
	m := NewPrometheus()

	e := echo.New()
	e.Use(Middleware(m))
	e.GET("/items/:id", func(c echo.Context) error {
		if c.Param("id") == "missing" {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
		return c.NoContent(http.StatusOK)
	})

	for _, path := range []string{"/items/1", "/items/2", "/items/missing"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/items/:id", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/items/:id", "4xx")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "adtrack_http_request_duration_seconds")
}

func TestStatusBucket(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{101, "1xx"},
		{204, "2xx"},
		{307, "3xx"},
		{422, "4xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusBucket(tt.code))
	}
}

func TestNoop(t *testing.T) {
	r := Noop()
	assert.NotPanics(t, func() {
		r.LinkAdded()
		r.LinkEdited(true)
		r.LinkDeleted()
		r.Searched(1)
		r.SetTotals(1, 1)
		r.ObserveRequest("/", 200, 0)
	})
}
