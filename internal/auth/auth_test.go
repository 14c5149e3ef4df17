package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthenticator() *Authenticator {
	return NewAuthenticator(Credentials{Username: "admin", Password: "pw"}, "secret")
}

func TestParseCredentials(t *testing.T) {
	c, err := ParseCredentials("admin:p:w")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "admin", Password: "p:w"}, c)

	_, err = ParseCredentials("nocolon")
	assert.Error(t, err)

	_, err = ParseCredentials(":pw")
	assert.Error(t, err)
}

func TestLoginAndVerify(t *testing.T) {
	a := newAuthenticator()

	_, err := a.Login(Credentials{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	cookie, err := a.Login(Credentials{Username: "admin", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, CookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)

	user, err := a.Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "admin", user)
}

func TestVerify_Rejects(t *testing.T) {
	a := newAuthenticator()
	cookie, err := a.Login(Credentials{Username: "admin", Password: "pw"})
	require.NoError(t, err)

	other := NewAuthenticator(Credentials{Username: "admin", Password: "pw"}, "different")
	_, err = other.Verify(cookie.Value)
	assert.Error(t, err)

	later := newAuthenticator()
	later.now = func() time.Time { return time.Now().Add(sessionExpiry + time.Hour) }
	_, err = later.Verify(cookie.Value)
	assert.Error(t, err)

	_, err = a.Verify("garbage")
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	a := newAuthenticator()
	cookie, err := a.Login(Credentials{Username: "admin", Password: "pw"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		prepare func(r *http.Request)
		allowed bool
	}{
		{"no credentials", func(*http.Request) {}, false},
		{"valid cookie", func(r *http.Request) { r.AddCookie(cookie) }, true},
		{"bad cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: "x"}) }, false},
		{"basic auth", func(r *http.Request) { r.SetBasicAuth("admin", "pw") }, true},
		{"wrong basic auth", func(r *http.Request) { r.SetBasicAuth("admin", "nope") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			called := false
			h := Middleware(a)(func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			})

			err := h(c)
			assert.Equal(t, tt.allowed, called)
			if tt.allowed {
				require.NoError(t, err)
				assert.Contains(t, rec.Header().Get("Set-Cookie"), CookieName)
			} else {
				assert.Equal(t, echo.ErrUnauthorized, err)
			}
		})
	}
}

func TestExpiredCookie(t *testing.T) {
	c := ExpiredCookie()
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, -1, c.MaxAge)
}
