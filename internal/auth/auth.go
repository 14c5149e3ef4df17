// Package auth guards the dashboard behind a single admin credential. A
// successful login issues a signed session cookie that is refreshed on every
// authenticated request.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	CookieName    = "adtrack_session"
	sessionExpiry = 30 * 24 * time.Hour
)

var ErrUnauthorized = errors.New("unauthorized")

type sessionClaims struct {
	jwt.RegisteredClaims
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credentials) Check(other Credentials) bool {
	return c.Username == other.Username && c.Password == other.Password
}

// ParseCredentials reads "user:password".
func ParseCredentials(s string) (Credentials, error) {
	username, password, ok := strings.Cut(s, ":")
	if !ok || username == "" {
		return Credentials{}, fmt.Errorf("invalid credentials format")
	}
	return Credentials{Username: username, Password: password}, nil
}

type Authenticator struct {
	credentials Credentials
	secret      []byte
	now         func() time.Time
}

func NewAuthenticator(credentials Credentials, secret string) *Authenticator {
	return &Authenticator{credentials: credentials, secret: []byte(secret), now: time.Now}
}

// Login checks creds and returns a fresh session cookie.
func (a *Authenticator) Login(creds Credentials) (*http.Cookie, error) {
	if !a.credentials.Check(creds) {
		return nil, ErrUnauthorized
	}
	return a.sessionCookie(creds.Username)
}

// Verify returns the username stored in a session token.
func (a *Authenticator) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return "", errors.New("invalid token claims")
	}
	return claims.Subject, nil
}

func (a *Authenticator) sign(username string) (string, error) {
	now := a.now()
	claims := &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionExpiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (a *Authenticator) sessionCookie(username string) (*http.Cookie, error) {
	token, err := a.sign(username)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionExpiry.Seconds()),
	}, nil
}

// Middleware accepts either a valid session cookie or HTTP basic auth.
func Middleware(a *Authenticator) echo.MiddlewareFunc {
	type strategy func(c echo.Context) bool
	strategies := []strategy{
		a.withCookie,
		a.withBasicAuth,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, s := range strategies {
				if s(c) {
					return next(c)
				}
			}
			return echo.ErrUnauthorized
		}
	}
}

func (a *Authenticator) withCookie(c echo.Context) bool {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return false
	}

	username, err := a.Verify(cookie.Value)
	if err != nil {
		log.Debug().Err(err).Msg("rejected session cookie")
		return false
	}

	refreshed, err := a.sessionCookie(username)
	if err != nil {
		log.Error().Err(err).Msg("failed to refresh session cookie")
		return true
	}
	refreshed.Secure = c.IsTLS()
	c.SetCookie(refreshed)

	return true
}

func (a *Authenticator) withBasicAuth(c echo.Context) bool {
	username, password, ok := c.Request().BasicAuth()
	if !ok {
		return false
	}

	cookie, err := a.Login(Credentials{Username: username, Password: password})
	if err != nil {
		return false
	}
	cookie.Secure = c.IsTLS()
	c.SetCookie(cookie)

	return true
}

// ExpiredCookie clears the session cookie in the browser.
func ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	}
}
