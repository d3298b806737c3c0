// Package cookies maps the session's token pair and the user's
// "remember me" choice to HTTP cookies. Pure encoding, no business logic.
package cookies

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	RememberMeCookie   = "remember_me"
)

// Manager writes and reads the three session cookies. Both token cookies
// are httpOnly; remember_me is client-readable so the UI can reflect the
// user's choice. All three are SameSite=Strict.
type Manager struct {
	secure     bool
	domain     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewManager(secure bool, domain string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		secure:     secure,
		domain:     domain,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// SetSession writes the session cookies. Without rememberMe the cookies are
// session-scoped (no Max-Age, cleared on client exit); with it the access
// cookie lives as long as the access token and the refresh/remember cookies
// as long as the refresh token.
func (m *Manager) SetSession(c *gin.Context, accessToken, refreshValue string, rememberMe bool) {
	accessMaxAge, refreshMaxAge := 0, 0
	if rememberMe {
		accessMaxAge = int(m.accessTTL.Seconds())
		refreshMaxAge = int(m.refreshTTL.Seconds())
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessTokenCookie, accessToken, accessMaxAge, "/", m.domain, m.secure, true)
	c.SetCookie(RefreshTokenCookie, refreshValue, refreshMaxAge, "/", m.domain, m.secure, true)

	remember := "0"
	if rememberMe {
		remember = "1"
	}
	c.SetCookie(RememberMeCookie, remember, refreshMaxAge, "/", m.domain, m.secure, false)
}

// ClearSession removes all three cookies unconditionally.
func (m *Manager) ClearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", m.domain, m.secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", m.domain, m.secure, true)
	c.SetCookie(RememberMeCookie, "", -1, "/", m.domain, m.secure, false)
}

func (m *Manager) AccessToken(c *gin.Context) (string, error) {
	return c.Cookie(AccessTokenCookie)
}

func (m *Manager) RefreshToken(c *gin.Context) (string, error) {
	return c.Cookie(RefreshTokenCookie)
}

func (m *Manager) RememberMe(c *gin.Context) bool {
	v, err := c.Cookie(RememberMeCookie)
	return err == nil && v == "1"
}
