package cookies_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/temirkhanov/fintrack/internal/transport/http/cookies"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newManager() *cookies.Manager {
	return cookies.NewManager(true, "", 15*time.Minute, 7*24*time.Hour)
}

func setSession(t *testing.T, rememberMe bool) []*http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	r := gin.New()
	r.POST("/login", func(c *gin.Context) {
		newManager().SetSession(c, "access-jwt", "refresh-value", rememberMe)
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))

	return w.Result().Cookies()
}

func findCookie(t *testing.T, list []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range list {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestSetSession_SecurityAttributes(t *testing.T) {
	got := setSession(t, false)

	access := findCookie(t, got, cookies.AccessTokenCookie)
	refresh := findCookie(t, got, cookies.RefreshTokenCookie)
	remember := findCookie(t, got, cookies.RememberMeCookie)

	for _, c := range []*http.Cookie{access, refresh, remember} {
		if !c.Secure {
			t.Errorf("cookie %q is not Secure", c.Name)
		}
		if c.SameSite != http.SameSiteStrictMode {
			t.Errorf("cookie %q SameSite = %v, want Strict", c.Name, c.SameSite)
		}
	}
	if !access.HttpOnly || !refresh.HttpOnly {
		t.Error("token cookies must be httpOnly")
	}
	if remember.HttpOnly {
		t.Error("remember_me must stay client-readable")
	}
}

func TestSetSession_WithoutRememberMe_SessionScoped(t *testing.T) {
	got := setSession(t, false)

	for _, name := range []string{cookies.AccessTokenCookie, cookies.RefreshTokenCookie} {
		if c := findCookie(t, got, name); c.MaxAge != 0 {
			t.Errorf("cookie %q MaxAge = %d, want 0 (session cookie)", name, c.MaxAge)
		}
	}
	if c := findCookie(t, got, cookies.RememberMeCookie); c.Value != "0" {
		t.Errorf("remember_me = %q, want 0", c.Value)
	}
}

func TestSetSession_WithRememberMe_PersistentCookies(t *testing.T) {
	got := setSession(t, true)

	if c := findCookie(t, got, cookies.AccessTokenCookie); c.MaxAge != int((15 * time.Minute).Seconds()) {
		t.Errorf("access MaxAge = %d, want %d", c.MaxAge, int((15 * time.Minute).Seconds()))
	}
	week := int((7 * 24 * time.Hour).Seconds())
	if c := findCookie(t, got, cookies.RefreshTokenCookie); c.MaxAge != week {
		t.Errorf("refresh MaxAge = %d, want %d", c.MaxAge, week)
	}
	if c := findCookie(t, got, cookies.RememberMeCookie); c.MaxAge != week || c.Value != "1" {
		t.Errorf("remember_me = (%q, MaxAge %d), want (1, %d)", c.Value, c.MaxAge, week)
	}
}

func TestClearSession_RemovesAllThree(t *testing.T) {
	w := httptest.NewRecorder()
	r := gin.New()
	r.POST("/logout", func(c *gin.Context) {
		newManager().ClearSession(c)
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

	got := w.Result().Cookies()
	for _, name := range []string{cookies.AccessTokenCookie, cookies.RefreshTokenCookie, cookies.RememberMeCookie} {
		if c := findCookie(t, got, name); c.MaxAge >= 0 || c.Value != "" {
			t.Errorf("cookie %q not cleared: value=%q maxAge=%d", name, c.Value, c.MaxAge)
		}
	}
}
