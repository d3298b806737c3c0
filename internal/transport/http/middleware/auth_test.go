package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/temirkhanov/fintrack/internal/domain"
	"github.com/temirkhanov/fintrack/internal/security"
	"github.com/temirkhanov/fintrack/internal/transport/http/cookies"
	"github.com/temirkhanov/fintrack/internal/transport/http/middleware"
)

const testSecret = "middleware-test-secret-32-chars!!!!"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUserFinder struct {
	findByID func(ctx context.Context, id string) (*domain.User, error)
}

func (f *fakeUserFinder) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return f.findByID(ctx, id)
}

func existingUser(user *domain.User) *fakeUserFinder {
	return &fakeUserFinder{
		findByID: func(_ context.Context, id string) (*domain.User, error) {
			if id != user.ID {
				return nil, domain.ErrUserNotFound
			}
			copied := *user
			return &copied, nil
		},
	}
}

// newEngine protects GET /protected with the Auth gate and echoes the
// resolved user id so tests can assert it was attached.
func newEngine(users *fakeUserFinder) *gin.Engine {
	cm := cookies.NewManager(false, "", 15*time.Minute, 7*24*time.Hour)
	tm := security.NewTokenManager([]byte(testSecret))

	r := gin.New()
	r.GET("/protected", middleware.Auth(cm, tm, users), func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c)
		c.String(http.StatusOK, user.ID)
	})
	return r
}

func request(cookieValue string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: cookies.AccessTokenCookie, Value: cookieValue})
	}
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestAuth_MissingCookie_401WithRefreshHint(t *testing.T) {
	w := httptest.NewRecorder()
	newEngine(&fakeUserFinder{}).ServeHTTP(w, request(""))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if body := decodeBody(t, w); body["action"] != "refresh" {
		t.Errorf("action = %q, want refresh", body["action"])
	}
}

func TestAuth_ExpiredToken_401WithRefreshHint(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	tm := security.NewTokenManager([]byte(testSecret)).WithClock(func() time.Time { return past })
	token, err := tm.SignAccess(uuid.NewString())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	w := httptest.NewRecorder()
	newEngine(&fakeUserFinder{}).ServeHTTP(w, request(token))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if body := decodeBody(t, w); body["action"] != "refresh" {
		t.Errorf("action = %q, want refresh", body["action"])
	}
}

func TestAuth_GarbageToken_401(t *testing.T) {
	w := httptest.NewRecorder()
	newEngine(&fakeUserFinder{}).ServeHTTP(w, request("not.a.token"))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_UserDeleted_401WithoutRefreshHint(t *testing.T) {
	users := &fakeUserFinder{
		findByID: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	token, err := security.NewTokenManager([]byte(testSecret)).SignAccess(uuid.NewString())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	w := httptest.NewRecorder()
	newEngine(users).ServeHTTP(w, request(token))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if body := decodeBody(t, w); body["action"] != "" {
		t.Errorf("deleted user still got action = %q; refreshing cannot help", body["action"])
	}
}

func TestAuth_ValidToken_AttachesUser(t *testing.T) {
	user := &domain.User{ID: uuid.NewString(), Email: "a@x.com"}
	token, err := security.NewTokenManager([]byte(testSecret)).SignAccess(user.ID)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	w := httptest.NewRecorder()
	newEngine(existingUser(user)).ServeHTTP(w, request(token))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if w.Body.String() != user.ID {
		t.Errorf("attached user = %q, want %q", w.Body.String(), user.ID)
	}
}
