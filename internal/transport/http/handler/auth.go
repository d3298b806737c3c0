package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/temirkhanov/fintrack/internal/domain"
	"github.com/temirkhanov/fintrack/internal/transport/http/cookies"
	"github.com/temirkhanov/fintrack/internal/transport/http/middleware"
	"github.com/temirkhanov/fintrack/internal/usecase"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, email, password string) (*usecase.Session, error)
	Login(ctx context.Context, email, password string) (*usecase.Session, error)
	Refresh(ctx context.Context, value string) (*usecase.TokenPair, error)
	Logout(ctx context.Context, value string) (*domain.RefreshToken, error)
	VerifyEmail(ctx context.Context, token string) (*domain.User, error)
}

type AuthHandler struct {
	auth    authUsecaser
	cookies *cookies.Manager
	logger  *slog.Logger
}

func NewAuthHandler(auth authUsecaser, cm *cookies.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:    auth,
		cookies: cm,
		logger:  logger.With("component", "auth_handler"),
	}
}

type registerRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type loginRequest struct {
	Email      string `json:"email"       binding:"required,email"`
	Password   string `json:"password"    binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// POST /auth/register
// Registration always opens a non-remembered session; the user may opt into
// "remember me" on a later login.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": errEmailTaken})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "register", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	h.cookies.SetSession(c, session.AccessToken, session.RefreshToken.Value, false)
	c.JSON(http.StatusCreated, gin.H{"user": session.User.Public()})
}

// POST /auth/login
// Unknown email and wrong password answer identically.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	h.cookies.SetSession(c, session.AccessToken, session.RefreshToken.Value, req.RememberMe)
	c.JSON(http.StatusOK, gin.H{"user": session.User.Public()})
}

// POST /auth/refresh
// Rotates the refresh token and reissues both cookies. The remember-me
// choice sticks across rotations via its own cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	value, err := h.cookies.RefreshToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidRefreshToken})
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), value)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRefreshToken):
			h.cookies.ClearSession(c)
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidRefreshToken})
		case errors.Is(err, domain.ErrExpiredRefreshToken):
			h.cookies.ClearSession(c)
			c.JSON(http.StatusUnauthorized, gin.H{"error": errExpiredRefreshToken})
		default:
			h.logger.ErrorContext(c.Request.Context(), "refresh", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	h.cookies.SetSession(c, pair.AccessToken, pair.RefreshToken.Value, h.cookies.RememberMe(c))
	c.Status(http.StatusOK)
}

// POST /auth/logout
// Idempotent: a missing or already-revoked token still clears the cookies
// and answers 200.
func (h *AuthHandler) Logout(c *gin.Context) {
	if value, err := h.cookies.RefreshToken(c); err == nil {
		if _, err := h.auth.Logout(c.Request.Context(), value); err != nil {
			h.logger.ErrorContext(c.Request.Context(), "logout", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
			return
		}
	}

	h.cookies.ClearSession(c)
	c.Status(http.StatusOK)
}

// GET /auth/verify-email?token=<signed>
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
		return
	}

	user, err := h.auth.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMalformedToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed token"})
		case errors.Is(err, domain.ErrInvalidToken),
			errors.Is(err, domain.ErrExpiredToken),
			errors.Is(err, domain.ErrInactiveToken),
			errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
		default:
			h.logger.ErrorContext(c.Request.Context(), "verify email", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}

// GET /auth/me (behind the Auth gate)
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}
