package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/temirkhanov/fintrack/internal/repository"
	"github.com/temirkhanov/fintrack/internal/security"
	"github.com/temirkhanov/fintrack/internal/transport/http/cookies"
	"github.com/temirkhanov/fintrack/internal/transport/http/handler"
	"github.com/temirkhanov/fintrack/internal/transport/http/middleware"
	"github.com/temirkhanov/fintrack/internal/usecase"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	txHandler *handler.TransactionHandler,
	cm *cookies.Manager,
	tokens *security.TokenManager,
	users *usecase.UserService,
	txRepo repository.TransactionRepository,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authGate := middleware.Auth(cm, tokens, users)
	ownerGate := middleware.TransactionOwner(txRepo)

	auth := r.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/verify-email", authHandler.VerifyEmail)
	auth.GET("/me", authGate, authHandler.Me)

	// Protected transaction routes; /:id routes additionally pass the
	// ownership gate.
	txs := r.Group("/transactions", authGate)
	txs.POST("", txHandler.Create)
	txs.GET("", txHandler.List)
	txs.GET("/:id", ownerGate, txHandler.GetByID)
	txs.PATCH("/:id", ownerGate, txHandler.Update)
	txs.DELETE("/:id", ownerGate, txHandler.Delete)

	return r
}
