package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/temirkhanov/fintrack/config"
	"github.com/temirkhanov/fintrack/internal/email"
	"github.com/temirkhanov/fintrack/internal/health"
	"github.com/temirkhanov/fintrack/internal/infrastructure/postgres"
	ctxlog "github.com/temirkhanov/fintrack/internal/log"
	"github.com/temirkhanov/fintrack/internal/maintenance"
	"github.com/temirkhanov/fintrack/internal/metrics"
	"github.com/temirkhanov/fintrack/internal/security"
	httptransport "github.com/temirkhanov/fintrack/internal/transport/http"
	"github.com/temirkhanov/fintrack/internal/transport/http/cookies"
	"github.com/temirkhanov/fintrack/internal/transport/http/handler"
	"github.com/temirkhanov/fintrack/internal/usecase"
)

// Cookie lifetimes mirror the token lifetimes they carry.
const (
	accessCookieTTL  = 15 * time.Minute
	refreshCookieTTL = 7 * 24 * time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(pool)
	refreshRepo := postgres.NewRefreshTokenRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)

	// Auth
	hasher := security.NewHasher()
	tokens := security.NewTokenManager([]byte(cfg.JWTSecret))
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	userService := usecase.NewUserService(userRepo)
	refreshService := usecase.NewRefreshTokenService(refreshRepo)
	authUsecase := usecase.NewAuthUsecase(userService, refreshService, tokens, hasher, sender, cfg.VerifyLinkBase, logger)

	cookieManager := cookies.NewManager(cfg.CookieSecure, cfg.CookieDomain, accessCookieTTL, refreshCookieTTL)
	authHandler := handler.NewAuthHandler(authUsecase, cookieManager, logger)

	// Transactions
	txUsecase := usecase.NewTransactionUsecase(txRepo)
	txHandler := handler.NewTransactionHandler(txUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	sweeper, err := maintenance.NewSweeper(refreshRepo, cfg.SweepCron, logger)
	if err != nil {
		stop()
		log.Fatalf("sweeper: %v", err)
	}
	go sweeper.Start(ctx)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, txHandler, cookieManager, tokens, userService, txRepo),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker.Handler())

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
