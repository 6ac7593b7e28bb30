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
	"github.com/rollabike/storefront/config"
	"github.com/rollabike/storefront/internal/auth"
	"github.com/rollabike/storefront/internal/email"
	"github.com/rollabike/storefront/internal/health"
	"github.com/rollabike/storefront/internal/infrastructure/postgres"
	ctxlog "github.com/rollabike/storefront/internal/log"
	"github.com/rollabike/storefront/internal/metrics"
	"github.com/rollabike/storefront/internal/payment"
	httptransport "github.com/rollabike/storefront/internal/transport/http"
	"github.com/rollabike/storefront/internal/transport/http/handler"
	"github.com/rollabike/storefront/internal/usecase"
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

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)

	// Access gate
	codec := auth.NewCodec([]byte(cfg.JWTSecret), auth.DefaultTokenTTL)
	gate := auth.NewGate(codec, userRepo)

	// External collaborators
	emailSender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	gateway := payment.NewGateway(cfg.Env, cfg.StripeAPIKey, logger)

	// Usecases and handlers
	accountUsecase := usecase.NewAccountUsecase(userRepo, codec)
	accountHandler := handler.NewAccountHandler(accountUsecase, logger)

	catalogUsecase := usecase.NewCatalogUsecase(productRepo)
	catalogHandler := handler.NewCatalogHandler(catalogUsecase, logger)

	orderUsecase := usecase.NewOrderUsecase(orderRepo, productRepo, gateway, emailSender, logger)
	orderHandler := handler.NewOrderHandler(orderUsecase, logger)

	reviewUsecase := usecase.NewReviewUsecase(reviewRepo, productRepo)
	reviewHandler := handler.NewReviewHandler(reviewUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, gate, accountHandler, catalogHandler, orderHandler, reviewHandler),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

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
