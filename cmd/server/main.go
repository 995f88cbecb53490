package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"fuelprices_dashboard/internal/app/di"
	"fuelprices_dashboard/internal/app/router"
	"fuelprices_dashboard/internal/feature/dashboard/adapters/chartrender"
	"fuelprices_dashboard/internal/feature/dashboard/transport/handler"
	"fuelprices_dashboard/internal/feature/dashboard/usecase"
	"fuelprices_dashboard/internal/platform/config"
	httphandler "fuelprices_dashboard/internal/platform/http/handler"
	"fuelprices_dashboard/internal/platform/logger"
	infraredis "fuelprices_dashboard/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load("")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	logger.Setup(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis（任意）
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			slog.Warn("Redis unavailable. Running without cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// API クライアント（Redisキャッシュでラップ）
	upstream := di.NewFuelPricesAPI(cfg.API)
	pricesAPI := di.NewPricesAPI(cfg, upstream, rdb)

	// Usecase
	dashboardUC := usecase.NewDashboardUsecase(pricesAPI)
	pageController := usecase.NewPageController(dashboardUC)

	// Handler
	dashboardH := handler.NewDashboardHandler(pageController, chartrender.NewRenderer())
	healthH := httphandler.NewHealthHandler(di.NewHealthChecks(upstream, rdb))

	// ルータ生成
	r := router.NewRouter(cfg.Server, dashboardH, healthH)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", cfg.Server.Addr, "api", cfg.API.BaseURL, "cache", pricesAPI.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
