package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"infinite-experiment/engagesync/internal/api"
	"infinite-experiment/engagesync/internal/common"
	"infinite-experiment/engagesync/internal/config"
	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/db"
	"infinite-experiment/engagesync/internal/logging"
	"infinite-experiment/engagesync/internal/metrics"
	"infinite-experiment/engagesync/internal/routes"
	"infinite-experiment/engagesync/internal/workers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.App.Env, cfg.Log.Level); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("engagesync starting up",
		"environment", cfg.App.Env,
		"dispatch_backend", cfg.Dispatch.Backend,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	dsn := cfg.Database.DSN()

	sqlDB, err := db.InitPostgres(dsn)
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (sqlx)", "error", err.Error())
	}
	logging.Info("Connected to Postgres (sqlx)")

	gormDB, err := db.InitPostgresORM(dsn, cfg.Log.Level == "debug")
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (GORM)", "error", err.Error())
	}
	if err := db.Migrate(gormDB); err != nil {
		logging.Fatal("Failed to migrate database", "error", err.Error())
	}

	var redisClient *redis.Client
	if cfg.Dispatch.Backend == constants.DispatchBackendRedis {
		redisClient = common.NewRedisClient(cfg.Redis)
		defer redisClient.Close()
	}

	metricsReg := metrics.NewMetricsRegistry()

	deps, err := api.InitDependencies(cfg, gormDB, sqlDB, redisClient, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if bus := deps.Services.ConfigEvictions; bus != nil {
		if err := bus.Listen(ctx); err != nil {
			logging.Fatal("Failed to subscribe to config evictions", "error", err.Error())
		}
	}

	wc := workers.InitWorkers(ctx, cfg.Dispatch, deps.Services.RecordSync, deps.Services.RedisQueue, metricsReg)
	deps.Dispatcher = wc.Dispatcher

	upSince := time.Now()
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           routes.RegisterRoutes(deps, cfg, upSince),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.App.Port, "environment", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err.Error())
		}
	}()

	<-ctx.Done()
	logging.Info("Shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}

	// batches already picked up still get delivered and audited
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), cfg.Delivery.Timeout+30*time.Second)
	defer cancelDrain()
	if err := wc.Wait(drainCtx); err != nil {
		logging.Error("Dispatch workers did not finish in time", "error", err.Error())
	}
	logging.Info("Shutdown complete")
}
