package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"stockroom/internal/config"
	"stockroom/internal/idempotency"
	"stockroom/internal/infrastructure/logger"
	"stockroom/internal/infrastructure/mysql"
	"stockroom/internal/infrastructure/redis"
	"stockroom/internal/infrastructure/tracing"
	"stockroom/internal/product"
	"stockroom/internal/server"
	"stockroom/internal/stock"
	"stockroom/internal/stock/controller"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log, cfg.Tracing.ServiceName)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	shutdownTracing, err := tracing.Setup(startCtx, cfg.Tracing)
	if err != nil {
		zapLogger.Fatal("setting up tracing", zap.Error(err))
	}

	db, err := mysql.NewConnection(startCtx, cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if cfg.Database.AutoMigrate {
		if err := mysql.Migrate(startCtx, db); err != nil {
			zapLogger.Fatal("migrating schema", zap.Error(err))
		}
		zapLogger.Info("schema ready")
	}

	redisClient, err := redis.NewClient(startCtx, cfg.Redis)
	if err != nil {
		zapLogger.Fatal("connecting to redis", zap.Error(err))
	}

	var guard controller.IdempotencyGuard
	if redisClient != nil {
		defer redisClient.Close()
		guard = idempotency.NewStore(redisClient, cfg.Redis.IdempotencyTTL)
		zapLogger.Info("idempotency keys enabled", zap.Duration("ttl", cfg.Redis.IdempotencyTTL))
	}

	productModule := product.NewModule(db, zapLogger)
	stockModule := stock.NewModule(db, productModule.Service, guard, cfg, zapLogger)

	router := server.NewRouter(productModule, stockModule, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	if err := srv.Shutdown(context.Background()); err != nil {
		zapLogger.Error("server shutdown failed", zap.Error(err))
	}

	flushCtx, cancelFlush := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelFlush()

	if err := shutdownTracing(flushCtx); err != nil {
		zapLogger.Error("tracing shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
