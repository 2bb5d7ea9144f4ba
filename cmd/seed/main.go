package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"stockroom/internal/config"
	"stockroom/internal/infrastructure/logger"
	"stockroom/internal/infrastructure/mysql"
	"stockroom/internal/seed"
)

func main() {
	file := flag.String("file", "seed.yaml", "path to the YAML fixture")
	migrate := flag.Bool("migrate", false, "create tables before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log, "stockroom-seed")
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	fixture, err := seed.LoadFile(*file)
	if err != nil {
		zapLogger.Fatal("loading fixture", zap.String("file", *file), zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := mysql.NewConnection(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()

	if *migrate || cfg.Database.AutoMigrate {
		if err := mysql.Migrate(ctx, db); err != nil {
			zapLogger.Fatal("migrating schema", zap.Error(err))
		}
	}

	if err := seed.Apply(ctx, db, fixture, zapLogger); err != nil {
		zapLogger.Fatal("applying fixture", zap.Error(err))
	}
}
