package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"quicklook-service/internal/adapters/secondary/archive"
	"quicklook-service/internal/adapters/secondary/filesystem"
	"quicklook-service/internal/adapters/secondary/pipeline"
	"quicklook-service/internal/adapters/secondary/postgres"
	"quicklook-service/internal/adapters/secondary/redisqueue"
	"quicklook-service/internal/config"
	"quicklook-service/internal/core/services"
	"quicklook-service/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	log.Info("database connection established")

	queue, err := redisqueue.NewQueue(&cfg.Redis)
	if err != nil {
		log.Fatalf("create job queue: %v", err)
	}
	defer queue.Close()

	historyRepo := postgres.NewQueryHistoryRepository(pool)
	statsRepo := postgres.NewCosmicRayStatsRepository(pool)
	jobRepo := postgres.NewJobRepository(pool)

	archiveClient := archive.NewArchiveClient(&cfg.Archive)
	store := filesystem.NewStore(&cfg.Filesystem)
	calibrator := pipeline.NewCalibrator(&cfg.Monitor)

	cosmicRaySvc := services.NewCosmicRayService(historyRepo, statsRepo, archiveClient, store, calibrator, cfg.Monitor.ApertureConcurrency)
	jobSvc := services.NewJobService(jobRepo, queue, cosmicRaySvc)

	w := worker.New(queue, jobSvc)

	ctx, cancel := context.WithCancel(context.Background())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info("shutting down worker...")
		cancel()
	}()

	if err := w.Run(ctx); err != nil {
		log.Fatalf("worker error: %v", err)
	}

	log.Info("worker stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
