package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quicklook-service/internal/adapters/primary/http/handlers"
	"quicklook-service/internal/adapters/primary/http/middleware"
	"quicklook-service/internal/adapters/secondary/archive"
	"quicklook-service/internal/adapters/secondary/edb"
	"quicklook-service/internal/adapters/secondary/filesystem"
	"quicklook-service/internal/adapters/secondary/pipeline"
	"quicklook-service/internal/adapters/secondary/postgres"
	"quicklook-service/internal/adapters/secondary/redisqueue"
	"quicklook-service/internal/config"
	"quicklook-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Create database pool
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

	// Secondary adapters
	historyRepo := postgres.NewQueryHistoryRepository(pool)
	statsRepo := postgres.NewCosmicRayStatsRepository(pool)
	jobRepo := postgres.NewJobRepository(pool)

	queue, err := redisqueue.NewQueue(&cfg.Redis)
	if err != nil {
		log.Fatalf("create job queue: %v", err)
	}
	defer queue.Close()

	archiveClient := archive.NewArchiveClient(&cfg.Archive)
	edbClient := edb.NewClient(&cfg.EDB)
	store := filesystem.NewStore(&cfg.Filesystem)
	calibrator := pipeline.NewCalibrator(&cfg.Monitor)

	// Core services
	cosmicRaySvc := services.NewCosmicRayService(historyRepo, statsRepo, archiveClient, store, calibrator, cfg.Monitor.ApertureConcurrency)
	telemetrySvc := services.NewTelemetryService(edbClient)
	jobSvc := services.NewJobService(jobRepo, queue, cosmicRaySvc)

	// Primary adapter (HTTP handlers)
	h := handlers.New(cosmicRaySvc, telemetrySvc, jobSvc)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1/quicklook")
	h.RegisterRoutes(api)

	// Health check with DB and queue pings
	router.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		if err := queue.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
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
