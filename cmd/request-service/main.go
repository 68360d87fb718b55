package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vidalink/telemed/internal/requests"
	"github.com/vidalink/telemed/pkg/cache"
	"github.com/vidalink/telemed/pkg/config"
	"github.com/vidalink/telemed/pkg/database"
	"github.com/vidalink/telemed/pkg/logger"
	"github.com/vidalink/telemed/pkg/monitoring"
)

const serviceVersion = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Connect to Postgres
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.CreateSchema(schemaCtx); err != nil {
		logger.Fatalf("Failed to create database schema: %v", err)
	}
	cancelSchema()

	// Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis)
	if err != nil {
		logger.Fatalf("Failed to create Redis client: %v", err)
	}
	defer redisClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Warn("Redis unavailable, dashboard counters will not be cached")
	}
	cancel()

	// Monitoring
	var metrics *monitoring.MetricsCollector
	var monitor *monitoring.MonitoringMiddleware
	if cfg.Monitoring.Enabled {
		metrics = monitoring.NewMetricsCollector("request-service")
	}

	var tracing *monitoring.TracingManager
	if cfg.Tracing.Enabled {
		tracing, err = monitoring.NewTracingManager(&monitoring.TracingConfig{
			ServiceName:    "request-service",
			ServiceVersion: serviceVersion,
			JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
			Environment:    cfg.Tracing.Environment,
			SamplingRate:   cfg.Tracing.SamplingRate,
		})
		if err != nil {
			logger.Fatalf("Failed to initialize tracing: %v", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := tracing.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shut down tracing")
			}
		}()
	}
	if metrics != nil && tracing != nil {
		monitor = monitoring.NewMonitoringMiddleware(metrics, tracing, logger)
	}

	health := monitoring.NewHealthManager("request-service", serviceVersion)
	health.RegisterChecker("database", monitoring.NewDatabaseHealthChecker(db.DB))
	health.RegisterChecker("redis", monitoring.NewRedisHealthChecker(redisClient))

	// Wire the request service
	repo := requests.NewRepository(db, logger)
	notifier := requests.NewLogNotifier(logger)
	service := requests.NewService(repo, redisClient, notifier, logger, metrics, cfg.Dashboard)
	validator := requests.NewTokenValidator(cfg.JWT.SecretKey)
	server := requests.NewServer(service, validator, logger, health, monitor, metrics)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	// Start service in a goroutine
	go func() {
		logger.Infof("Starting Request Service on %s", addr)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start Request Service: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down Request Service...")
	if err := server.Stop(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
	logger.Info("Request Service stopped")
}
