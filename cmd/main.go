package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/refdata-io/valueset-backend/internal/config"
	"github.com/refdata-io/valueset-backend/internal/db"
	"github.com/refdata-io/valueset-backend/internal/handlers"
	"github.com/refdata-io/valueset-backend/internal/middleware"
	"github.com/refdata-io/valueset-backend/internal/observability"
	"github.com/refdata-io/valueset-backend/internal/platform/envutil"
	"github.com/refdata-io/valueset-backend/internal/platform/logger"
	"github.com/refdata-io/valueset-backend/internal/repos"
	"github.com/refdata-io/valueset-backend/internal/server"
	"github.com/refdata-io/valueset-backend/internal/services"
)

func main() {
	// Logger
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	cfg, err := config.Load(log)
	if err != nil {
		log.Fatal("Could not load config", "error", err)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(cfg.Postgres, log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Tracing
	tracingShutdown := observability.InitTracing(context.Background(), log, observability.TracingConfig{
		ServiceName: observability.DefaultServiceName,
		Environment: cfg.Log.Mode,
		Version:     envutil.String("SERVICE_VERSION", ""),
	})
	if tracingShutdown != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracingShutdown(ctx); err != nil {
				log.Warn("otel shutdown failed", "error", err)
			}
		}()
	}

	// Metrics
	metrics := observability.NewMetrics()

	// Repos
	log.Info("Setting up repos...")
	valueSetRepo := repos.NewValueSetRepo(thePG, log)

	// Services
	log.Info("Setting up services...")
	valueSetService := services.NewValueSetService(valueSetRepo, log, metrics)
	bulkService := services.NewBulkService(valueSetService, log, metrics)
	searchService := services.NewSearchService(valueSetRepo, log)
	statsService := services.NewStatsService(valueSetRepo, log)
	exportService := services.NewExportService(valueSetService, log)

	// Handlers
	log.Info("Setting up handlers...")
	valueSetHandler := handlers.NewValueSetHandler(valueSetService, log)
	bulkHandler := handlers.NewBulkHandler(bulkService, log)
	searchHandler := handlers.NewSearchHandler(searchService, log)
	statsHandler := handlers.NewStatsHandler(statsService, log)
	exportHandler := handlers.NewExportHandler(exportService, log)

	// Middleware
	requestLog := middleware.NewRequestLogMiddleware(log, metrics)

	// Router
	router := server.NewRouter(server.RouterConfig{
		ValueSetHandler: valueSetHandler,
		SearchHandler:   searchHandler,
		BulkHandler:     bulkHandler,
		StatsHandler:    statsHandler,
		ExportHandler:   exportHandler,
		RequestLog:      requestLog,
		Metrics:         metrics,
		AllowOrigins:    cfg.Server.AllowOrigins,
	})

	log.Info("Starting server...", "port", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
