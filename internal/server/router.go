package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/refdata-io/valueset-backend/internal/handlers"
	"github.com/refdata-io/valueset-backend/internal/middleware"
	"github.com/refdata-io/valueset-backend/internal/observability"
	"github.com/refdata-io/valueset-backend/internal/types"
)

type RouterConfig struct {
	ValueSetHandler *handlers.ValueSetHandler
	SearchHandler   *handlers.SearchHandler
	BulkHandler     *handlers.BulkHandler
	StatsHandler    *handlers.StatsHandler
	ExportHandler   *handlers.ExportHandler
	RequestLog      *middleware.RequestLogMiddleware
	Metrics         *observability.Metrics
	AllowOrigins    []string
	ServiceName     string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	registerValidations()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = observability.DefaultServiceName
	}

	router := gin.New()
	router.Use(gin.Recovery())
	// no-op until InitTracing installs a real tracer provider
	router.Use(otelgin.Middleware(serviceName))
	if cfg.RequestLog != nil {
		router.Use(cfg.RequestLog.Handle())
	}

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)
	if registry := cfg.Metrics.Registry(); registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	valueSets := api.Group("/value-sets")
	{
		// Collection operations
		valueSets.POST("", cfg.ValueSetHandler.Create)
		valueSets.GET("", cfg.SearchHandler.List)
		valueSets.GET("/statistics/summary", cfg.StatsHandler.Statistics)
		valueSets.POST("/validate", cfg.ValueSetHandler.Validate)
		valueSets.POST("/import", cfg.ExportHandler.Import)

		// Search
		valueSets.POST("/search/items", cfg.SearchHandler.SearchItems)
		valueSets.GET("/search/by-label", cfg.SearchHandler.SearchByLabel)

		// Bulk
		valueSets.POST("/bulk/import", cfg.BulkHandler.Create)
		valueSets.PUT("/bulk/update", cfg.BulkHandler.UpdateMetadata)
		valueSets.PUT("/items/bulk-update", cfg.BulkHandler.UpdateItems)

		// Single aggregate
		valueSets.GET("/:key", cfg.ValueSetHandler.Get)
		valueSets.PUT("/:key", cfg.ValueSetHandler.Update)
		valueSets.POST("/:key/archive", cfg.ValueSetHandler.Archive)
		valueSets.POST("/:key/restore", cfg.ValueSetHandler.Restore)
		valueSets.GET("/:key/export", cfg.ExportHandler.Export)

		// Items
		valueSets.POST("/:key/items", cfg.ValueSetHandler.AddItem)
		valueSets.POST("/:key/items/bulk-add", cfg.BulkHandler.AddItems)
		valueSets.PUT("/:key/items/replace", cfg.ValueSetHandler.ReplaceItemCode)
		valueSets.PUT("/:key/items/:code", cfg.ValueSetHandler.UpdateItem)
	}

	return router
}

// registerValidations wires the enlabel rule into gin's binding validator:
// a labels map must carry a non-blank "en" entry.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("enlabel", func(fl validator.FieldLevel) bool {
		labels, ok := fl.Field().Interface().(types.Labels)
		if !ok {
			return false
		}
		return strings.TrimSpace(labels[types.DefaultLanguage]) != ""
	})
}
