package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/refdata-io/valueset-backend/internal/observability"
	"github.com/refdata-io/valueset-backend/internal/platform/logger"
)

type RequestLogMiddleware struct {
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewRequestLogMiddleware(log *logger.Logger, metrics *observability.Metrics) *RequestLogMiddleware {
	middlewareLog := log.With("middleware", "RequestLogMiddleware")
	return &RequestLogMiddleware{log: middlewareLog, metrics: metrics}
}

func (rl *RequestLogMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		rl.metrics.ObserveRequest(c.Request.Method, route, status, elapsed)
		if status >= 500 {
			rl.log.Error("request failed", "method", c.Request.Method, "route", route, "status", status, "elapsed_ms", elapsed.Milliseconds())
			return
		}
		rl.log.Debug("request completed", "method", c.Request.Method, "route", route, "status", status, "elapsed_ms", elapsed.Milliseconds())
	}
}
