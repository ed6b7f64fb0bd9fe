package middleware

import (
	"strconv"
	"time"

	"todoapi/internal/core/telemetry"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request counts and latency labelled by route
// template, so /api/todos/1 and /api/todos/2 share a series.
func MetricsMiddleware(metrics *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections(c.Request.Context())
		defer metrics.DecrementActiveConnections(c.Request.Context())

		c.Next()

		route := c.FullPath()

		if route == "" {
			route = "unmatched"
		}

		metrics.RecordRequest(
			c.Request.Context(),
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
