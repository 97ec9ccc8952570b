package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/accountsvc/internal/metrics"
)

// HTTPMetrics records request count, latency and in-flight requests per route
func HTTPMetrics(m *metrics.HTTPMetrics) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		m.InFlightGauge.Inc()
		defer m.InFlightGauge.Dec()

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.RequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	})
}
