package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/mindmap/internal/metrics"
)

// PrometheusMiddleware records HTTP request duration and count. Routes in
// skip and WebSocket upgrades are not recorded.
func PrometheusMiddleware(skip ...string) gin.HandlerFunc {
	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipped[p] = true
	}

	return func(c *gin.Context) {
		path := c.FullPath()
		if skipped[path] || c.IsWebsocket() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
