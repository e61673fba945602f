package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/medcamp/internal/pkg/metrics"
)

// Metrics records request counts and latency keyed by the matched route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())

		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			metrics.AuthFailures.WithLabelValues(strconv.Itoa(status)).Inc()
		}
	}
}
