package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quantlab/sandbox-backend-go/pkg/metrics"
)

// Metrics middleware counts handled requests. The route template is used
// as the path label so parameterized routes don't explode cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}
