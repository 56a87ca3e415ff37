package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Marshal-AM/sillyboy/internal/observability"
)

// Metrics returns a middleware that records request counts and
// latencies. The route template, not the raw path, is used as the
// label to keep cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		observability.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
