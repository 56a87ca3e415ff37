package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Marshal-AM/sillyboy/internal/observability"
)

// Logging returns a middleware that logs each request after it
// completes. Server errors log at error level, client errors at warn.
func Logging(logger observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []observability.Field{
			observability.String("method", c.Request.Method),
			observability.String("path", c.Request.URL.Path),
			observability.Int("status", status),
			observability.Duration("duration", time.Since(start)),
			observability.String("client_ip", c.ClientIP()),
			observability.String("request_id", observability.RequestIDFromContext(c.Request.Context())),
		}

		switch {
		case status >= 500:
			logger.Error("request completed", fields...)
		case status >= 400:
			logger.Warn("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}
