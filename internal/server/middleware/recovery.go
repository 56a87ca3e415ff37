package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/Marshal-AM/sillyboy/internal/observability"
)

// Recovery returns a middleware that recovers from panics and answers
// with a generic 500.
func Recovery(logger observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					observability.String("path", c.Request.URL.Path),
					observability.String("method", c.Request.Method),
					observability.Any("error", err),
					observability.String("stack", string(debug.Stack())),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()

		c.Next()
	}
}
