package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Marshal-AM/sillyboy/internal/observability"
)

// RequestIDHeader is the header name for request ID propagation.
const RequestIDHeader = "X-Request-ID"

// RequestID returns a middleware that attaches a request ID to each
// request, reusing the caller's ID when present.
func RequestID() gin.HandlerFunc {
	return RequestIDWithGenerator(func() string {
		return uuid.New().String()
	})
}

// RequestIDWithGenerator returns a request ID middleware using a
// custom ID generator.
func RequestIDWithGenerator(generator func() string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = generator()
		}

		ctx := observability.ContextWithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()
	}
}
