package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"logviewer/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestLog tags each request with an id and logs one line when it
// finishes. The password and cookie never appear in the log.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Writer.Header().Set(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		logger.Info("request", map[string]any{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"action":     c.Query("action"),
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"ip":         c.ClientIP(),
		})
	}
}
