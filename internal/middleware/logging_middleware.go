// internal/middleware/logging_middleware.go
package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"receipt-service/internal/utils"
)

// LoggingMiddleware logs every API request. Health probes and websocket
// upgrades are skipped to keep the log readable.
func LoggingMiddleware(logger *utils.ServiceLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if path == "/live" || path == "/ready" || strings.HasPrefix(path, "/ws/") {
			return
		}

		requestLogger := &utils.ServiceLogger{Logger: utils.LoggerWithRequestID(logger.Logger, RequestID(c))}
		requestLogger.LogAPIRequest(
			c.Request.Method,
			path,
			c.Request.UserAgent(),
			c.ClientIP(),
			c.Writer.Status(),
			time.Since(startTime),
		)
	}
}
