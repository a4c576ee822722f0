package middleware

import (
	"io"
	"time"

	"hradmin/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LoggerConfig struct {
	// SkipPaths is an url path array which logs are not written.
	// Optional.
	SkipPaths []string
}

// LoggingMiddleware returns a gin.HandlerFunc (middleware) that logs requests using the provided logger.
func (m *middlewares) LoggingMiddleware(config ...LoggerConfig) gin.HandlerFunc {
	var conf LoggerConfig
	if len(config) > 0 {
		conf = config[0]
	}

	// Create skip path map for faster lookup
	skipPaths := make(map[string]bool)
	for _, path := range conf.SkipPaths {
		skipPaths[path] = true
	}

	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			// Skip logging for specified paths
			if skipPaths[param.Path] {
				return ""
			}

			latency := param.Latency
			if latency > time.Minute {
				latency = latency.Truncate(time.Second)
			}

			fields := []log.Field{
				log.String("method", param.Method),
				log.String("path", param.Path),
				log.String("protocol", param.Request.Proto),
				log.Int("status_code", param.StatusCode),
				log.Duration("latency", latency),
				log.String("client_ip", param.ClientIP),
				log.String("user_agent", param.Request.UserAgent()),
			}

			if requestID := param.Request.Header.Get("X-Request-ID"); requestID != "" {
				fields = append(fields, log.String("request_id", requestID))
			}

			if param.ErrorMessage != "" {
				fields = append(fields, log.String("error", param.ErrorMessage))
			}

			m.logger.Info("HTTP Request", fields...)

			return "" // Return empty string since we're handling logging ourselves
		},
		Output: io.Discard, // Discard default gin output since we're using our logger
	})
}

// RequestIDMiddleware propagates the incoming X-Request-ID header or
// assigns a fresh uuid when absent.
func (m *middlewares) RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
			c.Request.Header.Set("X-Request-ID", requestID)
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}
