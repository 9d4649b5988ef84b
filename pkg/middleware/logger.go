package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/devcert-dashboard/pkg/logger"
	"go.uber.org/zap"
)

// probePaths are polled by the orchestrator and only logged at debug level
var probePaths = map[string]bool{"/healthz": true, "/readyz": true, "/metrics": true}

// RequestLogger logs one line per request with the caller's uid and role
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		if uid := GetUserID(c); uid != "" {
			fields = append(fields, zap.String("user_id", uid), zap.String("role", GetUserRole(c)))
		}

		reqLogger := logger.WithContext(c.Request.Context())

		switch {
		case probePaths[path] && c.Writer.Status() < 400:
			reqLogger.Debug("Probe served", fields...)
		case len(c.Errors) > 0:
			reqLogger.Error("Request completed with errors", append(fields, zap.String("errors", c.Errors.String()))...)
		default:
			reqLogger.Info("Request completed", fields...)
		}
	}
}
