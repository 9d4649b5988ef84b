package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/devcert-dashboard/pkg/common"
	"github.com/richxcame/devcert-dashboard/pkg/logger"
	"go.uber.org/zap"
)

// Recovery turns a handler panic into a 500 carrying the correlation id, so an
// admin can quote it when an import or rescan blows up.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			fields := []zap.Field{
				zap.String("panic", fmt.Sprint(rec)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("route", c.FullPath()),
				zap.Stack("stack"),
			}
			if uid := GetUserID(c); uid != "" {
				fields = append(fields, zap.String("user_id", uid))
			}
			logger.WithContext(c.Request.Context()).Error("Handler panicked", fields...)

			if c.Writer.Written() {
				// body already streaming, nothing sane to append
				c.Abort()
				return
			}

			message := "internal server error"
			if id := GetCorrelationID(c); id != "" {
				message = fmt.Sprintf("internal server error (ref %s)", id)
			}
			common.ErrorResponse(c, http.StatusInternalServerError, message)
			c.Abort()
		}()

		c.Next()
	}
}
