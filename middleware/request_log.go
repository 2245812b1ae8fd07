package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/surveybot/logger"
)

const (
	RequestIDHeader = "X-Request-ID"
	CtxRequestID    = "requestID"
)

// RequestLogger ghi mỗi request một dòng log có request id.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(CtxRequestID, reqID)
		c.Header(RequestIDHeader, reqID)

		c.Next()

		status := c.Writer.Status()
		kv := []interface{}{
			"request_id", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
		}
		switch {
		case status >= 500:
			logger.L.Error("request", kv...)
		case status >= 400:
			logger.L.Warn("request", kv...)
		default:
			logger.L.Info("request", kv...)
		}
	}
}
