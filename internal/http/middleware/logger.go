package middleware

import (
	"time"

	"github.com/lnascimentosilva/library/internal/metrics"
	"github.com/lnascimentosilva/library/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger writes one access log line per request and records HTTP metrics.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.IncrementInFlight()
		defer metrics.DecrementInFlight()

		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPMetrics(c.Request.Method, path, status, latency)

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Float64("latency_ms", float64(latency.Microseconds())/1000.0),
			zap.String("ip", c.ClientIP()),
		}
		if email := c.GetString(userEmailKey); email != "" {
			fields = append(fields, zap.String("user", email))
		}
		if status >= 500 {
			utils.Log().Error("http request", fields...)
			return
		}
		utils.Log().Info("http request", fields...)
	}
}
