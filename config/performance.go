package config

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SlowRequestThreshold marks requests logged at warn level.
const SlowRequestThreshold = 200 * time.Millisecond

func PerformanceLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
		}

		if latency > SlowRequestThreshold {
			logger.Warn("slow request", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}
