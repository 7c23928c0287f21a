package middleware

import (
	"time"

	"clubsphere/internal/auth"
	"clubsphere/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger writes one line per request to the "http" logger.
func RequestLogger() gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		}
		if p := PrincipalFrom(c); p != nil {
			fields = append(fields, "user", auth.EmailOf(p))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Errorw("request", fields...)
		case status >= 400:
			log.Warnw("request", fields...)
		default:
			log.Infow("request", fields...)
		}
	}
}
