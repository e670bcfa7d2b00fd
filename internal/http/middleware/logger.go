package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger prints a minimal request log including request_id and, once auth
// has run, the acting role.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		reqID := GetRequestID(c)
		status := c.Writer.Status()

		role := "-"
		if actor, ok := GetActor(c); ok {
			role = string(actor.Role)
		}

		log.Printf("[HTTP] request_id=%s method=%s path=%s status=%d role=%s latency_ms=%.3f ip=%s",
			reqID,
			c.Request.Method,
			c.Request.URL.Path,
			status,
			role,
			float64(latency.Microseconds())/1000.0,
			c.ClientIP(),
		)
	}
}
