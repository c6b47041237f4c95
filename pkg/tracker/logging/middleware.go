package logging

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"alcoltracker/pkg/tracker/auth"
)

// Middleware logs one line per request: method, path, status, duration, and
// the authenticated user when present.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Milliseconds()
		status := c.Writer.Status()
		userID, _ := auth.GetUserID(c) // zero if unauthenticated

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", duration,
			"user_id", userID,
		}

		switch {
		case status >= 500:
			slog.Error("request failed", attrs...)
		case status >= 400:
			slog.Warn("request rejected", attrs...)
		default:
			slog.Info("request ok", attrs...)
		}
	}
}
