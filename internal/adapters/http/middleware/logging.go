package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quotemill/quotemill/internal/platform/logging"
)

// Logging logs every request start and completion through the context
// logger, so entries carry the request, correlation, and trace IDs added by
// the upstream middleware. Probe paths under /-/ are never logged.
func Logging(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/-/") {
			c.Next()
			return
		}

		logRequest(c, true)
	}
}

// LoggingWithSkipPaths is Logging with additional exact paths excluded,
// typically /metrics.
func LoggingWithSkipPaths(logger *slog.Logger, skipPaths []string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, path := range skipPaths {
		skip[path] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, skipped := skip[path]; skipped || strings.HasPrefix(path, "/-/") {
			c.Next()
			return
		}

		logRequest(c, false)
	}
}

func logRequest(c *gin.Context, withUserAgent bool) {
	start := time.Now()

	path := c.Request.URL.Path
	if c.Request.URL.RawQuery != "" {
		path = path + "?" + c.Request.URL.RawQuery
	}

	ctxLogger := logging.FromContext(c.Request.Context())

	startAttrs := []any{
		slog.String("method", c.Request.Method),
		slog.String("path", path),
		slog.String("client_ip", c.ClientIP()),
	}
	if withUserAgent {
		startAttrs = append(startAttrs, slog.String("user_agent", c.Request.UserAgent()))
	}
	ctxLogger.Info("request started", startAttrs...)

	c.Next()

	latency := time.Since(start)
	status := c.Writer.Status()

	level := slog.LevelInfo
	switch {
	case status >= http.StatusInternalServerError:
		level = slog.LevelError
	case status >= http.StatusBadRequest:
		level = slog.LevelWarn
	}

	ctxLogger.Log(c.Request.Context(), level, "request completed",
		slog.String("method", c.Request.Method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Duration("latency", latency),
		slog.Int64("latency_ms", latency.Milliseconds()),
		slog.Int("bytes", c.Writer.Size()),
	)
}
