package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/quotemill/quotemill/internal/platform/logging"
)

const (
	// HeaderCorrelationID tracks one business transaction across services,
	// e.g. a batch export fanning out into many document renders, where the
	// request ID only covers a single hop.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyCorrelationID is the gin context key for the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// CorrelationID propagates an upstream X-Correlation-ID or mints one when
// this service originates the transaction. The ID is echoed on the response
// and threaded through both contexts and the context logger.
func CorrelationID() gin.HandlerFunc {
	return createIDMiddleware(idMiddlewareConfig{
		headerName:      HeaderCorrelationID,
		contextKey:      ContextKeyCorrelationID,
		contextEnricher: logging.WithCorrelationID,
	})
}

// GetCorrelationID returns the correlation ID, or "" when the middleware did
// not run.
func GetCorrelationID(c *gin.Context) string {
	return getIDFromContext(c, ContextKeyCorrelationID)
}

// MustGetCorrelationID is GetCorrelationID with "unknown" as the fallback.
func MustGetCorrelationID(c *gin.Context) string {
	if id := GetCorrelationID(c); id != "" {
		return id
	}
	return "unknown"
}
