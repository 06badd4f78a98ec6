package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/quotemill/quotemill/internal/adapters/http/dto"
	"github.com/quotemill/quotemill/internal/platform/logging"
)

// Recovery converts a panic anywhere below it in the chain into a logged
// 500 with the standard error envelope. It must sit first in the chain.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return RecoveryWithWriter(logger, nil)
}

// RecoveryWithWriter is Recovery with a hook that receives the panic value
// and stack, for callers that mirror stacks to a separate sink.
func RecoveryWithWriter(logger *slog.Logger, stackHandler func(err any, stack []byte)) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				handlePanic(c, r, stackHandler)
			}
		}()

		c.Next()
	}
}

func handlePanic(c *gin.Context, r any, stackHandler func(err any, stack []byte)) {
	stack := debug.Stack()
	if stackHandler != nil {
		stackHandler(r, stack)
	}

	var traceID string
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		traceID = span.SpanContext().TraceID().String()
	}

	logging.FromContext(c.Request.Context()).Error("panic recovered",
		slog.Any("error", r),
		slog.String("stack", string(stack)),
		slog.String("path", c.Request.URL.Path),
		slog.String("method", c.Request.Method),
		slog.String("trace_id", traceID),
	)

	errResp := dto.NewErrorResponse(dto.ErrorCodeInternal, "an internal error occurred")
	errResp.TraceID = traceID

	// A partially written response cannot carry the envelope anymore.
	if c.Writer.Written() {
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, errResp)
}
