package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quotemill/quotemill/internal/domain"
)

// GetTraceID returns the current request's trace ID. The middleware stores
// the active trace ID in the gin context; the request ID header is the
// fallback for untraced requests.
func GetTraceID(c *gin.Context) string {
	if traceID, ok := c.Get("trace_id"); ok {
		if id, ok := traceID.(string); ok {
			return id
		}
	}

	return c.GetHeader("X-Request-ID")
}

// HandleError writes a domain error as the standard error envelope.
// Unknown errors become a generic 500 so internals never leak to clients.
func HandleError(c *gin.Context, err error) {
	status, resp := errorResponseFor(err)
	c.JSON(status, resp.WithTraceID(GetTraceID(c)))
}

// errorResponseFor maps a domain error to a status code and error envelope.
func errorResponseFor(err error) (int, *ErrorResponse) {
	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())

	case domain.IsConflict(err):
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, err.Error())

	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())
		if failures := domain.FailuresFrom(err); len(failures) > 0 {
			details := make(map[string]string, len(failures))
			for _, f := range failures {
				details[f.Path] = f.Message
			}
			resp.Error.Details = details
		}

		return http.StatusBadRequest, resp

	case domain.IsForbidden(err):
		return http.StatusForbidden, NewErrorResponse(ErrorCodeForbidden, err.Error())

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, err.Error())

	default:
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeInternal,
			"an internal error occurred",
		)
	}
}
