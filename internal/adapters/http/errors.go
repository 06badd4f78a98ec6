package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/quotemill/quotemill/internal/adapters/http/dto"
	"github.com/quotemill/quotemill/internal/domain"
	"github.com/quotemill/quotemill/internal/platform/logging"
)

// MapDomainError translates a domain error into an HTTP status and error
// envelope. Anything unclassified becomes a 500 with a generic message so
// internals never leak to the caller.
func MapDomainError(err error) (int, *dto.ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeNotFound, err.Error())

	case domain.IsConflict(err):
		return http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeConflict, err.Error())

	case domain.IsValidation(err):
		resp := dto.NewErrorResponse(dto.ErrorCodeValidation, err.Error())
		if failures := domain.FailuresFrom(err); len(failures) > 0 {
			details := make(map[string]string, len(failures))
			for _, f := range failures {
				details[f.Path] = f.Message
			}
			resp.Error.Details = details
		}
		return http.StatusBadRequest, resp

	case domain.IsForbidden(err):
		return http.StatusForbidden, dto.NewErrorResponse(dto.ErrorCodeForbidden, err.Error())

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, dto.NewErrorResponse(dto.ErrorCodeUnavailable, err.Error())

	default:
		return http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorCodeInternal, "an internal error occurred")
	}
}

// RespondWithError maps err and writes the envelope, tagging it with the
// active trace ID. Internal errors are logged with the original message
// since the response hides it.
func RespondWithError(c *gin.Context, err error) {
	status, errResp := MapDomainError(err)
	errResp.TraceID = traceIDFrom(c)

	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("internal error",
			"error", err.Error(),
			"trace_id", errResp.TraceID,
		)
	}

	c.JSON(status, errResp)
}

// RespondWithErrorCode writes an envelope for adapter-level failures that
// carry an error code instead of a domain error.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	errResp := dto.NewErrorResponse(code, message)
	errResp.TraceID = traceIDFrom(c)
	c.JSON(dto.HTTPStatusFromCode(code), errResp)
}

// RespondWithValidationErrors writes a 400 with field-level details from
// request binding.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	errResp := dto.NewErrorResponseWithDetails(dto.ErrorCodeValidation, "request validation failed", fieldErrors)
	errResp.TraceID = traceIDFrom(c)
	c.JSON(http.StatusBadRequest, errResp)
}

// AbortWithError is RespondWithError for middleware: it also stops the chain.
func AbortWithError(c *gin.Context, err error) {
	status, errResp := MapDomainError(err)
	errResp.TraceID = traceIDFrom(c)
	c.AbortWithStatusJSON(status, errResp)
}

// AbortWithErrorCode is RespondWithErrorCode for middleware.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	errResp := dto.NewErrorResponse(code, message)
	errResp.TraceID = traceIDFrom(c)
	c.AbortWithStatusJSON(dto.HTTPStatusFromCode(code), errResp)
}

func traceIDFrom(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
