// Package acl translates external asset sources into domain terms. It keeps
// transport failures, HTTP status codes and circuit breaker states out of
// the application layer, which only ever sees domain errors.
package acl

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/quotemill/quotemill/internal/adapters/clients"
	"github.com/quotemill/quotemill/internal/domain"
)

// mapClientError translates client-level errors to domain errors.
func mapClientError(err error, serviceName, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("circuit breaker open during %s", operation))

	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("max retries exceeded during %s", operation))

	default:
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s failed: %v", operation, err))
	}
}

// mapStatusCode translates HTTP status codes to domain errors. Asset sources
// serve raw images, so there is no error body worth parsing.
func mapStatusCode(status int, serviceName, ref string) error {
	switch status {
	case http.StatusNotFound, http.StatusGone:
		return domain.NewNotFoundError("asset", ref)

	case http.StatusForbidden, http.StatusUnauthorized:
		return domain.NewForbiddenError("fetch asset", fmt.Sprintf("source returned status %d", status))

	default:
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("asset fetch returned status %d", status))
	}
}
