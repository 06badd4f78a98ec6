// Package clients provides HTTP client adapters for downstream services,
// notably the letterhead and signature asset sources.
package clients

import "errors"

// Transport-level failures. Callers such as the asset translation layer map
// these onto domain errors before they reach the application core.
var (
	// ErrCircuitOpen means the breaker is blocking requests to an unhealthy
	// downstream.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last attempt's error once the retry
	// budget is spent.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
