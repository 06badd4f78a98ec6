package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestAndCorrelationIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-render-001")
	ctx = ContextWithCorrelationID(ctx, "corr-export-042")

	assert.Equal(t, "req-render-001", RequestIDFromContext(ctx))
	assert.Equal(t, "corr-export-042", CorrelationIDFromContext(ctx))
}

func TestIDFromContext_Absent(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Empty(t, CorrelationIDFromContext(context.Background()))

	var nilCtx context.Context
	assert.Empty(t, RequestIDFromContext(nilCtx))
	assert.Empty(t, CorrelationIDFromContext(nilCtx))
}

func TestIDFromContext_EmptyValueIsPreserved(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "")
	assert.Empty(t, RequestIDFromContext(ctx))
}

func TestIDsUseDistinctKeys(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "only-request")

	assert.Equal(t, "only-request", RequestIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(ctx), "request ID must not leak into the correlation slot")
}
