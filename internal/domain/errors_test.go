package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrValidation,
		ErrForbidden,
		ErrUnavailable,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b, "%v must not match %v", a, b)
			}
		}
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name    string
		entity  string
		id      string
		wantMsg string
	}{
		{
			name:    "with entity and id",
			entity:  "quotation",
			id:      "q-123",
			wantMsg: `quotation with id "q-123" not found`,
		},
		{
			name:    "entity only",
			entity:  "document",
			id:      "",
			wantMsg: "document not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNotFoundError(tt.entity, tt.id)

			assert.Equal(t, tt.wantMsg, err.Error())
			require.ErrorIs(t, err, ErrNotFound)

			var notFound *NotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.entity, notFound.Entity)
			assert.Equal(t, tt.id, notFound.ID)
		})
	}
}

func TestValidationFailuresError(t *testing.T) {
	err := NewValidationFailuresError([]FieldFailure{
		{Path: "quoteName", Message: "must not be empty"},
		{Path: "lineItems[1].amount", Message: "must not be negative"},
	})

	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "quoteName")
	assert.Contains(t, err.Error(), "lineItems[1].amount")

	var vf *ValidationFailuresError
	require.ErrorAs(t, err, &vf)
	assert.Len(t, vf.Failures, 2)
}

func TestForbiddenError(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		reason    string
		wantMsg   string
	}{
		{
			name:      "with reason",
			operation: "export",
			reason:    "quotation belongs to another owner",
			wantMsg:   `operation "export" forbidden: quotation belongs to another owner`,
		},
		{
			name:      "without reason",
			operation: "update",
			wantMsg:   `operation "update" forbidden`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewForbiddenError(tt.operation, tt.reason)

			assert.Equal(t, tt.wantMsg, err.Error())
			require.ErrorIs(t, err, ErrForbidden)

			var forbidden *ForbiddenError
			require.ErrorAs(t, err, &forbidden)
			assert.Equal(t, tt.operation, forbidden.Operation)
			assert.Equal(t, tt.reason, forbidden.Reason)
		})
	}
}

func TestUnavailableError(t *testing.T) {
	tests := []struct {
		name    string
		service string
		reason  string
		wantMsg string
	}{
		{
			name:    "with reason",
			service: "object store",
			reason:  "connection timeout",
			wantMsg: `service "object store" unavailable: connection timeout`,
		},
		{
			name:    "without reason",
			service: "asset source",
			wantMsg: `service "asset source" unavailable`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewUnavailableError(tt.service, tt.reason)

			assert.Equal(t, tt.wantMsg, err.Error())
			require.ErrorIs(t, err, ErrUnavailable)

			var unavailable *UnavailableError
			require.ErrorAs(t, err, &unavailable)
			assert.Equal(t, tt.service, unavailable.Service)
			assert.Equal(t, tt.reason, unavailable.Reason)
		})
	}
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		isFunc func(error) bool
		want   bool
	}{
		{"not found typed", NewNotFoundError("quotation", "q-1"), IsNotFound, true},
		{"not found sentinel", ErrNotFound, IsNotFound, true},
		{"not found wrapped", fmt.Errorf("load: %w", ErrNotFound), IsNotFound, true},
		{"not found mismatch", ErrConflict, IsNotFound, false},
		{"not found nil", nil, IsNotFound, false},

		{"conflict sentinel", ErrConflict, IsConflict, true},
		{"conflict wrapped", fmt.Errorf("save: %w", ErrConflict), IsConflict, true},
		{"conflict mismatch", ErrNotFound, IsConflict, false},
		{"conflict nil", nil, IsConflict, false},

		{"validation typed", NewValidationFailuresError([]FieldFailure{{Path: "quoteName"}}), IsValidation, true},
		{"validation sentinel", ErrValidation, IsValidation, true},
		{"validation wrapped", fmt.Errorf("check: %w", ErrValidation), IsValidation, true},
		{"validation mismatch", ErrNotFound, IsValidation, false},
		{"validation nil", nil, IsValidation, false},

		{"forbidden typed", NewForbiddenError("delete", "not the owner"), IsForbidden, true},
		{"forbidden sentinel", ErrForbidden, IsForbidden, true},
		{"forbidden wrapped", fmt.Errorf("guard: %w", ErrForbidden), IsForbidden, true},
		{"forbidden mismatch", ErrNotFound, IsForbidden, false},
		{"forbidden nil", nil, IsForbidden, false},

		{"unavailable typed", NewUnavailableError("object store", "timeout"), IsUnavailable, true},
		{"unavailable sentinel", ErrUnavailable, IsUnavailable, true},
		{"unavailable wrapped", fmt.Errorf("ping: %w", ErrUnavailable), IsUnavailable, true},
		{"unavailable mismatch", ErrNotFound, IsUnavailable, false},
		{"unavailable nil", nil, IsUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.isFunc(tt.err))
		})
	}
}

func TestFailuresFrom(t *testing.T) {
	t.Run("through wrapping layers", func(t *testing.T) {
		err := NewValidationFailuresError([]FieldFailure{
			{Path: "quoteDate", Message: "must not be in the future"},
		})
		wrapped := fmt.Errorf("save quotation: %w", fmt.Errorf("validate: %w", err))

		failures := FailuresFrom(wrapped)
		require.Len(t, failures, 1)
		assert.Equal(t, "quoteDate", failures[0].Path)
	})

	t.Run("plain validation sentinel carries none", func(t *testing.T) {
		assert.Nil(t, FailuresFrom(ErrValidation))
	})

	t.Run("unrelated error carries none", func(t *testing.T) {
		assert.Nil(t, FailuresFrom(ErrNotFound))
	})
}

func TestErrorWrappingChain(t *testing.T) {
	original := NewNotFoundError("quotation", "q-123")
	wrapped := fmt.Errorf("handler: %w", fmt.Errorf("service: %w", fmt.Errorf("repo: %w", original)))

	assert.True(t, IsNotFound(wrapped))

	var notFound *NotFoundError
	require.ErrorAs(t, wrapped, &notFound)
	assert.Equal(t, "quotation", notFound.Entity)
	assert.Equal(t, "q-123", notFound.ID)
}
