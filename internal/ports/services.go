// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrConflict, etc.)
//   - Methods represent business operations, not CRUD operations
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/quotemill/quotemill/internal/domain"
)

// QuotationRepository persists quotation documents. All reads and writes are
// scoped to an owner; a quotation that exists but belongs to someone else is
// reported as domain.ErrNotFound rather than leaked.
type QuotationRepository interface {
	// Create stores a new quotation.
	// Returns domain.ErrConflict if the ID is already taken.
	Create(ctx context.Context, q *domain.Quotation) error

	// Update replaces an owner's quotation.
	// Returns domain.ErrNotFound if it does not exist for that owner.
	Update(ctx context.Context, q *domain.Quotation) error

	// Get retrieves one of an owner's quotations by ID.
	Get(ctx context.Context, ownerID, id string) (*domain.Quotation, error)

	// List returns all quotations for an owner, newest first.
	List(ctx context.Context, ownerID string) ([]*domain.Quotation, error)

	// Delete removes one of an owner's quotations.
	// Returns domain.ErrNotFound if it does not exist for that owner.
	Delete(ctx context.Context, ownerID, id string) error
}

// DocumentStore archives rendered documents in durable object storage,
// grouped under per-owner folders.
type DocumentStore interface {
	// EnsureFolder finds or creates the named folder for an owner and
	// returns its key prefix. Repeated calls reuse the existing folder.
	EnsureFolder(ctx context.Context, ownerID, name string) (string, error)

	// Put writes a document under a folder prefix and returns its full key.
	// Returns domain.ErrUnavailable if the store is unreachable.
	Put(ctx context.Context, prefix, filename, contentType string, data []byte) (string, error)
}

// AssetResolver turns a quotation's header image reference into image bytes.
// References may be embedded data URIs or remote locations; either way the
// caller receives bytes ready for embedding, or nil when there is nothing to
// resolve.
type AssetResolver interface {
	// Resolve fetches the referenced image.
	// Returns nil bytes (and no error) for an empty reference.
	// Returns domain.ErrUnavailable when a remote source cannot be reached.
	Resolve(ctx context.Context, ref string) ([]byte, error)
}
