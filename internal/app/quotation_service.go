// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
//
// Application Layer Responsibilities:
//   - Orchestrate use cases (business workflows)
//   - Coordinate between domain and infrastructure
//   - Handle cross-cutting concerns (logging)
//   - Enforce business rules that span multiple entities
//
// What does NOT belong here:
//   - HTTP specifics (that's adapters)
//   - Database queries (that's repository adapters)
//   - Core domain logic (that's the domain layer)
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quotemill/quotemill/internal/domain"
	"github.com/quotemill/quotemill/internal/ports"
)

// QuotationService orchestrates quotation authoring use cases. Authoring is
// permissive: drafts may be incomplete, and full document validation only
// runs when a document is generated.
type QuotationService struct {
	repo   ports.QuotationRepository
	logger *slog.Logger
}

// QuotationServiceConfig contains configuration for the quotation service.
type QuotationServiceConfig struct {
	Repo   ports.QuotationRepository
	Logger *slog.Logger
}

// NewQuotationService creates a quotation service with the provided dependencies.
func NewQuotationService(cfg QuotationServiceConfig) *QuotationService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuotationService{
		repo:   cfg.Repo,
		logger: logger.With(slog.String("component", "app.QuotationService")),
	}
}

// Create stores a new quotation for an owner. A missing ID is assigned.
func (s *QuotationService) Create(ctx context.Context, q *domain.Quotation) (*domain.Quotation, error) {
	if q.OwnerID == "" {
		return nil, domain.NewForbiddenError("create quotation", "no owner")
	}

	if q.ID == "" {
		q.ID = uuid.NewString()
	}

	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now

	if err := s.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("creating quotation: %w", err)
	}

	s.logger.InfoContext(ctx, "quotation created",
		slog.String("quotation_id", q.ID),
		slog.Int("line_items", len(q.LineItems)),
	)

	return q, nil
}

// Update replaces an owner's quotation.
func (s *QuotationService) Update(ctx context.Context, q *domain.Quotation) (*domain.Quotation, error) {
	if q.OwnerID == "" {
		return nil, domain.NewForbiddenError("update quotation", "no owner")
	}

	q.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, q); err != nil {
		return nil, fmt.Errorf("updating quotation: %w", err)
	}

	s.logger.InfoContext(ctx, "quotation updated",
		slog.String("quotation_id", q.ID),
	)

	return s.repo.Get(ctx, q.OwnerID, q.ID)
}

// Get retrieves one of an owner's quotations.
func (s *QuotationService) Get(ctx context.Context, ownerID, id string) (*domain.Quotation, error) {
	q, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("getting quotation: %w", err)
	}

	return q, nil
}

// List returns an owner's quotations, newest first.
func (s *QuotationService) List(ctx context.Context, ownerID string) ([]*domain.Quotation, error) {
	qs, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing quotations: %w", err)
	}

	return qs, nil
}

// Delete removes one of an owner's quotations.
func (s *QuotationService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("deleting quotation: %w", err)
	}

	s.logger.InfoContext(ctx, "quotation deleted",
		slog.String("quotation_id", id),
	)

	return nil
}
