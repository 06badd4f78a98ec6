package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quotemill/quotemill/internal/domain"
)

// Open connects to the configured database and migrates the schema.
// The sqlite driver exists for local development and tests; deployments
// run postgres.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}

	if err := db.AutoMigrate(&quotationModel{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return db, nil
}

// QuotationRepository is the GORM-backed ports.QuotationRepository.
type QuotationRepository struct {
	db *gorm.DB
}

// NewQuotationRepository creates a repository on an opened database.
func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

// Create stores a new quotation.
func (r *QuotationRepository) Create(ctx context.Context, q *domain.Quotation) error {
	if err := r.db.WithContext(ctx).Create(toModel(q)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("quotation %s: %w", q.ID, domain.ErrConflict)
		}

		return fmt.Errorf("creating quotation: %w", err)
	}

	return nil
}

// Update replaces an owner's quotation. The row is matched on both owner and
// ID so one owner can never overwrite another's document.
func (r *QuotationRepository) Update(ctx context.Context, q *domain.Quotation) error {
	res := r.db.WithContext(ctx).
		Model(&quotationModel{}).
		Where("owner_id = ? AND id = ?", q.OwnerID, q.ID).
		Select("*").
		Omit("id", "owner_id", "created_at").
		Updates(toModel(q))
	if res.Error != nil {
		return fmt.Errorf("updating quotation: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("quotation", q.ID)
	}

	return nil
}

// Get retrieves one of an owner's quotations.
func (r *QuotationRepository) Get(ctx context.Context, ownerID, id string) (*domain.Quotation, error) {
	var m quotationModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("quotation", id)
		}

		return nil, fmt.Errorf("loading quotation: %w", err)
	}

	return m.toDomain(), nil
}

// List returns an owner's quotations, newest first.
func (r *QuotationRepository) List(ctx context.Context, ownerID string) ([]*domain.Quotation, error) {
	var models []quotationModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing quotations: %w", err)
	}

	out := make([]*domain.Quotation, len(models))
	for i := range models {
		out[i] = models[i].toDomain()
	}

	return out, nil
}

// Delete removes one of an owner's quotations.
func (r *QuotationRepository) Delete(ctx context.Context, ownerID, id string) error {
	res := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&quotationModel{})
	if res.Error != nil {
		return fmt.Errorf("deleting quotation: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("quotation", id)
	}

	return nil
}

// Name identifies the repository's health check.
func (r *QuotationRepository) Name() string {
	return "database"
}

// Check pings the underlying connection.
func (r *QuotationRepository) Check(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx)
}
