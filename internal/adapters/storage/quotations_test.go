package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotemill/quotemill/internal/domain"
)

func testRepo(t *testing.T) *QuotationRepository {
	t.Helper()

	db, err := Open("sqlite", filepath.Join(t.TempDir(), "quotations.db"))
	require.NoError(t, err)

	return NewQuotationRepository(db)
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)

	return &d
}

func storedQuotation(ownerID string, created time.Time) *domain.Quotation {
	first := domain.NewLineItem()
	first.Description = "Epoxy coating, two coats"
	first.Quantity = dec("80")
	first.Unit = "sqm"
	first.Rate = dec("210")

	second := domain.LineItem{
		Description: "Mobilisation lump sum",
		Amount:      dec("15000"),
	}

	return &domain.Quotation{
		ID:                  uuid.NewString(),
		OwnerID:             ownerID,
		CompanyName:         "Shree Enterprise",
		CompanyEmail:        "contact@shreeenterprise.example",
		CompanyPhone:        "+91 98765 43210",
		CustomerName:        "M/s Apex Coatings Pvt. Ltd.",
		CustomerAddress:     "Survey 221, MIDC Phase II, Tarapur",
		QuoteName:           "Tank Farm Painting",
		QuoteDate:           time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Subject:             "External painting of tank farm structures",
		LineItems:           []domain.LineItem{first, second},
		Terms:               "Payment within 30 days of invoice.",
		AuthorisedSignatory: "R. K. Patel",
		CreatedAt:           created,
		UpdatedAt:           created,
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	q := storedQuotation("owner-1", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, repo.Create(ctx, q))

	got, err := repo.Get(ctx, "owner-1", q.ID)
	require.NoError(t, err)

	assert.Equal(t, q.QuoteName, got.QuoteName)
	assert.Equal(t, q.CustomerName, got.CustomerName)
	require.Len(t, got.LineItems, 2)

	// Item order and mode flags must survive storage unchanged.
	assert.Equal(t, "Epoxy coating, two coats", got.LineItems[0].Description)
	assert.Equal(t, domain.ModeComputed, got.LineItems[0].Mode())
	require.NotNil(t, got.LineItems[0].Rate)
	assert.True(t, got.LineItems[0].Rate.Equal(decimal.RequireFromString("210")))

	assert.Equal(t, "Mobilisation lump sum", got.LineItems[1].Description)
	assert.Equal(t, domain.ModeManual, got.LineItems[1].Mode())
	require.NotNil(t, got.LineItems[1].Amount)
	assert.True(t, got.LineItems[1].Amount.Equal(decimal.RequireFromString("15000")))
}

func TestCreateDuplicateID(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	q := storedQuotation("owner-1", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, q))

	err := repo.Create(ctx, q)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestGetWrongOwner(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	q := storedQuotation("owner-1", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, q))

	_, err := repo.Get(ctx, "owner-2", q.ID)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err), "foreign quotations must read as absent")
}

func TestUpdate(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	q := storedQuotation("owner-1", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, q))

	q.QuoteName = "Tank Farm Painting rev2"
	q.LineItems = q.LineItems[:1]
	q.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, q))

	got, err := repo.Get(ctx, "owner-1", q.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tank Farm Painting rev2", got.QuoteName)
	assert.Len(t, got.LineItems, 1)
}

func TestUpdateMissing(t *testing.T) {
	repo := testRepo(t)

	q := storedQuotation("owner-1", time.Now().UTC())

	err := repo.Update(context.Background(), q)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestUpdateWrongOwner(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	q := storedQuotation("owner-1", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, q))

	q.OwnerID = "owner-2"
	q.QuoteName = "hijacked"

	err := repo.Update(ctx, q)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestListNewestFirst(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	older := storedQuotation("owner-1", base)
	newer := storedQuotation("owner-1", base.Add(48*time.Hour))
	foreign := storedQuotation("owner-2", base.Add(24*time.Hour))

	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))
	require.NoError(t, repo.Create(ctx, foreign))

	got, err := repo.List(ctx, "owner-1")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)
}

func TestDelete(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	q := storedQuotation("owner-1", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, q))

	require.NoError(t, repo.Delete(ctx, "owner-1", q.ID))

	_, err := repo.Get(ctx, "owner-1", q.ID)
	assert.True(t, domain.IsNotFound(err))

	err = repo.Delete(ctx, "owner-1", q.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestHealthCheck(t *testing.T) {
	repo := testRepo(t)

	assert.Equal(t, "database", repo.Name())
	assert.NoError(t, repo.Check(context.Background()))
}
