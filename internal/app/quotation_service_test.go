package app

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotemill/quotemill/internal/domain"
)

func testQuotationService(repo *fakeRepo) *QuotationService {
	return NewQuotationService(QuotationServiceConfig{
		Repo:   repo,
		Logger: slog.New(slog.DiscardHandler),
	})
}

func TestCreateAssignsID(t *testing.T) {
	svc := testQuotationService(newFakeRepo())

	q := validQuotation("owner-1")
	q.ID = ""

	created, err := svc.Create(context.Background(), q)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
}

func TestCreateRequiresOwner(t *testing.T) {
	svc := testQuotationService(newFakeRepo())

	q := validQuotation("")

	_, err := svc.Create(context.Background(), q)
	require.Error(t, err)
	assert.True(t, domain.IsForbidden(err))
}

func TestCreateAllowsDraft(t *testing.T) {
	svc := testQuotationService(newFakeRepo())

	// Authoring is permissive; document rules only apply at generation.
	draft := &domain.Quotation{OwnerID: "owner-1", QuoteName: "Draft"}

	created, err := svc.Create(context.Background(), draft)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestUpdateRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	svc := testQuotationService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validQuotation("owner-1"))
	require.NoError(t, err)

	created.QuoteName = "Tank Farm Painting rev2"

	updated, err := svc.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Tank Farm Painting rev2", updated.QuoteName)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))
}

func TestUpdateMissing(t *testing.T) {
	svc := testQuotationService(newFakeRepo())

	_, err := svc.Update(context.Background(), validQuotation("owner-1"))
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestGetAndDelete(t *testing.T) {
	svc := testQuotationService(newFakeRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, validQuotation("owner-1"))
	require.NoError(t, err)

	got, err := svc.Get(ctx, "owner-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	require.NoError(t, svc.Delete(ctx, "owner-1", created.ID))

	_, err = svc.Get(ctx, "owner-1", created.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestListScopedToOwner(t *testing.T) {
	svc := testQuotationService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, validQuotation("owner-1"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, validQuotation("owner-2"))
	require.NoError(t, err)

	list, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "owner-1", list[0].OwnerID)
}
