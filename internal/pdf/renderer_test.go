package pdf

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotemill/quotemill/internal/domain"
)

func testQuotation() *domain.Quotation {
	q := &domain.Quotation{}
	q.CompanyName = "Shree Enterprise"
	q.CompanyAddress = "Plot 14, GIDC Estate, Vapi, Gujarat 396195"
	q.CompanyEmail = "contact@shreeenterprise.example"
	q.CompanyPhone = "+91 98765 43210"
	q.CustomerName = "M/s Apex Coatings Pvt. Ltd."
	q.CustomerAddress = "Survey 221, MIDC Phase II, Tarapur"
	q.KindAttention = "Mr. Deshpande"
	q.QuoteName = "Tank Farm Painting 2026"
	q.QuoteDate = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	q.Subject = "Quotation for external painting of tank farm structures."
	q.Terms = "Payment within 30 days of invoice. Scaffolding in client scope."
	q.AuthorisedSignatory = "R. K. Patel"

	item := domain.NewLineItem()
	item.Description = "Surface preparation and two-coat epoxy painting"
	item.Quantity = dec("120")
	item.Unit = "sqm"
	item.Rate = dec("185.50")
	q.LineItems = append(q.LineItems, item)

	return q
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)

	return &d
}

func testRenderer(t *testing.T) *Renderer {
	t.Helper()

	return NewRenderer(Config{
		OutputDir: t.TempDir(),
		Logger:    slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	})
}

func TestRenderBuffer(t *testing.T) {
	r := testRenderer(t)
	q := testQuotation()

	result, err := r.Render(q, Assets{}, ModeBuffer)
	require.NoError(t, err)

	assert.Equal(t, "Tank Farm Painting 2026.pdf", result.Filename)
	assert.Empty(t, result.Path)
	assert.GreaterOrEqual(t, result.Pages, 1)
	require.True(t, len(result.Data) > 4)
	assert.Equal(t, "%PDF", string(result.Data[:4]))
}

func TestRenderDownloadWritesFile(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(Config{OutputDir: dir})
	q := testQuotation()

	result, err := r.Render(q, Assets{}, ModeDownload)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Tank Farm Painting 2026.pdf"), result.Path)
	assert.Nil(t, result.Data)

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderDeterministic(t *testing.T) {
	r := testRenderer(t)
	q := testQuotation()

	first, err := r.Render(q, Assets{}, ModeBuffer)
	require.NoError(t, err)

	// Cross a wall-clock second so an unpinned document date cannot slip
	// through on timing.
	time.Sleep(1100 * time.Millisecond)

	second, err := r.Render(q, Assets{}, ModeBuffer)
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data, "identical input must produce identical bytes")
}

func TestRenderUnusableHeaderFallsBack(t *testing.T) {
	r := testRenderer(t)
	q := testQuotation()

	result, err := r.Render(q, Assets{HeaderImage: []byte("not an image")}, ModeBuffer)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Pages, 1)
}

func TestRenderFilenameSanitized(t *testing.T) {
	r := testRenderer(t)
	q := testQuotation()
	q.QuoteName = "painting/2026\\rev1"

	result, err := r.Render(q, Assets{}, ModeBuffer)
	require.NoError(t, err)

	assert.Equal(t, "painting2026rev1.pdf", result.Filename)
	assert.False(t, strings.ContainsAny(result.Filename, `/\`))
}

func TestRenderManyItemsPaginates(t *testing.T) {
	r := testRenderer(t)
	q := testQuotation()

	item := domain.NewLineItem()
	item.Description = "Additional structural member painting including surface preparation, primer and finish coats"
	item.Quantity = dec("10")
	item.Rate = dec("900")
	for i := 0; i < 40; i++ {
		q.LineItems = append(q.LineItems, item)
	}

	result, err := r.Render(q, Assets{}, ModeBuffer)
	require.NoError(t, err)
	assert.Greater(t, result.Pages, 1)
}

func TestRenderLongTermsPaginates(t *testing.T) {
	r := testRenderer(t)
	q := testQuotation()
	q.Terms = strings.Repeat("Payment within 30 days of invoice. Scaffolding, power and water in client scope. ", 60)

	result, err := r.Render(q, Assets{}, ModeBuffer)
	require.NoError(t, err)
	assert.Greater(t, result.Pages, 1)
}

func TestSniffImage(t *testing.T) {
	sig := DefaultSignature()
	require.NotEmpty(t, sig)

	format, err := sniffImage(sig)
	require.NoError(t, err)
	assert.Equal(t, "PNG", format)

	_, err = sniffImage([]byte("garbage"))
	assert.Error(t, err)
}
