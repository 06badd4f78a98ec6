package benchmark

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quotemill/quotemill/internal/domain"
	"github.com/quotemill/quotemill/internal/layout"
	"github.com/quotemill/quotemill/internal/pdf"
)

// benchQuotation builds a quotation large enough to paginate.
func benchQuotation(items int) *domain.Quotation {
	q := &domain.Quotation{
		ID:      "bench-1",
		OwnerID: "bench-owner",

		CompanyName:    "Shree Enterprise",
		CompanyAddress: "12 Industrial Estate, Pune, Maharashtra 411001",
		CompanyEmail:   "office@shree.example",
		CompanyPhone:   "+91 98200 00000",

		CustomerName:    "Apex Coatings Pvt Ltd",
		CustomerAddress: "Plot 7, MIDC Industrial Area, Pune",

		QuoteName: "Benchmark Painting Works",
		QuoteDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Subject:   "Quotation for industrial painting works at the tank farm",

		Terms:               "Payment within 30 days of invoice. Material at actuals.",
		AuthorisedSignatory: "R. Sharma",
	}

	qty := decimal.RequireFromString("1200")
	rate := decimal.RequireFromString("18.50")
	for i := 0; i < items; i++ {
		q.LineItems = append(q.LineItems, domain.LineItem{
			Description:  fmt.Sprintf("Surface preparation and epoxy coating, section %d", i+1),
			Quantity:     &qty,
			Unit:         "sq.mt",
			Rate:         &rate,
			ShowQuantity: true,
			ShowUnit:     true,
			ShowRate:     true,
		})
	}

	return q
}

// BenchmarkLayoutPlan measures planning alone, the pure part of rendering.
func BenchmarkLayoutPlan(b *testing.B) {
	engine := layout.NewEngine(pdf.NewMeasurer())
	q := benchQuotation(50)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = engine.Plan(q, false)
	}
}

// BenchmarkRenderBuffer measures a full in-memory document render, the unit
// of work each export worker performs.
func BenchmarkRenderBuffer(b *testing.B) {
	renderer := pdf.NewRenderer(pdf.Config{
		OutputDir: b.TempDir(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	q := benchQuotation(50)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		result, err := renderer.Render(q, pdf.Assets{}, pdf.ModeBuffer)
		if err != nil {
			b.Fatal(err)
		}
		if len(result.Data) == 0 {
			b.Fatal("empty document")
		}
	}
}
