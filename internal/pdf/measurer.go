// Package pdf renders planned quotation documents with gofpdf. It walks the
// blocks the layout engine emits and draws them; it makes no layout decisions
// of its own.
package pdf

import (
	"github.com/jung-kurt/gofpdf"

	"github.com/quotemill/quotemill/internal/layout"
)

// measurer implements layout.Measurer on a dedicated gofpdf document so
// planning and drawing share the same Helvetica metrics.
type measurer struct {
	doc *gofpdf.Fpdf
}

// NewMeasurer returns a text measurer backed by the renderer's font metrics.
func NewMeasurer() layout.Measurer {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont(fontFamily, "", layout.FontTable)

	return &measurer{doc: doc}
}

func (m *measurer) SplitText(text string, fontSize, width float64) []string {
	if text == "" {
		return []string{""}
	}

	m.doc.SetFontSize(fontSize)

	lines := m.doc.SplitText(text, width)
	if len(lines) == 0 {
		return []string{""}
	}

	return lines
}
