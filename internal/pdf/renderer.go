package pdf

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"github.com/quotemill/quotemill/internal/domain"
	"github.com/quotemill/quotemill/internal/layout"
)

const (
	fontFamily = "Helvetica"

	letterheadName = "letterhead"
	signatureName  = "signature"

	// defaultTagline is the synthesized text-header second line.
	defaultTagline = "All Kinds of Industrial & Decorative Painting, Sand & Shot Blasting & All Types of Labour Job Works."
)

// Mode selects how a rendered document is delivered.
type Mode int

const (
	// ModeDownload writes <quoteName>.pdf under the renderer's output
	// directory.
	ModeDownload Mode = iota

	// ModeBuffer returns the document bytes for further processing, such
	// as an upload.
	ModeBuffer
)

// Result is a finished render.
type Result struct {
	// Filename is the sanitized quote name plus the pdf extension.
	Filename string

	// Path is set in download mode.
	Path string

	// Data is set in buffer mode.
	Data []byte

	Pages int
}

// Config contains renderer settings.
type Config struct {
	// OutputDir receives files written in download mode.
	OutputDir string

	// Tagline overrides the text-header second line.
	Tagline string

	Logger *slog.Logger
}

// Renderer draws planned quotation documents. It is stateless across calls:
// each Render builds a fresh document, so concurrent renders of different
// quotations are safe.
type Renderer struct {
	engine    *layout.Engine
	outputDir string
	tagline   string
	signature []byte
	logger    *slog.Logger
}

// NewRenderer creates a renderer with its own layout engine and measurer.
func NewRenderer(cfg Config) *Renderer {
	tagline := cfg.Tagline
	if tagline == "" {
		tagline = defaultTagline
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Renderer{
		engine:    layout.NewEngine(NewMeasurer()),
		outputDir: cfg.OutputDir,
		tagline:   tagline,
		signature: DefaultSignature(),
		logger:    logger,
	}
}

// Render lays out and draws the quotation. The quotation must already have
// passed domain validation. Unusable images degrade rather than fail: a bad
// header falls back to the text header, a bad signature is skipped. Output
// is deterministic for identical input; the document creation and
// modification dates are pinned to the quote date.
func (r *Renderer) Render(q *domain.Quotation, assets Assets, mode Mode) (*Result, error) {
	headerType := ""
	if len(assets.HeaderImage) > 0 {
		t, err := sniffImage(assets.HeaderImage)
		if err != nil {
			r.logger.Warn("header image unusable, using text header",
				slog.String("quote_name", q.QuoteName),
				slog.Any("error", err),
			)
		} else {
			headerType = t
		}
	}
	useImage := headerType != ""

	plan := r.engine.Plan(q, useImage)

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0) // the plan owns pagination
	// Both document dates are pinned to the quote date; gofpdf otherwise
	// stamps the modification date with the wall clock.
	doc.SetCreationDate(q.QuoteDate.UTC())
	doc.SetModificationDate(q.QuoteDate.UTC())
	doc.SetTitle(q.QuoteName, true)

	if useImage {
		doc.RegisterImageOptionsReader(letterheadName,
			gofpdf.ImageOptions{ImageType: headerType},
			bytes.NewReader(assets.HeaderImage))
	}

	signatureOK := r.registerSignature(doc, q.QuoteName)

	for page := 0; page < plan.Pages; page++ {
		doc.AddPage()
		r.drawPage(doc, plan, q, page, signatureOK)
	}

	if doc.Err() {
		return nil, fmt.Errorf("rendering %q: %w", q.QuoteName, doc.Error())
	}

	result := &Result{
		Filename: SanitizeFilename(q.QuoteName) + ".pdf",
		Pages:    plan.Pages,
	}

	switch mode {
	case ModeBuffer:
		var buf bytes.Buffer
		if err := doc.Output(&buf); err != nil {
			return nil, fmt.Errorf("writing %q to buffer: %w", q.QuoteName, err)
		}

		result.Data = buf.Bytes()

	default:
		if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output dir: %w", err)
		}

		path := filepath.Join(r.outputDir, result.Filename)
		if err := doc.OutputFileAndClose(path); err != nil {
			return nil, fmt.Errorf("writing %q: %w", path, err)
		}

		result.Path = path
	}

	return result, nil
}

// registerSignature validates and registers the signature stamp. A bad
// asset only loses the stamp, never the document.
func (r *Renderer) registerSignature(doc *gofpdf.Fpdf, quoteName string) bool {
	if len(r.signature) == 0 {
		return false
	}

	t, err := sniffImage(r.signature)
	if err != nil {
		r.logger.Warn("signature image unusable, skipping signature stamp",
			slog.String("quote_name", quoteName),
			slog.Any("error", err),
		)

		return false
	}

	doc.RegisterImageOptionsReader(signatureName,
		gofpdf.ImageOptions{ImageType: t},
		bytes.NewReader(r.signature))

	return true
}

// drawPage draws every block that the plan placed on one page. Headers are
// drawn first, then flowed blocks, then table segments; the pinned footer
// lands on its own page.
func (r *Renderer) drawPage(doc *gofpdf.Fpdf, plan *layout.Plan, q *domain.Quotation, page int, signatureOK bool) {
	for _, b := range plan.Blocks {
		if b.Kind == layout.KindHeader && b.Page == page {
			r.drawHeader(doc, q, b)
		}
	}

	for _, b := range plan.Blocks {
		switch b.Kind {
		case layout.KindHeader:
			// drawn above
		case layout.KindTable:
			for _, seg := range b.Table.Segments {
				if seg.Page == page {
					r.drawTableSegment(doc, b.Table, seg, q)
				}
			}
		default:
			if b.Page == page {
				r.drawBlock(doc, q, b, signatureOK)
			}
		}
	}
}

func (r *Renderer) drawBlock(doc *gofpdf.Fpdf, q *domain.Quotation, b layout.Block, signatureOK bool) {
	switch b.Kind {
	case layout.KindRecipient:
		r.drawRecipient(doc, b)
	case layout.KindSubject:
		r.drawSubject(doc, b)
	case layout.KindSalutation:
		doc.SetFont(fontFamily, "", layout.FontSubject)
		doc.Text(layout.MarginLeft, b.Y, "Dear Sir,")
	case layout.KindTerms:
		r.drawTerms(doc, b)
	case layout.KindSigner:
		doc.SetFont(fontFamily, "B", layout.FontSubject)
		doc.Text(layout.MarginLeft, b.Y, "For, "+q.CompanyName)
	case layout.KindSignature:
		r.drawSignature(doc, q, b, signatureOK)
	case layout.KindFooter:
		r.drawFooter(doc, q, b)
	}
}

func (r *Renderer) drawHeader(doc *gofpdf.Fpdf, q *domain.Quotation, b layout.Block) {
	if b.Header.UseImage {
		doc.ImageOptions(letterheadName,
			layout.HeaderImageX, layout.HeaderImageY,
			layout.HeaderImageWidth, layout.HeaderImageHeight(),
			false, gofpdf.ImageOptions{}, 0, "")

		return
	}

	doc.SetFont(fontFamily, "B", 18)
	centerText(doc, q.CompanyName, layout.TextHeaderNameY)
	doc.SetFont(fontFamily, "", 10)
	centerText(doc, r.tagline, layout.TextHeaderTaglineY)
}

func (r *Renderer) drawRecipient(doc *gofpdf.Fpdf, b layout.Block) {
	rc := b.Recipient
	y := b.Y

	doc.SetFont(fontFamily, "", layout.FontSubject)
	doc.Text(layout.PageWidth-layout.MarginLeft-doc.GetStringWidth(rc.DateText), y, rc.DateText)
	doc.Text(layout.MarginLeft, y, "To,")
	y += 6

	doc.SetFont(fontFamily, "B", layout.FontRecipient)
	for _, line := range rc.NameLines {
		doc.Text(layout.MarginLeft, y, line)
		y += 5
	}

	doc.SetFont(fontFamily, "", layout.FontRecipient)
	for _, line := range rc.AddressLines {
		doc.Text(layout.MarginLeft, y, line)
		y += 5
	}

	if rc.KindAttention != "" {
		y += 2

		doc.SetFont(fontFamily, "B", layout.FontSubject)
		doc.Text(layout.MarginLeft, y, "Kind Attention:-")
		doc.SetFont(fontFamily, "", layout.FontSubject)
		doc.Text(45, y, rc.KindAttention)
	}
}

func (r *Renderer) drawSubject(doc *gofpdf.Fpdf, b layout.Block) {
	doc.SetFont(fontFamily, "B", layout.FontSubject)
	doc.Text(layout.MarginLeft, b.Y, "Sub:-")

	doc.SetFont(fontFamily, "", layout.FontSubject)

	y := b.Y
	for _, line := range b.Subject.Lines {
		doc.Text(27, y, line)
		y += 5
	}
}

func (r *Renderer) drawTerms(doc *gofpdf.Fpdf, b layout.Block) {
	y := b.Y
	if b.Terms.Continued {
		y += 4
	} else {
		doc.SetFont(fontFamily, "B", layout.FontTable)
		doc.Text(layout.MarginLeft, b.Y, "Term's & Condition :-")
		y += 5
	}

	doc.SetFont(fontFamily, "", layout.FontTerms)

	for _, line := range b.Terms.Lines {
		doc.Text(layout.MarginLeft, y, line)
		y += 4
	}
}

func (r *Renderer) drawSignature(doc *gofpdf.Fpdf, q *domain.Quotation, b layout.Block, signatureOK bool) {
	if signatureOK {
		doc.ImageOptions(signatureName,
			layout.MarginLeft, b.Y+2,
			layout.SignatureWidth, layout.SignatureHeight(),
			false, gofpdf.ImageOptions{}, 0, "")
	}

	doc.SetFont(fontFamily, "B", layout.FontSubject)
	doc.Text(layout.MarginLeft, b.Y+b.Height, q.AuthorisedSignatory)
}

func (r *Renderer) drawFooter(doc *gofpdf.Fpdf, q *domain.Quotation, b layout.Block) {
	doc.SetDrawColor(0, 0, 0)
	doc.SetLineWidth(0.2)
	doc.Rect(layout.EdgeMargin, b.Y, layout.PageWidth-2*layout.EdgeMargin, b.Footer.BoxHeight, "D")

	doc.SetFont(fontFamily, "", layout.FontFooter)

	y := b.Y + 5
	for _, line := range b.Footer.AddressLines {
		centerText(doc, line, y)
		y += 4
	}

	contact := fmt.Sprintf("Email- %s (M) %s", q.CompanyEmail, q.CompanyPhone)
	centerText(doc, contact, y)
}

// drawTableSegment draws one page's part of the item table: the repeated
// column header row followed by the rows the plan assigned to this page.
func (r *Renderer) drawTableSegment(doc *gofpdf.Fpdf, t *layout.TableContent, seg layout.TableSegment, q *domain.Quotation) {
	doc.SetDrawColor(0, 0, 0)
	doc.SetLineWidth(0.1)

	doc.SetFont(fontFamily, "B", layout.FontTable)
	doc.SetXY(layout.EdgeMargin, seg.Y)

	for _, col := range t.Columns {
		doc.CellFormat(col.Width, layout.TableHeaderRowHeight, col.Title, "1", 0, "CM", false, 0, "")
	}

	for _, row := range seg.Rows {
		if row.Total {
			r.drawTotalRow(doc, t, row, q)
		} else {
			r.drawItemRow(doc, t, row)
		}
	}
}

func (r *Renderer) drawItemRow(doc *gofpdf.Fpdf, t *layout.TableContent, row layout.TableRow) {
	doc.SetFont(fontFamily, "", layout.FontTable)

	item := row.Item
	serial := fmt.Sprint(row.Serial)
	amount := FormatMoney(domain.ItemAmount(*item))
	if row.Continued {
		// The tail of a row split across a page break repeats only the
		// description lines.
		serial, amount = "", ""
	}

	var cells []tableCell
	switch {
	case t.Set == domain.ColumnsManual:
		cells = []tableCell{
			{width: t.Columns[0].Width, text: serial, align: "C"},
			{width: t.Columns[1].Width, lines: row.DescLines},
			{width: t.Columns[2].Width, text: amount, align: "C"},
		}
	case row.Span:
		// Manual item in a full-column document: the description spans
		// the Qty, Unit and Rate columns.
		span := t.Columns[1].Width + t.Columns[2].Width + t.Columns[3].Width + t.Columns[4].Width
		cells = []tableCell{
			{width: t.Columns[0].Width, text: serial, align: "C"},
			{width: span, lines: row.DescLines},
			{width: t.Columns[5].Width, text: amount, align: "C"},
		}
	default:
		qty, unit, rate := "", "", ""
		if !row.Continued {
			if item.ShowQuantity && item.Quantity != nil {
				qty = FormatQuantity(*item.Quantity)
			}
			if item.ShowUnit {
				unit = item.Unit
			}
			if item.ShowRate && item.Rate != nil {
				rate = FormatMoney(*item.Rate)
			}
		}

		cells = []tableCell{
			{width: t.Columns[0].Width, text: serial, align: "C"},
			{width: t.Columns[1].Width, lines: row.DescLines},
			{width: t.Columns[2].Width, text: qty, align: "C"},
			{width: t.Columns[3].Width, text: unit, align: "C"},
			{width: t.Columns[4].Width, text: rate, align: "C"},
			{width: t.Columns[5].Width, text: amount, align: "C"},
		}
	}

	drawCells(doc, row.Y, row.Height, cells)
}

func (r *Renderer) drawTotalRow(doc *gofpdf.Fpdf, t *layout.TableContent, row layout.TableRow, q *domain.Quotation) {
	doc.SetFont(fontFamily, "B", layout.FontTable)

	last := t.Columns[len(t.Columns)-1]
	labelWidth := layout.TableWidth() - last.Width

	drawCells(doc, row.Y, row.Height, []tableCell{
		{width: labelWidth, text: "Total", align: "R"},
		{width: last.Width, text: FormatMoney(domain.Total(q.LineItems)), align: "C"},
	})
}

// tableCell is one drawn cell: either a single aligned text value or
// pre-wrapped description lines.
type tableCell struct {
	width float64
	text  string
	align string
	lines []string
}

func drawCells(doc *gofpdf.Fpdf, y, height float64, cells []tableCell) {
	x := layout.EdgeMargin
	for _, cell := range cells {
		doc.Rect(x, y, cell.width, height, "D")

		if len(cell.lines) > 0 {
			ly := y + 4
			for _, line := range cell.lines {
				doc.Text(x+1.5, ly, line)
				ly += 5
			}
		} else if cell.text != "" {
			baseline := y + height/2 + 1.7
			switch cell.align {
			case "R":
				doc.Text(x+cell.width-2-doc.GetStringWidth(cell.text), baseline, cell.text)
			default:
				doc.Text(x+(cell.width-doc.GetStringWidth(cell.text))/2, baseline, cell.text)
			}
		}

		x += cell.width
	}
}

// centerText draws a string centered on the page at a baseline.
func centerText(doc *gofpdf.Fpdf, text string, y float64) {
	doc.Text((layout.PageWidth-doc.GetStringWidth(text))/2, y, text)
}
