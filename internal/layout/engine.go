package layout

import (
	"fmt"

	"github.com/quotemill/quotemill/internal/domain"
)

// Engine plans quotation documents. It is stateless and safe to share; every
// Plan call is independent.
type Engine struct {
	measure Measurer
}

// NewEngine creates a layout engine using the given text measurer.
func NewEngine(m Measurer) *Engine {
	return &Engine{measure: m}
}

// Plan lays out the quotation's blocks over as many pages as the content
// needs. useImage selects the embedded letterhead header; without it the
// deterministic text header is planned instead. Plan assumes a quotation
// that already passed domain validation and never fails on content length:
// overlong text produces more pages, not an error.
func (e *Engine) Plan(q *domain.Quotation, useImage bool) *Plan {
	p := &planner{engine: e, q: q, useImage: useImage}

	p.measureFooter()
	p.placeHeader(false)
	p.placeRecipient()
	p.placeSubject()
	p.placeSalutation()
	p.placeTable()
	p.placeTerms()
	p.placeSignature()
	p.placeFooter()

	return &Plan{
		Columns:       domain.ColumnSetFor(q.LineItems),
		Blocks:        p.blocks,
		Pages:         p.page + 1,
		FooterReserve: p.reserve,
		ContentTop:    p.contentTop,
	}
}

// planner is the single-use placement state: current page, cursor offset,
// and the blocks placed so far.
type planner struct {
	engine   *Engine
	q        *domain.Quotation
	useImage bool

	contentTop  float64
	reserve     float64
	footerLines []string
	footerBox   float64

	page   int
	y      float64
	blocks []Block
}

func (p *planner) split(text string, fontSize, width float64) []string {
	return p.engine.measure.SplitText(text, fontSize, width)
}

// measureFooter fixes the footer box geometry and the bottom reserve M
// before any flow placement happens. The reserve never drops below the
// template's historical 40mm so short addresses keep the same pagination.
func (p *planner) measureFooter() {
	p.footerLines = p.split("Add: "+p.q.CompanyAddress, FontFooter, PageWidth-footerWrapInset)

	textHeight := float64(len(p.footerLines))*lineSmall + footerTextPad
	p.footerBox = textHeight + footerBoxPad

	p.reserve = p.footerBox + footerBottomGap + headerImagePad
	if p.reserve < minFooterReserve {
		p.reserve = minFooterReserve
	}
}

// limit is the lowest Y flow-placed content may reach.
func (p *planner) limit() float64 {
	return PageHeight - p.reserve
}

// placeHeader places a page header and moves the cursor to the content top.
func (p *planner) placeHeader(newPage bool) {
	if p.useImage {
		p.contentTop = HeaderImageY + HeaderImageHeight() + headerImagePad
	} else {
		p.contentTop = textHeaderBottom
	}

	p.blocks = append(p.blocks, Block{
		Kind:    KindHeader,
		Page:    p.page,
		Y:       0,
		Height:  p.contentTop,
		NewPage: newPage,
		Header:  &HeaderContent{UseImage: p.useImage},
	})
	p.y = p.contentTop
}

// breakPage starts a new page and re-places the header block.
func (p *planner) breakPage() {
	p.page++
	p.placeHeader(true)
}

// ensure breaks the page first when a block of the given height would
// cross into the footer reserve. It reports whether a break happened.
func (p *planner) ensure(height float64) bool {
	if p.y+height > p.limit() {
		p.breakPage()
		return true
	}

	return false
}

func (p *planner) placeRecipient() {
	width := PageWidth/2 - 20

	content := &RecipientContent{
		DateText:      fmt.Sprintf("Date: %s", p.q.QuoteDate.Format("02-01-2006")),
		NameLines:     p.split(p.q.CustomerName, FontRecipient, width),
		AddressLines:  p.split(p.q.CustomerAddress, FontRecipient, width),
		KindAttention: p.q.KindAttention,
	}

	height := 6 + float64(max(1, len(content.NameLines)))*lineBody +
		float64(len(content.AddressLines))*lineBody
	if content.KindAttention != "" {
		height += salutationHeight
	}

	p.ensure(height)
	p.blocks = append(p.blocks, Block{
		Kind:      KindRecipient,
		Page:      p.page,
		Y:         p.y,
		Height:    height,
		Recipient: content,
	})
	p.y += height
}

func (p *planner) placeSubject() {
	p.y += lineBody // gap between recipient and subject

	lines := p.split(p.q.Subject, FontSubject, 160)
	height := float64(len(lines))*lineBody + lineBody

	p.ensure(height)
	p.blocks = append(p.blocks, Block{
		Kind:    KindSubject,
		Page:    p.page,
		Y:       p.y,
		Height:  height,
		Subject: &SubjectContent{Lines: lines},
	})
	p.y += height
}

func (p *planner) placeSalutation() {
	p.ensure(salutationHeight)
	p.blocks = append(p.blocks, Block{
		Kind:   KindSalutation,
		Page:   p.page,
		Y:      p.y,
		Height: salutationHeight,
	})
	p.y += salutationHeight
}

// placeTable lays out the item table, splitting it into per-page segments.
// Each segment repeats the column header row; the totals row is placed as
// the final row and never separates from the table.
func (p *planner) placeTable() {
	set := domain.ColumnSetFor(p.q.LineItems)
	cols := ColumnsFor(set)
	descWidth := descColumnWidth(cols)
	spanWidth := descWidth
	if set == domain.ColumnsFull {
		spanWidth = spanColumnWidth(cols)
	}

	content := &TableContent{Set: set, Columns: cols}
	startY := p.y
	startPage := p.page

	seg := TableSegment{Page: p.page, Y: p.y}
	p.y += TableHeaderRowHeight

	breakSegment := func() {
		content.Segments = append(content.Segments, seg)
		p.breakPage()

		seg = TableSegment{Page: p.page, Y: p.y}
		p.y += TableHeaderRowHeight
	}

	placeRow := func(row TableRow) {
		if p.y+row.Height > p.limit() {
			breakSegment()
		}

		// A description taller than a whole page continues across pages,
		// one page's worth of wrapped lines at a time.
		for p.y+row.Height > p.limit() {
			fit := int((p.limit() - p.y - tableRowPad) / tableRowLine)
			if fit < 1 {
				fit = 1
			}

			part := row
			part.DescLines = row.DescLines[:fit]
			part.Height = rowHeight(fit)
			part.Y = p.y
			seg.Rows = append(seg.Rows, part)

			row.DescLines = row.DescLines[fit:]
			row.Height = rowHeight(len(row.DescLines))
			row.Continued = true

			breakSegment()
		}

		row.Y = p.y
		seg.Rows = append(seg.Rows, row)
		p.y += row.Height
	}

	for i := range p.q.LineItems {
		item := &p.q.LineItems[i]
		span := set == domain.ColumnsFull && item.Mode() == domain.ModeManual

		width := descWidth
		if span {
			width = spanWidth
		}
		descLines := p.split(item.Description, FontTable, width)

		placeRow(TableRow{
			Serial:    i + 1,
			Item:      item,
			DescLines: descLines,
			Span:      span,
			Height:    rowHeight(len(descLines)),
		})
	}

	placeRow(TableRow{Total: true, Height: rowHeight(1)})

	content.Segments = append(content.Segments, seg)
	content.FinalPage = p.page
	content.FinalY = p.y

	p.blocks = append(p.blocks, Block{
		Kind:   KindTable,
		Page:   startPage,
		Y:      startY,
		Height: content.FinalY - startY, // single-page extent; segments carry the split
		Table:  content,
	})
}

// placeTerms flows the terms text, continuing onto following pages when the
// wrapped lines outgrow the space above the footer reserve.
func (p *planner) placeTerms() {
	p.y += headerImagePad // gap after the table

	lines := p.split(p.q.Terms, FontTerms, 180)

	continued := false
	for {
		head := lineBody // the heading line, first segment only
		if continued {
			head = 0
		}

		if p.y+head+lineSmall > p.limit() {
			p.breakPage()
		}

		fit := int((p.limit() - p.y - head) / lineSmall)
		if fit > len(lines) {
			fit = len(lines)
		}

		chunk := lines[:fit]
		lines = lines[fit:]

		height := head + float64(len(chunk))*lineSmall
		p.blocks = append(p.blocks, Block{
			Kind:   KindTerms,
			Page:   p.page,
			Y:      p.y,
			Height: height,
			Terms:  &TermsContent{Lines: chunk, Continued: continued},
		})
		p.y += height

		if len(lines) == 0 {
			break
		}

		continued = true
		p.breakPage()
	}

	p.y += headerImagePad
}

// placeSignature places the signer line, the signature image and the
// signatory name. The image and name stay together on one page.
func (p *planner) placeSignature() {
	p.ensure(signerHeight)
	p.blocks = append(p.blocks, Block{
		Kind:   KindSigner,
		Page:   p.page,
		Y:      p.y,
		Height: signerHeight,
	})
	p.y += signerHeight

	height := signaturePadY + SignatureHeight() + signatureNameGap
	p.ensure(height)
	p.blocks = append(p.blocks, Block{
		Kind:   KindSignature,
		Page:   p.page,
		Y:      p.y,
		Height: height,
	})
	p.y += height
}

// placeFooter pins the footer box to the bottom of the page that is current
// when flow placement finishes. It is never overflow-checked.
func (p *planner) placeFooter() {
	p.blocks = append(p.blocks, Block{
		Kind:   KindFooter,
		Page:   p.page,
		Y:      PageHeight - p.footerBox - footerBottomGap,
		Height: p.footerBox,
		Footer: &FooterContent{
			AddressLines: p.footerLines,
			BoxHeight:    p.footerBox,
		},
	})
}
