// Package layout plans the fixed visual grammar of a quotation document:
// header, recipient, subject, item table, terms, signature and footer blocks
// flowed over A4 pages with overflow-driven page breaks.
//
// The engine is pure: it performs no drawing and no I/O. Text measurement is
// injected through the Measurer interface so the planner can be exercised
// without a PDF backend.
package layout

import "github.com/quotemill/quotemill/internal/domain"

// Measurer wraps text into printed lines for a font size (points) and a
// column width (millimeters).
type Measurer interface {
	SplitText(text string, fontSize, width float64) []string
}

// Page geometry, A4 in millimeters.
const (
	PageWidth  = 210.0
	PageHeight = 297.0

	// MarginLeft is the flowing-text left margin; the table and footer box
	// run edge to edge inside EdgeMargin.
	MarginLeft = 15.0
	EdgeMargin = 10.0
)

// Header geometry. An embedded letterhead image is drawn full width at a
// fixed 800:70 aspect; without one, a two-line text header is synthesized.
const (
	HeaderImageX     = 10.0
	HeaderImageY     = 5.0
	HeaderImageWidth = 190.0
	headerAspectW    = 800.0
	headerAspectH    = 70.0
	headerImagePad   = 10.0

	TextHeaderNameY    = 15.0
	TextHeaderTaglineY = 22.0
	textHeaderBottom   = 35.0
)

// Line heights per text role.
const (
	lineBody  = 5.0 // recipient, subject at 11-12pt
	lineSmall = 4.0 // terms and footer at 9pt

	salutationHeight = 7.0
	signerHeight     = 5.0
	signatureNameGap = 5.0
)

// Signature image geometry, fixed 289:68 aspect at 45mm wide.
const (
	SignatureWidth = 45.0
	sigAspectW     = 289.0
	sigAspectH     = 68.0
	signaturePadY  = 2.0
)

// Footer geometry. The footer is pinned, not flow-placed.
const (
	footerFontSize   = 9.0
	footerTextPad    = 4.0
	footerBoxPad     = 6.0
	footerBottomGap  = 5.0
	footerWrapInset  = 25.0
	minFooterReserve = 40.0
)

// Font sizes used for measurement. The renderer applies the same values when
// drawing, so wrapped line counts agree between planning and output.
const (
	FontRecipient = 12.0
	FontSubject   = 11.0
	FontTable     = 10.0
	FontTerms     = 9.0
	FontFooter    = footerFontSize
)

// HeaderImageHeight is the drawn height of an embedded letterhead image.
func HeaderImageHeight() float64 {
	return HeaderImageWidth * (headerAspectH / headerAspectW)
}

// SignatureHeight is the drawn height of the signature image.
func SignatureHeight() float64 {
	return SignatureWidth * (sigAspectH / sigAspectW)
}

// Kind names the role of a planned block.
type Kind int

const (
	KindHeader Kind = iota
	KindRecipient
	KindSubject
	KindSalutation
	KindTable
	KindTerms
	KindSigner
	KindSignature
	KindFooter
)

// String returns the block role name.
func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindRecipient:
		return "recipient"
	case KindSubject:
		return "subject"
	case KindSalutation:
		return "salutation"
	case KindTable:
		return "table"
	case KindTerms:
		return "terms"
	case KindSigner:
		return "signer"
	case KindSignature:
		return "signature"
	case KindFooter:
		return "footer"
	default:
		return "unknown"
	}
}

// Block is a placed region of the document. Page indexes are zero-based and
// Y is the block's top offset on its page. NewPage marks blocks that forced
// a page break before being placed.
type Block struct {
	Kind    Kind
	Page    int
	Y       float64
	Height  float64
	NewPage bool

	Header    *HeaderContent
	Recipient *RecipientContent
	Subject   *SubjectContent
	Table     *TableContent
	Terms     *TermsContent
	Footer    *FooterContent
}

// HeaderContent describes how a page header is drawn.
type HeaderContent struct {
	// UseImage selects the embedded letterhead; otherwise the deterministic
	// two-line text header is used.
	UseImage bool
}

// RecipientContent carries the pre-wrapped recipient block text.
type RecipientContent struct {
	DateText     string
	NameLines    []string
	AddressLines []string
	// KindAttention is empty when the quotation has none.
	KindAttention string
}

// SubjectContent carries the wrapped subject line(s).
type SubjectContent struct {
	Lines []string
}

// TermsContent carries the wrapped terms text. Continued segments carry on
// from a previous page and are drawn without the heading line.
type TermsContent struct {
	Lines     []string
	Continued bool
}

// FooterContent describes the pinned footer box.
type FooterContent struct {
	AddressLines []string
	BoxHeight    float64
}

// Plan is the fully laid out document.
type Plan struct {
	Columns domain.ColumnSet
	Blocks  []Block

	// Pages is the total page count (>= 1).
	Pages int

	// FooterReserve is the bottom margin M that flow placement respected.
	FooterReserve float64

	// ContentTop is where flowed content resumes after a page break.
	ContentTop float64
}

// BlocksOf returns all blocks of one kind in placement order.
func (p *Plan) BlocksOf(kind Kind) []Block {
	var out []Block
	for _, b := range p.Blocks {
		if b.Kind == kind {
			out = append(out, b)
		}
	}

	return out
}
