package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quotemill/quotemill/internal/domain"
)

// LineItemPayload is the wire form of one quotation row. Numeric fields are
// decimals on the wire; they accept both JSON numbers and strings.
type LineItemPayload struct {
	Description string `json:"description"`

	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Unit     string           `json:"unit,omitempty"`
	Rate     *decimal.Decimal `json:"rate,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`

	ShowQuantity bool `json:"showQuantity"`
	ShowUnit     bool `json:"showUnit"`
	ShowRate     bool `json:"showRate"`
}

// QuotationRequest is the create/update payload. Authoring is permissive:
// only the quote name is required to save a draft, and the full document
// rules apply when a document is generated.
type QuotationRequest struct {
	CompanyName    string `json:"companyName"`
	CompanyAddress string `json:"companyAddress"`
	CompanyEmail   string `json:"companyEmail" validate:"omitempty,email"`
	CompanyPhone   string `json:"companyPhone"`

	HeaderImage string `json:"headerImage"`

	CustomerName    string `json:"customerName"`
	CustomerAddress string `json:"customerAddress"`
	KindAttention   string `json:"kindAttention"`

	QuoteName string    `json:"quoteName" validate:"required"`
	QuoteDate time.Time `json:"quoteDate"`
	Subject   string    `json:"subject"`

	LineItems []LineItemPayload `json:"lineItems"`

	Terms               string `json:"terms"`
	AuthorisedSignatory string `json:"authorisedSignatory"`
}

// ToDomain converts the payload to a domain quotation for an owner.
func (r *QuotationRequest) ToDomain(ownerID, id string) *domain.Quotation {
	items := make([]domain.LineItem, len(r.LineItems))
	for i, li := range r.LineItems {
		items[i] = domain.LineItem{
			Description:  li.Description,
			Quantity:     li.Quantity,
			Unit:         li.Unit,
			Rate:         li.Rate,
			Amount:       li.Amount,
			ShowQuantity: li.ShowQuantity,
			ShowUnit:     li.ShowUnit,
			ShowRate:     li.ShowRate,
		}
	}

	return &domain.Quotation{
		ID:                  id,
		OwnerID:             ownerID,
		CompanyName:         r.CompanyName,
		CompanyAddress:      r.CompanyAddress,
		CompanyEmail:        r.CompanyEmail,
		CompanyPhone:        r.CompanyPhone,
		HeaderImage:         r.HeaderImage,
		CustomerName:        r.CustomerName,
		CustomerAddress:     r.CustomerAddress,
		KindAttention:       r.KindAttention,
		QuoteName:           r.QuoteName,
		QuoteDate:           r.QuoteDate,
		Subject:             r.Subject,
		LineItems:           items,
		Terms:               r.Terms,
		AuthorisedSignatory: r.AuthorisedSignatory,
	}
}

// QuotationResponse is the wire form of a stored quotation.
type QuotationResponse struct {
	ID string `json:"id"`

	CompanyName    string `json:"companyName"`
	CompanyAddress string `json:"companyAddress"`
	CompanyEmail   string `json:"companyEmail,omitempty"`
	CompanyPhone   string `json:"companyPhone,omitempty"`

	HeaderImage string `json:"headerImage,omitempty"`

	CustomerName    string `json:"customerName"`
	CustomerAddress string `json:"customerAddress"`
	KindAttention   string `json:"kindAttention,omitempty"`

	QuoteName string    `json:"quoteName"`
	QuoteDate time.Time `json:"quoteDate"`
	Subject   string    `json:"subject"`

	LineItems []LineItemPayload `json:"lineItems"`

	Terms               string `json:"terms"`
	AuthorisedSignatory string `json:"authorisedSignatory"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromQuotation converts a domain quotation to its wire form.
func FromQuotation(q *domain.Quotation) *QuotationResponse {
	items := make([]LineItemPayload, len(q.LineItems))
	for i, li := range q.LineItems {
		items[i] = LineItemPayload{
			Description:  li.Description,
			Quantity:     li.Quantity,
			Unit:         li.Unit,
			Rate:         li.Rate,
			Amount:       li.Amount,
			ShowQuantity: li.ShowQuantity,
			ShowUnit:     li.ShowUnit,
			ShowRate:     li.ShowRate,
		}
	}

	return &QuotationResponse{
		ID:                  q.ID,
		CompanyName:         q.CompanyName,
		CompanyAddress:      q.CompanyAddress,
		CompanyEmail:        q.CompanyEmail,
		CompanyPhone:        q.CompanyPhone,
		HeaderImage:         q.HeaderImage,
		CustomerName:        q.CustomerName,
		CustomerAddress:     q.CustomerAddress,
		KindAttention:       q.KindAttention,
		QuoteName:           q.QuoteName,
		QuoteDate:           q.QuoteDate,
		Subject:             q.Subject,
		LineItems:           items,
		Terms:               q.Terms,
		AuthorisedSignatory: q.AuthorisedSignatory,
		CreatedAt:           q.CreatedAt,
		UpdatedAt:           q.UpdatedAt,
	}
}

// DocumentResponse is returned for export-mode document generation.
type DocumentResponse struct {
	Filename string `json:"filename"`
	Key      string `json:"key"`
	Pages    int    `json:"pages"`
}

// ExportFailureResponse reports one quotation that failed during bulk export.
type ExportFailureResponse struct {
	QuotationID string `json:"quotationId"`
	QuoteName   string `json:"quoteName"`
	Error       string `json:"error"`
}

// ExportReportResponse is the outcome of a bulk export.
type ExportReportResponse struct {
	Exported []DocumentResponse      `json:"exported"`
	Failed   []ExportFailureResponse `json:"failed"`
}
