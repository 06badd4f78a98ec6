// Package domain contains the quotation business entities and rules.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemMode classifies how a line item's amount is determined.
type ItemMode int

const (
	// ModeComputed derives the amount from quantity and rate.
	ModeComputed ItemMode = iota

	// ModeManual uses the amount the author entered directly.
	ModeManual
)

// String returns the mode name for logging and test output.
func (m ItemMode) String() string {
	if m == ModeManual {
		return "manual"
	}

	return "computed"
}

// LineItem is one priced row of the quotation table.
// Quantity, Rate and Amount are optional; each of the first two is only
// meaningful when its display flag is set. Amount is only meaningful in
// manual mode.
type LineItem struct {
	Description string `json:"description"`

	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Unit     string           `json:"unit,omitempty"`
	Rate     *decimal.Decimal `json:"rate,omitempty"`

	// Amount is the manually entered amount, used only in manual mode.
	Amount *decimal.Decimal `json:"amount,omitempty"`

	ShowQuantity bool `json:"showQuantity"`
	ShowUnit     bool `json:"showUnit"`
	ShowRate     bool `json:"showRate"`
}

// NewLineItem returns a line item with author-facing defaults:
// all display flags on, unit "pcs", no quantity or rate yet.
func NewLineItem() LineItem {
	return LineItem{
		Unit:         "pcs",
		ShowQuantity: true,
		ShowUnit:     true,
		ShowRate:     true,
	}
}

// Mode derives the item's mode from its display flags.
// An item is manual only when all three flags are off.
func (li LineItem) Mode() ItemMode {
	if !li.ShowQuantity && !li.ShowUnit && !li.ShowRate {
		return ModeManual
	}

	return ModeComputed
}

// Quotation is the full priced document record.
type Quotation struct {
	ID      string
	OwnerID string

	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
	CompanyPhone   string

	// HeaderImage is either an embedded data URI or a location reference
	// that must be resolved to bytes before rendering.
	HeaderImage string

	CustomerName    string
	CustomerAddress string
	KindAttention   string

	QuoteName string
	QuoteDate time.Time
	Subject   string

	// LineItems is ordered; the order is the printed order.
	LineItems []LineItem

	Terms               string
	AuthorisedSignatory string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ColumnSet is the document-wide table header configuration.
type ColumnSet int

const (
	// ColumnsFull is {Sr.No, Description, Qty, Unit, Rate, Amount}.
	ColumnsFull ColumnSet = iota

	// ColumnsManual is {Sr.No, Description, Amount}, used only when every
	// item is in manual mode.
	ColumnsManual
)

// ColumnSetFor decides the table columns for the whole document.
// One computed-mode item is enough to force the full set.
func ColumnSetFor(items []LineItem) ColumnSet {
	for _, li := range items {
		if li.ShowQuantity || li.ShowUnit || li.ShowRate {
			return ColumnsFull
		}
	}

	return ColumnsManual
}
