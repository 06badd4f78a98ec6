// Package storage persists quotations with GORM. It works against Postgres
// in deployment and SQLite in tests; the line items column is serialized
// JSON so the printed row order survives round trips unchanged.
package storage

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quotemill/quotemill/internal/domain"
)

// lineItems serializes the ordered item list into a single JSON column.
type lineItems []domain.LineItem

// Value implements driver.Valuer.
func (li lineItems) Value() (driver.Value, error) {
	if li == nil {
		li = lineItems{}
	}

	data, err := json.Marshal(li)
	if err != nil {
		return nil, fmt.Errorf("marshaling line items: %w", err)
	}

	return string(data), nil
}

// Scan implements sql.Scanner.
func (li *lineItems) Scan(value any) error {
	if value == nil {
		*li = lineItems{}

		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported line items column type %T", value)
	}

	return json.Unmarshal(data, li)
}

// quotationModel is the persistence shape of a quotation.
type quotationModel struct {
	ID      string `gorm:"type:uuid;primaryKey"`
	OwnerID string `gorm:"index;not null"`

	CompanyName    string `gorm:"not null"`
	CompanyAddress string
	CompanyEmail   string
	CompanyPhone   string

	HeaderImage string

	CustomerName    string `gorm:"not null"`
	CustomerAddress string
	KindAttention   string

	QuoteName string    `gorm:"not null"`
	QuoteDate time.Time `gorm:"not null"`
	Subject   string

	LineItems lineItems `gorm:"type:jsonb;default:'[]'"`

	Terms               string
	AuthorisedSignatory string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName keeps the table name stable regardless of pluralization rules.
func (quotationModel) TableName() string {
	return "quotations"
}

func toModel(q *domain.Quotation) *quotationModel {
	return &quotationModel{
		ID:                  q.ID,
		OwnerID:             q.OwnerID,
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
		LineItems:           lineItems(q.LineItems),
		Terms:               q.Terms,
		AuthorisedSignatory: q.AuthorisedSignatory,
		CreatedAt:           q.CreatedAt,
		UpdatedAt:           q.UpdatedAt,
	}
}

func (m *quotationModel) toDomain() *domain.Quotation {
	return &domain.Quotation{
		ID:                  m.ID,
		OwnerID:             m.OwnerID,
		CompanyName:         m.CompanyName,
		CompanyAddress:      m.CompanyAddress,
		CompanyEmail:        m.CompanyEmail,
		CompanyPhone:        m.CompanyPhone,
		HeaderImage:         m.HeaderImage,
		CustomerName:        m.CustomerName,
		CustomerAddress:     m.CustomerAddress,
		KindAttention:       m.KindAttention,
		QuoteName:           m.QuoteName,
		QuoteDate:           m.QuoteDate,
		Subject:             m.Subject,
		LineItems:           []domain.LineItem(m.LineItems),
		Terms:               m.Terms,
		AuthorisedSignatory: m.AuthorisedSignatory,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}
