package domain

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FieldFailure is one field-scoped validation failure. Path identifies the
// offending field, using lineItems[i].<field> form for item-scoped rules.
type FieldFailure struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// documentRules mirrors the document-level required fields so struct-tag
// validation stays separate from the entity itself.
type documentRules struct {
	CompanyName         string     `validate:"required"`
	CompanyAddress      string     `validate:"required"`
	CompanyEmail        string     `validate:"omitempty,email"`
	CustomerName        string     `validate:"required"`
	CustomerAddress     string     `validate:"required"`
	QuoteName           string     `validate:"required"`
	QuoteDate           bool       `validate:"eq=true"`
	Subject             string     `validate:"required"`
	LineItems           []LineItem `validate:"min=1"`
	Terms               string     `validate:"required"`
	AuthorisedSignatory string     `validate:"required"`
}

var documentValidator = validator.New(validator.WithRequiredStructEnabled())

// documentMessages maps validation tags on document rules to messages.
var documentMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"min":      "must have at least one line item",
	"eq":       "must be a valid date",
}

// ValidateQuotation checks a quotation against the document and per-item
// rules. It returns the full set of failures rather than stopping at the
// first, and never panics on expected bad input. An empty result means the
// quotation is safe to lay out and render.
func ValidateQuotation(q *Quotation) []FieldFailure {
	var failures []FieldFailure

	rules := documentRules{
		CompanyName:         q.CompanyName,
		CompanyAddress:      q.CompanyAddress,
		CompanyEmail:        q.CompanyEmail,
		CustomerName:        q.CustomerName,
		CustomerAddress:     q.CustomerAddress,
		QuoteName:           q.QuoteName,
		QuoteDate:           !q.QuoteDate.IsZero(),
		Subject:             q.Subject,
		LineItems:           q.LineItems,
		Terms:               q.Terms,
		AuthorisedSignatory: q.AuthorisedSignatory,
	}

	if err := documentValidator.Struct(rules); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				failures = append(failures, FieldFailure{
					Path:    fieldPath(fe.Field()),
					Message: documentMessage(fe.Tag()),
				})
			}
		}
	}

	for i, li := range q.LineItems {
		failures = append(failures, validateItem(i, li)...)
	}

	return failures
}

// validateItem applies the mode-dependent per-item rules.
func validateItem(index int, li LineItem) []FieldFailure {
	var failures []FieldFailure

	item := func(field, message string) FieldFailure {
		return FieldFailure{
			Path:    fmt.Sprintf("lineItems[%d].%s", index, field),
			Message: message,
		}
	}

	if strings.TrimSpace(li.Description) == "" {
		failures = append(failures, item("description", "description is required"))
	}

	if li.ShowQuantity && (li.Quantity == nil || !li.Quantity.IsPositive()) {
		failures = append(failures, item("quantity", "must be greater than zero"))
	}

	if li.ShowRate && li.Rate == nil {
		failures = append(failures, item("rate", "rate is required"))
	}
	if li.ShowRate && li.Rate != nil && li.Rate.IsNegative() {
		failures = append(failures, item("rate", "must not be negative"))
	}

	if li.Mode() == ModeManual {
		switch {
		case li.Amount == nil:
			failures = append(failures, item("amount", "amount is required"))
		case li.Amount.IsNegative():
			failures = append(failures, item("amount", "must not be negative"))
		}
	}

	return failures
}

// fieldPath converts a struct field name to its document path,
// e.g. "CompanyName" -> "companyName".
func fieldPath(field string) string {
	if field == "" {
		return field
	}

	runes := []rune(field)
	runes[0] = unicode.ToLower(runes[0])

	return string(runes)
}

func documentMessage(tag string) string {
	if msg, ok := documentMessages[tag]; ok {
		return msg
	}

	return "failed validation: " + tag
}
