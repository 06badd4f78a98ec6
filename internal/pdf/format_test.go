package pdf

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "integer", value: "1500", want: "1,500.00"},
		{name: "lakh grouping", value: "100000", want: "1,00,000.00"},
		{name: "crore grouping", value: "12345678.5", want: "1,23,45,678.50"},
		{name: "fraction padded", value: "99.9", want: "99.90"},
		{name: "zero", value: "0", want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decimal.RequireFromString(tt.value)
			assert.Equal(t, tt.want, FormatMoney(d))
		})
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "whole", value: "10", want: "10"},
		{name: "fractional", value: "2.5", want: "2.5"},
		{name: "grouped", value: "150000", want: "1,50,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decimal.RequireFromString(tt.value)
			assert.Equal(t, tt.want, FormatQuantity(d))
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Painting Works", want: "Painting Works"},
		{name: "path separators stripped", input: "../etc/passwd", want: "..etcpasswd"},
		{name: "backslashes stripped", input: `shop\floor`, want: "shopfloor"},
		{name: "control runes stripped", input: "quote\x00\n2026", want: "quote2026"},
		{name: "surrounding space trimmed", input: "  padded  ", want: "padded"},
		{name: "empty falls back", input: "", want: "quotation"},
		{name: "only separators falls back", input: "///", want: "quotation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}
