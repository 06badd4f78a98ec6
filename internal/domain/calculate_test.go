package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestItemAmount_Computed(t *testing.T) {
	tests := []struct {
		name string
		item LineItem
		want string
	}{
		{
			name: "quantity times rate",
			item: LineItem{Quantity: dec("12"), Rate: dec("150.50"), ShowQuantity: true, ShowRate: true},
			want: "1806",
		},
		{
			name: "fractional result keeps precision",
			item: LineItem{Quantity: dec("2.5"), Rate: dec("3.33"), ShowQuantity: true, ShowRate: true},
			want: "8.325",
		},
		{
			name: "missing quantity treated as zero",
			item: LineItem{Rate: dec("99"), ShowQuantity: true, ShowRate: true},
			want: "0",
		},
		{
			name: "missing rate treated as zero",
			item: LineItem{Quantity: dec("5"), ShowQuantity: true, ShowRate: true},
			want: "0",
		},
		{
			name: "negative quantity treated as zero",
			item: LineItem{Quantity: dec("-3"), Rate: dec("10"), ShowQuantity: true, ShowRate: true},
			want: "0",
		},
		{
			name: "negative rate treated as zero",
			item: LineItem{Quantity: dec("3"), Rate: dec("-10"), ShowQuantity: true, ShowRate: true},
			want: "0",
		},
		{
			name: "unit flag alone still computes",
			item: LineItem{Quantity: dec("4"), Rate: dec("25"), ShowUnit: true},
			want: "100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ItemAmount(tt.item)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestItemAmount_Manual(t *testing.T) {
	tests := []struct {
		name string
		item LineItem
		want string
	}{
		{
			name: "entered amount used directly",
			item: LineItem{Amount: dec("2500")},
			want: "2500",
		},
		{
			name: "missing amount treated as zero",
			item: LineItem{},
			want: "0",
		},
		{
			name: "negative amount treated as zero",
			item: LineItem{Amount: dec("-1")},
			want: "0",
		},
		{
			name: "quantity and rate ignored in manual mode",
			item: LineItem{Quantity: dec("10"), Rate: dec("10"), Amount: dec("55")},
			want: "55",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ItemAmount(tt.item)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestTotal(t *testing.T) {
	items := []LineItem{
		{Quantity: dec("10"), Rate: dec("100.25"), ShowQuantity: true, ShowRate: true},
		{Amount: dec("499.75")},
		{Rate: dec("50"), ShowRate: true}, // missing quantity, contributes zero
	}

	got := Total(items)

	assert.True(t, got.Equal(decimal.RequireFromString("1502.25")), "got %s", got)
}

func TestTotal_Empty(t *testing.T) {
	assert.True(t, Total(nil).IsZero())
	assert.True(t, Total([]LineItem{}).IsZero())
}

func TestTotal_NoFloatDrift(t *testing.T) {
	// 0.1 + 0.2 style sums must stay exact under decimal arithmetic.
	items := []LineItem{
		{Amount: dec("0.1")},
		{Amount: dec("0.2")},
	}

	assert.True(t, Total(items).Equal(decimal.RequireFromString("0.3")))
}
