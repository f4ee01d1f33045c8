package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name     string
		lines    []PriceLine
		subtotal string
		tax      string
		fee      string
		total    string
	}{
		{
			name:     "spinach and carrots",
			lines:    []PriceLine{{Price: d("45.00"), Quantity: 2}, {Price: d("32.00"), Quantity: 1}},
			subtotal: "122", tax: "22", fee: "50", total: "194",
		},
		{
			name:     "just below free delivery",
			lines:    []PriceLine{{Price: d("48.00"), Quantity: 10}},
			subtotal: "480", tax: "86", fee: "50", total: "616",
		},
		{
			name:     "free delivery threshold",
			lines:    []PriceLine{{Price: d("50.00"), Quantity: 10}},
			subtotal: "500", tax: "90", fee: "0", total: "590",
		},
		{
			name:     "tax rounds half away from zero",
			lines:    []PriceLine{{Price: d("25.00"), Quantity: 1}},
			subtotal: "25", tax: "5", fee: "50", total: "80",
		},
		{
			name:     "tax rounds down below half",
			lines:    []PriceLine{{Price: d("42.00"), Quantity: 1}},
			subtotal: "42", tax: "8", fee: "50", total: "100",
		},
		{
			name:     "fractional prices",
			lines:    []PriceLine{{Price: d("28.50"), Quantity: 3}},
			subtotal: "85.5", tax: "15", fee: "50", total: "150.5",
		},
		{
			name:     "empty basket",
			lines:    nil,
			subtotal: "0", tax: "0", fee: "50", total: "50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTotals(tt.lines)
			assert.True(t, got.Subtotal.Equal(d(tt.subtotal)), "subtotal %s", got.Subtotal)
			assert.True(t, got.Tax.Equal(d(tt.tax)), "tax %s", got.Tax)
			assert.True(t, got.DeliveryFee.Equal(d(tt.fee)), "fee %s", got.DeliveryFee)
			assert.True(t, got.Total.Equal(d(tt.total)), "total %s", got.Total)
		})
	}
}
