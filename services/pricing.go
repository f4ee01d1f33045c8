package services

import (
	"github.com/shopspring/decimal"

	"veggie-shop/models"
)

var (
	TaxRate               = decimal.RequireFromString("0.18")
	FreeDeliveryThreshold = decimal.NewFromInt(500)
	DeliveryFee           = decimal.NewFromInt(50)
)

type PriceLine struct {
	Price    decimal.Decimal
	Quantity int
}

// CalculateTotals prices a basket. Tax is rounded to a whole unit, half away
// from zero; delivery is free from FreeDeliveryThreshold upwards.
func CalculateTotals(lines []PriceLine) models.OrderTotals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	tax := subtotal.Mul(TaxRate).Round(0)

	fee := DeliveryFee
	if subtotal.GreaterThanOrEqual(FreeDeliveryThreshold) {
		fee = decimal.Zero
	}

	return models.OrderTotals{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: fee,
		Total:       subtotal.Add(tax).Add(fee),
	}
}

// purchasable reports whether a cart line can still be bought.
func purchasable(item models.CartItem) bool {
	return item.Product != nil && item.Product.IsActive
}

// cartLines prices cart items at their product's current price. Items whose
// product is missing or withdrawn are skipped.
func cartLines(items []models.CartItem) []PriceLine {
	lines := make([]PriceLine, 0, len(items))
	for _, item := range items {
		if !purchasable(item) {
			continue
		}
		lines = append(lines, PriceLine{Price: item.Product.Price, Quantity: item.Quantity})
	}
	return lines
}
