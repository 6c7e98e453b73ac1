// Package pricing is the single source of truth for cart and order totals.
// Every view of a cart (cart page, checkout summary, order rows) is priced
// through ComputeTotals so the numbers can never drift between callers.
package pricing

import (
	"math"

	"github.com/google/uuid"
)

// Rules are the storefront pricing constants, loaded from config.
// Amounts are integer rupees.
type Rules struct {
	PlatformFee           int64
	DeliveryFee           int64
	FreeDeliveryThreshold int64
}

// LineItem is one product/quantity pair to be priced. UnitListPrice is the
// pre-discount MRP, UnitSellingPrice what the buyer pays per unit.
type LineItem struct {
	ProductID        uuid.UUID
	Quantity         int
	UnitSellingPrice float64
	UnitListPrice    float64
}

// PricedLine carries the per-line amounts, each rounded to whole rupees
// before any aggregation happens.
type PricedLine struct {
	LineItem
	TotalPrice      int64 `json:"total_price"`
	PriceOfDiscount int64 `json:"price_of_discount"`
	ActualPrice     int64 `json:"actual_price"`
}

type Totals struct {
	TotalActualPrice int64 `json:"total_actual_price"`
	TotalDiscount    int64 `json:"total_discount"`
	FinalAmount      int64 `json:"final_amount"`
	DeliveryCharges  int64 `json:"delivery_charges"`
	PlatformFee      int64 `json:"platform_fee"`
	ProductsCount    int   `json:"products_count"`
	GrandTotal       int64 `json:"grand_total"`
}

// PriceLine rounds per line. Rounding happens here and nowhere else: sums of
// PricedLine values are exact integer arithmetic.
func PriceLine(item LineItem) PricedLine {
	qty := float64(item.Quantity)

	return PricedLine{
		LineItem:        item,
		TotalPrice:      int64(math.Round(item.UnitSellingPrice * qty)),
		PriceOfDiscount: int64(math.Round((item.UnitListPrice - item.UnitSellingPrice) * qty)),
		ActualPrice:     int64(math.Round(item.UnitListPrice * qty)),
	}
}

// ComputeTotals prices every line and aggregates. Delivery is free above the
// threshold, otherwise the flat fee applies; the platform fee is constant.
func ComputeTotals(items []LineItem, rules Rules) ([]PricedLine, Totals) {
	lines := make([]PricedLine, 0, len(items))

	var totals Totals

	for _, item := range items {
		line := PriceLine(item)
		lines = append(lines, line)

		totals.TotalActualPrice += line.ActualPrice
		totals.TotalDiscount += line.PriceOfDiscount
		totals.FinalAmount += line.TotalPrice
		totals.ProductsCount += item.Quantity
	}

	totals.DeliveryCharges = DeliveryCharge(totals.FinalAmount, rules)
	totals.PlatformFee = rules.PlatformFee
	totals.GrandTotal = totals.FinalAmount + totals.DeliveryCharges + totals.PlatformFee

	return lines, totals
}

// DeliveryCharge is zero iff the order total crosses the free-delivery
// threshold. An empty cart carries no delivery charge either.
func DeliveryCharge(finalAmount int64, rules Rules) int64 {
	if finalAmount == 0 || finalAmount > rules.FreeDeliveryThreshold {
		return 0
	}

	return rules.DeliveryFee
}
