package pricing

import "math"

// OrderTotals is the aggregate of an order's priced lines.
type OrderTotals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	PayableAmount  float64 `json:"payable_amount"`
}

// ComputeOrderTotals sums line final prices and applies the order-level
// percentage discount. An empty line list yields all-zero totals. All three
// outputs are rounded independently to two decimal places half-away-from-zero.
func ComputeOrderTotals(lines []PricedLine, discountPercent float64) (OrderTotals, error) {
	if discountPercent < 0 || discountPercent > 100 || math.IsNaN(discountPercent) {
		return OrderTotals{}, ErrInvalidDiscount
	}

	var subtotal float64
	for i, line := range lines {
		if math.IsNaN(line.FinalPrice) || math.IsInf(line.FinalPrice, 0) {
			return OrderTotals{}, invalidLine(i)
		}
		subtotal += line.FinalPrice
	}

	discountAmount := subtotal * (discountPercent / 100)
	payableAmount := subtotal - discountAmount

	return OrderTotals{
		Subtotal:       Round2(subtotal),
		DiscountAmount: Round2(discountAmount),
		PayableAmount:  Round2(payableAmount),
	}, nil
}
