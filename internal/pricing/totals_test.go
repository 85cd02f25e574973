package pricing_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-aksi/internal/pricing"
)

func lines(prices ...float64) []pricing.PricedLine {
	out := make([]pricing.PricedLine, 0, len(prices))
	for _, p := range prices {
		out = append(out, pricing.PricedLine{FinalPrice: p})
	}
	return out
}

func TestComputeOrderTotals(t *testing.T) {
	totals, err := pricing.ComputeOrderTotals(lines(340, 270), 10)
	require.NoError(t, err)
	require.Equal(t, 610.0, totals.Subtotal)
	require.Equal(t, 61.0, totals.DiscountAmount)
	require.Equal(t, 549.0, totals.PayableAmount)
}

func TestComputeOrderTotalsEmpty(t *testing.T) {
	totals, err := pricing.ComputeOrderTotals(nil, 0)
	require.NoError(t, err)
	require.Equal(t, pricing.OrderTotals{}, totals)
}

func TestComputeOrderTotalsZeroDiscount(t *testing.T) {
	totals, err := pricing.ComputeOrderTotals(lines(100.55, 20.45), 0)
	require.NoError(t, err)
	require.Equal(t, totals.Subtotal, totals.PayableAmount)
	require.Equal(t, 0.0, totals.DiscountAmount)
}

func TestComputeOrderTotalsFullDiscount(t *testing.T) {
	totals, err := pricing.ComputeOrderTotals(lines(123.45, 678.9), 100)
	require.NoError(t, err)
	require.Equal(t, 0.0, totals.PayableAmount)
	require.Equal(t, totals.Subtotal, totals.DiscountAmount)
}

func TestComputeOrderTotalsRounding(t *testing.T) {
	totals, err := pricing.ComputeOrderTotals(lines(10, 10, 10), 33.333)
	require.NoError(t, err)
	require.Equal(t, 30.0, totals.Subtotal)
	require.Equal(t, 10.0, totals.DiscountAmount)
	require.Equal(t, 20.0, totals.PayableAmount)
}

func TestComputeOrderTotalsIdempotent(t *testing.T) {
	in := lines(340, 270, 12.34)
	first, err := pricing.ComputeOrderTotals(in, 15)
	require.NoError(t, err)
	second, err := pricing.ComputeOrderTotals(in, 15)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestComputeOrderTotalsPayableNeverExceedsSubtotal(t *testing.T) {
	for _, discount := range []float64{0, 1, 17.5, 50, 99.99, 100} {
		totals, err := pricing.ComputeOrderTotals(lines(199.99, 0.01, 57), discount)
		require.NoError(t, err)
		require.LessOrEqual(t, totals.PayableAmount, totals.Subtotal, "discount %v", discount)
	}
}

func TestComputeOrderTotalsInvalidDiscount(t *testing.T) {
	for _, discount := range []float64{-0.01, -5, 100.01, 200, math.NaN()} {
		_, err := pricing.ComputeOrderTotals(lines(10), discount)
		require.ErrorIs(t, err, pricing.ErrInvalidDiscount, "discount %v", discount)
	}
}

func TestComputeOrderTotalsInvalidLine(t *testing.T) {
	_, err := pricing.ComputeOrderTotals(lines(10, math.NaN(), 20), 0)
	require.ErrorIs(t, err, pricing.ErrInvalidLine)
	require.Contains(t, err.Error(), "index 1")
}
