// Package pricing implements the order price calculation core: a per-line
// calculator that resolves a catalog entry's base price and applies
// multiplicative coefficients, additive services, and quantity, and an
// aggregator that folds priced lines into order totals net of a percentage
// discount. Both entry points are pure functions; the only rounding applied
// is half-away-from-zero to two decimal places at the documented points.
package pricing

import "math"

// Color selects which price applies to a color-dependent catalog entry.
type Color string

// Allowed color variants. No other value is valid.
const (
	ColorBlack Color = "black"
	ColorOther Color = "other"
)

// Valid reports whether the color is one of the allowed variants.
func (c Color) Valid() bool {
	return c == ColorBlack || c == ColorOther
}

// CatalogEntry is the priceable subset of a price-list record. Prices are
// pointers so that an absent price is distinguishable from an explicit zero.
// When both color prices are present the entry is color-dependent and
// StandardPrice is ignored.
type CatalogEntry struct {
	StandardPrice   *float64
	BlackColorPrice *float64
	OtherColorPrice *float64
}

// ColorDependent reports whether the entry prices black and other colors separately.
func (e *CatalogEntry) ColorDependent() bool {
	return e != nil && e.BlackColorPrice != nil && e.OtherColorPrice != nil
}

// Coefficient is a multiplicative price modifier.
type Coefficient struct {
	Name        string  `json:"name"`
	Factor      float64 `json:"factor"`
	Description string  `json:"description,omitempty"`
}

// AdditionalService is an additive price modifier (flat fee per line).
type AdditionalService struct {
	Name        string  `json:"name"`
	Cost        float64 `json:"cost"`
	Description string  `json:"description,omitempty"`
}

// PricedLine is the result of pricing a single order line. It is created
// fresh per call and never mutated afterwards.
type PricedLine struct {
	BasePrice           float64             `json:"base_price"`
	FinalPrice          float64             `json:"final_price"`
	AppliedCoefficients []Coefficient       `json:"applied_coefficients"`
	AppliedServices     []AdditionalService `json:"applied_services"`
}

// Options tunes calculator behavior.
type Options struct {
	// StrictBasePrice rejects entries that carry no price at all instead of
	// silently pricing them at zero. The lenient default matches the legacy
	// system's behavior.
	StrictBasePrice bool
}

// ComputeLinePrice prices one order line with default (lenient) options.
func ComputeLinePrice(entry *CatalogEntry, quantity float64, color Color, coefficients []Coefficient, services []AdditionalService) (PricedLine, error) {
	return ComputeLinePriceOpts(entry, quantity, color, coefficients, services, Options{})
}

// ComputeLinePriceOpts prices one order line.
//
// The base price is resolved from the entry (by color when color-dependent,
// otherwise the standard price), then each coefficient factor is multiplied
// in caller order, each service cost is added in caller order, the running
// price is multiplied by quantity, and the result is rounded to two decimal
// places half-away-from-zero. The base price itself is never rounded.
func ComputeLinePriceOpts(entry *CatalogEntry, quantity float64, color Color, coefficients []Coefficient, services []AdditionalService, opts Options) (PricedLine, error) {
	if entry == nil {
		return PricedLine{}, ErrInvalidCatalogEntry
	}
	if !(quantity > 0) || math.IsInf(quantity, 0) {
		return PricedLine{}, ErrInvalidQuantity
	}
	if !color.Valid() {
		return PricedLine{}, ErrInvalidColor
	}

	basePrice, err := resolveBasePrice(entry, color, opts)
	if err != nil {
		return PricedLine{}, err
	}

	finalPrice := basePrice
	applied := make([]Coefficient, 0, len(coefficients))
	for _, coef := range coefficients {
		if !(coef.Factor > 0) || math.IsInf(coef.Factor, 0) {
			return PricedLine{}, invalidCoefficient(coef.Name)
		}
		finalPrice *= coef.Factor
		applied = append(applied, coef)
	}

	appliedServices := make([]AdditionalService, 0, len(services))
	for _, svc := range services {
		if math.IsNaN(svc.Cost) || math.IsInf(svc.Cost, 0) {
			return PricedLine{}, invalidService(svc.Name)
		}
		finalPrice += svc.Cost
		appliedServices = append(appliedServices, svc)
	}

	finalPrice *= quantity

	return PricedLine{
		BasePrice:           basePrice,
		FinalPrice:          Round2(finalPrice),
		AppliedCoefficients: applied,
		AppliedServices:     appliedServices,
	}, nil
}

func resolveBasePrice(entry *CatalogEntry, color Color, opts Options) (float64, error) {
	var basePrice float64
	switch {
	case entry.ColorDependent():
		if color == ColorBlack {
			basePrice = *entry.BlackColorPrice
		} else {
			basePrice = *entry.OtherColorPrice
		}
	case entry.StandardPrice != nil:
		basePrice = *entry.StandardPrice
	default:
		if opts.StrictBasePrice {
			return 0, ErrInvalidBasePrice
		}
		basePrice = 0
	}
	if basePrice < 0 || math.IsNaN(basePrice) || math.IsInf(basePrice, 0) {
		return 0, ErrInvalidBasePrice
	}
	return basePrice, nil
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
