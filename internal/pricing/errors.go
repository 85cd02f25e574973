package pricing

import (
	"errors"
	"fmt"
)

// Calculation errors. Each failure is fatal to the single call; no partial
// result is ever returned alongside a non-nil error.
var (
	// ErrInvalidCatalogEntry signals a nil or otherwise unusable price-list entry.
	ErrInvalidCatalogEntry = errors.New("pricing: invalid catalog entry")
	// ErrInvalidQuantity signals a non-positive or non-finite quantity.
	ErrInvalidQuantity = errors.New("pricing: quantity must be greater than zero")
	// ErrInvalidColor signals a color outside the allowed set.
	ErrInvalidColor = errors.New(`pricing: color must be "black" or "other"`)
	// ErrInvalidBasePrice signals a negative or (in strict mode) missing base price.
	ErrInvalidBasePrice = errors.New("pricing: invalid base price")
	// ErrInvalidCoefficient signals a coefficient with a non-positive or non-finite factor.
	ErrInvalidCoefficient = errors.New("pricing: invalid coefficient")
	// ErrInvalidService signals an additional service with a non-finite cost.
	ErrInvalidService = errors.New("pricing: invalid additional service cost")
	// ErrInvalidLine signals an order line with a non-finite final price.
	ErrInvalidLine = errors.New("pricing: invalid order line")
	// ErrInvalidDiscount signals a discount outside [0, 100].
	ErrInvalidDiscount = errors.New("pricing: discount must be between 0 and 100 percent")
)

func invalidCoefficient(name string) error {
	if name == "" {
		name = "unknown"
	}
	return fmt.Errorf("%w: %s", ErrInvalidCoefficient, name)
}

func invalidService(name string) error {
	if name == "" {
		name = "unknown"
	}
	return fmt.Errorf("%w: %s", ErrInvalidService, name)
}

func invalidLine(index int) error {
	return fmt.Errorf("%w: index %d", ErrInvalidLine, index)
}
