package catalog

import (
	"time"

	"github.com/noah-isme/backend-aksi/internal/pricing"
)

// Special categories whose entries are offered as price modifiers rather than
// priceable items: multiplicative coefficients and per-material surcharges.
const (
	CategoryCoefficients  = "coefficients"
	CategoryTextileExtras = "textile_extras"
	CategoryLeatherExtras = "leather_extras"
)

// SpecialCategories lists the modifier categories in presentation order.
var SpecialCategories = []string{CategoryCoefficients, CategoryTextileExtras, CategoryLeatherExtras}

// Item is one price-list record. Optional prices are pointers so an absent
// price is distinguishable from an explicit zero.
type Item struct {
	ID               string    `json:"id"`
	Category         string    `json:"category"`
	Number           *int      `json:"number,omitempty"`
	Name             string    `json:"name"`
	Unit             string    `json:"unit,omitempty"`
	StandardPrice    *float64  `json:"standard_price,omitempty"`
	PriceWithDetails *float64  `json:"price_with_details,omitempty"`
	PriceMax         *float64  `json:"price_max,omitempty"`
	BlackColorPrice  *float64  `json:"black_color_price,omitempty"`
	OtherColorPrice  *float64  `json:"other_color_price,omitempty"`
	Coefficient      *float64  `json:"coefficient,omitempty"`
	CoefficientMin   *float64  `json:"coefficient_min,omitempty"`
	CoefficientMax   *float64  `json:"coefficient_max,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PricingEntry converts the item into the calculator's catalog entry shape.
func (it Item) PricingEntry() *pricing.CatalogEntry {
	return &pricing.CatalogEntry{
		StandardPrice:   it.StandardPrice,
		BlackColorPrice: it.BlackColorPrice,
		OtherColorPrice: it.OtherColorPrice,
	}
}

// ItemInput captures the payload for creating or updating a price-list item.
type ItemInput struct {
	Category         string   `json:"category" validate:"required"`
	Number           *int     `json:"number"`
	Name             string   `json:"name" validate:"required"`
	Unit             string   `json:"unit"`
	StandardPrice    *float64 `json:"standard_price" validate:"omitempty,gte=0"`
	PriceWithDetails *float64 `json:"price_with_details" validate:"omitempty,gte=0"`
	PriceMax         *float64 `json:"price_max" validate:"omitempty,gte=0"`
	BlackColorPrice  *float64 `json:"black_color_price" validate:"omitempty,gte=0"`
	OtherColorPrice  *float64 `json:"other_color_price" validate:"omitempty,gte=0"`
	Coefficient      *float64 `json:"coefficient" validate:"omitempty,gt=0"`
	CoefficientMin   *float64 `json:"coefficient_min" validate:"omitempty,gt=0"`
	CoefficientMax   *float64 `json:"coefficient_max" validate:"omitempty,gt=0"`
}
