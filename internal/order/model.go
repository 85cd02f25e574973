package order

import (
	"time"

	"github.com/noah-isme/backend-aksi/internal/client"
	"github.com/noah-isme/backend-aksi/internal/pricing"
)

// Line is one priced position of an order. The pricing fields are always
// computed server-side; submitted final prices are never stored.
type Line struct {
	PriceListItemID string                      `json:"price_list_item_id,omitempty"`
	Name            string                      `json:"name"`
	Category        string                      `json:"category,omitempty"`
	Unit            string                      `json:"unit,omitempty"`
	Quantity        float64                     `json:"quantity"`
	Color           string                      `json:"color,omitempty"`
	BasePrice       float64                     `json:"base_price"`
	Coefficients    []pricing.Coefficient       `json:"coefficients,omitempty"`
	Services        []pricing.AdditionalService `json:"services,omitempty"`
	Comment         string                      `json:"comment,omitempty"`
	FinalPrice      float64                     `json:"final_price"`
}

// Order is a dry-cleaning order with its priced lines and totals.
type Order struct {
	ID        string         `json:"id"`
	Number    string         `json:"number"`
	ClientID  *string        `json:"client_id,omitempty"`
	Client    *client.Client `json:"client,omitempty"`
	Status    Status         `json:"status"`
	Lines     []Line         `json:"lines"`
	Subtotal  float64        `json:"subtotal"`
	Discount  float64        `json:"discount"`
	Payable   float64        `json:"payable"`
	Paid      float64        `json:"paid"`
	Urgent    bool           `json:"urgent"`
	Comment   string         `json:"comment,omitempty"`
	DueDate   *time.Time     `json:"due_date,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// LineInput is one submitted order position before server-side pricing.
// BasePrice is honoured only for free-form lines without a price-list item
// reference; referenced items always price from the stored catalog entry.
type LineInput struct {
	PriceListItemID string                      `json:"price_list_item_id"`
	Name            string                      `json:"name"`
	Category        string                      `json:"category"`
	Unit            string                      `json:"unit"`
	Quantity        float64                     `json:"quantity"`
	Color           string                      `json:"color"`
	BasePrice       *float64                    `json:"base_price" validate:"omitempty,gte=0"`
	Coefficients    []pricing.Coefficient       `json:"coefficients"`
	Services        []pricing.AdditionalService `json:"services"`
	Comment         string                      `json:"comment"`
}

// CreateInput is the payload for creating an order.
type CreateInput struct {
	ClientID string      `json:"client_id"`
	Lines    []LineInput `json:"lines" validate:"required,min=1"`
	Discount *float64    `json:"discount" validate:"omitempty,gte=0,lte=100"`
	Paid     float64     `json:"paid" validate:"gte=0"`
	Urgent   bool        `json:"urgent"`
	Comment  string      `json:"comment"`
	DueDate  *time.Time  `json:"due_date"`
}

// UpdateInput is the payload for updating an order's mutable metadata.
type UpdateInput struct {
	Paid    *float64   `json:"paid" validate:"omitempty,gte=0"`
	Urgent  *bool      `json:"urgent"`
	Comment *string    `json:"comment"`
	DueDate *time.Time `json:"due_date"`
}

// StatusInput is the payload for a status change.
type StatusInput struct {
	Status string `json:"status" validate:"required"`
}
