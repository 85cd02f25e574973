package client

import "time"

// Client is a dry-cleaning customer record.
type Client struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	Note      string    `json:"note,omitempty"`
	Discount  float64   `json:"discount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns the display name in "last first" order.
func (c Client) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	if c.FirstName == "" {
		return c.LastName
	}
	return c.LastName + " " + c.FirstName
}

// Input captures the payload for creating or updating a client.
type Input struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Phone     string  `json:"phone" validate:"required"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Address   string  `json:"address"`
	Note      string  `json:"note"`
	Discount  float64 `json:"discount" validate:"gte=0,lte=100"`
}
