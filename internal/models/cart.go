package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a pending line item. A line is identified by the
// (product, size, color) triple, so the same product in two sizes
// occupies two lines.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
}

// Cart exists at most once per user. It is created lazily on the first
// add-to-cart and deleted entirely after a successful order placement.
type Cart struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
}

type UpdateQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=0"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
}
