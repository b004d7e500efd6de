package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type TrackingStatus string

const (
	TrackingStatusProcessing TrackingStatus = "processing"
	TrackingStatusShipped    TrackingStatus = "shipped"
	TrackingStatusInTransit  TrackingStatus = "in-transit"
	TrackingStatusDelivered  TrackingStatus = "delivered"
	TrackingStatusCancelled  TrackingStatus = "cancelled"
)

type ShippingMethod string

const (
	ShippingMethodStandard ShippingMethod = "standard"
	ShippingMethodExpress  ShippingMethod = "express"
)

type Address struct {
	FullName   string `json:"full_name" validate:"required"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// OrderItem is a frozen snapshot of the product at purchase time. Name,
// price and image are copied, never re-read, so later product edits or
// deletions do not rewrite history.
type OrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Image     string    `json:"image"`
	Price     float64   `json:"price"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
}

type PaymentResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type Tracking struct {
	Number            string         `json:"number"`
	Carrier           string         `json:"carrier"`
	Status            TrackingStatus `json:"status"`
	EstimatedDelivery time.Time      `json:"estimated_delivery"`
	LastUpdated       time.Time      `json:"last_updated"`
}

type Order struct {
	ID              uuid.UUID      `json:"id"`
	UserID          uuid.UUID      `json:"user_id"`
	Items           []OrderItem    `json:"order_items"`
	TotalPrice      float64        `json:"total_price"`
	PaymentMethod   string         `json:"payment_method"`
	PaymentResult   PaymentResult  `json:"payment_result"`
	ShippingAddress Address        `json:"shipping_address"`
	ShippingMethod  ShippingMethod `json:"shipping_method"`
	Tracking        Tracking       `json:"tracking"`
	IsPaid          bool           `json:"is_paid"`
	PaidAt          *time.Time     `json:"paid_at,omitempty"`
	Status          OrderStatus    `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// CreateOrderRequest mirrors what the storefront sends after the payment
// provider confirms the intent. Amount is trusted as the authoritative
// total for the order.
type CreateOrderRequest struct {
	PaymentIntentID string         `json:"payment_intent_id" validate:"required"`
	Amount          float64        `json:"amount" validate:"required,gt=0"`
	PaymentMethod   string         `json:"payment_method" validate:"required"`
	ShippingAddress Address        `json:"shipping_address" validate:"required"`
	ShippingMethod  ShippingMethod `json:"shipping_method" validate:"required,oneof=standard express"`
}

type UpdateTrackingRequest struct {
	Status TrackingStatus `json:"status" validate:"required,oneof=processing shipped in-transit delivered cancelled"`
}
