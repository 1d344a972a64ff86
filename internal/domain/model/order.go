package model

import (
	"errors"
	"strings"
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether the order status is supported.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// ParseOrderStatus normalizes a status string and reports whether it is supported.
func ParseOrderStatus(value string) (OrderStatus, bool) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(value)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// OrderItem is a single line in an order. Stored as jsonb alongside the order.
type OrderItem struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

// Order is a restaurant-scoped customer order.
type Order struct {
	ID           string      `json:"id"                    db:"id"`
	RestaurantID string      `json:"restaurant_id"         db:"restaurant_id"`
	CustomerID   *string     `json:"customer_id,omitempty" db:"customer_id"`
	Status       OrderStatus `json:"status"                db:"status"`
	TotalCents   int64       `json:"total_cents"           db:"total_cents"`
	Items        []OrderItem `json:"items"                 db:"items"`
	CreatedAt    time.Time   `json:"created_at"            db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"            db:"updated_at"`
}

// CreateOrderRequest represents parameters to create an Order.
type CreateOrderRequest struct {
	CustomerID *string     `json:"customer_id,omitempty"`
	Items      []OrderItem `json:"items"`
}

// UpdateOrderRequest represents parameters to update an Order.
// Only the status transitions after creation; items are immutable.
type UpdateOrderRequest struct {
	Status *OrderStatus `json:"status,omitempty"`
}

// OrdersListOptions controls paging and filtering for listing orders.
type OrdersListOptions struct {
	Limit      int
	Offset     int
	Status     *OrderStatus // exact match
	CustomerID *string      // exact match
}

// TotalCents computes the order total from its items.
func (r *CreateOrderRequest) TotalCents() int64 {
	var total int64
	for _, it := range r.Items {
		total += it.PriceCents * int64(it.Quantity)
	}
	return total
}

// Validate validates CreateOrderRequest.
func (r *CreateOrderRequest) Validate() error {
	if len(r.Items) == 0 {
		return errors.New("items are required")
	}
	for i, it := range r.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return errors.New("items must reference a product")
		}
		if it.Quantity <= 0 {
			return errors.New("item quantity must be > 0")
		}
		if it.PriceCents < 0 {
			return errors.New("item price_cents must be >= 0")
		}
		r.Items[i].Name = strings.TrimSpace(it.Name)
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateOrderRequest.
func (r *UpdateOrderRequest) HasUpdates() bool { return r.Status != nil }
