package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxProductNameLen = 255

// Product is a restaurant-scoped menu item.
type Product struct {
	ID           string    `json:"id"                    db:"id"`
	RestaurantID string    `json:"restaurant_id"         db:"restaurant_id"`
	Name         string    `json:"name"                  db:"name"`
	Description  *string   `json:"description,omitempty" db:"description"`
	PriceCents   int64     `json:"price_cents"           db:"price_cents"`
	Category     *string   `json:"category,omitempty"    db:"category"`
	Available    bool      `json:"available"             db:"available"`
	CreatedAt    time.Time `json:"created_at"            db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"            db:"updated_at"`
}

// CreateProductRequest represents parameters to create a Product.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	PriceCents  int64   `json:"price_cents"`
	Category    *string `json:"category,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}

// UpdateProductRequest represents parameters to update a Product.
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
	Category    *string `json:"category,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}

// ProductsListOptions controls paging and filtering for listing products.
type ProductsListOptions struct {
	Limit     int
	Offset    int
	Q         *string // substring match on name (ILIKE)
	Category  *string // exact match
	Available *bool   // exact match
}

// Validate validates CreateProductRequest.
func (r *CreateProductRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxProductNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if r.PriceCents < 0 {
		return errors.New("price_cents must be >= 0")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateProductRequest.
func (r *UpdateProductRequest) HasUpdates() bool {
	return r.Name != nil || r.Description != nil || r.PriceCents != nil ||
		r.Category != nil || r.Available != nil
}
