package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxCustomerNameLen = 255

// Customer is a restaurant-scoped CRM contact.
type Customer struct {
	ID           string    `json:"id"              db:"id"`
	RestaurantID string    `json:"restaurant_id"   db:"restaurant_id"`
	Name         string    `json:"name"            db:"name"`
	Email        *string   `json:"email,omitempty" db:"email"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	Notes        *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time `json:"created_at"      db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"      db:"updated_at"`
}

// CreateCustomerRequest represents parameters to create a Customer.
type CreateCustomerRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// UpdateCustomerRequest represents parameters to update a Customer.
type UpdateCustomerRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// CustomersListOptions controls paging and filtering for listing customers.
// Q matches name or email via ILIKE substring.
type CustomersListOptions struct {
	Limit  int
	Offset int
	Q      *string
}

// Validate validates CreateCustomerRequest.
func (r *CreateCustomerRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxCustomerNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if r.Email != nil && !strings.Contains(*r.Email, "@") {
		return errors.New("email must contain @")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateCustomerRequest.
func (r *UpdateCustomerRequest) HasUpdates() bool {
	return r.Name != nil || r.Email != nil || r.Phone != nil || r.Notes != nil
}
