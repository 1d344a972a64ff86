package model

import (
	"errors"
	"strings"
	"time"
)

// ReservationStatus represents the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Valid reports whether the reservation status is supported.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCancelled:
		return true
	default:
		return false
	}
}

// ParseReservationStatus normalizes a status string and reports whether it is supported.
func ParseReservationStatus(value string) (ReservationStatus, bool) {
	status := ReservationStatus(strings.ToLower(strings.TrimSpace(value)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// Reservation is a restaurant-scoped table reservation.
type Reservation struct {
	ID           string            `json:"id"                    db:"id"`
	RestaurantID string            `json:"restaurant_id"         db:"restaurant_id"`
	CustomerID   *string           `json:"customer_id,omitempty" db:"customer_id"`
	PartySize    int               `json:"party_size"            db:"party_size"`
	ReservedFor  time.Time         `json:"reserved_for"          db:"reserved_for"`
	Status       ReservationStatus `json:"status"                db:"status"`
	Notes        *string           `json:"notes,omitempty"       db:"notes"`
	CreatedAt    time.Time         `json:"created_at"            db:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"            db:"updated_at"`
}

// CreateReservationRequest represents parameters to create a Reservation.
type CreateReservationRequest struct {
	CustomerID  *string   `json:"customer_id,omitempty"`
	PartySize   int       `json:"party_size"`
	ReservedFor time.Time `json:"reserved_for"`
	Notes       *string   `json:"notes,omitempty"`
}

// UpdateReservationRequest represents parameters to update a Reservation.
type UpdateReservationRequest struct {
	PartySize   *int               `json:"party_size,omitempty"`
	ReservedFor *time.Time         `json:"reserved_for,omitempty"`
	Status      *ReservationStatus `json:"status,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
}

// ReservationsListOptions controls paging and filtering for listing reservations.
type ReservationsListOptions struct {
	Limit  int
	Offset int
	Status *ReservationStatus // exact match
	From   *time.Time         // reserved_for >= From
	To     *time.Time         // reserved_for < To
}

// Validate validates CreateReservationRequest.
func (r *CreateReservationRequest) Validate() error {
	if r.PartySize <= 0 {
		return errors.New("party_size must be > 0")
	}
	if r.ReservedFor.IsZero() {
		return errors.New("reserved_for is required")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateReservationRequest.
func (r *UpdateReservationRequest) HasUpdates() bool {
	return r.PartySize != nil || r.ReservedFor != nil || r.Status != nil || r.Notes != nil
}
