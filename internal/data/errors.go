package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	ErrRestaurantNotFound  = errors.New("restaurant not found")
	ErrSlugExists          = errors.New("restaurant slug already exists")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrWebhookSinkNotFound = errors.New("webhook sink not found")
)
