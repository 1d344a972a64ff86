// Package core defines the contracts between the service layer and the data
// layer (ports in hexagonal architecture). Services depend on these
// interfaces, never on concrete repositories.
package core

import (
	"context"

	"github.com/comandero/comandero/internal/domain/model"
)

// RestaurantRepository defines the interface for tenant data operations.
type RestaurantRepository interface {
	Create(ctx context.Context, req *model.CreateRestaurantRequest) (*model.Restaurant, error)
	GetByID(ctx context.Context, id string) (*model.Restaurant, error)
	// GetBySlug returns (nil, nil) when no restaurant matches the slug.
	GetBySlug(ctx context.Context, slug string) (*model.Restaurant, error)
	List(ctx context.Context, limit, offset int) ([]*model.Restaurant, error)
	// ListForUser returns the restaurants the given user is a member of.
	ListForUser(ctx context.Context, userID string) ([]*model.Restaurant, error)
	Update(ctx context.Context, id string, req model.UpdateRestaurantRequest) (*model.Restaurant, error)
	Delete(ctx context.Context, id string) (bool, error)

	// IsMember reports whether the user holds a membership in the restaurant.
	IsMember(ctx context.Context, userID, restaurantID string) (bool, error)
	AddMember(ctx context.Context, m model.Membership) error
	RemoveMember(ctx context.Context, userID, restaurantID string) (bool, error)
}

// CustomerRepository defines the interface for customer data operations.
// All operations are scoped to a restaurant.
type CustomerRepository interface {
	Create(ctx context.Context, restaurantID string, req *model.CreateCustomerRequest) (*model.Customer, error)
	GetByID(ctx context.Context, restaurantID, id string) (*model.Customer, error)
	List(ctx context.Context, restaurantID string, opts model.CustomersListOptions) ([]*model.Customer, error)
	Update(ctx context.Context, restaurantID, id string, req model.UpdateCustomerRequest) (*model.Customer, error)
	Delete(ctx context.Context, restaurantID, id string) (bool, error)
}

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(ctx context.Context, restaurantID string, req *model.CreateProductRequest) (*model.Product, error)
	GetByID(ctx context.Context, restaurantID, id string) (*model.Product, error)
	List(ctx context.Context, restaurantID string, opts model.ProductsListOptions) ([]*model.Product, error)
	Update(ctx context.Context, restaurantID, id string, req model.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, restaurantID, id string) (bool, error)
}

// OrderRepository defines the interface for order data operations.
type OrderRepository interface {
	Create(ctx context.Context, restaurantID string, req *model.CreateOrderRequest) (*model.Order, error)
	GetByID(ctx context.Context, restaurantID, id string) (*model.Order, error)
	List(ctx context.Context, restaurantID string, opts model.OrdersListOptions) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, restaurantID, id string, status model.OrderStatus) (*model.Order, error)
}

// ReservationRepository defines the interface for reservation data operations.
type ReservationRepository interface {
	Create(ctx context.Context, restaurantID string, req *model.CreateReservationRequest) (*model.Reservation, error)
	GetByID(ctx context.Context, restaurantID, id string) (*model.Reservation, error)
	List(ctx context.Context, restaurantID string, opts model.ReservationsListOptions) ([]*model.Reservation, error)
	Update(ctx context.Context, restaurantID, id string, req model.UpdateReservationRequest) (*model.Reservation, error)
	Delete(ctx context.Context, restaurantID, id string) (bool, error)
}

// WebhookSinkRepository defines the interface for webhook sink data operations.
type WebhookSinkRepository interface {
	Create(ctx context.Context, restaurantID string, req *model.CreateWebhookSinkRequest) (*model.WebhookSink, error)
	GetByID(ctx context.Context, restaurantID, id string) (*model.WebhookSink, error)
	ListEnabled(ctx context.Context, restaurantID string) ([]*model.WebhookSink, error)
	List(ctx context.Context, restaurantID string, limit, offset int) ([]*model.WebhookSink, error)
	Update(ctx context.Context, restaurantID, id string, req model.UpdateWebhookSinkRequest) (*model.WebhookSink, error)
	Delete(ctx context.Context, restaurantID, id string) (bool, error)
}
