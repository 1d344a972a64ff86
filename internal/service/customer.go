package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/comandero/comandero/internal/core"
	"github.com/comandero/comandero/internal/domain/model"
)

// CustomerServiceOptions groups dependencies for CustomerService.
type CustomerServiceOptions struct {
	Repo   core.CustomerRepository // Required: customer repository
	Logger *slog.Logger            // Optional: structured logger
}

// CustomerService provides business logic for restaurant customers.
type CustomerService struct {
	repo   core.CustomerRepository
	logger *slog.Logger
}

// NewCustomerService constructs a new CustomerService.
func NewCustomerService(opts CustomerServiceOptions) (*CustomerService, error) {
	if opts.Repo == nil {
		return nil, errors.New("CustomerRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "customer_service")
	}

	return &CustomerService{repo: opts.Repo, logger: logger}, nil
}

// Create creates a new customer in the restaurant.
func (s *CustomerService) Create(ctx context.Context, restaurantID string, req *model.CreateCustomerRequest) (*model.Customer, error) {
	c, err := s.repo.Create(ctx, restaurantID, req)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	if s.logger != nil {
		s.logger.DebugContext(ctx, "customer created", "id", c.ID, "restaurant_id", restaurantID)
	}
	return c, nil
}

// GetByID retrieves a customer by ID within the restaurant.
func (s *CustomerService) GetByID(ctx context.Context, restaurantID, id string) (*model.Customer, error) {
	c, err := s.repo.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// List retrieves customers for the restaurant.
func (s *CustomerService) List(ctx context.Context, restaurantID string, opts model.CustomersListOptions) ([]*model.Customer, error) {
	customers, err := s.repo.List(ctx, restaurantID, opts)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// Update updates a customer within the restaurant.
func (s *CustomerService) Update(ctx context.Context, restaurantID, id string, req model.UpdateCustomerRequest) (*model.Customer, error) {
	c, err := s.repo.Update(ctx, restaurantID, id, req)
	if err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return c, nil
}

// Delete deletes a customer within the restaurant.
func (s *CustomerService) Delete(ctx context.Context, restaurantID, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, restaurantID, id)
	if err != nil {
		return false, fmt.Errorf("delete customer: %w", err)
	}
	return deleted, nil
}
