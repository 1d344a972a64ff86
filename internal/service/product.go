package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/comandero/comandero/internal/core"
	"github.com/comandero/comandero/internal/domain/model"
)

// ProductServiceOptions groups dependencies for ProductService.
type ProductServiceOptions struct {
	Repo   core.ProductRepository // Required: product repository
	Logger *slog.Logger           // Optional: structured logger
}

// ProductService provides business logic for restaurant menu products.
type ProductService struct {
	repo   core.ProductRepository
	logger *slog.Logger
}

// NewProductService constructs a new ProductService.
func NewProductService(opts ProductServiceOptions) (*ProductService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ProductRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "product_service")
	}

	return &ProductService{repo: opts.Repo, logger: logger}, nil
}

// Create creates a new product in the restaurant.
func (s *ProductService) Create(ctx context.Context, restaurantID string, req *model.CreateProductRequest) (*model.Product, error) {
	p, err := s.repo.Create(ctx, restaurantID, req)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	if s.logger != nil {
		s.logger.DebugContext(ctx, "product created", "id", p.ID, "restaurant_id", restaurantID)
	}
	return p, nil
}

// GetByID retrieves a product by ID within the restaurant.
func (s *ProductService) GetByID(ctx context.Context, restaurantID, id string) (*model.Product, error) {
	p, err := s.repo.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List retrieves products for the restaurant.
func (s *ProductService) List(ctx context.Context, restaurantID string, opts model.ProductsListOptions) ([]*model.Product, error) {
	products, err := s.repo.List(ctx, restaurantID, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Update updates a product within the restaurant.
func (s *ProductService) Update(ctx context.Context, restaurantID, id string, req model.UpdateProductRequest) (*model.Product, error) {
	p, err := s.repo.Update(ctx, restaurantID, id, req)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// Delete deletes a product within the restaurant.
func (s *ProductService) Delete(ctx context.Context, restaurantID, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, restaurantID, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return deleted, nil
}
