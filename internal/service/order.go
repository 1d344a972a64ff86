package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/comandero/comandero/internal/core"
	"github.com/comandero/comandero/internal/domain/model"
)

// Webhook event types emitted by OrderService.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderServiceOptions groups dependencies for OrderService.
type OrderServiceOptions struct {
	Repo       core.OrderRepository // Required: order repository
	Dispatcher *WebhookDispatcher   // Optional: webhook fan-out on order events
	Logger     *slog.Logger         // Optional: structured logger

	// DispatchTimeout bounds background webhook delivery. Defaults to 30s.
	DispatchTimeout time.Duration
}

// OrderService provides business logic for orders and emits webhook events
// when orders are created or change status.
type OrderService struct {
	repo            core.OrderRepository
	dispatcher      *WebhookDispatcher
	logger          *slog.Logger
	dispatchTimeout time.Duration
}

// NewOrderService constructs a new OrderService.
func NewOrderService(opts OrderServiceOptions) (*OrderService, error) {
	if opts.Repo == nil {
		return nil, errors.New("OrderRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "order_service")
	}

	timeout := opts.DispatchTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OrderService{
		repo:            opts.Repo,
		dispatcher:      opts.Dispatcher,
		logger:          logger,
		dispatchTimeout: timeout,
	}, nil
}

// Create creates a new order and notifies the restaurant's webhook sinks.
func (s *OrderService) Create(ctx context.Context, restaurantID string, req *model.CreateOrderRequest) (*model.Order, error) {
	o, err := s.repo.Create(ctx, restaurantID, req)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "order created",
			"id", o.ID,
			"restaurant_id", restaurantID,
			"total_cents", o.TotalCents,
		)
	}
	s.notify(EventOrderCreated, o)
	return o, nil
}

// GetByID retrieves an order by ID within the restaurant.
func (s *OrderService) GetByID(ctx context.Context, restaurantID, id string) (*model.Order, error) {
	o, err := s.repo.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// List retrieves orders for the restaurant.
func (s *OrderService) List(ctx context.Context, restaurantID string, opts model.OrdersListOptions) ([]*model.Order, error) {
	orders, err := s.repo.List(ctx, restaurantID, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus transitions an order and notifies the restaurant's webhook sinks.
func (s *OrderService) UpdateStatus(ctx context.Context, restaurantID, id string, status model.OrderStatus) (*model.Order, error) {
	o, err := s.repo.UpdateStatus(ctx, restaurantID, id, status)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	s.notify(EventOrderStatusChanged, o)
	return o, nil
}

// notify dispatches the event in the background. The request context is not
// reused: delivery must survive the originating request.
func (s *OrderService) notify(eventType string, o *model.Order) {
	if s.dispatcher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
		defer cancel()

		event := OrderEvent{
			Type:         eventType,
			RestaurantID: o.RestaurantID,
			Order:        o,
		}
		if _, err := s.dispatcher.Dispatch(ctx, event); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "webhook dispatch failed",
				"event", eventType,
				"order_id", o.ID,
				"err", err,
			)
		}
	}()
}
