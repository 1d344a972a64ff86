package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/comandero/comandero/internal/core"
	"github.com/comandero/comandero/internal/domain/model"
)

// ReservationServiceOptions groups dependencies for ReservationService.
type ReservationServiceOptions struct {
	Repo   core.ReservationRepository // Required: reservation repository
	Logger *slog.Logger               // Optional: structured logger
}

// ReservationService provides business logic for table reservations.
type ReservationService struct {
	repo   core.ReservationRepository
	logger *slog.Logger
}

// NewReservationService constructs a new ReservationService.
func NewReservationService(opts ReservationServiceOptions) (*ReservationService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ReservationRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "reservation_service")
	}

	return &ReservationService{repo: opts.Repo, logger: logger}, nil
}

// Create creates a new reservation in the restaurant.
func (s *ReservationService) Create(ctx context.Context, restaurantID string, req *model.CreateReservationRequest) (*model.Reservation, error) {
	res, err := s.repo.Create(ctx, restaurantID, req)
	if err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	if s.logger != nil {
		s.logger.DebugContext(ctx, "reservation created",
			"id", res.ID,
			"restaurant_id", restaurantID,
			"reserved_for", res.ReservedFor,
		)
	}
	return res, nil
}

// GetByID retrieves a reservation by ID within the restaurant.
func (s *ReservationService) GetByID(ctx context.Context, restaurantID, id string) (*model.Reservation, error) {
	res, err := s.repo.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// List retrieves reservations for the restaurant.
func (s *ReservationService) List(ctx context.Context, restaurantID string, opts model.ReservationsListOptions) ([]*model.Reservation, error) {
	reservations, err := s.repo.List(ctx, restaurantID, opts)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return reservations, nil
}

// Update updates a reservation within the restaurant.
func (s *ReservationService) Update(ctx context.Context, restaurantID, id string, req model.UpdateReservationRequest) (*model.Reservation, error) {
	res, err := s.repo.Update(ctx, restaurantID, id, req)
	if err != nil {
		return nil, fmt.Errorf("update reservation: %w", err)
	}
	return res, nil
}

// Delete deletes a reservation within the restaurant.
func (s *ReservationService) Delete(ctx context.Context, restaurantID, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, restaurantID, id)
	if err != nil {
		return false, fmt.Errorf("delete reservation: %w", err)
	}
	return deleted, nil
}
