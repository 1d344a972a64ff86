package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/comandero/comandero/internal/adapters/tenantcache"
	"github.com/comandero/comandero/internal/core"
	"github.com/comandero/comandero/internal/data"
	"github.com/comandero/comandero/internal/domain/model"
)

// TenantServiceOptions groups dependencies for TenantService.
type TenantServiceOptions struct {
	Repo   core.RestaurantRepository // Required: restaurant repository
	Cache  *tenantcache.Cache        // Optional: slug lookup cache
	Logger *slog.Logger              // Optional: structured logger
}

// TenantService provides restaurant (tenant) lookups, CRUD, and membership
// checks. It satisfies the tenant directory consulted by route gating.
type TenantService struct {
	repo   core.RestaurantRepository
	cache  *tenantcache.Cache
	logger *slog.Logger
}

// NewTenantService constructs a new TenantService.
func NewTenantService(opts TenantServiceOptions) (*TenantService, error) {
	if opts.Repo == nil {
		return nil, errors.New("RestaurantRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "tenant_service")
	}

	return &TenantService{
		repo:   opts.Repo,
		cache:  opts.Cache,
		logger: logger,
	}, nil
}

// MustNewTenantService constructs a new TenantService and panics on error.
func MustNewTenantService(opts TenantServiceOptions) *TenantService {
	svc, err := NewTenantService(opts)
	if err != nil {
		panic(err) //nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
	}
	return svc
}

// FindBySlug resolves a restaurant by slug, consulting the cache first.
// Returns (nil, nil) when no restaurant matches. Only found restaurants are
// cached; absence always goes back to the database.
func (s *TenantService) FindBySlug(ctx context.Context, slug string) (*model.Restaurant, error) {
	if !model.ValidSlug(slug) {
		return nil, nil
	}

	if s.cache != nil {
		if rest, ok := s.cache.Get(slug); ok {
			return rest, nil
		}
	}

	rest, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find restaurant by slug: %w", err)
	}
	if rest != nil && s.cache != nil {
		s.cache.Set(slug, rest)
	}
	return rest, nil
}

// HasAccess reports whether the user holds a membership in the restaurant.
func (s *TenantService) HasAccess(ctx context.Context, userID, restaurantID string) (bool, error) {
	if userID == "" || restaurantID == "" {
		return false, nil
	}
	ok, err := s.repo.IsMember(ctx, userID, restaurantID)
	if err != nil {
		return false, fmt.Errorf("check restaurant membership: %w", err)
	}
	return ok, nil
}

// ListForUser retrieves the active restaurants the user is a member of.
func (s *TenantService) ListForUser(ctx context.Context, userID string) ([]*model.Restaurant, error) {
	restaurants, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list restaurants for user: %w", err)
	}
	return restaurants, nil
}

// List retrieves restaurants with pagination.
func (s *TenantService) List(ctx context.Context, limit, offset int) ([]*model.Restaurant, error) {
	restaurants, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return restaurants, nil
}

// GetByID retrieves a restaurant by ID.
func (s *TenantService) GetByID(ctx context.Context, id string) (*model.Restaurant, error) {
	rest, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return rest, nil
}

// Create creates a new restaurant.
func (s *TenantService) Create(ctx context.Context, req *model.CreateRestaurantRequest) (*model.Restaurant, error) {
	rest, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create restaurant: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "restaurant created", "id", rest.ID, "slug", rest.Slug)
	}
	return rest, nil
}

// Update updates a restaurant and invalidates its cached slug entry.
func (s *TenantService) Update(ctx context.Context, id string, req model.UpdateRestaurantRequest) (*model.Restaurant, error) {
	rest, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update restaurant: %w", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(rest.Slug)
	}
	return rest, nil
}

// Delete deletes a restaurant and invalidates its cached slug entry.
func (s *TenantService) Delete(ctx context.Context, id string) (bool, error) {
	rest, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrRestaurantNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get restaurant before delete: %w", err)
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete restaurant: %w", err)
	}
	if deleted && s.cache != nil {
		s.cache.Invalidate(rest.Slug)
	}
	if deleted && s.logger != nil {
		s.logger.InfoContext(ctx, "restaurant deleted", "id", id)
	}
	return deleted, nil
}

// AddMember grants a user membership in a restaurant.
func (s *TenantService) AddMember(ctx context.Context, m model.Membership) error {
	if err := s.repo.AddMember(ctx, m); err != nil {
		return fmt.Errorf("add restaurant member: %w", err)
	}
	return nil
}

// RemoveMember revokes a user's membership in a restaurant.
func (s *TenantService) RemoveMember(ctx context.Context, userID, restaurantID string) (bool, error) {
	removed, err := s.repo.RemoveMember(ctx, userID, restaurantID)
	if err != nil {
		return false, fmt.Errorf("remove restaurant member: %w", err)
	}
	return removed, nil
}
