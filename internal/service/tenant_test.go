package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comandero/comandero/internal/adapters/tenantcache"
	"github.com/comandero/comandero/internal/domain/model"
)

type mockRestaurantRepo struct {
	getBySlugFn    func(ctx context.Context, slug string) (*model.Restaurant, error)
	getByIDFn      func(ctx context.Context, id string) (*model.Restaurant, error)
	isMemberFn     func(ctx context.Context, userID, restaurantID string) (bool, error)
	listForUserFn  func(ctx context.Context, userID string) ([]*model.Restaurant, error)
	getBySlugCalls int
	isMemberCalls  int
}

func (m *mockRestaurantRepo) Create(_ context.Context, _ *model.CreateRestaurantRequest) (*model.Restaurant, error) {
	return nil, errors.New("not implemented")
}

func (m *mockRestaurantRepo) GetByID(ctx context.Context, id string) (*model.Restaurant, error) {
	if m.getByIDFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockRestaurantRepo) GetBySlug(ctx context.Context, slug string) (*model.Restaurant, error) {
	m.getBySlugCalls++
	return m.getBySlugFn(ctx, slug)
}

func (m *mockRestaurantRepo) List(_ context.Context, _, _ int) ([]*model.Restaurant, error) {
	return nil, errors.New("not implemented")
}

func (m *mockRestaurantRepo) ListForUser(ctx context.Context, userID string) ([]*model.Restaurant, error) {
	if m.listForUserFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.listForUserFn(ctx, userID)
}

func (m *mockRestaurantRepo) Update(_ context.Context, _ string, _ model.UpdateRestaurantRequest) (*model.Restaurant, error) {
	return nil, errors.New("not implemented")
}

func (m *mockRestaurantRepo) Delete(_ context.Context, _ string) (bool, error) {
	return false, errors.New("not implemented")
}

func (m *mockRestaurantRepo) IsMember(ctx context.Context, userID, restaurantID string) (bool, error) {
	m.isMemberCalls++
	return m.isMemberFn(ctx, userID, restaurantID)
}

func (m *mockRestaurantRepo) AddMember(_ context.Context, _ model.Membership) error {
	return errors.New("not implemented")
}

func (m *mockRestaurantRepo) RemoveMember(_ context.Context, _, _ string) (bool, error) {
	return false, errors.New("not implemented")
}

func TestTenantService_FindBySlug_CachesFoundRestaurants(t *testing.T) {
	rest := &model.Restaurant{ID: "rest-1", Slug: "la-terraza", Active: true}
	repo := &mockRestaurantRepo{
		getBySlugFn: func(_ context.Context, slug string) (*model.Restaurant, error) {
			if slug == "la-terraza" {
				return rest, nil
			}
			return nil, nil
		},
	}
	svc := MustNewTenantService(TenantServiceOptions{
		Repo:  repo,
		Cache: tenantcache.New(time.Minute),
	})

	got, err := svc.FindBySlug(context.Background(), "la-terraza")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "rest-1", got.ID)

	// second lookup is served from cache
	got, err = svc.FindBySlug(context.Background(), "la-terraza")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, repo.getBySlugCalls)
}

func TestTenantService_FindBySlug_AbsenceIsNotCached(t *testing.T) {
	repo := &mockRestaurantRepo{
		getBySlugFn: func(_ context.Context, _ string) (*model.Restaurant, error) {
			return nil, nil
		},
	}
	svc := MustNewTenantService(TenantServiceOptions{
		Repo:  repo,
		Cache: tenantcache.New(time.Minute),
	})

	for range 3 {
		got, err := svc.FindBySlug(context.Background(), "no-such")
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	assert.Equal(t, 3, repo.getBySlugCalls)
}

func TestTenantService_FindBySlug_MalformedSlugSkipsLookup(t *testing.T) {
	repo := &mockRestaurantRepo{
		getBySlugFn: func(_ context.Context, _ string) (*model.Restaurant, error) {
			return nil, errors.New("should not be called")
		},
	}
	svc := MustNewTenantService(TenantServiceOptions{Repo: repo})

	got, err := svc.FindBySlug(context.Background(), "Not A Slug!")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, repo.getBySlugCalls)
}

func TestTenantService_HasAccess(t *testing.T) {
	repo := &mockRestaurantRepo{
		isMemberFn: func(_ context.Context, userID, restaurantID string) (bool, error) {
			return userID == "user-1" && restaurantID == "rest-1", nil
		},
	}
	svc := MustNewTenantService(TenantServiceOptions{Repo: repo})

	ok, err := svc.HasAccess(context.Background(), "user-1", "rest-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasAccess(context.Background(), "user-2", "rest-1")
	require.NoError(t, err)
	assert.False(t, ok)

	// empty identifiers never reach the repository
	ok, err = svc.HasAccess(context.Background(), "", "rest-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, repo.isMemberCalls)
}
