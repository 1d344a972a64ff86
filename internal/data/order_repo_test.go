package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comandero/comandero/internal/domain/model"
	"github.com/comandero/comandero/internal/testutil"
)

func TestOrderRepo_CreateAndStatusTransitions(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		rest := createTestRestaurant(t, db, uniqueSlug("orders"))
		repo := NewOrderRepo(db)

		o, err := repo.Create(ctx, rest.ID, &model.CreateOrderRequest{
			Items: []model.OrderItem{
				{ProductID: "prod-1", Name: "Paella", Quantity: 2, PriceCents: 1450},
				{ProductID: "prod-2", Name: "Sangria", Quantity: 1, PriceCents: 600},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusPending, o.Status)
		assert.Equal(t, int64(2*1450+600), o.TotalCents)
		require.Len(t, o.Items, 2)
		assert.Equal(t, "Paella", o.Items[0].Name)

		got, err := repo.GetByID(ctx, rest.ID, o.ID)
		require.NoError(t, err)
		assert.Equal(t, o.TotalCents, got.TotalCents)

		updated, err := repo.UpdateStatus(ctx, rest.ID, o.ID, model.OrderStatusPreparing)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusPreparing, updated.Status)

		_, err = repo.UpdateStatus(ctx, rest.ID, o.ID, model.OrderStatus("bogus"))
		assert.Error(t, err)
	})
}

func TestOrderRepo_ListFilters(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		rest := createTestRestaurant(t, db, uniqueSlug("orderlist"))
		other := createTestRestaurant(t, db, uniqueSlug("otherrest"))
		repo := NewOrderRepo(db)

		mkOrder := func(restaurantID string) *model.Order {
			o, err := repo.Create(ctx, restaurantID, &model.CreateOrderRequest{
				Items: []model.OrderItem{{ProductID: "p", Name: "Cafe", Quantity: 1, PriceCents: 150}},
			})
			require.NoError(t, err)
			return o
		}

		first := mkOrder(rest.ID)
		mkOrder(rest.ID)
		mkOrder(other.ID)

		_, err := repo.UpdateStatus(ctx, rest.ID, first.ID, model.OrderStatusDelivered)
		require.NoError(t, err)

		// scoped to one restaurant
		all, err := repo.List(ctx, rest.ID, model.OrdersListOptions{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		delivered := model.OrderStatusDelivered
		got, err := repo.List(ctx, rest.ID, model.OrdersListOptions{Status: &delivered})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, first.ID, got[0].ID)

		// cross-tenant reads miss
		_, err = repo.GetByID(ctx, other.ID, first.ID)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
