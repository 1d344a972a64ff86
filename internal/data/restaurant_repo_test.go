package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comandero/comandero/internal/domain/model"
	"github.com/comandero/comandero/internal/testutil"
)

func createTestRestaurant(t *testing.T, db *sql.DB, slug string) *model.Restaurant {
	t.Helper()
	repo := NewRestaurantRepo(db)
	r, err := repo.Create(context.Background(), &model.CreateRestaurantRequest{
		Name: "Restaurant " + slug,
		Slug: slug,
	})
	require.NoError(t, err)
	return r
}

func uniqueSlug(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func TestRestaurantRepo_Create_Get_Update_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewRestaurantRepo(db)

		slug := uniqueSlug("la-terraza")
		r, err := repo.Create(ctx, &model.CreateRestaurantRequest{
			Name: "La Terraza",
			Slug: slug,
		})
		require.NoError(t, err)
		require.NotEmpty(t, r.ID)
		assert.True(t, r.Active)
		assert.NotZero(t, r.CreatedAt)

		got, err := repo.GetByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, slug, got.Slug)

		bySlug, err := repo.GetBySlug(ctx, slug)
		require.NoError(t, err)
		require.NotNil(t, bySlug)
		assert.Equal(t, r.ID, bySlug.ID)

		updated, err := repo.Update(ctx, r.ID, model.UpdateRestaurantRequest{
			Name:   testutil.StringPtr("La Terraza Nueva"),
			Active: testutil.BoolPtr(false),
		})
		require.NoError(t, err)
		assert.Equal(t, "La Terraza Nueva", updated.Name)
		assert.False(t, updated.Active)

		deleted, err := repo.Delete(ctx, r.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = repo.GetByID(ctx, r.ID)
		assert.ErrorIs(t, err, ErrRestaurantNotFound)
	})
}

func TestRestaurantRepo_GetBySlug_AbsentIsNotAnError(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewRestaurantRepo(db)

		got, err := repo.GetBySlug(context.Background(), "no-such-restaurant")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRestaurantRepo_DuplicateSlug(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewRestaurantRepo(db)

		slug := uniqueSlug("dup")
		_, err := repo.Create(ctx, &model.CreateRestaurantRequest{Name: "First", Slug: slug})
		require.NoError(t, err)

		_, err = repo.Create(ctx, &model.CreateRestaurantRequest{Name: "Second", Slug: slug})
		assert.ErrorIs(t, err, ErrSlugExists)
	})
}

func TestRestaurantRepo_Membership(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewRestaurantRepo(db)
		r := createTestRestaurant(t, db, uniqueSlug("member"))

		isMember, err := repo.IsMember(ctx, "user-1", r.ID)
		require.NoError(t, err)
		assert.False(t, isMember)

		err = repo.AddMember(ctx, model.Membership{
			UserID:       "user-1",
			RestaurantID: r.ID,
			Role:         "staff",
		})
		require.NoError(t, err)

		isMember, err = repo.IsMember(ctx, "user-1", r.ID)
		require.NoError(t, err)
		assert.True(t, isMember)

		mine, err := repo.ListForUser(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, r.ID, mine[0].ID)

		// inactive restaurants drop out of the user listing
		_, err = repo.Update(ctx, r.ID, model.UpdateRestaurantRequest{Active: testutil.BoolPtr(false)})
		require.NoError(t, err)

		mine, err = repo.ListForUser(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, mine)

		removed, err := repo.RemoveMember(ctx, "user-1", r.ID)
		require.NoError(t, err)
		assert.True(t, removed)
	})
}
