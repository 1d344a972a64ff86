package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/comandero/comandero/internal/data/pgxutil"
	"github.com/comandero/comandero/internal/domain/model"
)

// RestaurantRepo provides database operations for restaurants (tenants) and
// their memberships.
type RestaurantRepo struct {
	DB    *sql.DB
	clock func() time.Time
}

// NewRestaurantRepo creates a new RestaurantRepo.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo {
	return &RestaurantRepo{DB: db, clock: time.Now}
}

const restaurantColumns = `id, name, slug, active, created_at, updated_at`

// Create inserts a new restaurant.
func (r *RestaurantRepo) Create(ctx context.Context, req *model.CreateRestaurantRequest) (*model.Restaurant, error) {
	if req == nil {
		return nil, errors.New("create restaurant request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	createdAt := r.clock().UTC()
	var out model.Restaurant
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO restaurants (name, slug, active, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING `+restaurantColumns,
			strings.TrimSpace(req.Name),
			req.Slug,
			active,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Restaurant])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a restaurant by ID.
func (r *RestaurantRepo) GetByID(ctx context.Context, id string) (*model.Restaurant, error) {
	out, err := r.getByQuery(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant by ID: %w", err)
	}
	return out, nil
}

// GetBySlug retrieves a restaurant by slug. Returns (nil, nil) when no
// restaurant matches; callers treat absence as a decision input, not a fault.
func (r *RestaurantRepo) GetBySlug(ctx context.Context, slug string) (*model.Restaurant, error) {
	out, err := r.getByQuery(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE slug = $1`, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get restaurant by slug: %w", err)
	}
	return out, nil
}

// List retrieves restaurants with pagination.
func (r *RestaurantRepo) List(ctx context.Context, limit, offset int) ([]*model.Restaurant, error) {
	limit, offset = normalizePage(limit, offset)

	var rowsOut []model.Restaurant
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+restaurantColumns+`
			FROM restaurants
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Restaurant])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	return toPtrSlice(rowsOut), nil
}

// ListForUser retrieves the active restaurants the user is a member of.
func (r *RestaurantRepo) ListForUser(ctx context.Context, userID string) ([]*model.Restaurant, error) {
	var rowsOut []model.Restaurant
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT r.id, r.name, r.slug, r.active, r.created_at, r.updated_at
			FROM restaurants r
			JOIN restaurant_members m ON m.restaurant_id = r.id
			WHERE m.user_id = $1 AND r.active
			ORDER BY r.name`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Restaurant])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list restaurants for user: %w", err)
	}
	return toPtrSlice(rowsOut), nil
}

// Update updates a restaurant by ID.
func (r *RestaurantRepo) Update(ctx context.Context, id string, req model.UpdateRestaurantRequest) (*model.Restaurant, error) {
	if !req.HasUpdates() {
		return r.GetByID(ctx, id)
	}

	setParts := []string{"updated_at = now()"}
	args := []any{id}
	idx := 1
	nextIdx := func() int { idx++; return idx }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Active != nil {
		setParts = append(setParts, fmt.Sprintf("active = $%d", nextIdx()))
		args = append(args, *req.Active)
	}

	var out model.Restaurant
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE restaurants SET `+strings.Join(setParts, ", ")+`
			WHERE id = $1
			RETURNING `+restaurantColumns, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Restaurant])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// Delete deletes a restaurant by ID.
func (r *RestaurantRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete restaurant: %w", err)
	}
	return rows > 0, nil
}

// IsMember reports whether the user holds a membership in the restaurant.
func (r *RestaurantRepo) IsMember(ctx context.Context, userID, restaurantID string) (bool, error) {
	var exists bool
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM restaurant_members
				WHERE user_id = $1 AND restaurant_id = $2
			)`, userID, restaurantID).Scan(&exists)
	})
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// AddMember upserts a membership.
func (r *RestaurantRepo) AddMember(ctx context.Context, m model.Membership) error {
	if m.UserID == "" || m.RestaurantID == "" {
		return errors.New("user_id and restaurant_id are required")
	}
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO restaurant_members (user_id, restaurant_id, role, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, restaurant_id) DO UPDATE SET role = EXCLUDED.role`,
			m.UserID, m.RestaurantID, m.Role, r.clock().UTC())
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// RemoveMember deletes a membership.
func (r *RestaurantRepo) RemoveMember(ctx context.Context, userID, restaurantID string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			DELETE FROM restaurant_members WHERE user_id = $1 AND restaurant_id = $2`,
			userID, restaurantID)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to remove member: %w", err)
	}
	return rows > 0, nil
}

func (r *RestaurantRepo) getByQuery(ctx context.Context, query, arg string) (*model.Restaurant, error) {
	var out model.Restaurant
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Restaurant])
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *RestaurantRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrRestaurantNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrSlugExists
	}
	return err
}

// normalizePage clamps paging values to sane defaults.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// toPtrSlice converts a value slice into the pointer slice repositories return.
func toPtrSlice[T any](in []T) []*T {
	out := make([]*T, len(in))
	for i := range in {
		out[i] = &in[i]
	}
	return out
}
