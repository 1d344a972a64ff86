package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/comandero/comandero/internal/data/pgxutil"
	"github.com/comandero/comandero/internal/domain/model"
)

// ProductRepo provides database operations for restaurant menu products.
type ProductRepo struct {
	DB    *sql.DB
	clock func() time.Time
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{DB: db, clock: time.Now}
}

const productColumns = `id, restaurant_id, name, description, price_cents, category, available, created_at, updated_at`

// Create inserts a new product scoped to the restaurant.
func (r *ProductRepo) Create(ctx context.Context, restaurantID string, req *model.CreateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, errors.New("create product request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	var out model.Product
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO products (restaurant_id, name, description, price_cents, category, available, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+productColumns,
			restaurantID,
			strings.TrimSpace(req.Name),
			req.Description,
			req.PriceCents,
			req.Category,
			available,
			r.clock().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Product])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a product by ID within the restaurant.
func (r *ProductRepo) GetByID(ctx context.Context, restaurantID, id string) (*model.Product, error) {
	var out model.Product
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+productColumns+`
			FROM products
			WHERE restaurant_id = $1 AND id = $2`, restaurantID, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Product])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &out, nil
}

// List retrieves products for the restaurant ordered by category then name.
func (r *ProductRepo) List(ctx context.Context, restaurantID string, opts model.ProductsListOptions) ([]*model.Product, error) {
	limit, offset := normalizePage(opts.Limit, opts.Offset)

	where := []string{"restaurant_id = $1"}
	args := []any{restaurantID}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		args = append(args, "%"+strings.TrimSpace(*opts.Q)+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if opts.Category != nil {
		args = append(args, *opts.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if opts.Available != nil {
		args = append(args, *opts.Available)
		where = append(where, fmt.Sprintf("available = $%d", len(args)))
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE %s
		ORDER BY category NULLS LAST, name
		LIMIT $%d OFFSET $%d`,
		productColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	var rowsOut []model.Product
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Product])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return toPtrSlice(rowsOut), nil
}

// Update updates a product by ID within the restaurant.
func (r *ProductRepo) Update(ctx context.Context, restaurantID, id string, req model.UpdateProductRequest) (*model.Product, error) {
	if !req.HasUpdates() {
		return r.GetByID(ctx, restaurantID, id)
	}

	setParts := []string{"updated_at = now()"}
	args := []any{restaurantID, id}
	idx := 2
	nextIdx := func() int { idx++; return idx }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", nextIdx()))
		args = append(args, *req.Description)
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return nil, errors.New("price_cents must be >= 0")
		}
		setParts = append(setParts, fmt.Sprintf("price_cents = $%d", nextIdx()))
		args = append(args, *req.PriceCents)
	}
	if req.Category != nil {
		setParts = append(setParts, fmt.Sprintf("category = $%d", nextIdx()))
		args = append(args, *req.Category)
	}
	if req.Available != nil {
		setParts = append(setParts, fmt.Sprintf("available = $%d", nextIdx()))
		args = append(args, *req.Available)
	}

	var out model.Product
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE products SET `+strings.Join(setParts, ", ")+`
			WHERE restaurant_id = $1 AND id = $2
			RETURNING `+productColumns, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Product])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &out, nil
}

// Delete deletes a product by ID within the restaurant.
func (r *ProductRepo) Delete(ctx context.Context, restaurantID, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			DELETE FROM products WHERE restaurant_id = $1 AND id = $2`, restaurantID, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	return rows > 0, nil
}
