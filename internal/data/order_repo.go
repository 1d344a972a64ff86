package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/comandero/comandero/internal/data/pgxutil"
	"github.com/comandero/comandero/internal/domain/model"
)

// OrderRepo provides database operations for restaurant orders.
// Order items are stored as a jsonb column; they never change after creation.
type OrderRepo struct {
	DB    *sql.DB
	clock func() time.Time
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{DB: db, clock: time.Now}
}

const orderColumns = `id, restaurant_id, customer_id, status, total_cents, items, created_at, updated_at`

// Create inserts a new pending order scoped to the restaurant.
func (r *OrderRepo) Create(ctx context.Context, restaurantID string, req *model.CreateOrderRequest) (*model.Order, error) {
	if req == nil {
		return nil, errors.New("create order request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	items, err := json.Marshal(req.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order items: %w", err)
	}

	var out model.Order
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO orders (restaurant_id, customer_id, status, total_cents, items, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+orderColumns,
			restaurantID,
			req.CustomerID,
			model.OrderStatusPending,
			req.TotalCents(),
			items,
			r.clock().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Order])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return &out, nil
}

// GetByID retrieves an order by ID within the restaurant.
func (r *OrderRepo) GetByID(ctx context.Context, restaurantID, id string) (*model.Order, error) {
	var out model.Order
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+orderColumns+`
			FROM orders
			WHERE restaurant_id = $1 AND id = $2`, restaurantID, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Order])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &out, nil
}

// List retrieves orders for the restaurant, newest first.
func (r *OrderRepo) List(ctx context.Context, restaurantID string, opts model.OrdersListOptions) ([]*model.Order, error) {
	limit, offset := normalizePage(opts.Limit, opts.Offset)

	where := []string{"restaurant_id = $1"}
	args := []any{restaurantID}
	if opts.Status != nil {
		args = append(args, *opts.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if opts.CustomerID != nil {
		args = append(args, *opts.CustomerID)
		where = append(where, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		orderColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	var rowsOut []model.Order
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Order])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return toPtrSlice(rowsOut), nil
}

// UpdateStatus transitions an order to the given status.
func (r *OrderRepo) UpdateStatus(ctx context.Context, restaurantID, id string, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unsupported order status %q", status)
	}

	var out model.Order
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE orders SET status = $3, updated_at = now()
			WHERE restaurant_id = $1 AND id = $2
			RETURNING `+orderColumns, restaurantID, id, status)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Order])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return &out, nil
}
