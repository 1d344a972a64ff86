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

// CustomerRepo provides database operations for restaurant customers.
type CustomerRepo struct {
	DB    *sql.DB
	clock func() time.Time
}

// NewCustomerRepo creates a new CustomerRepo.
func NewCustomerRepo(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{DB: db, clock: time.Now}
}

const customerColumns = `id, restaurant_id, name, email, phone, notes, created_at, updated_at`

// Create inserts a new customer scoped to the restaurant.
func (r *CustomerRepo) Create(ctx context.Context, restaurantID string, req *model.CreateCustomerRequest) (*model.Customer, error) {
	if req == nil {
		return nil, errors.New("create customer request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Customer
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO customers (restaurant_id, name, email, phone, notes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+customerColumns,
			restaurantID,
			strings.TrimSpace(req.Name),
			req.Email,
			req.Phone,
			req.Notes,
			r.clock().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Customer])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a customer by ID within the restaurant.
func (r *CustomerRepo) GetByID(ctx context.Context, restaurantID, id string) (*model.Customer, error) {
	var out model.Customer
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+customerColumns+`
			FROM customers
			WHERE restaurant_id = $1 AND id = $2`, restaurantID, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Customer])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &out, nil
}

// List retrieves customers for the restaurant, newest first.
func (r *CustomerRepo) List(ctx context.Context, restaurantID string, opts model.CustomersListOptions) ([]*model.Customer, error) {
	limit, offset := normalizePage(opts.Limit, opts.Offset)

	where := []string{"restaurant_id = $1"}
	args := []any{restaurantID}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		args = append(args, "%"+strings.TrimSpace(*opts.Q)+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM customers
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		customerColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	var rowsOut []model.Customer
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Customer])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return toPtrSlice(rowsOut), nil
}

// Update updates a customer by ID within the restaurant.
func (r *CustomerRepo) Update(ctx context.Context, restaurantID, id string, req model.UpdateCustomerRequest) (*model.Customer, error) {
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
	if req.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", nextIdx()))
		args = append(args, *req.Email)
	}
	if req.Phone != nil {
		setParts = append(setParts, fmt.Sprintf("phone = $%d", nextIdx()))
		args = append(args, *req.Phone)
	}
	if req.Notes != nil {
		setParts = append(setParts, fmt.Sprintf("notes = $%d", nextIdx()))
		args = append(args, *req.Notes)
	}

	var out model.Customer
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE customers SET `+strings.Join(setParts, ", ")+`
			WHERE restaurant_id = $1 AND id = $2
			RETURNING `+customerColumns, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Customer])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return &out, nil
}

// Delete deletes a customer by ID within the restaurant.
func (r *CustomerRepo) Delete(ctx context.Context, restaurantID, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			DELETE FROM customers WHERE restaurant_id = $1 AND id = $2`, restaurantID, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete customer: %w", err)
	}
	return rows > 0, nil
}
