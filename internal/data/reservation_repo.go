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

// ReservationRepo provides database operations for restaurant reservations.
type ReservationRepo struct {
	DB    *sql.DB
	clock func() time.Time
}

// NewReservationRepo creates a new ReservationRepo.
func NewReservationRepo(db *sql.DB) *ReservationRepo {
	return &ReservationRepo{DB: db, clock: time.Now}
}

const reservationColumns = `id, restaurant_id, customer_id, party_size, reserved_for, status, notes, created_at, updated_at`

// Create inserts a new pending reservation scoped to the restaurant.
func (r *ReservationRepo) Create(ctx context.Context, restaurantID string, req *model.CreateReservationRequest) (*model.Reservation, error) {
	if req == nil {
		return nil, errors.New("create reservation request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Reservation
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO reservations (restaurant_id, customer_id, party_size, reserved_for, status, notes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+reservationColumns,
			restaurantID,
			req.CustomerID,
			req.PartySize,
			req.ReservedFor.UTC(),
			model.ReservationStatusPending,
			req.Notes,
			r.clock().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Reservation])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a reservation by ID within the restaurant.
func (r *ReservationRepo) GetByID(ctx context.Context, restaurantID, id string) (*model.Reservation, error) {
	var out model.Reservation
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+reservationColumns+`
			FROM reservations
			WHERE restaurant_id = $1 AND id = $2`, restaurantID, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Reservation])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return &out, nil
}

// List retrieves reservations for the restaurant ordered by reservation time.
func (r *ReservationRepo) List(ctx context.Context, restaurantID string, opts model.ReservationsListOptions) ([]*model.Reservation, error) {
	limit, offset := normalizePage(opts.Limit, opts.Offset)

	where := []string{"restaurant_id = $1"}
	args := []any{restaurantID}
	if opts.Status != nil {
		args = append(args, *opts.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if opts.From != nil {
		args = append(args, opts.From.UTC())
		where = append(where, fmt.Sprintf("reserved_for >= $%d", len(args)))
	}
	if opts.To != nil {
		args = append(args, opts.To.UTC())
		where = append(where, fmt.Sprintf("reserved_for < $%d", len(args)))
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM reservations
		WHERE %s
		ORDER BY reserved_for
		LIMIT $%d OFFSET $%d`,
		reservationColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	var rowsOut []model.Reservation
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Reservation])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return toPtrSlice(rowsOut), nil
}

// Update updates a reservation by ID within the restaurant.
func (r *ReservationRepo) Update(ctx context.Context, restaurantID, id string, req model.UpdateReservationRequest) (*model.Reservation, error) {
	if !req.HasUpdates() {
		return r.GetByID(ctx, restaurantID, id)
	}

	setParts := []string{"updated_at = now()"}
	args := []any{restaurantID, id}
	idx := 2
	nextIdx := func() int { idx++; return idx }

	if req.PartySize != nil {
		if *req.PartySize <= 0 {
			return nil, errors.New("party_size must be > 0")
		}
		setParts = append(setParts, fmt.Sprintf("party_size = $%d", nextIdx()))
		args = append(args, *req.PartySize)
	}
	if req.ReservedFor != nil {
		setParts = append(setParts, fmt.Sprintf("reserved_for = $%d", nextIdx()))
		args = append(args, req.ReservedFor.UTC())
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("unsupported reservation status %q", *req.Status)
		}
		setParts = append(setParts, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *req.Status)
	}
	if req.Notes != nil {
		setParts = append(setParts, fmt.Sprintf("notes = $%d", nextIdx()))
		args = append(args, *req.Notes)
	}

	var out model.Reservation
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE reservations SET `+strings.Join(setParts, ", ")+`
			WHERE restaurant_id = $1 AND id = $2
			RETURNING `+reservationColumns, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Reservation])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}
	return &out, nil
}

// Delete deletes a reservation by ID within the restaurant.
func (r *ReservationRepo) Delete(ctx context.Context, restaurantID, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			DELETE FROM reservations WHERE restaurant_id = $1 AND id = $2`, restaurantID, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete reservation: %w", err)
	}
	return rows > 0, nil
}
