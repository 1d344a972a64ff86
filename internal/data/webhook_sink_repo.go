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

// WebhookSinkRepo provides database operations for restaurant webhook sinks.
type WebhookSinkRepo struct {
	DB    *sql.DB
	clock func() time.Time
}

// NewWebhookSinkRepo creates a new WebhookSinkRepo.
func NewWebhookSinkRepo(db *sql.DB) *WebhookSinkRepo {
	return &WebhookSinkRepo{DB: db, clock: time.Now}
}

const webhookSinkColumns = `id, restaurant_id, name, url, secret, filter, selector, enabled, created_at, updated_at`

// Create inserts a new webhook sink scoped to the restaurant.
func (r *WebhookSinkRepo) Create(ctx context.Context, restaurantID string, req *model.CreateWebhookSinkRequest) (*model.WebhookSink, error) {
	if req == nil {
		return nil, errors.New("create webhook sink request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	var out model.WebhookSink
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO webhook_sinks (restaurant_id, name, url, secret, filter, selector, enabled, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+webhookSinkColumns,
			restaurantID,
			req.Name,
			req.URL,
			req.Secret,
			req.Filter,
			req.Selector,
			enabled,
			r.clock().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WebhookSink])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create webhook sink: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a webhook sink by ID within the restaurant.
func (r *WebhookSinkRepo) GetByID(ctx context.Context, restaurantID, id string) (*model.WebhookSink, error) {
	var out model.WebhookSink
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+webhookSinkColumns+`
			FROM webhook_sinks
			WHERE restaurant_id = $1 AND id = $2`, restaurantID, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WebhookSink])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWebhookSinkNotFound
		}
		return nil, fmt.Errorf("failed to get webhook sink: %w", err)
	}
	return &out, nil
}

// List retrieves webhook sinks for the restaurant, newest first.
func (r *WebhookSinkRepo) List(ctx context.Context, restaurantID string, limit, offset int) ([]*model.WebhookSink, error) {
	limit, offset = normalizePage(limit, offset)

	var rowsOut []model.WebhookSink
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+webhookSinkColumns+`
			FROM webhook_sinks
			WHERE restaurant_id = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3`, restaurantID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.WebhookSink])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list webhook sinks: %w", err)
	}
	return toPtrSlice(rowsOut), nil
}

// ListEnabled retrieves all enabled webhook sinks for the restaurant.
// Used by the dispatcher on order events.
func (r *WebhookSinkRepo) ListEnabled(ctx context.Context, restaurantID string) ([]*model.WebhookSink, error) {
	var rowsOut []model.WebhookSink
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+webhookSinkColumns+`
			FROM webhook_sinks
			WHERE restaurant_id = $1 AND enabled
			ORDER BY created_at`, restaurantID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.WebhookSink])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list enabled webhook sinks: %w", err)
	}
	return toPtrSlice(rowsOut), nil
}

// Update updates a webhook sink by ID within the restaurant.
func (r *WebhookSinkRepo) Update(ctx context.Context, restaurantID, id string, req model.UpdateWebhookSinkRequest) (*model.WebhookSink, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setParts := []string{"updated_at = now()"}
	args := []any{restaurantID, id}
	idx := 2
	nextIdx := func() int { idx++; return idx }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.URL != nil {
		setParts = append(setParts, fmt.Sprintf("url = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.URL))
	}
	if req.Secret != nil {
		setParts = append(setParts, fmt.Sprintf("secret = $%d", nextIdx()))
		args = append(args, *req.Secret)
	}
	if req.Filter != nil {
		setParts = append(setParts, fmt.Sprintf("filter = $%d", nextIdx()))
		args = append(args, *req.Filter)
	}
	if req.Selector != nil {
		setParts = append(setParts, fmt.Sprintf("selector = $%d", nextIdx()))
		args = append(args, *req.Selector)
	}
	if req.Enabled != nil {
		setParts = append(setParts, fmt.Sprintf("enabled = $%d", nextIdx()))
		args = append(args, *req.Enabled)
	}

	var out model.WebhookSink
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE webhook_sinks SET `+strings.Join(setParts, ", ")+`
			WHERE restaurant_id = $1 AND id = $2
			RETURNING `+webhookSinkColumns, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WebhookSink])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWebhookSinkNotFound
		}
		return nil, fmt.Errorf("failed to update webhook sink: %w", err)
	}
	return &out, nil
}

// Delete deletes a webhook sink by ID within the restaurant.
func (r *WebhookSinkRepo) Delete(ctx context.Context, restaurantID, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			DELETE FROM webhook_sinks WHERE restaurant_id = $1 AND id = $2`, restaurantID, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete webhook sink: %w", err)
	}
	return rows > 0, nil
}
