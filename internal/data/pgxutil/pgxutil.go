// Package pgxutil exposes the pgx-native connection hiding inside a
// database/sql pool, for repositories that want pgx query and row-mapping
// helpers without a second pool.
package pgxutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// WithPgxConn checks a connection out of the pool, unwraps it to *pgx.Conn
// through the stdlib bridge, and runs fn on it.
func WithPgxConn(ctx context.Context, db *sql.DB, fn func(*pgx.Conn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get conn from pool: %w", err)
	}
	// Close returns the connection to the pool; a failure there is harmless.
	defer func() { _ = conn.Close() }()

	return conn.Raw(func(driverConn any) error {
		bridged, ok := driverConn.(*stdlib.Conn)
		if !ok {
			return errors.New("unexpected driver connection type; expected *stdlib.Conn")
		}
		return fn(bridged.Conn())
	})
}

// TxConfig groups parameters for WithPgxTx.
type TxConfig struct {
	Opts *sql.TxOptions
	Fn   func(pgx.Tx) error
}

// WithPgxTx runs cfg.Fn inside a pgx transaction. The transaction commits
// when Fn returns nil and rolls back otherwise.
func WithPgxTx(ctx context.Context, db *sql.DB, cfg TxConfig) error {
	return WithPgxConn(ctx, db, func(pgxConn *pgx.Conn) error {
		tx, err := pgxConn.BeginTx(ctx, pgxTxOptions(cfg.Opts))
		if err != nil {
			return fmt.Errorf("begin pgx tx: %w", err)
		}
		defer rollbackQuiet(ctx, tx)

		if fnErr := cfg.Fn(tx); fnErr != nil {
			return fnErr
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			return fmt.Errorf("commit pgx tx: %w", commitErr)
		}
		return nil
	})
}

// rollbackQuiet rolls the transaction back, tolerating the usual case where
// a commit already closed it.
func rollbackQuiet(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		_ = err
	}
}

// pgxTxOptions maps database/sql isolation levels onto the four levels
// PostgreSQL actually implements. Unknown levels fall through to the server
// default.
func pgxTxOptions(opts *sql.TxOptions) pgx.TxOptions {
	var mapped pgx.TxOptions
	if opts == nil {
		return mapped
	}

	switch opts.Isolation {
	case sql.LevelSerializable, sql.LevelLinearizable:
		mapped.IsoLevel = pgx.Serializable
	case sql.LevelRepeatableRead, sql.LevelSnapshot:
		mapped.IsoLevel = pgx.RepeatableRead
	case sql.LevelReadCommitted, sql.LevelWriteCommitted:
		mapped.IsoLevel = pgx.ReadCommitted
	case sql.LevelReadUncommitted:
		mapped.IsoLevel = pgx.ReadUncommitted
	}

	if opts.ReadOnly {
		mapped.AccessMode = pgx.ReadOnly
	}
	return mapped
}
