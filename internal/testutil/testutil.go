// Package testutil backs the integration tests that need real Postgres or
// Redis. By default a missing backing service skips the test; set
// TEST_REQUIRE_INFRA (or TEST_REQUIRE_DB / TEST_REQUIRE_REDIS) to fail
// instead, which is what CI does.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	// Register the pgx database/sql driver for test connections.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/comandero/comandero/internal/migrate"
)

// TB is the slice of *testing.T these helpers touch. An interface keeps the
// testing package out of this non-test file.
type TB interface {
	Helper()
	Skip(args ...interface{})
	Skipf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Logf(format string, args ...interface{})
}

func testDSN() string {
	hostPort := net.JoinHostPort(
		envOr("TEST_DB_HOST", "localhost"),
		envOr("TEST_DB_PORT", "55432"),
	)
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		envOr("TEST_DB_USER", "comandero"),
		envOr("TEST_DB_PASSWORD", "comandero"),
		hostPort,
		envOr("TEST_DB_NAME", "comandero"),
	)
}

// openTestDB opens and pings the test database.
func openTestDB(timeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}
	return db, nil
}

// SkipIfNoTestDB skips (or fails, under TEST_REQUIRE_DB) when the test
// database is unreachable.
func SkipIfNoTestDB(t TB) {
	t.Helper()

	db, err := openTestDB(2 * time.Second)
	if err != nil {
		if requireDB() {
			t.Fatal("Test database not available:", err)
		}
		t.Skip("Test database not available:", err)
		return
	}
	if cerr := db.Close(); cerr != nil {
		t.Logf("test db close failed: %v", cerr)
	}
}

// WithTestDB runs fn against a migrated, emptied test database and cleans up
// afterwards.
func WithTestDB(t TB, fn func(*sql.DB)) {
	t.Helper()
	SkipIfNoTestDB(t)

	db, err := openTestDB(10 * time.Second)
	if err != nil {
		t.Fatal("Failed to connect to test database. Make sure PostgreSQL is running (docker-compose up -d):", err)
		return
	}
	defer func() {
		truncateAll(t, db)
		if cerr := db.Close(); cerr != nil {
			t.Fatal("Failed to close database:", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if migrateErr := migrate.Run(ctx, db); migrateErr != nil {
		t.Fatal("Failed to run migrations:", migrateErr)
	}

	truncateAll(t, db)
	fn(db)
}

// truncateAll empties every application table, children first. Restaurant
// children cascade anyway; the explicit order keeps the intent obvious.
func truncateAll(t TB, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, table := range []string{
		"webhook_sinks",
		"reservations",
		"orders",
		"products",
		"customers",
		"restaurant_members",
		"restaurants",
	} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("Failed to clean up table %s: %v", table, err)
		}
	}
}

// SetupTestRedis returns a Redis client on test DB 1, flushed. The address
// comes from REDIS_ADDR or the usual local candidates.
func SetupTestRedis(t TB) *redis.Client {
	t.Helper()

	addr, ok := findRedis(t)
	if !ok {
		if requireRedis() {
			t.Fatalf("Redis not available for testing at %s", addr)
		}
		t.Skipf("Redis not available for testing at %s", addr)
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: failed to close redis client after ping error: %v", cerr)
		}
		if requireRedis() {
			t.Fatalf("Redis not available for testing at %s: %v", addr, err)
		}
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
		return nil
	}

	client.FlushDB(ctx)
	return client
}

// findRedis probes candidate addresses and returns the first reachable one.
func findRedis(t TB) (string, bool) {
	t.Helper()

	candidates := []string{"redis:6379", "localhost:6379", "localhost:56379"}
	if ciAddr := os.Getenv("REDIS_ADDR"); ciAddr != "" {
		candidates = []string{ciAddr}
	}

	last := candidates[len(candidates)-1]
	for _, addr := range candidates {
		if pingRedis(t, addr) {
			return addr, true
		}
	}
	return last, false
}

func pingRedis(t TB, addr string) bool {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer func() {
		if err := client.Close(); err != nil {
			t.Logf("warning: failed to close redis client: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Logf("Redis not available at %s: %v", addr, err)
		return false
	}
	return true
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// envBool parses common truthy values from env vars.
func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func requireDB() bool    { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

// StringPtr returns a pointer to the given string value.
func StringPtr(s string) *string { return &s }

// BoolPtr returns a pointer to the given bool value.
func BoolPtr(b bool) *bool { return &b }
