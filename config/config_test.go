package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfigDefaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, AuthModeOAuth, cfg.Auth.Mode)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.True(t, cfg.Postgres.RunMigrationsOnStart)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 5, cfg.Session.HydrationAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Session.HydrationInterval)
	assert.Equal(t, 100*time.Millisecond, cfg.Session.HydrationDebounce)
	assert.Equal(t, 5*time.Minute, cfg.Session.TenantCacheTTL)
}

func TestAppConfigFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("AUTH_MODE", "mock")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("SESSION_HYDRATION_ATTEMPTS", "3")
	t.Setenv("DEV_AUTH_GROUPS", "admins;staff")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, AuthModeMock, cfg.Auth.Mode)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 5433, cfg.Postgres.Port)
	assert.Equal(t, "redis.internal:6380", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Session.HydrationAttempts)
	assert.Equal(t, []string{"admins", "staff"}, cfg.Auth.DevAuth.Groups)
}

func TestAuthModeUnmarshal(t *testing.T) {
	var m AuthMode
	require.NoError(t, m.UnmarshalText([]byte("OAuth")))
	assert.Equal(t, AuthModeOAuth, m)

	require.NoError(t, m.UnmarshalText([]byte("mock")))
	assert.Equal(t, AuthModeMock, m)

	assert.Error(t, m.UnmarshalText([]byte("saml")))
}

func TestSanitizeClampsBadValues(t *testing.T) {
	cfg := AppConfig{
		HTTP:    HTTPConfig{MaxConns: -1},
		Session: SessionConfig{HydrationAttempts: -5, HydrationInterval: -time.Second},
	}
	cfg.Sanitize()

	assert.Equal(t, 0, cfg.HTTP.MaxConns)
	assert.Equal(t, 5, cfg.Session.HydrationAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Session.HydrationInterval)
}
