// Package config declares the environment-driven configuration for the
// server. Values are parsed with github.com/caarlos0/env; each domain keeps
// its knobs in its own file (auth.go, database.go, http.go, session.go).
package config

import (
	"os"
	"strings"
)

// AppConfig is the root configuration struct composed from the per-domain
// sections.
type AppConfig struct {
	// IsDev loosens defaults for local development (dev auth identity,
	// verbose logging). Set DEV=true or APP_ENV=development.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth     AuthConfig
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`
	HTTP     HTTPConfig
	Session  SessionConfig
}

// Sanitize clamps values the environment is allowed to get wrong, and must
// run once after env parsing.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Session.Sanitize()
	c.detectDevMode()
}

// detectDevMode also honors APP_ENV so one variable can drive the whole stack.
func (c *AppConfig) detectDevMode() {
	if c.IsDev {
		return
	}
	switch strings.ToLower(os.Getenv("APP_ENV")) {
	case "development", "dev":
		c.IsDev = true
	}
}
