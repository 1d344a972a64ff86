package config

import "time"

// SessionConfig contains shell session and tenant resolution configuration.
type SessionConfig struct {
	// HydrationAttempts caps how many times the shell endpoint polls for the
	// resolved tenant before giving up.
	HydrationAttempts int `env:"SESSION_HYDRATION_ATTEMPTS" envDefault:"5"`

	// HydrationInterval is the delay between hydration polls.
	HydrationInterval time.Duration `env:"SESSION_HYDRATION_INTERVAL" envDefault:"500ms"`

	// HydrationDebounce is the initial delay before the first poll.
	HydrationDebounce time.Duration `env:"SESSION_HYDRATION_DEBOUNCE" envDefault:"100ms"`

	// TenantCacheTTL is how long resolved restaurants stay in the in-process
	// tenant cache.
	TenantCacheTTL time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.HydrationAttempts <= 0 {
		s.HydrationAttempts = 5
	}
	if s.HydrationInterval <= 0 {
		s.HydrationInterval = 500 * time.Millisecond
	}
	if s.HydrationDebounce < 0 {
		s.HydrationDebounce = 100 * time.Millisecond
	}
	if s.TenantCacheTTL <= 0 {
		s.TenantCacheTTL = 5 * time.Minute
	}
}
