package config

// HTTPConfig controls the listener and the URLs handed out to browsers.
type HTTPConfig struct {
	// Addr is the listen address.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is where browsers reach the application, used when building
	// absolute redirect URLs.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain scopes session cookies. Empty means the request host.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// MaxConns caps concurrent client connections at the listener.
	// Zero disables the cap.
	MaxConns int `env:"HTTP_MAX_CONNS" envDefault:"512"`
}

// Sanitize normalizes values a stray environment could set to nonsense.
func (h *HTTPConfig) Sanitize() {
	if h.MaxConns < 0 {
		h.MaxConns = 0
	}
}
