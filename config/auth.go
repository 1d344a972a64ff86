package config

import (
	"fmt"
	"strings"
)

// AuthConfig selects and parameterizes the login provider.
type AuthConfig struct {
	// Mode picks the provider implementation. Anything other than the
	// known modes fails at parse time rather than at first login.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	OAuth   OAuthConfig   `envPrefix:"OAUTH_"`
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminGroup and StaffGroup name the directory groups that grant the
	// admin and staff roles. Members of neither group get the viewer role.
	AdminGroup string `env:"ADMIN_GROUP" envDefault:"admins"`
	StaffGroup string `env:"STAFF_GROUP" envDefault:"staff"`
}

// AuthMode names a login provider implementation.
type AuthMode string

const (
	// AuthModeOAuth logs users in through an OIDC identity provider.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock hands out a fixed identity without any provider round
	// trip. Development only.
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler so env parsing rejects
// unknown modes early.
func (a *AuthMode) UnmarshalText(text []byte) error {
	switch mode := AuthMode(strings.ToLower(string(text))); mode {
	case AuthModeOAuth, AuthModeMock:
		*a = mode
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", mode)
	}
}

// OAuthConfig carries the OIDC client registration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"comandero"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"comandero"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// DevAuthConfig is the identity every mock-mode login resolves to.
type DevAuthConfig struct {
	UserID string   `env:"USER_ID" envDefault:"dev-user"`
	Email  string   `env:"EMAIL"   envDefault:"dev@example.com"`
	Groups []string `env:"GROUPS"  envDefault:"admins"          envSeparator:";"`
}
