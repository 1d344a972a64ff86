// Package ports holds the contracts the login flow is built against.
// Adapters (OIDC, the dev provider, the Redis session store) implement
// them; AuthService orchestrates them.
package ports

import (
	"context"

	domainauth "github.com/comandero/comandero/internal/domain/auth"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	// RedirectURL is where the provider sends the user back after login.
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes a login against an identity provider.
type AuthProvider interface {
	// Begin returns the provider URL to send the user to, plus the state
	// and nonce the callback must echo back.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange turns the callback's authorization code into a verified
	// identity. State and nonce mismatches are errors.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists staff sessions between requests.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper assigns an application role from the IdP group claims.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}
