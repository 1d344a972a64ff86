package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/comandero/comandero/internal/domain/auth"
	"github.com/comandero/comandero/internal/ports"
)

// Session lifetime bounds. The identity provider decides the expiry, but a
// missing or absurd value must not produce an immortal session cookie.
const (
	defaultSessionTTL = 12 * time.Hour
	maxSessionTTL     = 24 * time.Hour
)

var errSessionExpired = errors.New("session expired")

// ErrSessionExpired reports whether err indicates an expired session.
func ErrSessionExpired(err error) bool { return errors.Is(err, errSessionExpired) }

// AuthService runs the login flow for restaurant staff: it asks the provider
// for an identity, maps IdP groups onto the admin/staff/viewer roles, and
// keeps the resulting session in the session store.
type AuthService struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	roles    ports.RoleMapper
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Roles    ports.RoleMapper
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		roles:    opts.Roles,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin starts the provider flow. State and nonce go into short-lived
// cookies on the HTTP side and are checked again in CompleteLogin.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

func (in CompleteLoginInput) validate() error {
	switch {
	case in.Code == "":
		return errors.New("authorization code is required")
	case in.State == "":
		return errors.New("state parameter is required")
	case in.Nonce == "":
		return errors.New("nonce parameter is required")
	default:
		return nil
	}
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin exchanges the authorization code for an identity and persists
// a new session under a fresh random ID.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput(input))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	session := s.newSession(identity)
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}
	return &CompleteLoginResult{Session: session}, nil
}

// newSession builds a session from the verified identity, clamping the
// expiry into [now, now+maxSessionTTL].
func (s *AuthService) newSession(identity domainauth.Identity) domainauth.Session {
	now := time.Now()
	expires := identity.ExpiresAt
	switch {
	case expires.IsZero():
		expires = now.Add(defaultSessionTTL)
	case expires.After(now.Add(maxSessionTTL)):
		expires = now.Add(maxSessionTTL)
	}

	return domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    identity.UserID,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Email:     identity.Email,
		Role:      s.roles.Map(identity.Groups),
		ExpiresAt: expires,
	}
}

// GetSession retrieves a session by ID. A session past its deadline is
// deleted from the store and reported via ErrSessionExpired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}
	return &session, nil
}

// Logout removes a session. An empty ID is a no-op so the handler can clear
// cookies unconditionally.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
