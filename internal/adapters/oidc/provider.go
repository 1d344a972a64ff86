// Package oidc implements the production login provider on top of OIDC
// discovery, the authorization-code flow, and ID token verification.
package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/comandero/comandero/internal/domain/auth"
	"github.com/comandero/comandero/internal/ports"
)

// ProviderConfig is the OIDC client registration plus the discovery endpoint.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	LogoutURL    string
	HTTPClient   *http.Client // optional
}

func (c ProviderConfig) validate() error {
	switch {
	case c.ClientID == "":
		return errors.New("client ID is required")
	case c.ClientSecret == "":
		return errors.New("client secret is required")
	case c.RedirectURL == "":
		return errors.New("redirect URL is required")
	case c.DiscoveryURL == "":
		return errors.New("discovery URL is required")
	default:
		return nil
	}
}

// issuer derives the issuer URL from the configured discovery URL, which may
// point at the well-known document itself.
func (c ProviderConfig) issuer() string {
	issuer := strings.TrimSuffix(c.DiscoveryURL, "/")
	return strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
}

// Provider implements ports.AuthProvider against a real identity provider.
type Provider struct {
	oauth      *oauth2.Config
	verifier   *gooidc.IDTokenVerifier
	discovered *gooidc.Provider
	logoutURL  string
	httpClient *http.Client
}

// NewProvider runs discovery once and wires up the OAuth2 endpoints from the
// published document.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	discovered, err := gooidc.NewProvider(ctx, cfg.issuer())
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint:     discovered.Endpoint(),
		},
		verifier:   discovered.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		discovered: discovered,
		logoutURL:  cfg.LogoutURL,
		httpClient: httpClient,
	}, nil
}

// Begin produces the authorization URL together with fresh state and nonce.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := randomURLToken()
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomURLToken()
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.oauth.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return authURL, state, nonce, nil
}

// Exchange redeems the authorization code, verifies the ID token against the
// nonce, and maps the claims onto the domain identity. Claims missing from
// the ID token are filled in from the userinfo endpoint.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	switch {
	case in.Code == "":
		return domainauth.Identity{}, errors.New("authorization code is required")
	case in.State == "":
		return domainauth.Identity{}, errors.New("state is required")
	case in.Nonce == "":
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.oauth.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	claims, err := p.verifiedClaims(ctx, token, in.Nonce)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("extract id_token: %w", err)
	}
	if claims.Subject == "" || claims.Email == "" {
		if fillErr := p.fillFromUserInfo(ctx, token.AccessToken, &claims); fillErr != nil {
			return domainauth.Identity{}, fmt.Errorf("get user info: %w", fillErr)
		}
	}

	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(time.Hour)
	}

	return domainauth.Identity{
		UserID:    claims.Subject,
		FirstName: claims.GivenName,
		LastName:  claims.FamilyName,
		Email:     claims.Email,
		Groups:    claims.Groups,
		ExpiresAt: expiresAt,
	}, nil
}

// LogoutURL returns the provider-side logout URL, if configured.
func (p *Provider) LogoutURL() string { return p.logoutURL }

// idClaims is the subset of standard claims we read from tokens and userinfo.
type idClaims struct {
	Subject    string   `json:"sub"`
	Email      string   `json:"email"`
	GivenName  string   `json:"given_name"`
	FamilyName string   `json:"family_name"`
	Groups     []string `json:"groups"`
}

// fillMissing copies fields from other into claims where claims has none.
func (c *idClaims) fillMissing(other idClaims) {
	if c.Subject == "" {
		c.Subject = other.Subject
	}
	if c.Email == "" {
		c.Email = other.Email
	}
	if c.GivenName == "" {
		c.GivenName = other.GivenName
	}
	if c.FamilyName == "" {
		c.FamilyName = other.FamilyName
	}
	if len(c.Groups) == 0 {
		c.Groups = other.Groups
	}
}

// verifiedClaims decodes and verifies the ID token. A token response without
// an id_token yields empty claims and no error; the caller then goes to the
// userinfo endpoint.
func (p *Provider) verifiedClaims(ctx context.Context, token *oauth2.Token, nonce string) (idClaims, error) {
	var claims idClaims

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return claims, nil
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return claims, fmt.Errorf("verify id token: %w", err)
	}
	if idToken.Nonce != nonce {
		return claims, errors.New("nonce mismatch")
	}
	if claimsErr := idToken.Claims(&claims); claimsErr != nil {
		return claims, fmt.Errorf("decode id token claims: %w", claimsErr)
	}
	return claims, nil
}

func (p *Provider) fillFromUserInfo(ctx context.Context, accessToken string, claims *idClaims) error {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	ui, err := p.discovered.UserInfo(ctx, source)
	if err != nil {
		return fmt.Errorf("fetch user info: %w", err)
	}

	var info idClaims
	if claimsErr := ui.Claims(&info); claimsErr != nil {
		return fmt.Errorf("decode user info: %w", claimsErr)
	}
	claims.fillMissing(info)
	return nil
}

func randomURLToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
