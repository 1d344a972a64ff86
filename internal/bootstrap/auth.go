package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/comandero/comandero/config"
	"github.com/comandero/comandero/internal/adapters/authroles"
	"github.com/comandero/comandero/internal/adapters/devauth"
	"github.com/comandero/comandero/internal/adapters/oidc"
	redisadapter "github.com/comandero/comandero/internal/adapters/redis"
	"github.com/comandero/comandero/internal/ports"
	"github.com/comandero/comandero/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService assembles the login stack for the configured mode.
// Returns nil when sessions have nowhere to live (no Redis) or the mode is
// misconfigured; callers treat nil as "auth disabled".
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.RedisClient == nil {
		logger.Warn("auth disabled: no redis client for the session store", "mode", cfg.Auth.Mode)
		return nil
	}

	provider, err := buildAuthProvider(cfg.Auth)
	if err != nil {
		logger.Warn("auth disabled", "mode", cfg.Auth.Mode, "error", err)
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:"),
		Roles: authroles.StaticRoleMapper{
			AdminGroup: cfg.Auth.AdminGroup,
			StaffGroup: cfg.Auth.StaffGroup,
		},
	})
}

//nolint:ireturn // the mode switch is the one place that picks a provider implementation.
func buildAuthProvider(auth config.AuthConfig) (ports.AuthProvider, error) {
	switch auth.Mode {
	case config.AuthModeMock:
		return devauth.NewProvider(devauth.Config{
			UserID: auth.DevAuth.UserID,
			Email:  auth.DevAuth.Email,
			Groups: auth.DevAuth.Groups,
		})

	case config.AuthModeOAuth:
		oauth := auth.OAuth
		if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
			return nil, errors.New("oauth mode requires OAUTH_DISCOVERY_URL, OAUTH_CLIENT_ID and OAUTH_CLIENT_SECRET")
		}
		return oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  oauth.RedirectURL,
			Scope:        oauth.Scope,
			DiscoveryURL: oauth.DiscoveryURL,
			LogoutURL:    oauth.LogoutURL,
		})

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", auth.Mode)
	}
}
