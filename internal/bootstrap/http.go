package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/netutil"

	"github.com/comandero/comandero/config"
	"github.com/comandero/comandero/internal/gate"
	httpx "github.com/comandero/comandero/internal/http"
)

const (
	readTimeout     = 30 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

// HTTPServerConfig bundles what StartHTTPServer needs.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer wires the router, wraps it in middleware, and starts
// serving in the background. The returned server is the handle for graceful
// shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil {
		return nil, errors.New("server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	// Every API route sits behind session auth, so a server without an
	// auth service cannot serve anything useful.
	if cfg.Services.Auth == nil {
		return nil, errors.New("auth service is required; check AUTH_MODE and redis configuration")
	}

	handler := buildHTTPHandler(logger, httpx.RouterServices{
		Auth:              cfg.Services.Auth,
		Tenants:           cfg.Services.Tenants,
		Customers:         cfg.Services.Customers,
		Products:          cfg.Services.Products,
		Orders:            cfg.Services.Orders,
		Reservations:      cfg.Services.Reservations,
		Webhooks:          cfg.Services.Webhooks,
		CookieDomain:      appCfg.HTTP.CookieDomain,
		Routes:            gate.Routes{},
		Logger:            logger,
		HealthChecks:      buildHealthChecks(cfg.Services),
		HydrationAttempts: appCfg.Session.HydrationAttempts,
		HydrationInterval: appCfg.Session.HydrationInterval,
		HydrationDebounce: appCfg.Session.HydrationDebounce,
	})

	return startServer(logger, handler, appCfg.HTTP)
}

// buildHealthChecks registers readiness probes for dependencies that expose one.
func buildHealthChecks(services ServiceContainer) map[string]httpx.HealthChecker {
	checks := make(map[string]httpx.HealthChecker)
	if services.RedisHealth != nil {
		checks["redis"] = services.RedisHealth
	}
	return checks
}

// buildHTTPHandler stacks the middleware so Recover sees panics from both
// Logging and the router.
func buildHTTPHandler(logger *slog.Logger, services httpx.RouterServices) http.Handler {
	var h http.Handler = httpx.NewRouter(services)
	h = httpx.Logging(logger)(h)
	h = httpx.Recover(logger)(h)
	return h
}

func startServer(logger *slog.Logger, handler http.Handler, httpCfg config.HTTPConfig) (*http.Server, error) {
	addr := httpCfg.Addr
	if addr == "" {
		addr = ":8080"
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	if httpCfg.MaxConns > 0 {
		listener = netutil.LimitListener(listener, httpCfg.MaxConns)
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", addr, "max_conns", httpCfg.MaxConns)
		if serveErr := server.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", serveErr)
		}
	}()

	return server, nil
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer drains in-flight requests, waiting at most
// shutdownTimeout before giving up.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(cfg.Context, shutdownTimeout)
	defer cancel()
	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("HTTP server stopped")
	return nil
}
