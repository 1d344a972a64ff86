package gate

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/comandero/comandero/internal/domain/model"
	"github.com/comandero/comandero/internal/session"
)

// TenantDirectory is the external lookup collaborator consulted by the
// tenant gate. FindBySlug returns (nil, nil) when no restaurant matches.
type TenantDirectory interface {
	FindBySlug(ctx context.Context, slug string) (*model.Restaurant, error)
	HasAccess(ctx context.Context, userID, restaurantID string) (bool, error)
}

// TenantGateOptions groups dependencies for TenantGate.
type TenantGateOptions struct {
	Sessions  session.Reader
	Directory TenantDirectory
	// Store receives the resolved tenant after a successful evaluation
	// (cache-fill). Optional.
	Store  session.Writer
	Routes Routes
	Logger *slog.Logger
}

// TenantGate decides whether a navigation into a tenant-scoped route may
// proceed: the slug must be present, the caller authenticated, the restaurant
// existing and active, and the identity a member. Checks run strictly in that
// order so the cheap synchronous ones short-circuit before any lookup.
type TenantGate struct {
	sessions  session.Reader
	directory TenantDirectory
	store     session.Writer
	routes    Routes
	logger    *slog.Logger
}

// NewTenantGate constructs a TenantGate from options.
func NewTenantGate(opts TenantGateOptions) *TenantGate {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TenantGate{
		sessions:  opts.Sessions,
		directory: opts.Directory,
		store:     opts.Store,
		routes:    opts.Routes.sanitized(),
		logger:    logger,
	}
}

// Evaluate resolves a terminal decision for the navigation. It never returns
// an error: lookup faults collapse into the not-found redirect so the router
// always receives a decision, never a raw failure.
func (g *TenantGate) Evaluate(ctx context.Context, targetURL string, params map[string]string) Decision {
	slug := params[ParamRestaurant]
	if slug == "" {
		return RedirectTo(g.routes.TenantSelect, nil)
	}

	if !g.sessions.IsAuthenticated() {
		return loginRedirect(g.routes.Login, targetURL)
	}

	restaurant, err := g.directory.FindBySlug(ctx, slug)
	if err != nil {
		g.logger.WarnContext(ctx, "tenant lookup failed", "slug", slug, "error", err)
		return g.notFoundRedirect()
	}
	if restaurant == nil || !restaurant.Active {
		return g.notFoundRedirect()
	}

	identity, ok := g.sessions.CurrentIdentity()
	if !ok {
		// Session vanished between the authentication check and here.
		return loginRedirect(g.routes.Login, targetURL)
	}

	hasAccess, err := g.directory.HasAccess(ctx, identity.UserID, restaurant.ID)
	if err != nil {
		g.logger.WarnContext(ctx, "membership check failed", "slug", slug, "error", err)
		return g.notFoundRedirect()
	}
	if !hasAccess {
		q := url.Values{}
		q.Set(ParamError, ErrNoAccess)
		q.Set(ParamRestaurant, slug)
		return RedirectTo(g.routes.Login, q)
	}

	if g.store != nil {
		g.store.SetTenant(restaurant)
	}
	return Allow()
}

func (g *TenantGate) notFoundRedirect() Decision {
	q := url.Values{}
	q.Set(ParamError, ErrTenantMissing)
	return RedirectTo(g.routes.Login, q)
}
