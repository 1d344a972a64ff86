package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/comandero/comandero/internal/domain/model"
	"github.com/comandero/comandero/internal/gate"
	"github.com/comandero/comandero/internal/session"
)

// DefaultShellTitle is shown when no restaurant context is resolved.
const DefaultShellTitle = "Comandero"

// SessionHandlersOptions groups dependencies for SessionHandlers.
type SessionHandlersOptions struct {
	Auth      AuthServiceInterface
	Directory gate.TenantDirectory
	Logger    *slog.Logger

	// Hydration tuning. Zero values use the session package defaults.
	HydrationAttempts int
	HydrationInterval time.Duration
	HydrationDebounce time.Duration
}

// SessionHandlers serves the shell bootstrap endpoint. It assembles the
// session view a client shell needs on mount: authentication state, the
// resolved restaurant for an optional slug, and the window title. Tenant
// resolution runs in the background and is awaited through a hydrator, so a
// slow lookup degrades to the default title instead of failing the request.
type SessionHandlers struct {
	auth      AuthServiceInterface
	directory gate.TenantDirectory
	logger    *slog.Logger

	attempts int
	interval time.Duration
	debounce time.Duration
}

// NewSessionHandlers constructs SessionHandlers.
func NewSessionHandlers(opts SessionHandlersOptions) *SessionHandlers {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandlers{
		auth:      opts.Auth,
		directory: opts.Directory,
		logger:    logger,
		attempts:  opts.HydrationAttempts,
		interval:  opts.HydrationInterval,
		debounce:  opts.HydrationDebounce,
	}
}

type shellSessionResponse struct {
	Authenticated bool              `json:"authenticated"`
	User          *shellUser        `json:"user,omitempty"`
	Restaurant    *model.Restaurant `json:"restaurant,omitempty"`
	Title         string            `json:"title"`
}

type shellUser struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// Shell handles the shell bootstrap endpoint.
// GET /api/session?restaurante=<optional_slug>.
func (h *SessionHandlers) Shell(w http.ResponseWriter, r *http.Request) {
	resp := shellSessionResponse{Title: DefaultShellTitle}

	sess := getSessionFromRequest(r, h.auth)
	if sess != nil {
		resp.Authenticated = true
		resp.User = &shellUser{
			ID:        sess.UserID,
			FirstName: sess.FirstName,
			LastName:  sess.LastName,
			Email:     sess.Email,
			Role:      string(sess.Role),
		}
	}

	slug := r.URL.Query().Get(gate.ParamRestaurant)
	if sess != nil && slug != "" {
		if rest := h.resolveTenant(r, slug); rest != nil {
			resp.Restaurant = rest
			resp.Title = rest.Name
		}
	}

	WriteJSON(w, http.StatusOK, resp)
}

// resolveTenant resolves the slug into a per-request store in the background
// and waits for the hydrator to observe the result. A lookup that outlives
// the hydration budget yields nil.
func (h *SessionHandlers) resolveTenant(r *http.Request, slug string) *model.Restaurant {
	ctx := r.Context()
	store := session.NewStore()

	go func() {
		rest, err := h.directory.FindBySlug(ctx, slug)
		if err != nil {
			h.logger.WarnContext(ctx, "shell tenant lookup failed", "slug", slug, "error", err)
			store.MarkTenantAbsent()
			return
		}
		if rest == nil || !rest.Active {
			store.MarkTenantAbsent()
			return
		}
		store.SetTenant(rest)
	}()

	hydrator := session.NewHydrator(session.HydratorOptions{
		Store:    store,
		Attempts: h.attempts,
		Interval: h.interval,
		Debounce: h.debounce,
		Logger:   h.logger,
	})
	defer hydrator.Stop()

	select {
	case <-hydrator.EnsureHydrated(ctx):
	case <-ctx.Done():
		return nil
	}

	rest, res := store.CurrentTenant()
	if res != session.TenantResolved {
		return nil
	}
	return rest
}
