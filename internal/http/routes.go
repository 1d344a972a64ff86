package httpx

import (
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/comandero/comandero/internal/domain/auth"
	"github.com/comandero/comandero/internal/gate"
	"github.com/comandero/comandero/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         AuthServiceInterface
	Tenants      *service.TenantService
	Customers    *service.CustomerService
	Products     *service.ProductService
	Orders       *service.OrderService
	Reservations *service.ReservationService
	Webhooks     *service.WebhookService

	CookieDomain string
	Routes       gate.Routes
	Logger       *slog.Logger

	// Readiness probes keyed by dependency name (e.g. "postgres", "redis").
	HealthChecks map[string]HealthChecker

	// Shell hydration tuning. Zero values use the session package defaults.
	HydrationAttempts int
	HydrationInterval time.Duration
	HydrationDebounce time.Duration
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	routes := withDefaults(services.Routes)

	mux := http.NewServeMux()

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	if len(services.HealthChecks) > 0 {
		ready := &ReadyHandlers{Checks: services.HealthChecks}
		mux.HandleFunc("GET /readyz", ready.Ready)
	}

	authHandlers := &AuthHandlers{Svc: services.Auth, CookieDomain: services.CookieDomain, Logger: logger}
	registerAuthRoutes(mux, authHandlers)

	sessionHandlers := NewSessionHandlers(SessionHandlersOptions{
		Auth:              services.Auth,
		Directory:         services.Tenants,
		Logger:            logger,
		HydrationAttempts: services.HydrationAttempts,
		HydrationInterval: services.HydrationInterval,
		HydrationDebounce: services.HydrationDebounce,
	})
	mux.HandleFunc("GET /api/session", sessionHandlers.Shell)

	requireAuth := RequireAuth(services.Auth, routes)
	restaurantHandlers := &RestaurantHandlers{Svc: services.Tenants, Logger: logger}
	mux.Handle("GET /api/restaurantes", requireAuth(http.HandlerFunc(restaurantHandlers.ListMine)))
	mux.Handle("POST /api/restaurantes", requireAuth(http.HandlerFunc(restaurantHandlers.Create)))

	requireTenant := RequireTenant(services.Auth, services.Tenants, routes, logger)
	adminOnly := RequireRole(domainauth.RoleAdmin)
	staffOnly := RequireRole(domainauth.RoleStaff)

	registerTenantRestaurantRoutes(mux, restaurantHandlers, requireTenant, adminOnly)

	customerHandlers := &CustomerHandlers{Svc: services.Customers, Logger: logger}
	registerTenantCRUD(mux, tenantCRUDRoutes{
		Base:    "/r/{restaurante}/api/customers",
		Create:  customerHandlers.Create,
		List:    customerHandlers.List,
		GetByID: customerHandlers.Get,
		Update:  customerHandlers.Update,
		Delete:  customerHandlers.Delete,
		Tenant:  requireTenant,
		Write:   staffOnly,
	})

	productHandlers := &ProductHandlers{Svc: services.Products, Logger: logger}
	registerTenantCRUD(mux, tenantCRUDRoutes{
		Base:    "/r/{restaurante}/api/products",
		Create:  productHandlers.Create,
		List:    productHandlers.List,
		GetByID: productHandlers.Get,
		Update:  productHandlers.Update,
		Delete:  productHandlers.Delete,
		Tenant:  requireTenant,
		Write:   staffOnly,
	})

	reservationHandlers := &ReservationHandlers{Svc: services.Reservations, Logger: logger}
	registerTenantCRUD(mux, tenantCRUDRoutes{
		Base:    "/r/{restaurante}/api/reservations",
		Create:  reservationHandlers.Create,
		List:    reservationHandlers.List,
		GetByID: reservationHandlers.Get,
		Update:  reservationHandlers.Update,
		Delete:  reservationHandlers.Delete,
		Tenant:  requireTenant,
		Write:   staffOnly,
	})
	registerTenantOrderRoutes(mux, &OrderHandlers{Svc: services.Orders, Logger: logger}, requireTenant, staffOnly)
	registerTenantWebhookRoutes(mux, &WebhookSinkHandlers{Svc: services.Webhooks, Logger: logger}, requireTenant, adminOnly)

	return mux
}

// withDefaults fills zero-valued gate routes with the defaults.
func withDefaults(r gate.Routes) gate.Routes {
	if r.Login == "" {
		r.Login = gate.DefaultLoginPath
	}
	if r.TenantSelect == "" {
		r.TenantSelect = gate.DefaultTenantSelectPath
	}
	return r
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

// registerTenantRestaurantRoutes wires the resolved restaurant's own endpoints.
func registerTenantRestaurantRoutes(
	mux *http.ServeMux,
	h *RestaurantHandlers,
	tenant Middleware,
	admin Middleware,
) {
	mux.Handle("GET /r/{restaurante}/api/restaurante", tenant(http.HandlerFunc(h.Get)))
	mux.Handle("PATCH /r/{restaurante}/api/restaurante", tenant(admin(http.HandlerFunc(h.Update))))
	mux.Handle("POST /r/{restaurante}/api/members", tenant(admin(http.HandlerFunc(h.AddMember))))
	mux.Handle("DELETE /r/{restaurante}/api/members/{userID}", tenant(admin(http.HandlerFunc(h.RemoveMember))))
}

// tenantCRUDRoutes describes standard CRUD endpoints under a tenant base path.
// Reads require membership only; writes additionally require the Write role.
type tenantCRUDRoutes struct {
	Base    string
	Create  http.HandlerFunc
	List    http.HandlerFunc
	GetByID http.HandlerFunc
	Update  http.HandlerFunc
	Delete  http.HandlerFunc
	Tenant  Middleware
	Write   Middleware
}

func registerTenantCRUD(mux *http.ServeMux, cfg tenantCRUDRoutes) {
	if cfg.Base == "" {
		panic("registerTenantCRUD: Base must not be empty") //nolint:forbidigo // Fail fast during server setup.
	}
	if cfg.Create == nil ||
		cfg.List == nil ||
		cfg.GetByID == nil ||
		cfg.Update == nil ||
		cfg.Delete == nil {
		panic("registerTenantCRUD: nil handler for base " + cfg.Base) //nolint:forbidigo // Fail fast during server setup.
	}

	read := func(h http.HandlerFunc) http.Handler { return cfg.Tenant(h) }
	write := func(h http.HandlerFunc) http.Handler {
		if cfg.Write != nil {
			return cfg.Tenant(cfg.Write(h))
		}
		return cfg.Tenant(h)
	}
	mux.Handle("POST "+cfg.Base, write(cfg.Create))
	mux.Handle("GET "+cfg.Base, read(cfg.List))
	mux.Handle("GET "+cfg.Base+"/{id}", read(cfg.GetByID))
	mux.Handle("PATCH "+cfg.Base+"/{id}", write(cfg.Update))
	mux.Handle("DELETE "+cfg.Base+"/{id}", write(cfg.Delete))
}

func registerTenantOrderRoutes(
	mux *http.ServeMux,
	h *OrderHandlers,
	tenant Middleware,
	staff Middleware,
) {
	mux.Handle("POST /r/{restaurante}/api/orders", tenant(staff(http.HandlerFunc(h.Create))))
	mux.Handle("GET /r/{restaurante}/api/orders", tenant(http.HandlerFunc(h.List)))
	mux.Handle("GET /r/{restaurante}/api/orders/{id}", tenant(http.HandlerFunc(h.Get)))
	mux.Handle("PATCH /r/{restaurante}/api/orders/{id}/status", tenant(staff(http.HandlerFunc(h.UpdateStatus))))
}

func registerTenantWebhookRoutes(
	mux *http.ServeMux,
	h *WebhookSinkHandlers,
	tenant Middleware,
	admin Middleware,
) {
	registerTenantCRUD(mux, tenantCRUDRoutes{
		Base:    "/r/{restaurante}/api/webhooks",
		Create:  h.Create,
		List:    h.List,
		GetByID: h.Get,
		Update:  h.Update,
		Delete:  h.Delete,
		Tenant:  tenant,
		Write:   admin,
	})
}
