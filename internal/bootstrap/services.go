package bootstrap

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/comandero/comandero/config"
	"github.com/comandero/comandero/internal/adapters/tenantcache"
	"github.com/comandero/comandero/internal/data"
	"github.com/comandero/comandero/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth         *service.AuthService
	Tenants      *service.TenantService
	Customers    *service.CustomerService
	Products     *service.ProductService
	Orders       *service.OrderService
	Reservations *service.ReservationService
	Webhooks     *service.WebhookService

	// RedisHealth backs the /readyz probe; nil when Redis is not configured.
	RedisHealth *data.RedisHealth
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	RestaurantRepo  *data.RestaurantRepo
	CustomerRepo    *data.CustomerRepo
	ProductRepo     *data.ProductRepo
	OrderRepo       *data.OrderRepo
	ReservationRepo *data.ReservationRepo
	WebhookSinkRepo *data.WebhookSinkRepo
	RedisHealth     *data.RedisHealth
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, redisClient redis.UniversalClient) *serviceRepositories {
	repos := &serviceRepositories{
		RestaurantRepo:  data.NewRestaurantRepo(db),
		CustomerRepo:    data.NewCustomerRepo(db),
		ProductRepo:     data.NewProductRepo(db),
		OrderRepo:       data.NewOrderRepo(db),
		ReservationRepo: data.NewReservationRepo(db),
		WebhookSinkRepo: data.NewWebhookSinkRepo(db),
	}
	if redisClient != nil {
		repos.RedisHealth = data.NewRedisHealth(redisClient)
	}
	return repos
}

// BuildServices wires repositories and services from dependencies.
func BuildServices(deps ServiceDeps) (ServiceContainer, error) {
	if deps.Config == nil {
		return ServiceContainer{}, errors.New("config is required")
	}
	if deps.DB == nil {
		return ServiceContainer{}, errors.New("database is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	repos := buildRepositories(deps.DB, deps.RedisClient)

	tenants, err := service.NewTenantService(service.TenantServiceOptions{
		Repo:   repos.RestaurantRepo,
		Cache:  tenantcache.New(deps.Config.Session.TenantCacheTTL),
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	customers, err := service.NewCustomerService(service.CustomerServiceOptions{
		Repo:   repos.CustomerRepo,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	products, err := service.NewProductService(service.ProductServiceOptions{
		Repo:   repos.ProductRepo,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	reservations, err := service.NewReservationService(service.ReservationServiceOptions{
		Repo:   repos.ReservationRepo,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	webhooks, err := service.NewWebhookService(service.WebhookServiceOptions{
		Repo:   repos.WebhookSinkRepo,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	dispatcher, err := service.NewWebhookDispatcher(service.WebhookDispatcherOptions{
		Repo:   repos.WebhookSinkRepo,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	orders, err := service.NewOrderService(service.OrderServiceOptions{
		Repo:       repos.OrderRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	auth := BuildAuthService(AuthConfig{
		Auth:        deps.Config.Auth,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})

	return ServiceContainer{
		Auth:         auth,
		Tenants:      tenants,
		Customers:    customers,
		Products:     products,
		Orders:       orders,
		Reservations: reservations,
		Webhooks:     webhooks,
		RedisHealth:  repos.RedisHealth,
	}, nil
}
