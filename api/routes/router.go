package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/farmfresh-backend/api/controllers"
	"github.com/angelmondragon/farmfresh-backend/api/middleware"
	"github.com/angelmondragon/farmfresh-backend/internal/address"
	"github.com/angelmondragon/farmfresh-backend/internal/auth"
	"github.com/angelmondragon/farmfresh-backend/internal/cart"
	"github.com/angelmondragon/farmfresh-backend/internal/checkout"
	"github.com/angelmondragon/farmfresh-backend/internal/dashboard"
	"github.com/angelmondragon/farmfresh-backend/internal/listings"
	"github.com/angelmondragon/farmfresh-backend/internal/orders"
	"github.com/angelmondragon/farmfresh-backend/internal/users"
	"github.com/angelmondragon/farmfresh-backend/pkg/auth/session"
	"github.com/angelmondragon/farmfresh-backend/pkg/config"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
	"github.com/angelmondragon/farmfresh-backend/pkg/metrics"
	"github.com/angelmondragon/farmfresh-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(ctx context.Context, oldAccessID, provided string) (session.Rotation, error)
	Revoke(ctx context.Context, accessID string) error
}

// redisStore is the slice of the redis client the HTTP layer touches.
type redisStore interface {
	redis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	Ping(ctx context.Context) error
}

// Dependencies carries everything the router hands to controllers.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    redisStore
	Sessions sessionManager
	Gatherer prometheus.Gatherer
	Metrics  *metrics.HTTPMetrics

	Auth      auth.Service
	Register  auth.RegisterService
	Users     users.Service
	Listings  listings.Service
	Addresses address.Service
	Cart      cart.Service
	Checkout  checkout.Service
	Orders    orders.Service
	Dashboard dashboard.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.Metrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	// one bucket set for both groups; chi builds group middleware per route
	limiter := middleware.NewVisitorLimiter(cfg.RateLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"db":    deps.DB,
			"redis": deps.Redis,
		}, logg))
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// Groups rather than sub-routers so that middleware sees the full route
	// pattern when matching idempotency rules.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RateLimit(limiter, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/api/v1/auth/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/api/v1/auth/register", controllers.AuthRegister(deps.Register, deps.Auth, logg))
		r.Post("/api/v1/auth/refresh", controllers.AuthRefresh(deps.Sessions, cfg.JWT, logg))
		r.Post("/api/v1/auth/logout", controllers.AuthLogout(deps.Sessions, cfg.JWT, logg))

		r.Get("/api/v1/products", controllers.ProductCatalog(deps.Listings, logg))
		r.Get("/api/v1/products/{productId}", controllers.ProductDetail(deps.Listings, logg))
		r.Get("/api/v1/farmers", controllers.ListFarmers(deps.Users, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RateLimit(limiter, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Get("/api/v1/me", controllers.GetProfile(deps.Users, logg))
		r.Put("/api/v1/me", controllers.UpdateProfile(deps.Users, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUserType(enums.UserTypeFarmer, logg))

			r.Get("/api/v1/products/farmer/{userId}", controllers.FarmerInventory(deps.Listings, logg))
			r.Post("/api/v1/products", controllers.CreateProduct(deps.Listings, logg))
			r.Put("/api/v1/products/{productId}", controllers.UpdateProduct(deps.Listings, logg))
			r.Delete("/api/v1/products/{productId}", controllers.DeleteProduct(deps.Listings, logg))
			r.Put("/api/v1/products/{productId}/listing", controllers.SetProductListing(deps.Listings, logg))

			r.Get("/api/v1/farmer/orders", controllers.FarmerOrders(deps.Orders, logg))
			r.Get("/api/v1/farmer/orders/{orderId}", controllers.FarmerOrderDetail(deps.Orders, logg))
			r.Put("/api/v1/farmer/orders/{orderId}/status", controllers.FarmerOrderStatus(deps.Orders, logg))
			r.Get("/api/v1/farmer/overview", controllers.FarmerOverview(deps.Dashboard, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUserType(enums.UserTypeCustomer, logg))

			r.Get("/api/v1/addresses", controllers.ListAddresses(deps.Addresses, logg))
			r.Post("/api/v1/addresses", controllers.AddAddress(deps.Addresses, logg))
			r.Put("/api/v1/addresses/{addressId}", controllers.UpdateAddress(deps.Addresses, logg))
			r.Put("/api/v1/addresses/{addressId}/default", controllers.SetDefaultAddress(deps.Addresses, logg))
			r.Delete("/api/v1/addresses/{addressId}", controllers.DeleteAddress(deps.Addresses, logg))

			r.Get("/api/v1/cart", controllers.GetCart(deps.Cart, logg))
			r.Delete("/api/v1/cart", controllers.ClearCart(deps.Cart, logg))
			r.Post("/api/v1/cart/items", controllers.AddCartItem(deps.Cart, logg))
			r.Put("/api/v1/cart/items/{productId}", controllers.SetCartItem(deps.Cart, logg))
			r.Delete("/api/v1/cart/items/{productId}", controllers.RemoveCartItem(deps.Cart, logg))

			r.Post("/api/v1/checkout/quote", controllers.CheckoutQuote(deps.Checkout, logg))
			r.Post("/api/v1/checkout", controllers.CheckoutPlace(deps.Checkout, logg))

			r.Get("/api/v1/orders", controllers.CustomerOrders(deps.Orders, logg))
			r.Get("/api/v1/orders/{orderId}", controllers.CustomerOrderDetail(deps.Orders, logg))
		})
	})

	return r
}
