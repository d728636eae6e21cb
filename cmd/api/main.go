package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/farmfresh-backend/api/routes"
	"github.com/angelmondragon/farmfresh-backend/internal/address"
	"github.com/angelmondragon/farmfresh-backend/internal/auth"
	"github.com/angelmondragon/farmfresh-backend/internal/cart"
	"github.com/angelmondragon/farmfresh-backend/internal/checkout"
	"github.com/angelmondragon/farmfresh-backend/internal/checkout/helpers"
	"github.com/angelmondragon/farmfresh-backend/internal/dashboard"
	"github.com/angelmondragon/farmfresh-backend/internal/listings"
	"github.com/angelmondragon/farmfresh-backend/internal/orders"
	"github.com/angelmondragon/farmfresh-backend/internal/users"
	"github.com/angelmondragon/farmfresh-backend/pkg/auth/session"
	"github.com/angelmondragon/farmfresh-backend/pkg/config"
	"github.com/angelmondragon/farmfresh-backend/pkg/db"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
	"github.com/angelmondragon/farmfresh-backend/pkg/metrics"
	"github.com/angelmondragon/farmfresh-backend/pkg/migrate"
	"github.com/angelmondragon/farmfresh-backend/pkg/redis"
)

const catalogCacheName = "public"

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps, err := buildDependencies(cfg, logg, dbClient, redisClient, registry)
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      routes.NewRouter(deps),
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}

	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(serverCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(serverCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildDependencies(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	registry *prometheus.Registry,
) (routes.Dependencies, error) {
	gdb := dbClient.DB()
	userRepo := users.NewRepository(gdb)
	farmerRepo := users.NewFarmerRepository(gdb)
	productRepo := listings.NewRepository(gdb)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return routes.Dependencies{}, err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		FarmerRepo:     farmerRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	userService, err := users.NewService(userRepo, farmerRepo, dbClient)
	if err != nil {
		return routes.Dependencies{}, err
	}

	catalogCache, err := listings.NewCatalogCache(redisClient, redisClient.CatalogCacheKey(catalogCacheName), cfg.Catalog.CacheTTL)
	if err != nil {
		return routes.Dependencies{}, err
	}

	listingService, err := listings.NewService(listings.ServiceParams{
		Repo:    productRepo,
		Farmers: farmerRepo,
		DB:      dbClient,
		Cache:   catalogCache,
		Logger:  logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	addressService, err := address.NewService(address.NewRepository(gdb), dbClient)
	if err != nil {
		return routes.Dependencies{}, err
	}

	cartStore, err := cart.NewStore(redisClient, cfg.Cart.TTL)
	if err != nil {
		return routes.Dependencies{}, err
	}

	cartService, err := cart.NewService(cartStore, productRepo, cfg.Checkout.DeliveryFee, logg)
	if err != nil {
		return routes.Dependencies{}, err
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:    orders.NewRepository(gdb),
		DB:      dbClient,
		Metrics: metrics.NewOrderMetrics(registry),
		Logger:  logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Customers:   userRepo,
		Addresses:   addressService,
		Cart:        cartService,
		Orders:      orderService,
		DeliveryFee: cfg.Checkout.DeliveryFee,
		Coupon: helpers.CouponRule{
			Code:    cfg.Checkout.CouponCode,
			Percent: cfg.Checkout.CouponPercent,
		},
		Logger: logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	dashboardService, err := dashboard.NewService(productRepo, orderService)
	if err != nil {
		return routes.Dependencies{}, err
	}

	return routes.Dependencies{
		Config:    cfg,
		Logger:    logg,
		DB:        dbClient,
		Redis:     redisClient,
		Sessions:  sessionManager,
		Gatherer:  registry,
		Metrics:   metrics.NewHTTPMetrics(registry),
		Auth:      authService,
		Register:  registerService,
		Users:     userService,
		Listings:  listingService,
		Addresses: addressService,
		Cart:      cartService,
		Checkout:  checkoutService,
		Orders:    orderService,
		Dashboard: dashboardService,
	}, nil
}
