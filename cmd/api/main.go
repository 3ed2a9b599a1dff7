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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/buybuddy-backend/api/routes"
	"github.com/angelmondragon/buybuddy-backend/internal/address"
	"github.com/angelmondragon/buybuddy-backend/internal/auth"
	"github.com/angelmondragon/buybuddy-backend/internal/cart"
	"github.com/angelmondragon/buybuddy-backend/internal/catalog"
	"github.com/angelmondragon/buybuddy-backend/internal/checkout"
	"github.com/angelmondragon/buybuddy-backend/internal/orders"
	"github.com/angelmondragon/buybuddy-backend/internal/reviews"
	"github.com/angelmondragon/buybuddy-backend/internal/users"
	"github.com/angelmondragon/buybuddy-backend/internal/wishlist"
	"github.com/angelmondragon/buybuddy-backend/pkg/auth/session"
	"github.com/angelmondragon/buybuddy-backend/pkg/config"
	"github.com/angelmondragon/buybuddy-backend/pkg/db"
	"github.com/angelmondragon/buybuddy-backend/pkg/logger"
	"github.com/angelmondragon/buybuddy-backend/pkg/metrics"
	"github.com/angelmondragon/buybuddy-backend/pkg/migrate"
	"github.com/angelmondragon/buybuddy-backend/pkg/redis"
)

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

	logg = logger.New(cfg.App.LoggerOptions(cfg.Service.Name))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics, err := metrics.NewHTTPMetrics(registry)
	if err != nil {
		return err
	}
	orderMetrics, err := metrics.NewOrderMetrics(registry)
	if err != nil {
		return err
	}

	services, sessions, err := buildServices(cfg, logg, dbClient, redisClient, orderMetrics)
	if err != nil {
		return err
	}

	handler := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		redisClient,
		sessions,
		httpMetrics,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		services,
	)

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Service.ReadTimeout,
		WriteTimeout: cfg.Service.WriteTimeout,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logg.Info(logCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Service.ShutdownTimeout)
		defer cancel()
		logg.Info(logCtx, "shutting down api server")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, orderMetrics *metrics.OrderMetrics) (routes.Services, *session.Manager, error) {
	conn := dbClient.DB()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return routes.Services{}, nil, err
	}

	userRepo := users.NewRepository(conn)
	authService, err := auth.NewService(auth.ServiceParams{
		DB:             dbClient,
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Services{}, nil, err
	}
	profileService, err := users.NewProfileService(userRepo)
	if err != nil {
		return routes.Services{}, nil, err
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{WishlistRepo: wishlist.NewRepository(conn)})
	if err != nil {
		return routes.Services{}, nil, err
	}

	reviewsRepo := reviews.NewRepository(conn)
	reviewsService, err := reviews.NewService(reviewsRepo)
	if err != nil {
		return routes.Services{}, nil, err
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		DB:       dbClient,
		Repo:     catalog.NewRepository(conn),
		Wishlist: wishlistService,
		Reviews:  reviewsRepo,
	})
	if err != nil {
		return routes.Services{}, nil, err
	}

	cartRepo := cart.NewRepository(conn)
	cartService, err := cart.NewService(cartRepo, dbClient)
	if err != nil {
		return routes.Services{}, nil, err
	}

	addressRepo := address.NewRepository(conn)
	addressService, err := address.NewService(dbClient, addressRepo)
	if err != nil {
		return routes.Services{}, nil, err
	}

	intents, err := checkout.NewRedisIntentStore(redisClient)
	if err != nil {
		return routes.Services{}, nil, err
	}
	ordersRepo := orders.NewRepository(conn)
	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		DB:        dbClient,
		Orders:    ordersRepo,
		Carts:     cartRepo,
		Addresses: addressRepo,
		Intents:   intents,
		Config:    cfg.Checkout,
		Logger:    logg,
		Metrics:   orderMetrics,
	})
	if err != nil {
		return routes.Services{}, nil, err
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		DB:      dbClient,
		Repo:    ordersRepo,
		Logger:  logg,
		Metrics: orderMetrics,
	})
	if err != nil {
		return routes.Services{}, nil, err
	}

	return routes.Services{
		Auth:      authService,
		Profile:   profileService,
		Catalog:   catalogService,
		Cart:      cartService,
		Wishlist:  wishlistService,
		Addresses: addressService,
		Reviews:   reviewsService,
		Checkout:  checkoutService,
		Orders:    ordersService,
	}, sessionManager, nil
}
