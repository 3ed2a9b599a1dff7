package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/buybuddy-backend/api/controllers"
	cartcontrollers "github.com/angelmondragon/buybuddy-backend/api/controllers/cart"
	ordercontrollers "github.com/angelmondragon/buybuddy-backend/api/controllers/orders"
	"github.com/angelmondragon/buybuddy-backend/api/middleware"
	"github.com/angelmondragon/buybuddy-backend/internal/address"
	"github.com/angelmondragon/buybuddy-backend/internal/auth"
	"github.com/angelmondragon/buybuddy-backend/internal/cart"
	"github.com/angelmondragon/buybuddy-backend/internal/catalog"
	checkoutsvc "github.com/angelmondragon/buybuddy-backend/internal/checkout"
	"github.com/angelmondragon/buybuddy-backend/internal/orders"
	"github.com/angelmondragon/buybuddy-backend/internal/reviews"
	"github.com/angelmondragon/buybuddy-backend/internal/users"
	"github.com/angelmondragon/buybuddy-backend/internal/wishlist"
	"github.com/angelmondragon/buybuddy-backend/pkg/auth/session"
	"github.com/angelmondragon/buybuddy-backend/pkg/config"
	"github.com/angelmondragon/buybuddy-backend/pkg/db"
	"github.com/angelmondragon/buybuddy-backend/pkg/logger"
	"github.com/angelmondragon/buybuddy-backend/pkg/metrics"
	"github.com/angelmondragon/buybuddy-backend/pkg/redis"
)

// Store is the redis surface the request guards need: idempotency records and
// fixed-window rate limit counters.
type Store interface {
	redis.IdempotencyStore
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// Services groups the domain services exposed over HTTP.
type Services struct {
	Auth      auth.Service
	Profile   users.ProfileService
	Catalog   catalog.Service
	Cart      cart.Service
	Wishlist  wishlist.Service
	Addresses address.Service
	Reviews   reviews.Service
	Checkout  checkoutsvc.Service
	Orders    orders.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	store Store,
	sessions session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	idempotent := middleware.Idempotency(store, cfg.Idempotency.TTL, logg)
	limit := func(policy middleware.RateLimitPolicy) func(http.Handler) http.Handler {
		return middleware.RateLimit(policy, store, logg)
	}

	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewRateLimitPolicy(
		"register",
		cfg.RateLimit.RegisterWindow,
		cfg.RateLimit.RegisterIPLimit,
		cfg.RateLimit.RegisterEmailLimit,
	)
	checkoutPolicy := middleware.NewUserRateLimitPolicy(
		"place-order",
		cfg.RateLimit.CheckoutWindow,
		cfg.RateLimit.CheckoutLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})
	if metricsHandler != nil && cfg.FeatureFlags.MetricsAPI {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(limit(registerPolicy)).Post("/register", controllers.AuthRegister(svc.Auth, logg))
		r.With(limit(loginPolicy)).Post("/login", controllers.AuthLogin(svc.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svc.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svc.Auth, logg))
	})

	// Storefront pages render for guests and personalize for signed-in users.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, sessions, logg))
		r.Get("/", controllers.CatalogHome(svc.Catalog, logg))
		r.Get("/product/{slug}/", controllers.CatalogProduct(svc.Catalog, logg))
		r.Get("/category/{slug}/", controllers.CatalogCategory(svc.Catalog, logg))
		r.Get("/search/", controllers.CatalogSearch(svc.Catalog, logg))
		r.Get("/track/{trackingCode}/", ordercontrollers.Track(svc.Orders, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Get("/profile/", controllers.ProfileGet(svc.Profile, logg))
		r.Put("/profile/", controllers.ProfileUpdate(svc.Profile, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(svc.Cart, logg))
			r.Get("/count/", cartcontrollers.CartCount(svc.Cart, logg))
			r.Post("/add/{productID}/", cartcontrollers.CartAdd(svc.Cart, logg))
			r.Post("/update/{itemID}/", cartcontrollers.CartUpdate(svc.Cart, logg))
			r.Post("/remove/{itemID}/", cartcontrollers.CartRemove(svc.Cart, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(svc.Wishlist, logg))
			r.Post("/add/{productID}/", controllers.WishlistAddItem(svc.Wishlist, logg))
			r.Post("/remove/{itemID}/", controllers.WishlistRemoveItem(svc.Wishlist, logg))
			r.Post("/toggle/{productID}/", controllers.WishlistToggle(svc.Wishlist, logg))
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(svc.Addresses, logg))
			r.Post("/", controllers.AddressCreate(svc.Addresses, logg))
			r.Put("/{addressID}/", controllers.AddressUpdate(svc.Addresses, logg))
			r.Delete("/{addressID}/", controllers.AddressDelete(svc.Addresses, logg))
			r.Post("/{addressID}/default/", controllers.AddressSetDefault(svc.Addresses, logg))
		})

		r.Get("/checkout/", controllers.CheckoutSummary(svc.Checkout, logg))
		r.Post("/checkout/", controllers.CheckoutBegin(svc.Checkout, logg))
		r.Get("/payment/", controllers.PaymentShow(svc.Checkout, logg))
		r.With(idempotent).Post("/payment/", controllers.PaymentSubmit(svc.Checkout, logg))
		r.With(limit(checkoutPolicy), idempotent).Post("/place-order/", controllers.PlaceOrder(svc.Checkout, logg))

		r.Get("/orders/", ordercontrollers.List(svc.Orders, logg))
		r.Route("/order/{orderID}", func(r chi.Router) {
			r.Get("/", ordercontrollers.Detail(svc.Orders, logg))
			r.With(idempotent).Post("/cancel/", ordercontrollers.CancelOrder(svc.Orders, logg))
			r.With(idempotent).Post("/return/", ordercontrollers.RequestReturn(svc.Orders, logg))
			r.Get("/invoice/", ordercontrollers.Invoice(svc.Orders, logg))
		})

		r.Post("/reviews/{orderItemID}/", controllers.ReviewCreate(svc.Reviews, logg))
		r.Put("/review/{reviewID}/", controllers.ReviewUpdate(svc.Reviews, logg))
		r.Delete("/review/{reviewID}/", controllers.ReviewDelete(svc.Reviews, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.With(idempotent).Post("/orders/{orderID}/status/", controllers.AdminAdvanceOrder(svc.Orders, logg))
			r.Post("/products/", controllers.AdminCreateProduct(svc.Catalog, logg))
			r.Put("/products/{productID}/", controllers.AdminUpdateProduct(svc.Catalog, logg))
		})
	})

	return r
}
