package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/curbsidehq/curbside-backend/api/controllers"
	authcontrollers "github.com/curbsidehq/curbside-backend/api/controllers/auth"
	cartcontrollers "github.com/curbsidehq/curbside-backend/api/controllers/cart"
	ordercontrollers "github.com/curbsidehq/curbside-backend/api/controllers/orders"
	"github.com/curbsidehq/curbside-backend/api/middleware"
	"github.com/curbsidehq/curbside-backend/internal/analytics"
	"github.com/curbsidehq/curbside-backend/internal/auth"
	"github.com/curbsidehq/curbside-backend/internal/cart"
	"github.com/curbsidehq/curbside-backend/internal/catalog"
	checkoutsvc "github.com/curbsidehq/curbside-backend/internal/checkout"
	"github.com/curbsidehq/curbside-backend/internal/loyalty"
	"github.com/curbsidehq/curbside-backend/internal/offers"
	"github.com/curbsidehq/curbside-backend/internal/orders"
	"github.com/curbsidehq/curbside-backend/internal/trucks"
	"github.com/curbsidehq/curbside-backend/pkg/auth/session"
	"github.com/curbsidehq/curbside-backend/pkg/bigquery"
	"github.com/curbsidehq/curbside-backend/pkg/config"
	"github.com/curbsidehq/curbside-backend/pkg/db"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
	pkgredis "github.com/curbsidehq/curbside-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers. Optional
// dependencies (analytics, health pingers) may be nil.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DBPinger       db.Pinger
	RedisClient    *pkgredis.Client
	BigqueryPinger bigquery.Pinger

	SessionManager session.AccessSessionChecker

	AuthService     auth.Service
	RegisterService auth.RegisterService
	SwitchService   auth.SwitchTruckService

	TruckService    trucks.Service
	CatalogService  catalog.Service
	CartService     cart.Service
	CheckoutService checkoutsvc.Service
	LoyaltyService  loyalty.Service
	OrdersService   orders.Service
	OffersRepo      offers.Repository

	AnalyticsService analytics.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	// A nil *redis.Client stuffed into an interface is not a nil
	// interface, so normalize here to keep the nil guards downstream
	// meaningful.
	var (
		idempotencyStore pkgredis.IdempotencyStore
		redisPinger      pkgredis.Pinger
	)
	if deps.RedisClient != nil {
		idempotencyStore = deps.RedisClient
		redisPinger = deps.RedisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
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

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, redisPinger, deps.BigqueryPinger))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	// Customer ordering surface. No account needed; carts are keyed by
	// (truck, session) and idempotency still applies to mutations.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/trucks/{truckID}", func(r chi.Router) {
			r.Get("/menu", controllers.PublicMenu(deps.TruckService, deps.CatalogService, logg))
			r.Post("/cart/quote", cartcontrollers.CartQuote(deps.CartService, logg))
			r.Get("/cart", cartcontrollers.CartFetch(deps.CartService, logg))
			r.Post("/checkout", controllers.Checkout(deps.CheckoutService, logg))
			r.Post("/promos/validate", controllers.PromoValidate(deps.OffersRepo, logg))
			r.Get("/loyalty/balance", controllers.LoyaltyBalance(deps.LoyaltyService, logg))
		})
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RedisClient, logg)).Post("/login", authcontrollers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.RedisClient, logg), middleware.Idempotency(idempotencyStore, logg)).Post("/register", controllers.AuthRegister(deps.RegisterService, deps.AuthService, logg))
		r.Post("/logout", authcontrollers.AuthLogout(deps.AuthService, cfg.JWT, logg))
		r.Post("/refresh", authcontrollers.AuthRefresh(deps.AuthService, cfg.JWT, logg))
		r.Post("/switch-truck", authcontrollers.AuthSwitchTruck(deps.SwitchService, cfg.JWT, logg))
	})

	// Merchant dashboard surface. Every route below requires a valid
	// session; truck-scoped routes additionally require the JWT to carry
	// an active truck.
	r.Route("/api/v1/merchant", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Get("/trucks", controllers.TruckList(deps.TruckService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.TruckContext(logg))

			r.Get("/trucks/me", controllers.TruckProfile(deps.TruckService, logg))
			r.With(middleware.RequireTruckRoles(logg, enums.MemberRoleOwner, enums.MemberRoleManager)).
				Put("/trucks/me", controllers.TruckUpdate(deps.TruckService, logg))

			r.Route("/menu/items", func(r chi.Router) {
				r.Use(middleware.RequireTruckRoles(logg, enums.MemberRoleOwner, enums.MemberRoleManager))
				r.Post("/", controllers.MenuItemCreate(deps.CatalogService, logg))
				r.Put("/{itemID}", controllers.MenuItemUpdate(deps.CatalogService, logg))
				r.Patch("/{itemID}/availability", controllers.MenuItemSetAvailability(deps.CatalogService, logg))
				r.Delete("/{itemID}", controllers.MenuItemArchive(deps.CatalogService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.List(deps.OrdersService, logg))
				r.Get("/{orderID}", ordercontrollers.Detail(deps.OrdersService, logg))
				r.With(middleware.RequireTruckRoles(logg, enums.MemberRoleOwner, enums.MemberRoleManager, enums.MemberRoleStaff)).
					Post("/{orderID}/status", ordercontrollers.UpdateStatus(deps.OrdersService, logg))
			})

			r.Get("/offers", controllers.OffersList(deps.OffersRepo, logg))
			r.Get("/analytics/dashboard", controllers.DashboardAnalytics(deps.AnalyticsService, logg))
		})
	})

	return r
}
