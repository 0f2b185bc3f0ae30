package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/curbsidehq/curbside-backend/api/routes"
	"github.com/curbsidehq/curbside-backend/internal/analytics"
	"github.com/curbsidehq/curbside-backend/internal/analytics/query"
	"github.com/curbsidehq/curbside-backend/internal/auth"
	"github.com/curbsidehq/curbside-backend/internal/cart"
	"github.com/curbsidehq/curbside-backend/internal/catalog"
	"github.com/curbsidehq/curbside-backend/internal/checkout"
	"github.com/curbsidehq/curbside-backend/internal/loyalty"
	"github.com/curbsidehq/curbside-backend/internal/offers"
	"github.com/curbsidehq/curbside-backend/internal/orders"
	"github.com/curbsidehq/curbside-backend/internal/trucks"
	"github.com/curbsidehq/curbside-backend/internal/users"
	"github.com/curbsidehq/curbside-backend/pkg/auth/session"
	"github.com/curbsidehq/curbside-backend/pkg/bigquery"
	"github.com/curbsidehq/curbside-backend/pkg/config"
	"github.com/curbsidehq/curbside-backend/pkg/db"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
	"github.com/curbsidehq/curbside-backend/pkg/migrate"
	"github.com/curbsidehq/curbside-backend/pkg/outbox"
	"github.com/curbsidehq/curbside-backend/pkg/redis"
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

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	trucksRepo := trucks.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		TruckRepo:      trucksRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	switchService, err := auth.NewSwitchTruckService(auth.SwitchTruckServiceParams{
		UserRepo:       usersRepo,
		TruckRepo:      trucksRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create switch-truck service", err)
		os.Exit(1)
	}

	truckService, err := trucks.NewService(trucksRepo, usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create truck service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	loyaltyService, err := loyalty.NewService(loyalty.NewRepository(dbClient.DB()), cfg.Loyalty)
	if err != nil {
		logg.Error(context.Background(), "failed to create loyalty service", err)
		os.Exit(1)
	}

	offersRepo := offers.NewRepository(dbClient.DB())
	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	cartRepo := cart.NewRepository(dbClient.DB())

	cartService, err := cart.NewService(cartRepo, dbClient, catalogService, truckService, offersRepo, loyaltyService, cfg.Cart, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())

	checkoutService, err := checkout.NewService(dbClient, cartRepo, ordersRepo, offersRepo, loyaltyService, catalogService, truckService, outboxService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo, dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	bigqueryClient, err := bigquery.NewClient(context.Background(), cfg.GCP, cfg.BigQuery, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap bigquery", err)
		os.Exit(1)
	}
	defer func() {
		if err := bigqueryClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing bigquery client", err)
		}
	}()

	analyticsService, err := analytics.NewService(bigqueryClient, cfg.GCP.ProjectID, cfg.BigQuery.Dataset, query.Tables{
		OrderEvents:   cfg.BigQuery.OrderEventsTable,
		LoyaltyEvents: cfg.BigQuery.LoyaltyEventsTable,
		OfferEvents:   cfg.BigQuery.OfferEventsTable,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config: cfg,
			Logger: logg,

			DBPinger:       dbClient,
			RedisClient:    redisClient,
			BigqueryPinger: bigqueryClient,

			SessionManager: sessionManager,

			AuthService:     authService,
			RegisterService: registerService,
			SwitchService:   switchService,

			TruckService:    truckService,
			CatalogService:  catalogService,
			CartService:     cartService,
			CheckoutService: checkoutService,
			LoyaltyService:  loyaltyService,
			OrdersService:   ordersService,
			OffersRepo:      offersRepo,

			AnalyticsService: analyticsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
