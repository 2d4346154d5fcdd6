package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/argentum-atelier/storefront-backend/api/routes"
	"github.com/argentum-atelier/storefront-backend/internal/assets"
	"github.com/argentum-atelier/storefront-backend/internal/cart"
	"github.com/argentum-atelier/storefront-backend/internal/catalog"
	checkoutsvc "github.com/argentum-atelier/storefront-backend/internal/checkout"
	"github.com/argentum-atelier/storefront-backend/internal/notifications"
	"github.com/argentum-atelier/storefront-backend/internal/pricefeed"
	"github.com/argentum-atelier/storefront-backend/internal/pricing"
	"github.com/argentum-atelier/storefront-backend/pkg/config"
	"github.com/argentum-atelier/storefront-backend/pkg/db"
	"github.com/argentum-atelier/storefront-backend/pkg/logger"
	"github.com/argentum-atelier/storefront-backend/pkg/metrics"
	"github.com/argentum-atelier/storefront-backend/pkg/migrate"
	"github.com/argentum-atelier/storefront-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	converter, err := pricing.NewConverterFromString(cfg.Pricing.AlternateRate)
	if err != nil {
		logg.Error(context.Background(), "failed to build pricing converter", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), converter)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartRepo, err := cart.NewRedisRepository(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart repository", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartRepo, notifications.NewLogNotifier(logg))
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	assetService, err := assets.NewService(assets.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create asset service", err)
		os.Exit(1)
	}

	quotes := pricefeed.NewQuotes(cfg.PriceFeed.RefreshInterval)
	feedMetrics := metrics.NewPriceFeedMetrics(prometheus.DefaultRegisterer)
	feedClient := pricefeed.NewClient(
		pricefeed.WithBaseURL(cfg.PriceFeed.BaseURL),
		pricefeed.WithHTTPClient(&http.Client{Timeout: cfg.PriceFeed.RequestTimeout}),
	)
	poller, err := pricefeed.NewPoller(pricefeed.PollerParams{
		Logger:   logg,
		Client:   feedClient,
		Quotes:   quotes,
		PriceIDs: assetService.EnabledPriceIDs,
		Metrics:  feedMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create price poller", err)
		os.Exit(1)
	}

	var wallet checkoutsvc.WalletProvider
	if cfg.Checkout.SimulateWallet {
		wallet = checkoutsvc.NewSimulatedWallet(cfg.Checkout.SimulatedConnectLag, cfg.Checkout.SimulatedAddress)
		logg.Warn(context.Background(), "simulated wallet provider enabled")
	}

	sessionRepo, err := checkoutsvc.NewRedisSessionRepository(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment session repository", err)
		os.Exit(1)
	}
	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Logger:   logg,
		Carts:    cartService,
		Assets:   assetService,
		Quotes:   quotes,
		Sessions: sessionRepo,
		Wallet:   wallet,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "price poller stopped unexpectedly", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Converter: converter,
			Catalog:   catalogService,
			Cart:      cartService,
			Assets:    assetService,
			Checkout:  checkoutService,
		}),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "server shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(startCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(startCtx, "api server shut down gracefully")
}
