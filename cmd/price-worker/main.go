package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/argentum-atelier/storefront-backend/internal/assets"
	"github.com/argentum-atelier/storefront-backend/internal/pricefeed"
	"github.com/argentum-atelier/storefront-backend/pkg/config"
	"github.com/argentum-atelier/storefront-backend/pkg/db"
	"github.com/argentum-atelier/storefront-backend/pkg/logger"
	"github.com/argentum-atelier/storefront-backend/pkg/metrics"
)

// price-worker polls the spot-price feed on the configured cadence and
// exports feed health metrics. It shares the API's asset catalog but owns an
// independent quote cache, so a stuck API process never hides a dead feed.
func main() {
	logg := logger.New(logger.Options{ServiceName: "price-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "price-worker",
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting price worker")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{Addr: ":" + cfg.App.Port, Handler: mux}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics server stopped unexpectedly", err)
		}
	}()
	go func() {
		<-ctx.Done()
		metricsServer.Close()
	}()

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "price worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "price worker shutting down gracefully")
}
