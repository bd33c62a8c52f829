package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"market-dashboard-api/internal/api"
	"market-dashboard-api/internal/config"
	"market-dashboard-api/internal/logger"
	"market-dashboard-api/internal/platform"
	"market-dashboard-api/internal/provider"
	"market-dashboard-api/internal/ratelimit"
	"market-dashboard-api/internal/rates"
	"market-dashboard-api/internal/service"
	"market-dashboard-api/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger := logger.New(cfg.LogLevel)

	// Connect to the database and run migrations
	db, err := store.NewDBConnection(cfg.DatabaseURL, cfg.AppEnv)
	if err != nil {
		appLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		appLogger.Fatalf("Failed to run migrations: %v", err)
	}

	dataStore := store.New(db)

	// Seed the fiat catalogue so the dashboard has data before the first sync
	if cfg.SeedOnBoot {
		seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
		seeded, seedError := store.SeedCurrencies(seedCtx, dataStore)
		cancelSeed()
		if seedError != nil {
			appLogger.Fatalf("Failed to seed currencies: %v", seedError)
		}
		appLogger.Infof("Seeded %d currencies", seeded)
	}

	// Initialize providers and services
	forexProvider := provider.NewExchangeRateClient(cfg.ExchangeRateAPI, appLogger)
	cryptoProvider := provider.NewCoinGeckoClient(cfg.CoinGecko, appLogger)

	marketService := service.NewMarketService(dataStore, forexProvider, cryptoProvider, appLogger)
	conversionService := service.NewConversionService(rates.DefaultTable(), dataStore, appLogger)
	rateLimiter := ratelimit.NewLimiter(cfg, appLogger)

	// Initialize HTTP handlers
	handlers := api.NewHandlers(api.HandlerConfig{
		Logger:            appLogger,
		Store:             dataStore,
		MarketService:     marketService,
		ConversionService: conversionService,
		RateLimiter:       rateLimiter,
	})

	// Setup Gin router
	router := handlers.SetupRoutes()

	// Setup HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("Starting market dashboard API on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Create a shutdown context that works across platforms
	shutdownCtx, stop := platform.NewShutdownContext(context.Background())
	defer stop()
	<-shutdownCtx.Done()

	appLogger.Info("Shutting down server...")

	// Stop rate limiter cleanup
	rateLimiter.Stop()

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server exited")
}
