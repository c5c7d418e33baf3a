package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	appLogger "github.com/Alik192/AI-Travel-Planner/app/logger"
	"github.com/Alik192/AI-Travel-Planner/app/observability"
	"github.com/Alik192/AI-Travel-Planner/app/observability/metrics"
	"github.com/Alik192/AI-Travel-Planner/config"
	"github.com/Alik192/AI-Travel-Planner/internal/api/attractions"
	"github.com/Alik192/AI-Travel-Planner/internal/api/currency"
	"github.com/Alik192/AI-Travel-Planner/internal/api/flights"
	generativeAI "github.com/Alik192/AI-Travel-Planner/internal/api/generative_ai"
	"github.com/Alik192/AI-Travel-Planner/internal/api/hotels"
	"github.com/Alik192/AI-Travel-Planner/internal/api/location"
	"github.com/Alik192/AI-Travel-Planner/internal/api/planner"
	"github.com/Alik192/AI-Travel-Planner/internal/api/weather"
	"github.com/Alik192/AI-Travel-Planner/internal/cache"
	"github.com/Alik192/AI-Travel-Planner/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails.
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}
	creds := config.LoadCredentials()

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	observability.InitTracingAndMetrics(cfg.Server.MetricsPort)
	metrics.InitAppMetrics()

	// The reference dataset is a fatal startup condition for the resolver.
	resolver, err := location.NewDatasetResolver(cfg.Dataset.AirportCodes, logger)
	if err != nil {
		logger.Error("Failed to load airport codes dataset", slog.Any("error", err))
		os.Exit(1)
	}

	// Provider adapters get their credentials injected once, here.
	flightAdapter := flights.NewAmadeusAdapter(
		cfg.Providers.Amadeus.BaseURL, creds.AmadeusClientID, creds.AmadeusClientSecret, logger)
	hotelAdapter := hotels.NewLiteAPIAdapter(
		cfg.Providers.LiteAPI.BaseURL, creds.LiteAPIKey, cfg.Planner.RateSampleSize, logger)
	weatherAdapter := weather.NewOpenWeatherAdapter(
		cfg.Providers.OpenWeather.BaseURL, creds.OpenWeatherAPIKey, logger)
	attractionAdapter := attractions.NewGeoapifyAdapter(
		cfg.Providers.Geoapify.BaseURL, creds.GeoapifyAPIKey, logger)
	converter := currency.NewExchangeRateConverter(
		cfg.Providers.ExchangeRate.BaseURL, creds.ExchangeRateAPIKey, logger)

	// A missing generation credential is a recoverable configuration
	// error: the server starts, plan requests report it per call.
	var generator planner.Generator
	aiClient, err := generativeAI.NewAIClient(ctx, creds.GeminiAPIKey)
	if err != nil {
		logger.Warn("Plan generation unavailable", slog.Any("error", err))
	} else {
		generator = aiClient
	}

	store := cache.New(cfg.Cache.CleanupInterval)

	plannerService := planner.NewService(
		resolver,
		flightAdapter,
		hotelAdapter,
		weatherAdapter,
		attractionAdapter,
		converter,
		generator,
		store,
		planner.Options{
			FlightResults:   cfg.Planner.FlightResults,
			HotelResults:    cfg.Planner.HotelResults,
			AttractionLimit: cfg.Planner.AttractionLimit,
			SearchRadiusM:   cfg.Planner.SearchRadiusM,
			Currency:        cfg.Planner.Currency,
			ProviderTTL:     cfg.Cache.ProviderTTL,
			LocationTTL:     cfg.Cache.LocationTTL,
		},
		logger,
	)
	plannerHandler := planner.NewHandler(plannerService, resolver, logger)

	mainRouter := router.SetupRouter(&router.Config{
		PlannerHandler: plannerHandler,
	})

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(cfg.Server.Timeout))
	r.Use(middleware.Compress(5, "application/json"))
	r.Mount("/", mainRouter)

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		// JSON logs for production or other environments
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
