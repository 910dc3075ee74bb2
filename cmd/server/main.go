package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/placepoint/placepoint/internal/config"
	"github.com/placepoint/placepoint/internal/flow"
	"github.com/placepoint/placepoint/internal/gateway"
	"github.com/placepoint/placepoint/internal/gateway/geocode"
	"github.com/placepoint/placepoint/internal/gateway/poi"
	"github.com/placepoint/placepoint/internal/gateway/route"
	"github.com/placepoint/placepoint/internal/gateway/translate"
	"github.com/placepoint/placepoint/internal/gateway/weather"
	"github.com/placepoint/placepoint/internal/httpserver"
	"github.com/placepoint/placepoint/internal/monitoring"
	"github.com/placepoint/placepoint/internal/session"
	"github.com/placepoint/placepoint/internal/telemetry"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logConfig := telemetry.DefaultLogConfig()
	logConfig.Level = cfg.LogLevel
	logConfig.Format = cfg.LogFormat
	logger, err := telemetry.NewLogger(logConfig)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// OpenTelemetry is opt-in; the provider is a no-op when disabled.
	otelProvider, err := telemetry.NewProvider(telemetry.LoadOTelConfigFromEnv())
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize telemetry")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelProvider.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("telemetry shutdown failed")
		}
	}()

	metrics, err := monitoring.NewMetrics()
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize metrics")
	}

	httpClient := gateway.NewHTTPClient()

	geocodeOpts := []geocode.Option{
		geocode.WithHTTPClient(httpClient),
		geocode.WithBaseURL(cfg.GeocodeBaseURL),
	}
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Fatal("invalid REDIS_URL")
		}
		redisClient := redis.NewClient(redisOpts)
		telemetry.InstrumentRedisClient(redisClient)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.WithError(err).Warn("redis unreachable, geocode cache disabled")
		} else {
			geocodeOpts = append(geocodeOpts,
				geocode.WithCache(geocode.NewCache(redisClient, cfg.GeocodeCacheTTL, logger)))
			logger.Info("geocode cache enabled")
		}
		defer redisClient.Close()
	}

	geocoder := geocode.NewService(cfg.CountryCode, geocodeOpts...)
	poiFinder := poi.NewService(
		poi.WithHTTPClient(httpClient),
		poi.WithBaseURL(cfg.OverpassBaseURL),
	)
	weatherFetcher := weather.NewService(cfg.WeatherAPIKey, cfg.WeatherLocale,
		weather.WithHTTPClient(httpClient),
		weather.WithBaseURL(cfg.WeatherBaseURL),
	)
	router := route.NewService(
		route.WithHTTPClient(httpClient),
		route.WithBaseURL(cfg.RoutingBaseURL),
	)
	translator := translate.NewService(cfg.TranslateBackendURL, logger,
		translate.WithHTTPClient(httpClient),
		translate.WithFallbackURL(cfg.TranslateFallbackURL),
		translate.WithPrivateTimeout(cfg.TranslateBackendTimeout),
	)

	sess := session.New()

	server := httpserver.New(httpserver.Options{
		Log:     logger,
		Metrics: metrics,
		Session: sess,
		Search: flow.NewSearchFlow(flow.SearchGateways{
			Geocoder: geocoder,
			Weather:  weatherFetcher,
			POIs:     poiFinder,
		}, sess, logger),
		Route:           flow.NewRouteFlow(router, sess, logger),
		Translate:       flow.NewTranslateFlow(translator, logger),
		CORSOrigin:      cfg.CORSOrigin,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitRefill: cfg.RateLimitRefill,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Handler(),
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("server forced to shutdown")
	}

	logger.Info("server exited")
}
