// Package config provides configuration loading for the widget backend.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service configuration.
type Config struct {
	// HTTP listen port
	Port string

	// OpenWeatherMap API key
	WeatherAPIKey string

	// Country scope for geocoding queries
	CountryCode string

	// Locale for weather description text
	WeatherLocale string

	// Remote API base URLs
	GeocodeBaseURL       string
	OverpassBaseURL      string
	WeatherBaseURL       string
	RoutingBaseURL       string
	TranslateFallbackURL string

	// Private translation backend; empty disables the first tier
	TranslateBackendURL     string
	TranslateBackendTimeout time.Duration

	// Redis connection URL for the geocode cache; empty disables caching
	RedisURL        string
	GeocodeCacheTTL time.Duration

	// Per-client rate limit for the API; burst 0 disables it
	RateLimitBurst  int
	RateLimitRefill time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Allowed CORS origin for the widget page
	CORSOrigin string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		WeatherAPIKey: os.Getenv("OPENWEATHERMAP_API_KEY"),
		CountryCode:   getEnv("GEOCODE_COUNTRY_CODE", "vn"),
		WeatherLocale: getEnv("WEATHER_LOCALE", "vi"),

		GeocodeBaseURL:       getEnv("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
		OverpassBaseURL:      getEnv("OVERPASS_BASE_URL", "https://overpass-api.de/api/interpreter"),
		WeatherBaseURL:       getEnv("WEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5/weather"),
		RoutingBaseURL:       getEnv("ROUTING_BASE_URL", "https://router.project-osrm.org"),
		TranslateFallbackURL: getEnv("TRANSLATE_FALLBACK_URL", "https://api.mymemory.translated.net/get"),

		TranslateBackendURL:     getEnv("TRANSLATE_BACKEND_URL", "http://localhost:5000/translate"),
		TranslateBackendTimeout: getEnvDuration("TRANSLATE_BACKEND_TIMEOUT", 5*time.Second),

		RedisURL:        os.Getenv("REDIS_URL"),
		GeocodeCacheTTL: getEnvDuration("GEOCODE_CACHE_TTL", time.Hour),

		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 30),
		RateLimitRefill: getEnvDuration("RATE_LIMIT_REFILL", 200*time.Millisecond),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		CORSOrigin: getEnv("CORS_ORIGIN", "*"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.WeatherAPIKey == "" {
		return fmt.Errorf("OPENWEATHERMAP_API_KEY is required")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.TranslateBackendTimeout <= 0 {
		return fmt.Errorf("TRANSLATE_BACKEND_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// Plain integers are read as seconds.
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
