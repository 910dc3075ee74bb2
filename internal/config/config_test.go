package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENWEATHERMAP_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "vn", cfg.CountryCode)
	assert.Equal(t, "vi", cfg.WeatherLocale)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.GeocodeBaseURL)
	assert.Equal(t, "http://localhost:5000/translate", cfg.TranslateBackendURL)
	assert.Equal(t, 5*time.Second, cfg.TranslateBackendTimeout)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30, cfg.RateLimitBurst)
	assert.Equal(t, 200*time.Millisecond, cfg.RateLimitRefill)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENWEATHERMAP_API_KEY", "test-key")
	t.Setenv("PORT", "9090")
	t.Setenv("GEOCODE_COUNTRY_CODE", "de")
	t.Setenv("TRANSLATE_BACKEND_TIMEOUT", "2s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "de", cfg.CountryCode)
	assert.Equal(t, 2*time.Second, cfg.TranslateBackendTimeout)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENWEATHERMAP_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENWEATHERMAP_API_KEY")
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("SOME_COUNT", "12")
	assert.Equal(t, 12, getEnvInt("SOME_COUNT", 3))

	t.Setenv("SOME_COUNT", "twelve")
	assert.Equal(t, 3, getEnvInt("SOME_COUNT", 3))
}

func TestGetEnvDurationPlainSeconds(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "7")
	assert.Equal(t, 7*time.Second, getEnvDuration("SOME_TIMEOUT", time.Second))

	t.Setenv("SOME_TIMEOUT", "not-a-duration")
	assert.Equal(t, time.Second, getEnvDuration("SOME_TIMEOUT", time.Second))
}
