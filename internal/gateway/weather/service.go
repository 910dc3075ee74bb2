// Package weather fetches current conditions from OpenWeatherMap.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/placepoint/placepoint/internal/gateway"
	"github.com/placepoint/placepoint/internal/geo"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// FallbackDescription stands in when the response carries no weather entry.
const FallbackDescription = "unknown"

// Snapshot is the current weather at a coordinate. Temperature and wind speed
// are rounded to one decimal place. ConditionCode is nil when the provider
// sent no weather entry.
type Snapshot struct {
	TemperatureCelsius float64 `json:"temperature_celsius"`
	WindSpeedMps       float64 `json:"wind_speed_mps"`
	HumidityPercent    int     `json:"humidity_percent"`
	Description        string  `json:"description"`
	ConditionCode      *int    `json:"condition_code"`
}

type owmResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
		ID          int    `json:"id"`
	} `json:"weather"`
}

// Service is the weather gateway.
type Service struct {
	client  gateway.Doer
	baseURL string
	apiKey  string
	locale  string
}

// Option configures a Service.
type Option func(*Service)

// WithHTTPClient replaces the HTTP client, primarily for tests.
func WithHTTPClient(c gateway.Doer) Option {
	return func(s *Service) { s.client = c }
}

// WithBaseURL points the service at a different weather endpoint.
func WithBaseURL(u string) Option {
	return func(s *Service) { s.baseURL = u }
}

// NewService creates a weather gateway. Descriptions come back in locale.
func NewService(apiKey, locale string, opts ...Option) *Service {
	s := &Service{
		client:  gateway.NewHTTPClient(),
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		locale:  locale,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchWeather returns the current conditions at coord in metric units. A
// non-200 response fails with *gateway.GatewayError carrying the status.
func (s *Service) FetchWeather(ctx context.Context, coord geo.Coordinate) (Snapshot, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", coord.Lat))
	params.Set("lon", fmt.Sprintf("%f", coord.Lon))
	params.Set("units", "metric")
	params.Set("lang", s.locale)
	params.Set("appid", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Snapshot{}, &gateway.GatewayError{Service: "weather", Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Snapshot{}, &gateway.GatewayError{Service: "weather", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Snapshot{}, &gateway.GatewayError{
			Service: "weather",
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var parsed owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Snapshot{}, &gateway.GatewayError{Service: "weather", Err: fmt.Errorf("decode response: %w", err)}
	}

	snapshot := Snapshot{
		TemperatureCelsius: round1(parsed.Main.Temp),
		WindSpeedMps:       round1(parsed.Wind.Speed),
		HumidityPercent:    parsed.Main.Humidity,
		Description:        FallbackDescription,
	}
	if len(parsed.Weather) > 0 {
		snapshot.Description = parsed.Weather[0].Description
		code := parsed.Weather[0].ID
		snapshot.ConditionCode = &code
	}
	return snapshot, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
