// Package openmeteo implements domain.WeatherProvider against the Open-Meteo
// forecast API. The API is free and unauthenticated; a circuit breaker keeps
// request storms off it during outages and lets readiness checks observe
// upstream health.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/agrimet/crop-alert-service/internal/domain"
	"github.com/agrimet/crop-alert-service/internal/observability"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Client implements domain.WeatherProvider using the Open-Meteo API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an Open-Meteo client. The breaker opens after five
// consecutive failures and probes again after 30 seconds.
func NewClient(timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		logger:     logger,
		metrics:    metrics,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "open-meteo",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("weather breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// Healthy reports nil while the circuit breaker admits requests.
func (c *Client) Healthy() error {
	if state := c.breaker.State(); state == gobreaker.StateOpen {
		return fmt.Errorf("open-meteo circuit breaker is %s", state.String())
	}
	return nil
}

// CurrentWeather fetches the current temperature and wind speed for a
// coordinate.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (domain.CurrentConditions, error) {
	params := url.Values{
		"latitude":        {formatCoord(lat)},
		"longitude":       {formatCoord(lon)},
		"current_weather": {"true"},
	}

	var resp apiResponse
	if err := c.doRequest(ctx, params, "current", &resp); err != nil {
		return domain.CurrentConditions{}, fmt.Errorf("%w: current weather: %w", domain.ErrWeatherUnavailable, err)
	}

	conditions := domain.CurrentConditions{}
	if resp.CurrentWeather != nil {
		conditions.TemperatureC = resp.CurrentWeather.Temperature
		conditions.WindSpeedKmh = resp.CurrentWeather.WindSpeed
	}
	return conditions, nil
}

// Forecast fetches daily precipitation sums for the next days.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, days int) (domain.Forecast, error) {
	params := url.Values{
		"latitude":      {formatCoord(lat)},
		"longitude":     {formatCoord(lon)},
		"daily":         {"precipitation_sum"},
		"forecast_days": {strconv.Itoa(days)},
	}

	var resp apiResponse
	if err := c.doRequest(ctx, params, "forecast", &resp); err != nil {
		return domain.Forecast{}, fmt.Errorf("%w: forecast: %w", domain.ErrWeatherUnavailable, err)
	}

	forecast := domain.Forecast{}
	if resp.Daily != nil {
		forecast.DailyPrecipitationMm = resp.Daily.PrecipitationSum
	}
	return forecast, nil
}

func (c *Client) doRequest(ctx context.Context, params url.Values, endpoint string, out *apiResponse) error {
	start := time.Now()

	result, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s request: %w", endpoint, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
		}

		var decoded apiResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return decoded, nil
	})

	c.metrics.WeatherDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues(endpoint, "error").Inc()
		return err
	}

	c.metrics.WeatherRequests.WithLabelValues(endpoint, "success").Inc()
	*out = result.(apiResponse)
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// Open-Meteo API response types.

type apiResponse struct {
	CurrentWeather *currentWeather `json:"current_weather"`
	Daily          *daily          `json:"daily"`
}

type currentWeather struct {
	Temperature *float64 `json:"temperature"`
	WindSpeed   *float64 `json:"windspeed"`
}

type daily struct {
	PrecipitationSum []float64 `json:"precipitation_sum"`
}
