package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

var (
	ErrNoAPIKey     = errors.New("weather: API key is not configured")
	ErrCityNotFound = errors.New("weather: city not found")
)

// APIError is a non-200, non-404 answer from OpenWeather.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openweather: status %d: %s", e.Status, e.Message)
}

type Client struct {
	config     *Config
	httpClient *http.Client
}

func NewClient(config *Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.config.APIKey == "" {
		return ErrNoAPIKey
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("units", c.config.Units)
	params.Set("lang", c.config.Lang)

	// logged before the key is added
	slog.Debug("openweather request", "endpoint", endpoint, "params", params.Encode())
	params.Set("appid", c.config.APIKey)

	fullURL := fmt.Sprintf("%s%s?%s", strings.TrimRight(c.config.BaseURL, "/"), endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("openweather request failed", "endpoint", endpoint, "error", err)
		return fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrCityNotFound
	case resp.StatusCode != http.StatusOK:
		var e errorResponse
		if json.Unmarshal(body, &e) != nil || e.Message == "" {
			e.Message = "Error fetching weather data"
		}
		slog.Warn("openweather error", "endpoint", endpoint, "status", resp.StatusCode, "message", e.Message)
		return &APIError{Status: resp.StatusCode, Message: e.Message}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}

func (c *Client) CurrentByCity(ctx context.Context, city string) (*Current, error) {
	params := url.Values{}
	params.Set("q", city)
	return c.current(ctx, params)
}

func (c *Client) CurrentByCoords(ctx context.Context, lat, lon float64) (*Current, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return c.current(ctx, params)
}

func (c *Client) current(ctx context.Context, params url.Values) (*Current, error) {
	var raw currentResponse
	if err := c.get(ctx, "/weather", params, &raw); err != nil {
		return nil, err
	}
	cond := firstCondition(raw.Weather)
	return &Current{
		CityName:    raw.Name,
		Temperature: raw.Main.Temp,
		Description: cond.Description,
		Icon:        cond.Icon,
	}, nil
}

func (c *Client) Forecast(ctx context.Context, city string) (*Forecast, error) {
	params := url.Values{}
	params.Set("q", city)

	var raw forecastResponse
	if err := c.get(ctx, "/forecast", params, &raw); err != nil {
		return nil, err
	}
	return &Forecast{CityName: raw.City.Name, Forecasts: dailyMidday(raw.List, maxForecastDays)}, nil
}
