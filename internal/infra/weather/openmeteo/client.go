package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/skymind/internal/domain/weather"
)

const (
	defaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
	defaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

	currentFields = "temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m,wind_direction_10m,is_day"
	hourlyFields  = "temperature_2m,weather_code"
	dailyFields   = "weather_code,temperature_2m_max,temperature_2m_min"
)

// Client talks to the Open-Meteo forecast and geocoding APIs.
type Client struct {
	forecastURL  string
	geocodingURL string
	httpClient   *http.Client
}

// NewClient builds an API client. Empty URLs select the public endpoints.
func NewClient(forecastURL, geocodingURL string) *Client {
	return &Client{
		forecastURL:  normalizeURL(forecastURL, defaultForecastURL),
		geocodingURL: normalizeURL(geocodingURL, defaultGeocodingURL),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

var (
	_ weather.ForecastClient = (*Client)(nil)
	_ weather.Geocoder       = (*Client)(nil)
)

// FetchForecast retrieves current, hourly and daily readings for a coordinate.
func (c *Client) FetchForecast(ctx context.Context, lat, lon float64, days int) (weather.Snapshot, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current", currentFields)
	params.Set("hourly", hourlyFields)
	params.Set("daily", dailyFields)
	params.Set("timezone", "auto")
	params.Set("forecast_days", strconv.Itoa(days))

	var raw forecastResponse
	if err := c.getJSON(ctx, c.forecastURL+"?"+params.Encode(), "forecast", &raw); err != nil {
		return weather.Snapshot{}, err
	}
	return raw.toSnapshot(), nil
}

// Search geocodes a free-text place name.
func (c *Client) Search(ctx context.Context, name string, count int, lang string) ([]weather.Location, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("count", strconv.Itoa(count))
	params.Set("language", lang)
	params.Set("format", "json")

	var raw geocodingResponse
	if err := c.getJSON(ctx, c.geocodingURL+"?"+params.Encode(), "geocoding", &raw); err != nil {
		return nil, err
	}
	locations := make([]weather.Location, 0, len(raw.Results))
	for _, r := range raw.Results {
		locations = append(locations, weather.Location{
			ID:        r.ID,
			Name:      r.Name,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Country:   r.Country,
			Admin1:    r.Admin1,
		})
	}
	return locations, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, kind string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", kind, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%s request error: status=%d body=%s", kind, resp.StatusCode, string(payload))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", kind, err)
	}
	return nil
}

type forecastResponse struct {
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Current   currentBlock   `json:"current"`
	Hourly    weather.Hourly `json:"hourly"`
	Daily     weather.Daily  `json:"daily"`
}

type currentBlock struct {
	Time               string  `json:"time"`
	Temperature2m      float64 `json:"temperature_2m"`
	RelativeHumidity2m float64 `json:"relative_humidity_2m"`
	WeatherCode        int     `json:"weather_code"`
	WindSpeed10m       float64 `json:"wind_speed_10m"`
	WindDirection10m   float64 `json:"wind_direction_10m"`
	IsDay              int     `json:"is_day"`
}

func (r forecastResponse) toSnapshot() weather.Snapshot {
	return weather.Snapshot{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Current: weather.Current{
			Temperature:   r.Current.Temperature2m,
			Humidity:      r.Current.RelativeHumidity2m,
			WindSpeed:     r.Current.WindSpeed10m,
			WindDirection: r.Current.WindDirection10m,
			WeatherCode:   r.Current.WeatherCode,
			IsDay:         r.Current.IsDay,
			Time:          r.Current.Time,
		},
		Hourly: r.Hourly,
		Daily:  r.Daily,
	}
}

type geocodingResponse struct {
	Results []geocodingResult `json:"results"`
}

type geocodingResult struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
}

func normalizeURL(raw, fallback string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = fallback
	}
	return strings.TrimRight(trimmed, "/")
}
