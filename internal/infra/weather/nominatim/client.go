package nominatim

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
	defaultReverseURL = "https://nominatim.openstreetmap.org/reverse"
	defaultUserAgent  = "SkyMind-Weather-App"
)

// Client resolves coordinates to a place name via OpenStreetMap Nominatim.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient builds a reverse geocoder. Nominatim rejects requests without a User-Agent.
func NewClient(baseURL, userAgent string) *Client {
	u := strings.TrimSpace(baseURL)
	if u == "" {
		u = defaultReverseURL
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:   strings.TrimRight(u, "/"),
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

var _ weather.ReverseGeocoder = (*Client)(nil)

// CityName returns the most specific settlement name, or "" when none is known.
func (c *Client) CityName(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("zoom", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build reverse geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("reverse geocode error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("decode reverse geocode response: %w", err)
	}
	return raw.Address.settlement(), nil
}

type reverseResponse struct {
	DisplayName string  `json:"display_name"`
	Address     address `json:"address"`
}

type address struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	County  string `json:"county"`
}

func (a address) settlement() string {
	for _, candidate := range []string{a.City, a.Town, a.Village, a.County} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}
