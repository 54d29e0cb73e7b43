package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Assistant AssistantConfig `yaml:"assistant"`
	Weather   WeatherConfig   `yaml:"weather"`
	Favorites FavoritesConfig `yaml:"favorites"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// AssistantConfig controls the LLM orchestration layer.
type AssistantConfig struct {
	Temperature        float32           `yaml:"temperature"`
	MaxToolRounds      int               `yaml:"maxToolRounds"`
	RequestTimeout     time.Duration     `yaml:"requestTimeout"`
	HistoryTokenBudget int               `yaml:"historyTokenBudget"`
	TokenEncoding      string            `yaml:"tokenEncoding"`
	Credentials        CredentialsConfig `yaml:"credentials"`
	OpenRouter         OpenRouterConfig  `yaml:"openRouter"`
}

// CredentialsConfig holds process-wide fallback API keys per provider.
type CredentialsConfig struct {
	Gemini     string `yaml:"gemini"`
	Groq       string `yaml:"groq"`
	Mistral    string `yaml:"mistral"`
	OpenRouter string `yaml:"openRouter"`
}

// OpenRouterConfig carries the attribution headers OpenRouter asks for.
type OpenRouterConfig struct {
	Referer string `yaml:"referer"`
	Title   string `yaml:"title"`
}

// WeatherConfig controls the forecast and geocoding upstreams.
type WeatherConfig struct {
	ForecastURL  string        `yaml:"forecastUrl"`
	GeocodingURL string        `yaml:"geocodingUrl"`
	ReverseURL   string        `yaml:"reverseUrl"`
	UserAgent    string        `yaml:"userAgent"`
	ForecastDays int           `yaml:"forecastDays"`
	SearchLimit  int           `yaml:"searchLimit"`
	CacheTTL     time.Duration `yaml:"cacheTtl"`
	Valkey       ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for cache storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// FavoritesConfig controls favorites persistence.
type FavoritesConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}

	// API_KEY is the single process-wide key of the original deployment; it backs gemini.
	if v := os.Getenv("API_KEY"); v != "" {
		cfg.Assistant.Credentials.Gemini = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Assistant.Credentials.Gemini = v
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.Assistant.Credentials.Groq = v
	}
	if v := os.Getenv("MISTRAL_API_KEY"); v != "" {
		cfg.Assistant.Credentials.Mistral = v
	}
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		cfg.Assistant.Credentials.OpenRouter = v
	}
	if v := os.Getenv("ASSISTANT_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.Assistant.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("ASSISTANT_MAX_TOOL_ROUNDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Assistant.MaxToolRounds = parsed
		}
	}
	if v := os.Getenv("ASSISTANT_REQUEST_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Assistant.RequestTimeout = parsed
		}
	}
	if v := os.Getenv("ASSISTANT_HISTORY_TOKEN_BUDGET"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Assistant.HistoryTokenBudget = parsed
		}
	}

	if v := os.Getenv("WEATHER_FORECAST_URL"); v != "" {
		cfg.Weather.ForecastURL = v
	}
	if v := os.Getenv("WEATHER_GEOCODING_URL"); v != "" {
		cfg.Weather.GeocodingURL = v
	}
	if v := os.Getenv("WEATHER_REVERSE_URL"); v != "" {
		cfg.Weather.ReverseURL = v
	}
	if v := os.Getenv("WEATHER_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.CacheTTL = parsed
		}
	}
	if v := os.Getenv("WEATHER_VALKEY_ENABLED"); v != "" {
		cfg.Weather.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("WEATHER_VALKEY_ADDR"); v != "" {
		cfg.Weather.Valkey.Addr = v
	}

	if v := os.Getenv("FAVORITES_POSTGRES_DSN"); v != "" {
		cfg.Favorites.Postgres.DSN = v
	}
	if v := os.Getenv("FAVORITES_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Favorites.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("FAVORITES_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Favorites.Postgres.MinConns = int32(parsed)
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8080",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   3 * time.Minute,
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/assistant/analysis",
					"/api/v1/assistant/chat",
					"/api/v1/favorites",
				},
			},
		},
		Assistant: AssistantConfig{
			Temperature:        0.7,
			MaxToolRounds:      5,
			RequestTimeout:     30 * time.Second,
			HistoryTokenBudget: 3000,
			TokenEncoding:      "cl100k_base",
			OpenRouter: OpenRouterConfig{
				Referer: "https://skymind.weather",
				Title:   "SkyMind Weather",
			},
		},
		Weather: WeatherConfig{
			ForecastURL:  "https://api.open-meteo.com/v1/forecast",
			GeocodingURL: "https://geocoding-api.open-meteo.com/v1/search",
			ReverseURL:   "https://nominatim.openstreetmap.org/reverse",
			UserAgent:    "SkyMind-Weather-App",
			ForecastDays: 3,
			SearchLimit:  5,
			CacheTTL:     10 * time.Minute,
		},
		Favorites: FavoritesConfig{
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if c.Assistant.Temperature < 0 || c.Assistant.Temperature > 2 {
		return errors.New("assistant.temperature must be between 0 and 2")
	}
	if c.Assistant.MaxToolRounds <= 0 {
		return errors.New("assistant.maxToolRounds must be positive")
	}
	if c.Assistant.RequestTimeout <= 0 {
		return errors.New("assistant.requestTimeout must be positive")
	}
	if c.Assistant.HistoryTokenBudget < 0 {
		return errors.New("assistant.historyTokenBudget cannot be negative")
	}
	if strings.TrimSpace(c.Weather.ForecastURL) == "" {
		return errors.New("weather.forecastUrl cannot be empty")
	}
	if strings.TrimSpace(c.Weather.GeocodingURL) == "" {
		return errors.New("weather.geocodingUrl cannot be empty")
	}
	if strings.TrimSpace(c.Weather.ReverseURL) == "" {
		return errors.New("weather.reverseUrl cannot be empty")
	}
	if c.Weather.ForecastDays <= 0 || c.Weather.ForecastDays > 16 {
		return errors.New("weather.forecastDays must be between 1 and 16")
	}
	if c.Weather.CacheTTL < 0 {
		return errors.New("weather.cacheTtl cannot be negative")
	}
	if c.Weather.Valkey.Enabled && strings.TrimSpace(c.Weather.Valkey.Addr) == "" {
		return errors.New("weather.valkey.addr cannot be empty when valkey cache is enabled")
	}
	return nil
}
