package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 5, cfg.Assistant.MaxToolRounds)
	require.Equal(t, 30*time.Second, cfg.Assistant.RequestTimeout)
	require.Equal(t, 3, cfg.Weather.ForecastDays)
	require.Contains(t, cfg.HTTP.Retry.Exclude, "/api/v1/assistant/chat")
	require.Contains(t, cfg.HTTP.Retry.Exclude, "/api/v1/favorites")
}

func TestLoadAppliesFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
assistant:
  maxToolRounds: 3
  credentials:
    groq: file-groq
weather:
  cacheTtl: 5m
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("API_KEY", "generic-key")
	t.Setenv("GROQ_API_KEY", "env-groq")
	t.Setenv("ASSISTANT_REQUEST_TIMEOUT", "45s")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("WEATHER_VALKEY_ENABLED", "true")
	t.Setenv("WEATHER_VALKEY_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, 3, cfg.Assistant.MaxToolRounds)
	require.Equal(t, 45*time.Second, cfg.Assistant.RequestTimeout)
	require.Equal(t, "generic-key", cfg.Assistant.Credentials.Gemini)
	require.Equal(t, "env-groq", cfg.Assistant.Credentials.Groq)
	require.Equal(t, 5*time.Minute, cfg.Weather.CacheTTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	require.True(t, cfg.Weather.Valkey.Enabled)
}

func TestGeminiKeyOverridesGenericKey(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.Error(t, err)

	cfg := defaultConfig()
	t.Setenv("API_KEY", "generic")
	t.Setenv("GEMINI_API_KEY", "specific")
	applyEnvOverrides(cfg)
	require.Equal(t, "specific", cfg.Assistant.Credentials.Gemini)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"empty address":   func(c *Config) { c.HTTP.Address = "" },
		"zero rounds":     func(c *Config) { c.Assistant.MaxToolRounds = 0 },
		"zero timeout":    func(c *Config) { c.Assistant.RequestTimeout = 0 },
		"hot temperature": func(c *Config) { c.Assistant.Temperature = 3 },
		"valkey no addr":  func(c *Config) { c.Weather.Valkey.Enabled = true },
		"too many days":   func(c *Config) { c.Weather.ForecastDays = 30 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
