package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/skymind/internal/domain/assistant"
	"github.com/yanqian/skymind/internal/domain/favorites"
	"github.com/yanqian/skymind/internal/domain/weather"
	"github.com/yanqian/skymind/internal/infra/config"
	"github.com/yanqian/skymind/internal/infra/favoriterepo"
	"github.com/yanqian/skymind/internal/infra/llm/gemini"
	"github.com/yanqian/skymind/internal/infra/llm/openaicompat"
	"github.com/yanqian/skymind/internal/infra/llm/tokens"
	"github.com/yanqian/skymind/internal/infra/weather/nominatim"
	"github.com/yanqian/skymind/internal/infra/weather/openmeteo"
	"github.com/yanqian/skymind/internal/infra/weathercache"
)

func provideWeatherConfig(cfg *config.Config) weather.Config {
	return weather.Config{
		ForecastDays: cfg.Weather.ForecastDays,
		CacheTTL:     cfg.Weather.CacheTTL,
		SearchLimit:  cfg.Weather.SearchLimit,
	}
}

func provideAssistantConfig(cfg *config.Config) assistant.Config {
	creds := cfg.Assistant.Credentials
	return assistant.Config{
		Temperature:        cfg.Assistant.Temperature,
		MaxToolRounds:      cfg.Assistant.MaxToolRounds,
		RequestTimeout:     cfg.Assistant.RequestTimeout,
		HistoryTokenBudget: cfg.Assistant.HistoryTokenBudget,
		Credentials: map[assistant.Provider]string{
			assistant.ProviderGemini:     creds.Gemini,
			assistant.ProviderGroq:       creds.Groq,
			assistant.ProviderMistral:    creds.Mistral,
			assistant.ProviderOpenRouter: creds.OpenRouter,
		},
	}
}

func provideOpenMeteoClient(cfg *config.Config) *openmeteo.Client {
	return openmeteo.NewClient(cfg.Weather.ForecastURL, cfg.Weather.GeocodingURL)
}

func provideNominatimClient(cfg *config.Config) *nominatim.Client {
	return nominatim.NewClient(cfg.Weather.ReverseURL, cfg.Weather.UserAgent)
}

// provideCompatClient leaves the per-call deadline to the assistant service.
func provideCompatClient(cfg *config.Config) *openaicompat.Client {
	endpoints := openaicompat.DefaultEndpoints(cfg.Assistant.OpenRouter.Referer, cfg.Assistant.OpenRouter.Title)
	return openaicompat.NewClient(endpoints, 0)
}

func provideTokenCounter(cfg *config.Config, logger *slog.Logger) assistant.TokenCounter {
	return tokens.NewCounter(cfg.Assistant.TokenEncoding, logger)
}

func provideBackends(native *gemini.Backend, compatible *openaicompat.Backend) assistant.Backends {
	return assistant.Backends{Native: native, Compatible: compatible}
}

func provideCityLookup(svc weather.Service) assistant.CityLookup {
	return svc
}

func provideSnapshotCache(cfg *config.Config, logger *slog.Logger) (weather.SnapshotCache, func()) {
	noop := func() {}
	if !cfg.Weather.Valkey.Enabled {
		return weathercache.NewMemoryCache(), noop
	}
	opt, err := buildValkeyOptions(cfg.Weather.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return weathercache.NewMemoryCache(), noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return weathercache.NewMemoryCache(), noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return weathercache.NewMemoryCache(), noop
	}
	logger.Info("weather valkey cache enabled", "addr", cfg.Weather.Valkey.Addr)
	return weathercache.NewValkeyCache(client, "weather"), client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideFavoritesRepository(cfg *config.Config, logger *slog.Logger) (favorites.Repository, func()) {
	noop := func() {}
	fallback := favoriterepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Favorites.Postgres.DSN)
	if dsn == "" {
		logger.Info("favorites postgres dsn not set, using memory repository")
		return fallback, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback, noop
	}
	if cfg.Favorites.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Favorites.Postgres.MaxConns
	}
	if cfg.Favorites.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Favorites.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback, noop
	}
	repo := favoriterepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("favorites schema migration failed, using memory repository", "error", err)
		pool.Close()
		return fallback, noop
	}
	logger.Info("favorites postgres repository enabled")
	return repo, pool.Close
}
