package assistant

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/skymind/internal/domain/weather"
)

// Service exposes the analysis card and the tool-calling chat. Both operations
// are total: failures degrade to localized text instead of errors.
type Service interface {
	Analyze(ctx context.Context, req AnalysisRequest) AnalysisResult
	Chat(ctx context.Context, req ChatRequest) ChatResponse
}

// CityLookup backs the get_current_weather tool.
type CityLookup interface {
	LookupCity(ctx context.Context, city string) (weather.CityReport, error)
}

type service struct {
	cfg      Config
	backends Backends
	lookup   CityLookup
	counter  TokenCounter
	logger   *slog.Logger
}

// NewService wires up the assistant domain.
func NewService(cfg Config, backends Backends, lookup CityLookup, counter TokenCounter, logger *slog.Logger) Service {
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = DefaultMaxToolRounds
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	return &service{
		cfg:      cfg,
		backends: backends,
		lookup:   lookup,
		counter:  counter,
		logger:   logger.With("component", "assistant.service"),
	}
}

type target struct {
	route   Route
	backend Backend
	model   string
	apiKey  string
}

// resolve validates the provider selection before any network call.
func (s *service) resolve(cfg AIConfig) (target, error) {
	route, err := RouteFor(cfg.Provider)
	if err != nil {
		return target{}, err
	}
	key, err := ResolveCredential(cfg.APIKey, s.cfg.Credentials[cfg.Provider])
	if err != nil {
		return target{}, err
	}
	backend := s.backends.Compatible
	if route.Kind == RouteNative {
		backend = s.backends.Native
	}
	model := strings.TrimSpace(cfg.ModelID)
	if model == "" {
		model = cfg.Provider.DefaultModel()
	}
	return target{route: route, backend: backend, model: model, apiKey: key}, nil
}

func (s *service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.RequestTimeout)
}
