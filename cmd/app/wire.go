//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/skymind/internal/bootstrap"
	"github.com/yanqian/skymind/internal/domain/assistant"
	"github.com/yanqian/skymind/internal/domain/favorites"
	"github.com/yanqian/skymind/internal/domain/weather"
	"github.com/yanqian/skymind/internal/infra/config"
	"github.com/yanqian/skymind/internal/infra/llm/gemini"
	"github.com/yanqian/skymind/internal/infra/llm/openaicompat"
	"github.com/yanqian/skymind/internal/infra/weather/nominatim"
	"github.com/yanqian/skymind/internal/infra/weather/openmeteo"
	httpiface "github.com/yanqian/skymind/internal/interface/http"
	"github.com/yanqian/skymind/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideWeatherConfig,
		provideAssistantConfig,
		provideOpenMeteoClient,
		provideNominatimClient,
		provideSnapshotCache,
		provideFavoritesRepository,
		provideCompatClient,
		provideTokenCounter,
		provideBackends,
		provideCityLookup,
		gemini.NewBackend,
		openaicompat.NewBackend,
		weather.NewService,
		assistant.NewService,
		favorites.NewService,
		wire.Bind(new(openaicompat.ChatClient), new(*openaicompat.Client)),
		wire.Bind(new(weather.ForecastClient), new(*openmeteo.Client)),
		wire.Bind(new(weather.Geocoder), new(*openmeteo.Client)),
		wire.Bind(new(weather.ReverseGeocoder), new(*nominatim.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
