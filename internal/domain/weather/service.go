package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/yanqian/skymind/pkg/errors"
)

// ErrCityNotFound is returned by LookupCity when geocoding yields no hit.
var ErrCityNotFound = errors.New("city not found")

const (
	unknownLocationName = "Unknown Location"
	minSearchQueryLen   = 2
)

// Service exposes forecast, geocoding and the city lookup used by the assistant tool.
type Service interface {
	Forecast(ctx context.Context, lat, lon float64, name string) (Snapshot, error)
	SearchLocations(ctx context.Context, query, lang string) ([]Location, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) string
	LookupCity(ctx context.Context, city string) (CityReport, error)
}

type ForecastClient interface {
	FetchForecast(ctx context.Context, lat, lon float64, days int) (Snapshot, error)
}

type Geocoder interface {
	Search(ctx context.Context, name string, count int, lang string) ([]Location, error)
}

type ReverseGeocoder interface {
	CityName(ctx context.Context, lat, lon float64) (string, error)
}

// SnapshotCache stores fetched forecasts keyed by rounded coordinates.
type SnapshotCache interface {
	Get(ctx context.Context, key string) (Snapshot, bool, error)
	Set(ctx context.Context, key string, snapshot Snapshot, ttl time.Duration) error
}

type service struct {
	cfg      Config
	forecast ForecastClient
	geocoder Geocoder
	reverse  ReverseGeocoder
	cache    SnapshotCache
	logger   *slog.Logger
}

// NewService wires up the weather lookup domain.
func NewService(cfg Config, forecast ForecastClient, geocoder Geocoder, reverse ReverseGeocoder, cache SnapshotCache, logger *slog.Logger) Service {
	if cfg.ForecastDays <= 0 {
		cfg.ForecastDays = 3
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 5
	}
	return &service{
		cfg:      cfg,
		forecast: forecast,
		geocoder: geocoder,
		reverse:  reverse,
		cache:    cache,
		logger:   logger.With("component", "weather.service"),
	}
}

func (s *service) Forecast(ctx context.Context, lat, lon float64, name string) (Snapshot, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return Snapshot{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid coordinates", err)
	}

	key := cacheKey(lat, lon)
	snapshot, hit := s.cached(ctx, key)
	if !hit {
		fetched, err := s.forecast.FetchForecast(ctx, lat, lon, s.cfg.ForecastDays)
		if err != nil {
			return Snapshot{}, apperrors.Wrap(apperrors.CodeWeather, "failed to fetch weather data", err)
		}
		snapshot = fetched
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, snapshot, s.cfg.CacheTTL); err != nil {
				s.logger.Warn("weather cache save failed", "key", key, "error", err)
			}
		}
	}

	snapshot.Latitude = lat
	snapshot.Longitude = lon
	snapshot.LocationName = strings.TrimSpace(name)
	if snapshot.LocationName == "" {
		snapshot.LocationName = formatCoordinates(lat, lon)
	}
	return snapshot, nil
}

func (s *service) cached(ctx context.Context, key string) (Snapshot, bool) {
	if s.cache == nil {
		return Snapshot{}, false
	}
	snapshot, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("weather cache lookup failed", "key", key, "error", err)
		return Snapshot{}, false
	}
	return snapshot, ok
}

func (s *service) SearchLocations(ctx context.Context, query, lang string) ([]Location, error) {
	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < minSearchQueryLen {
		return []Location{}, nil
	}
	results, err := s.geocoder.Search(ctx, trimmed, s.cfg.SearchLimit, normalizeLang(lang))
	if err != nil {
		s.logger.Error("geocoding failed", "query", trimmed, "error", err)
		return []Location{}, nil
	}
	if results == nil {
		results = []Location{}
	}
	return results, nil
}

func (s *service) ReverseGeocode(ctx context.Context, lat, lon float64) string {
	name, err := s.reverse.CityName(ctx, lat, lon)
	if err != nil {
		s.logger.Error("reverse geocoding failed", "lat", lat, "lon", lon, "error", err)
		return formatCoordinates(lat, lon)
	}
	if strings.TrimSpace(name) == "" {
		return unknownLocationName
	}
	return name
}

func (s *service) LookupCity(ctx context.Context, city string) (CityReport, error) {
	name := strings.TrimSpace(city)
	if name == "" {
		return CityReport{}, apperrors.Wrap(apperrors.CodeInvalidInput, "city cannot be empty", nil)
	}

	hits, err := s.geocoder.Search(ctx, name, 1, "en")
	if err != nil {
		return CityReport{}, apperrors.Wrap(apperrors.CodeWeather, "geocoding failed", err)
	}
	if len(hits) == 0 {
		return CityReport{}, apperrors.Wrap(apperrors.CodeNotFound, fmt.Sprintf("no location matches %q", name), ErrCityNotFound)
	}
	hit := hits[0]

	snapshot, err := s.Forecast(ctx, hit.Latitude, hit.Longitude, hit.Name)
	if err != nil {
		return CityReport{}, err
	}
	s.logger.Info("city weather resolved", "city", name, "location", hit.Name, "country", hit.Country)
	return buildCityReport(hit, snapshot), nil
}

func buildCityReport(loc Location, snapshot Snapshot) CityReport {
	todayMax, todayMin, _ := snapshot.Daily.Today()
	return CityReport{
		Location: loc.Name,
		Country:  loc.Country,
		Coordinates: Coordinates{
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
		},
		Current: CityConditions{
			Temperature:   snapshot.Current.Temperature,
			Humidity:      snapshot.Current.Humidity,
			WindSpeed:     snapshot.Current.WindSpeed,
			ConditionCode: snapshot.Current.WeatherCode,
			Condition:     DescribeCode(snapshot.Current.WeatherCode).Label,
			IsDay:         snapshot.Current.IsDay == 1,
			Time:          snapshot.Current.Time,
		},
		DailyForecast: DayRange{TodayMax: todayMax, TodayMin: todayMin},
	}
}

func validateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return errors.New("coordinates must be numbers")
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %.4f out of range", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %.4f out of range", lon)
	}
	return nil
}

func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f,%.2f", math.Round(lat*100)/100, math.Round(lon*100)/100)
}

func formatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.2f, %.2f", lat, lon)
}

func normalizeLang(lang string) string {
	trimmed := strings.ToLower(strings.TrimSpace(lang))
	if trimmed == "" {
		return "en"
	}
	return trimmed
}
