package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/skymind/internal/domain/assistant"
	"github.com/yanqian/skymind/internal/domain/favorites"
	"github.com/yanqian/skymind/internal/domain/weather"
	"github.com/yanqian/skymind/internal/infra/config"
	apperrors "github.com/yanqian/skymind/pkg/errors"
)

func TestRouter_ForecastSuccess(t *testing.T) {
	weatherSvc := &stubWeather{snapshot: weather.Snapshot{Current: weather.Current{Temperature: 29}}}
	server := newRouterUnderTest(t, weatherSvc, &stubAssistant{}, &stubFavorites{}, config.RetryConfig{})

	rec := performRequest(http.MethodGet, "/api/v1/weather?lat=-6.2&lon=106.8&name=Jakarta", "", server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var got weather.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Jakarta", got.LocationName)
	require.Equal(t, 29.0, got.Current.Temperature)
	require.Zero(t, weatherSvc.reverseCalls)
}

func TestRouter_ForecastResolvesNameWhenMissing(t *testing.T) {
	weatherSvc := &stubWeather{reverseName: "Bandung"}
	server := newRouterUnderTest(t, weatherSvc, &stubAssistant{}, &stubFavorites{}, config.RetryConfig{})

	rec := performRequest(http.MethodGet, "/api/v1/weather?lat=-6.9&lon=107.6", "", server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, weatherSvc.reverseCalls)
	require.Equal(t, "Bandung", weatherSvc.lastName)
}

func TestRouter_ForecastInvalidCoordinates(t *testing.T) {
	server := newRouterUnderTest(t, &stubWeather{}, &stubAssistant{}, &stubFavorites{}, config.RetryConfig{})

	rec := performRequest(http.MethodGet, "/api/v1/weather?lat=abc&lon=1", "", server)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
}

func TestRouter_CityWeatherNotFound(t *testing.T) {
	weatherSvc := &stubWeather{lookupErr: apperrors.Wrap(apperrors.CodeNotFound, `no location matches "Atlantis"`, weather.ErrCityNotFound)}
	server := newRouterUnderTest(t, weatherSvc, &stubAssistant{}, &stubFavorites{}, config.RetryConfig{})

	rec := performRequest(http.MethodGet, "/api/v1/weather/city?name=Atlantis", "", server)
	require.Equal(t, http.StatusNotFound, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "not_found", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "Atlantis")
}

func TestRouter_SearchLocations(t *testing.T) {
	weatherSvc := &stubWeather{locations: []weather.Location{{Name: "Tokyo", Country: "Japan"}}}
	server := newRouterUnderTest(t, weatherSvc, &stubAssistant{}, &stubFavorites{}, config.RetryConfig{})

	rec := performRequest(http.MethodGet, "/api/v1/locations/search?q=Tok&lang=id", "", server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "id", weatherSvc.lastLang)

	var body struct {
		Results []weather.Location `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
}

func TestRouter_AnalyzeAlwaysAnswers(t *testing.T) {
	assistantSvc := &stubAssistant{analysis: assistant.AnalysisResult{Summary: "Sorry, connection to groq failed. Please check API Key."}}
	server := newRouterUnderTest(t, &stubWeather{}, assistantSvc, &stubFavorites{}, config.RetryConfig{})

	body := `{"weather":{"locationName":"Jakarta"},"persona":"METEOROLOGIST","language":"id","config":{"provider":"groq","modelId":"llama3-8b-8192"}}`
	rec := performRequest(http.MethodPost, "/api/v1/assistant/analysis", body, server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, assistant.PersonaMeteorologist, assistantSvc.lastAnalysis.Persona)
	require.Equal(t, assistant.LanguageIndonesian, assistantSvc.lastAnalysis.Language)
	require.Equal(t, assistant.ProviderGroq, assistantSvc.lastAnalysis.Config.Provider)

	var got assistant.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Contains(t, got.Summary, "groq")
}

func TestRouter_AnalyzeRejectsUnknownSelection(t *testing.T) {
	server := newRouterUnderTest(t, &stubWeather{}, &stubAssistant{}, &stubFavorites{}, config.RetryConfig{})

	rec := performRequest(http.MethodPost, "/api/v1/assistant/analysis", `{"persona":"Pirate","config":{"provider":"groq"}}`, server)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performRequest(http.MethodPost, "/api/v1/assistant/analysis", `{"persona":"Nature Poet","config":{"provider":"cohere"}}`, server)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Contains(t, errBody["error"]["message"], "unknown provider")
}

func TestRouter_Chat(t *testing.T) {
	assistantSvc := &stubAssistant{chat: assistant.ChatResponse{Reply: "Tokyo is clear.", ToolRounds: 1}}
	server := newRouterUnderTest(t, &stubWeather{}, assistantSvc, &stubFavorites{}, config.RetryConfig{})

	body := `{"messages":[{"role":"user","content":"Weather in Tokyo?"}],"persona":"Professional Meteorologist","config":{"provider":"gemini"}}`
	rec := performRequest(http.MethodPost, "/api/v1/assistant/chat", body, server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, assistantSvc.lastChat.Messages, 1)
	require.Equal(t, assistant.LanguageEnglish, assistantSvc.lastChat.Language)

	var got assistant.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Tokyo is clear.", got.Reply)
	require.Equal(t, 1, got.ToolRounds)
}

func TestRouter_ChatRequiresMessages(t *testing.T) {
	server := newRouterUnderTest(t, &stubWeather{}, &stubAssistant{}, &stubFavorites{}, config.RetryConfig{})

	rec := performRequest(http.MethodPost, "/api/v1/assistant/chat", `{"messages":[],"persona":"Caring Mom","config":{"provider":"gemini"}}`, server)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Favorites(t *testing.T) {
	favSvc := &stubFavorites{}
	server := newRouterUnderTest(t, &stubWeather{}, &stubAssistant{}, favSvc, config.RetryConfig{})

	rec := performRequest(http.MethodPost, "/api/v1/favorites", `{"name":"Tokyo","latitude":35.6895,"longitude":139.6917}`, server)
	require.Equal(t, http.StatusOK, rec.Code)
	var toggled favorites.ToggleResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &toggled))
	require.True(t, toggled.Added)

	rec = performRequest(http.MethodGet, "/api/v1/favorites", "", server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Tokyo")

	rec = performRequest(http.MethodDelete, "/api/v1/favorites/unknown", "", server)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_FavoriteToggleIsNeverReplayed(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	cfg, err := config.Load()
	require.NoError(t, err)
	retry := cfg.HTTP.Retry
	retry.BaseBackoff = time.Millisecond
	require.True(t, retry.Enabled)

	oslo := favorites.Location{Name: "Oslo", Latitude: 59.91, Longitude: 10.75}
	oslo.ID = favorites.LocationID(oslo.Name, oslo.Latitude, oslo.Longitude)
	repo := &flakyFavoriteRepo{items: []favorites.Location{oslo}, failDeleteOnce: true}
	favSvc := favorites.NewService(repo, newTestLogger())
	server := newRouterUnderTest(t, &stubWeather{}, &stubAssistant{}, favSvc, retry)

	rec := performRequest(http.MethodPost, "/api/v1/favorites", `{"name":"Oslo","latitude":59.91,"longitude":10.75}`, server)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, 1, repo.deleteCalls)
	require.Zero(t, repo.insertCalls)

	rec = performRequest(http.MethodGet, "/api/v1/favorites", "", server)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Favorites []favorites.Location `json:"favorites"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Empty(t, body.Favorites)
}

func TestRouter_ForecastOutOfRangeSkipsReverseGeocode(t *testing.T) {
	weatherSvc := &stubWeather{reverseName: "Nowhere"}
	server := newRouterUnderTest(t, weatherSvc, &stubAssistant{}, &stubFavorites{}, config.RetryConfig{})

	for _, query := range []string{"lat=500&lon=1", "lat=1&lon=-181", "lat=NaN&lon=1"} {
		rec := performRequest(http.MethodGet, "/api/v1/weather?"+query, "", server)
		require.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
	rec := performRequest(http.MethodGet, "/api/v1/locations/reverse?lat=500&lon=1", "", server)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, weatherSvc.reverseCalls)
}

func TestWithRetryRepeatsTransientFailures(t *testing.T) {
	calls := 0
	var bodies []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		raw, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(raw))
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	wrapped := withRetry(handler, config.RetryConfig{Enabled: true, MaxAttempts: 3, BaseBackoff: time.Millisecond}, newTestLogger())

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/anything", bytes.NewBufferString("payload")))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 2, calls)
	require.Equal(t, []string{"payload", "payload"}, bodies)
}

func TestWithRetryStopsWhenClientGoes(t *testing.T) {
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})
	wrapped := withRetry(handler, config.RetryConfig{Enabled: true, MaxAttempts: 3, BaseBackoff: time.Hour}, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/anything", bytes.NewBufferString("{}")).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		wrapped.ServeHTTP(rec, req)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("retry kept waiting after the client went away")
	}
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, 1, calls)
}

func TestRouter_CORSPreflight(t *testing.T) {
	server := newRouterUnderTest(t, &stubWeather{}, &stubAssistant{}, &stubFavorites{}, config.RetryConfig{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/favorites/x", nil)
	req.Header.Set("Origin", "https://skymind.weather")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestExcludedPaths(t *testing.T) {
	patterns := []string{"/api/v1/assistant/", "/exact"}
	require.True(t, excluded("/api/v1/assistant/chat", patterns))
	require.True(t, excluded("/exact", patterns))
	require.False(t, excluded("/exact/child", patterns))
	require.False(t, excluded("/api/v1/favorites", patterns))
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, weatherSvc weather.Service, assistantSvc assistant.Service, favSvc favorites.Service, retry config.RetryConfig) *http.Server {
	t.Helper()
	logger := newTestLogger()
	handler := NewHandler(weatherSvc, assistantSvc, favSvc, logger)
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			Retry:        retry,
		},
	}
	return NewRouter(cfg, handler, logger)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

type stubWeather struct {
	snapshot     weather.Snapshot
	locations    []weather.Location
	reverseName  string
	lookupErr    error
	reverseCalls int
	lastName     string
	lastLang     string
}

func (s *stubWeather) Forecast(ctx context.Context, lat, lon float64, name string) (weather.Snapshot, error) {
	s.lastName = name
	snap := s.snapshot
	snap.LocationName = name
	return snap, nil
}

func (s *stubWeather) SearchLocations(ctx context.Context, query, lang string) ([]weather.Location, error) {
	s.lastLang = lang
	return s.locations, nil
}

func (s *stubWeather) ReverseGeocode(ctx context.Context, lat, lon float64) string {
	s.reverseCalls++
	return s.reverseName
}

func (s *stubWeather) LookupCity(ctx context.Context, city string) (weather.CityReport, error) {
	if s.lookupErr != nil {
		return weather.CityReport{}, s.lookupErr
	}
	return weather.CityReport{Location: city}, nil
}

type stubAssistant struct {
	analysis     assistant.AnalysisResult
	chat         assistant.ChatResponse
	lastAnalysis assistant.AnalysisRequest
	lastChat     assistant.ChatRequest
}

func (s *stubAssistant) Analyze(ctx context.Context, req assistant.AnalysisRequest) assistant.AnalysisResult {
	s.lastAnalysis = req
	return s.analysis
}

func (s *stubAssistant) Chat(ctx context.Context, req assistant.ChatRequest) assistant.ChatResponse {
	s.lastChat = req
	return s.chat
}

type stubFavorites struct {
	items []favorites.Location
}

func (s *stubFavorites) List(ctx context.Context) ([]favorites.Location, error) {
	return s.items, nil
}

func (s *stubFavorites) Toggle(ctx context.Context, loc favorites.Location) (favorites.ToggleResult, error) {
	loc.ID = favorites.LocationID(loc.Name, loc.Latitude, loc.Longitude)
	s.items = append(s.items, loc)
	return favorites.ToggleResult{Added: true, Location: loc}, nil
}

func (s *stubFavorites) Remove(ctx context.Context, id string) error {
	return apperrors.Wrap(apperrors.CodeNotFound, "favorite not found", favorites.ErrNotFound)
}

func (s *stubFavorites) IsFavorite(ctx context.Context, id string) (bool, error) {
	return false, nil
}

// flakyFavoriteRepo commits a delete but reports a failure the first time.
type flakyFavoriteRepo struct {
	items          []favorites.Location
	failDeleteOnce bool
	deleteCalls    int
	insertCalls    int
}

func (r *flakyFavoriteRepo) List(ctx context.Context) ([]favorites.Location, error) {
	return append([]favorites.Location(nil), r.items...), nil
}

func (r *flakyFavoriteRepo) Exists(ctx context.Context, id string) (bool, error) {
	for _, item := range r.items {
		if item.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *flakyFavoriteRepo) Insert(ctx context.Context, loc favorites.Location) error {
	r.insertCalls++
	r.items = append(r.items, loc)
	return nil
}

func (r *flakyFavoriteRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.deleteCalls++
	for i, item := range r.items {
		if item.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			if r.failDeleteOnce {
				r.failDeleteOnce = false
				return true, errors.New("connection reset after commit")
			}
			return true, nil
		}
	}
	return false, nil
}
