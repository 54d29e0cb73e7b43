package openmeteo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const forecastFixture = `{
  "latitude": -6.2,
  "longitude": 106.8,
  "current": {"time":"2024-07-01T12:00","temperature_2m":31.4,"relative_humidity_2m":66,"weather_code":3,"wind_speed_10m":9.7,"wind_direction_10m":220,"is_day":1},
  "hourly": {"time":["2024-07-01T00:00","2024-07-01T01:00"],"temperature_2m":[26.1,25.8],"weather_code":[1,2]},
  "daily": {"time":["2024-07-01","2024-07-02","2024-07-03"],"weather_code":[3,61,95],"temperature_2m_max":[32.5,31,30.2],"temperature_2m_min":[25.1,24.9,24.7]}
}`

func TestFetchForecastNormalizesResponse(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(forecastFixture))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	snap, err := client.FetchForecast(context.Background(), -6.2088, 106.8456, 3)

	require.NoError(t, err)
	require.Equal(t, 31.4, snap.Current.Temperature)
	require.Equal(t, 66.0, snap.Current.Humidity)
	require.Equal(t, 9.7, snap.Current.WindSpeed)
	require.Equal(t, 220.0, snap.Current.WindDirection)
	require.Equal(t, 3, snap.Current.WeatherCode)
	require.Equal(t, 1, snap.Current.IsDay)
	require.Len(t, snap.Hourly.Temperature2m, 2)
	require.Equal(t, []int{3, 61, 95}, snap.Daily.WeatherCode)
	hi, lo, ok := snap.Daily.Today()
	require.True(t, ok)
	require.Equal(t, 32.5, hi)
	require.Equal(t, 25.1, lo)

	require.Equal(t, []string{"-6.2088"}, query["latitude"])
	require.Equal(t, []string{currentFields}, query["current"])
	require.Equal(t, []string{"auto"}, query["timezone"])
	require.Equal(t, []string{"3"}, query["forecast_days"])
}

func TestFetchForecastNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":true,"reason":"Latitude must be in range"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").FetchForecast(context.Background(), 100, 0, 3)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=400")
}

func TestSearchMapsResults(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{"results":[{"id":1850147,"name":"Tokyo","latitude":35.6895,"longitude":139.69171,"country":"Japan","admin1":"Tokyo"}]}`))
	}))
	defer srv.Close()

	results, err := NewClient("", srv.URL).Search(context.Background(), "Tokyo", 5, "id")

	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, int64(1850147), results[0].ID)
	require.Equal(t, "Japan", results[0].Country)
	require.Equal(t, []string{"5"}, query["count"])
	require.Equal(t, []string{"id"}, query["language"])
	require.Equal(t, []string{"json"}, query["format"])
}

func TestSearchNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"generationtime_ms":0.5}`))
	}))
	defer srv.Close()

	results, err := NewClient("", srv.URL).Search(context.Background(), "Atlantis", 1, "en")
	require.NoError(t, err)
	require.Empty(t, results)
}
