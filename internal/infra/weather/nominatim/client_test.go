package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCityNamePrefersMostSpecificSettlement(t *testing.T) {
	var userAgent string
	var zoom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		zoom = r.URL.Query().Get("zoom")
		_, _ = w.Write([]byte(`{"address":{"town":"Lembang","county":"Bandung Barat"}}`))
	}))
	defer srv.Close()

	name, err := NewClient(srv.URL, "").CityName(context.Background(), -6.81, 107.61)

	require.NoError(t, err)
	require.Equal(t, "Lembang", name)
	require.Equal(t, defaultUserAgent, userAgent)
	require.Equal(t, "10", zoom)
}

func TestCityNameEmptyAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer srv.Close()

	name, err := NewClient(srv.URL, "custom-agent").CityName(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Empty(t, name)
}

func TestCityNameNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").CityName(context.Background(), 1, 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=429")
}
