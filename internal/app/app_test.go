package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngmaloney/coat-terminal/internal/config"
	"github.com/ngmaloney/coat-terminal/internal/models"
	"github.com/ngmaloney/coat-terminal/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParsePosition(t *testing.T) {
	pos, err := ParsePosition("", "")
	require.NoError(t, err)
	assert.Nil(t, pos)

	pos, err = ParsePosition("59.91", " 10.75")
	require.NoError(t, err)
	assert.Equal(t, &models.Position{Latitude: 59.91, Longitude: 10.75}, pos)

	_, err = ParsePosition("59.91", "")
	assert.Error(t, err)

	_, err = ParsePosition("95", "10")
	assert.Error(t, err)
}

func TestNew_EndToEnd(t *testing.T) {
	weather := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current":{"temperature_2m":3.2,"precipitation":0,"windspeed_10m":12,"relativehumidity_2m":65}}`))
	}))
	defer weather.Close()

	reverseCalls := 0
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reverseCalls++
		w.Write([]byte(`{"address":{"city":"Oslo","country":"Norway"}}`))
	}))
	defer geo.Close()

	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.WeatherBaseURL = weather.URL
	cfg.GeocodeBaseURL = geo.URL
	cfg.DBPath = filepath.Join(t.TempDir(), "coat.db")

	a, err := New(cfg, testLogger())
	require.NoError(t, err)
	defer a.Close()

	pos := models.Position{Latitude: 59.91, Longitude: 10.75}
	report, err := a.Advisor.Check(context.Background(), pos)
	require.NoError(t, err)
	assert.Equal(t, "Oslo, Norway", report.Place.Name)
	assert.True(t, report.Decision.TakeCoat)

	// Second check is named from the cache.
	_, err = a.Advisor.Check(context.Background(), pos)
	require.NoError(t, err)
	assert.Equal(t, 1, reverseCalls)

	rec := httptest.NewRecorder()
	a.MetricsServer(":0").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(rec.Body.String(), `coat_terminal_geocode_cache_total{result="hit"} 1`), rec.Body.String())
}

func TestNew_LocationDisabledByDefault(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.PlaceCacheEnabled = false

	a, err := New(cfg, testLogger())
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Advisor.CheckHere(context.Background())
	require.ErrorIs(t, err, service.ErrLocationUnavailable)
}

func TestNew_ConfiguredLocationAnswersHere(t *testing.T) {
	var gotLat, gotLon string
	weather := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLat, gotLon = r.URL.Query().Get("latitude"), r.URL.Query().Get("longitude")
		w.Write([]byte(`{"current":{"time":"2024-01-15T13:00","temperature_2m":21,"windspeed_10m":4,"relativehumidity_2m":40}}`))
	}))
	defer weather.Close()

	ipLookups := 0
	ip := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ipLookups++
		w.Write([]byte(`{"status":"success","lat":1,"lon":1}`))
	}))
	defer ip.Close()

	t.Setenv("LOCATION_LAT", "-33.87")
	t.Setenv("LOCATION_LON", "151.21")
	t.Setenv("IP_LOCATION_ENABLED", "true")
	t.Setenv("IP_LOCATION_URL", ip.URL)

	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.WeatherBaseURL = weather.URL
	cfg.GeocodeBaseURL = "http://127.0.0.1:0"
	cfg.PlaceCacheEnabled = false

	a, err := New(cfg, testLogger())
	require.NoError(t, err)
	defer a.Close()

	report, err := a.Advisor.CheckHere(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.Position{Latitude: -33.87, Longitude: 151.21}, report.Place.Position)
	assert.Equal(t, "-33.8700", gotLat)
	assert.Equal(t, "151.2100", gotLon)
	assert.Equal(t, 0, ipLookups, "configured location should skip the IP lookup")
	assert.False(t, report.Decision.TakeCoat)
}
