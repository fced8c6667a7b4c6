// Package app wires configuration into the clients and services shared by
// the terminal and one-shot entrypoints.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ngmaloney/coat-terminal/internal/config"
	"github.com/ngmaloney/coat-terminal/internal/database"
	"github.com/ngmaloney/coat-terminal/internal/geocoding"
	"github.com/ngmaloney/coat-terminal/internal/geolocation"
	"github.com/ngmaloney/coat-terminal/internal/models"
	"github.com/ngmaloney/coat-terminal/internal/observability"
	"github.com/ngmaloney/coat-terminal/internal/openmeteo"
	"github.com/ngmaloney/coat-terminal/internal/service"
)

// App holds the wired application components.
type App struct {
	Advisor  *service.Advisor
	Searcher geocoding.Searcher
	Registry *prometheus.Registry
	Metrics  *observability.Metrics

	db     *sql.DB
	logger *slog.Logger
}

// New builds the application from cfg. The place-name cache is optional: if
// the database cannot be opened names are looked up without it.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	weather := openmeteo.NewClient(cfg.WeatherBaseURL, cfg.UserAgent, cfg.WeatherTimeout, metrics, logger)
	nominatim := geocoding.NewNominatim(cfg.GeocodeBaseURL, cfg.UserAgent, cfg.GeocodeTimeout, metrics, logger)
	locator := newLocator(cfg, logger)

	a := &App{
		Searcher: nominatim,
		Registry: registry,
		Metrics:  metrics,
		logger:   logger,
	}

	var reverser geocoding.Reverser = nominatim
	if cfg.PlaceCacheEnabled {
		db, err := database.Open(cfg.DBPath)
		if err != nil {
			logger.Warn("place cache disabled", "path", cfg.DBPath, "error", err)
		} else {
			a.db = db
			reverser = geocoding.NewCachedReverser(nominatim, db, metrics, logger)
			logger.Debug("place cache enabled", "path", cfg.DBPath)
		}
	}

	places := geocoding.NewResolver(reverser, logger)
	a.Advisor = service.NewAdvisor(weather, locator, places, clockwork.NewRealClock(), metrics, logger)

	return a, nil
}

// newLocator prefers a configured fixed position over the IP lookup.
func newLocator(cfg config.Config, logger *slog.Logger) geolocation.Locator {
	if cfg.StaticPosition != nil {
		logger.Debug("using configured location",
			"lat", cfg.StaticPosition.Latitude,
			"lon", cfg.StaticPosition.Longitude,
		)
		return geolocation.Static{Position: *cfg.StaticPosition}
	}
	return geolocation.NewIPLocator(cfg.IPLocationURL, cfg.UserAgent, cfg.IPLocationEnabled, cfg.LocatorTimeout, logger)
}

// Close releases the database, if one was opened.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// MetricsServer returns a server exposing the app's registry on addr.
func (a *App) MetricsServer(addr string) *observability.Server {
	return observability.NewServer(addr, a.Registry, a.logger)
}

// ParsePosition turns --lat/--lon flag values into a position. Both empty
// means no position was given.
func ParsePosition(lat, lon string) (*models.Position, error) {
	lat, lon = strings.TrimSpace(lat), strings.TrimSpace(lon)
	if lat == "" && lon == "" {
		return nil, nil
	}
	if lat == "" || lon == "" {
		return nil, fmt.Errorf("--lat and --lon must be given together")
	}

	pos, ok := geocoding.ParseCoordinates(lat + "," + lon)
	if !ok {
		return nil, fmt.Errorf("invalid coordinates %q, %q", lat, lon)
	}
	return &pos, nil
}
