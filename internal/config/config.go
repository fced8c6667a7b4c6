package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ngmaloney/coat-terminal/internal/database"
	"github.com/ngmaloney/coat-terminal/internal/models"
)

// Config holds all application settings, populated from environment variables.
type Config struct {
	WeatherBaseURL string
	WeatherTimeout time.Duration

	GeocodeBaseURL string
	GeocodeTimeout time.Duration

	// IP geolocation is opt-in; a disabled locator reports permission denied.
	IPLocationURL     string
	IPLocationEnabled bool
	LocatorTimeout    time.Duration

	// StaticPosition pins "here" to fixed coordinates instead of the IP lookup.
	StaticPosition *models.Position

	DBPath            string
	PlaceCacheEnabled bool

	LogLevel  slog.Level
	LogFormat string
	LogFile   string

	MetricsAddr string
	UserAgent   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (Config, error) {
	weatherTimeout, err := parseDuration("WEATHER_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	geocodeTimeout, err := parseDuration("GEOCODE_TIMEOUT", "5s")
	if err != nil {
		return Config{}, err
	}
	locatorTimeout, err := parseDuration("LOCATOR_TIMEOUT", "5s")
	if err != nil {
		return Config{}, err
	}

	ipEnabled, err := parseBool("IP_LOCATION_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	cacheEnabled, err := parseBool("PLACE_CACHE_ENABLED", true)
	if err != nil {
		return Config{}, err
	}

	staticPos, err := parseStaticPosition("LOCATION_LAT", "LOCATION_LON")
	if err != nil {
		return Config{}, err
	}

	level, err := parseLogLevel(envOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	logFormat := strings.ToLower(envOrDefault("LOG_FORMAT", "text"))
	switch logFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("invalid LOG_FORMAT %q (allowed: text, json)", logFormat)
	}

	return Config{
		WeatherBaseURL:    envOrDefault("WEATHER_BASE_URL", ""),
		WeatherTimeout:    weatherTimeout,
		GeocodeBaseURL:    envOrDefault("GEOCODE_BASE_URL", ""),
		GeocodeTimeout:    geocodeTimeout,
		IPLocationURL:     envOrDefault("IP_LOCATION_URL", ""),
		IPLocationEnabled: ipEnabled,
		LocatorTimeout:    locatorTimeout,
		StaticPosition:    staticPos,
		DBPath:            envOrDefault("DB_PATH", database.DBPath()),
		PlaceCacheEnabled: cacheEnabled,
		LogLevel:          level,
		LogFormat:         logFormat,
		LogFile:           envOrDefault("LOG_FILE", "data/coat-terminal.log"),
		MetricsAddr:       envOrDefault("METRICS_ADDR", ""),
		UserAgent:         envOrDefault("USER_AGENT", ""),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return d, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	raw := envOrDefault(key, "")
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return b, nil
}

// parseStaticPosition returns nil when neither key is set. Setting only one
// of them is an error.
func parseStaticPosition(latKey, lonKey string) (*models.Position, error) {
	latRaw := envOrDefault(latKey, "")
	lonRaw := envOrDefault(lonKey, "")
	if latRaw == "" && lonRaw == "" {
		return nil, nil
	}
	if latRaw == "" || lonRaw == "" {
		return nil, fmt.Errorf("%s and %s must be set together", latKey, lonKey)
	}

	lat, err := parseCoordinate(latKey, latRaw, 90)
	if err != nil {
		return nil, err
	}
	lon, err := parseCoordinate(lonKey, lonRaw, 180)
	if err != nil {
		return nil, err
	}
	return &models.Position{Latitude: lat, Longitude: lon}, nil
}

func parseCoordinate(key, raw string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if math.IsNaN(v) || math.Abs(v) > limit {
		return 0, fmt.Errorf("invalid %s %q: must be within ±%g", key, raw, limit)
	}
	return v, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
