package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ngmaloney/coat-terminal/internal/models"
	"github.com/ngmaloney/coat-terminal/internal/observability"
)

const (
	DefaultBaseURL   = "https://api.open-meteo.com"
	DefaultUserAgent = "CoatTerminal/1.0 (github.com/ngmaloney/coat-terminal)"

	currentFields = "temperature_2m,precipitation,windspeed_10m,relativehumidity_2m"

	// With timezone=auto, current.time is the place's wall clock without an offset.
	localTimeLayout = "2006-01-02T15:04"
)

// Client implements WeatherClient using the Open-Meteo forecast API
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a new Open-Meteo client
func NewClient(baseURL, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
		metrics:   metrics,
		logger:    logger,
	}
}

// forecastResponse is the subset of /v1/forecast we read. Missing or null
// fields decode as zero.
type forecastResponse struct {
	Current struct {
		Time             string  `json:"time"`
		Temperature      float64 `json:"temperature_2m"`
		Precipitation    float64 `json:"precipitation"`
		WindSpeed        float64 `json:"windspeed_10m"`
		RelativeHumidity float64 `json:"relativehumidity_2m"`
	} `json:"current"`
	UTCOffsetSeconds     int    `json:"utc_offset_seconds"`
	TimezoneAbbreviation string `json:"timezone_abbreviation"`
	Error                bool   `json:"error"`
	Reason               string `json:"reason"`
}

// localTime reads current.time in the place's own zone. The zero time means
// the provider sent nothing usable.
func (f forecastResponse) localTime() (time.Time, error) {
	if f.Current.Time == "" {
		return time.Time{}, nil
	}
	zone := time.FixedZone(f.TimezoneAbbreviation, f.UTCOffsetSeconds)
	return time.ParseInLocation(localTimeLayout, f.Current.Time, zone)
}

// CurrentObservation retrieves current conditions for pos
func (c *Client) CurrentObservation(ctx context.Context, pos models.Position) (*models.RawObservation, error) {
	start := time.Now()

	obs, err := c.fetch(ctx, pos)
	if err != nil {
		c.metrics.ObserveWeather("error", time.Since(start))
		return nil, err
	}

	c.metrics.ObserveWeather("success", time.Since(start))
	c.logger.Debug("weather fetched",
		"lat", pos.Latitude,
		"lon", pos.Longitude,
		"temperature", obs.Temperature,
		"precipitation", obs.Precipitation,
		"wind_speed", obs.WindSpeed,
		"humidity", obs.Humidity,
		"local_time", obs.LocalTime,
	)
	return obs, nil
}

func (c *Client) fetch(ctx context.Context, pos models.Position) (*models.RawObservation, error) {
	params := url.Values{}
	params.Add("latitude", strconv.FormatFloat(pos.Latitude, 'f', 4, 64))
	params.Add("longitude", strconv.FormatFloat(pos.Longitude, 'f', 4, 64))
	params.Add("current", currentFields)
	params.Add("timezone", "auto")

	reqURL := fmt.Sprintf("%s/v1/forecast?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var forecast forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if forecast.Error {
		return nil, fmt.Errorf("API error: %s", forecast.Reason)
	}

	local, err := forecast.localTime()
	if err != nil {
		c.logger.Debug("ignoring unreadable observation time", "time", forecast.Current.Time, "error", err)
		local = time.Time{}
	}

	cur := forecast.Current
	return &models.RawObservation{
		Temperature:   cur.Temperature,
		Precipitation: cur.Precipitation,
		WindSpeed:     cur.WindSpeed,
		Humidity:      cur.RelativeHumidity,
		LocalTime:     local,
	}, nil
}
