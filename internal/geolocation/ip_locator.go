package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/ngmaloney/coat-terminal/internal/models"
)

const (
	DefaultIPLocationURL = "http://ip-api.com/json/?fields=status,message,lat,lon"
	DefaultUserAgent     = "CoatTerminal/1.0"
)

var errDisabled = errors.New("IP location lookup is disabled")

// IPLocator estimates the position from the public IP address using an
// ip-api.com compatible endpoint.
type IPLocator struct {
	url        string
	userAgent  string
	enabled    bool
	httpClient *http.Client
	logger     *slog.Logger
}

// NewIPLocator creates an IP-based locator. When enabled is false every
// lookup reports permission denied.
func NewIPLocator(url, userAgent string, enabled bool, timeout time.Duration, logger *slog.Logger) *IPLocator {
	if url == "" {
		url = DefaultIPLocationURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &IPLocator{
		url:       url,
		userAgent: userAgent,
		enabled:   enabled,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type ipResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// Locate performs one lookup.
func (l *IPLocator) Locate(ctx context.Context) Result {
	if !l.enabled {
		return Failed(ReasonPermissionDenied, errDisabled)
	}

	pos, err := l.lookup(ctx)
	if err != nil {
		l.logger.Warn("IP location lookup failed", "error", err)
		return Failed(ReasonUnavailable, err)
	}
	return Found(pos)
}

func (l *IPLocator) lookup(ctx context.Context) (models.Position, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return models.Position{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return models.Position{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Position{}, fmt.Errorf("location API returned status %d", resp.StatusCode)
	}

	var body ipResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.Position{}, fmt.Errorf("decoding response: %w", err)
	}

	if body.Status != "" && !strings.EqualFold(body.Status, "success") {
		return models.Position{}, fmt.Errorf("location API failed: %s", body.Message)
	}
	if body.Lat == nil || body.Lon == nil {
		return models.Position{}, errors.New("location API response missing coordinates")
	}

	pos := models.Position{Latitude: *body.Lat, Longitude: *body.Lon}
	if math.Abs(pos.Latitude) > 90 || math.Abs(pos.Longitude) > 180 {
		return models.Position{}, fmt.Errorf("location API returned out-of-range position %v,%v", pos.Latitude, pos.Longitude)
	}
	return pos, nil
}
