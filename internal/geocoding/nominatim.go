package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ngmaloney/coat-terminal/internal/models"
	"github.com/ngmaloney/coat-terminal/internal/observability"
)

const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	DefaultUserAgent    = "CoatTerminal/1.0" // Required by Nominatim ToS
)

// Nominatim looks places up with the OpenStreetMap Nominatim API
type Nominatim struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger

	minInterval time.Duration
	lastCall    time.Time
	mu          sync.Mutex
}

// NewNominatim creates a Nominatim client. timeout bounds each request.
func NewNominatim(baseURL, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Nominatim{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics:     metrics,
		logger:      logger,
		minInterval: time.Second,
	}
}

// searchResponse represents one Nominatim search result
type searchResponse struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// reverseResponse represents the Nominatim reverse response
type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
	Address     struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Hamlet       string `json:"hamlet"`
		Municipality string `json:"municipality"`
		County       string `json:"county"`
		State        string `json:"state"`
		Country      string `json:"country"`
	} `json:"address"`
}

// Search converts a query (city, address, landmark) to coordinates
func (n *Nominatim) Search(ctx context.Context, query string) (*Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	params := url.Values{}
	params.Add("format", "json")
	params.Add("limit", "1")
	params.Add("q", query)

	var results []searchResponse
	if err := n.get(ctx, "/search", params, &results); err != nil {
		n.metrics.ObserveGeocode("search", "error")
		return nil, err
	}

	if len(results) == 0 {
		n.metrics.ObserveGeocode("search", "empty")
		return nil, fmt.Errorf("no results found for '%s'", query)
	}

	result := results[0]

	lat, err := strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		n.metrics.ObserveGeocode("search", "error")
		return nil, fmt.Errorf("parsing latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		n.metrics.ObserveGeocode("search", "error")
		return nil, fmt.Errorf("parsing longitude: %w", err)
	}

	n.metrics.ObserveGeocode("search", "success")
	return &Location{
		Latitude:  lat,
		Longitude: lon,
		Name:      result.DisplayName,
	}, nil
}

// Reverse converts coordinates to a short "City, Country" name
func (n *Nominatim) Reverse(ctx context.Context, pos models.Position) (string, error) {
	params := url.Values{}
	params.Add("format", "json")
	params.Add("lat", strconv.FormatFloat(pos.Latitude, 'f', 6, 64))
	params.Add("lon", strconv.FormatFloat(pos.Longitude, 'f', 6, 64))
	params.Add("zoom", "10")
	params.Add("addressdetails", "1")

	var result reverseResponse
	if err := n.get(ctx, "/reverse", params, &result); err != nil {
		n.metrics.ObserveGeocode("reverse", "error")
		return "", err
	}

	name := result.placeName()
	if name == "" {
		n.metrics.ObserveGeocode("reverse", "empty")
		return "", nil
	}

	n.metrics.ObserveGeocode("reverse", "success")
	return name, nil
}

// placeName prefers the settlement plus country and falls back to the full
// display name.
func (r reverseResponse) placeName() string {
	if r.Error != "" {
		return ""
	}

	a := r.Address
	locality := firstNonEmpty(a.City, a.Town, a.Village, a.Hamlet, a.Municipality, a.County, a.State)
	switch {
	case locality != "" && a.Country != "":
		return locality + ", " + a.Country
	case locality != "":
		return locality
	default:
		return strings.TrimSpace(r.DisplayName)
	}
}

func (n *Nominatim) get(ctx context.Context, path string, params url.Values, out any) error {
	// Rate limiting: Nominatim requires 1 req/sec max
	if err := n.wait(ctx); err != nil {
		return err
	}

	reqURL := fmt.Sprintf("%s%s?%s", n.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	// Set required User-Agent header (Nominatim ToS requirement)
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nominatim API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	n.logger.Debug("nominatim request complete", "path", path)
	return nil
}

func (n *Nominatim) wait(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.lastCall.IsZero() {
		if elapsed := time.Since(n.lastCall); elapsed < n.minInterval {
			timer := time.NewTimer(n.minInterval - elapsed)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	n.lastCall = time.Now()
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
